package model

import "testing"

func TestTileHFlipIsInvolutive(t *testing.T) {
	var a Tile
	for c := 0; c < TileCols; c++ {
		a[0][c] = uint8(c % 4)
	}

	b := a.HFlip()
	for c := 0; c < TileCols; c++ {
		if got, want := b[0][c], a[0][TileCols-1-c]; got != want {
			t.Errorf("HFlip()[0][%d] = %d, want %d", c, got, want)
		}
	}

	if got := b.HFlip(); got != a {
		t.Errorf("HFlip should be involutive: hflip(hflip(a)) = %v, want %v", got, a)
	}
}

func TestTileLessTotalOrder(t *testing.T) {
	cases := []struct {
		a, b Tile
		want bool
	}{
		{Tile{}, Tile{}, true},
	}
	cases[0].b[0][0] = 1

	for i, tc := range cases {
		if got := tc.a.Less(tc.b); got != tc.want {
			t.Errorf("%d: Less() = %v, want %v", i, got, tc.want)
		}
	}
}

func TestBankAddRemoveUnion(t *testing.T) {
	b := NewBank(0, 4)
	b.AddOrdered([]int{1, 2})

	s := map[int]bool{2: true, 3: true}
	if got, want := b.UnionSize(s), 3; got != want {
		t.Errorf("UnionSize() = %d, want %d", got, want)
	}
	if got, want := b.IntersectionSize(s), 1; got != want {
		t.Errorf("IntersectionSize() = %d, want %d", got, want)
	}

	b.AddOrdered([]int{3})
	if got, want := b.SlotOf(3), 4; got != want {
		t.Errorf("SlotOf(3) = %d, want %d", got, want)
	}

	b.Remove([]int{2})
	if b.Has(2) {
		t.Errorf("Remove(2) should clear membership")
	}
	if got, want := len(b.Tiles), 2; got != want {
		t.Errorf("len(Tiles) = %d, want %d", got, want)
	}
}

func TestDefaultHotspot(t *testing.T) {
	c := &Cel{Clip: Rect{Left: 10, Top: 20, Width: 16, Height: 24}}
	want := Loc{X: 18, Y: 44}
	if got := c.DefaultHotspot(); got != want {
		t.Errorf("DefaultHotspot() = %v, want %v", got, want)
	}
	if got := c.EffectiveHotspot(); got != want {
		t.Errorf("EffectiveHotspot() (no override) = %v, want %v", got, want)
	}

	c.HasHS = true
	c.Hotspot = Loc{X: 1, Y: 2}
	if got := c.EffectiveHotspot(); got != c.Hotspot {
		t.Errorf("EffectiveHotspot() (override) = %v, want %v", got, c.Hotspot)
	}
}
