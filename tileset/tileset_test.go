package tileset

import (
	"testing"

	"github.com/bdwalton/spritec/model"
	"github.com/bdwalton/spritec/raster"
)

func TestInternHflipPairSharesCanonicalTile(t *testing.T) {
	var a model.Tile
	a[0][0] = 1
	b := a.HFlip()

	in := New()
	id1, f1 := in.Intern(a)
	id2, f2 := in.Intern(b)

	if id1 != id2 {
		t.Fatalf("hflip pair got distinct ids %d, %d", id1, id2)
	}
	if f1 == f2 {
		t.Errorf("hflip pair should have opposite flip bits, got %v, %v", f1, f2)
	}
	if in.Len() != 1 {
		t.Errorf("Len() = %d, want 1", in.Len())
	}
}

func TestInternSymmetricTileIsItsOwnCanonical(t *testing.T) {
	var sym model.Tile // all zero is trivially symmetric under hflip
	in := New()
	id, flip := in.Intern(sym)
	if flip {
		t.Errorf("symmetric tile should intern with flip=false, got true")
	}
	if id2, _ := in.Intern(sym.HFlip()); id2 != id {
		t.Errorf("re-interning the hflip of a symmetric tile should return the same id")
	}
}

func TestPairCandidates(t *testing.T) {
	var a model.Tile
	a[0][0] = 2
	b := a.HFlip()

	in := New()
	idA, _ := in.Intern(a)
	idB, _ := in.Intern(b)
	if idA != idB {
		// Not taken: a and b intern to the same canonical tile. A
		// second tile c, distinct from a, and its mirror are interned
		// below to exercise PairCandidates.
	}

	var c model.Tile
	c[1][1] = 3
	idC, _ := in.Intern(c)
	cFlip := c.HFlip()
	idCFlip, _ := in.Intern(cFlip)

	if !in.PairCandidates(idC, idCFlip) {
		t.Errorf("PairCandidates(c, hflip(c)) = false, want true")
	}
}

func TestInternCelAndTileIDSet(t *testing.T) {
	var t1, t2 model.Tile
	t1[0][0] = 1
	t2[0][0] = 2

	placements := []raster.Placement{
		{Pixels: t1, PaletteID: 0, OffX: 0, OffY: 0, StripOrder: 0},
		{Pixels: t2, PaletteID: 0, OffX: 8, OffY: 0, StripOrder: 0},
		{Pixels: t1, PaletteID: 0, OffX: 0, OffY: 16, StripOrder: 1},
	}

	in := New()
	refs := in.InternCel(placements)
	if len(refs) != 3 {
		t.Fatalf("len(refs) = %d, want 3", len(refs))
	}
	if refs[0].TileID != refs[2].TileID {
		t.Errorf("repeated tile pixels across placements should share a tile id")
	}

	set := TileIDSet(refs)
	if len(set) != 2 {
		t.Errorf("len(TileIDSet) = %d, want 2 distinct tiles", len(set))
	}
}
