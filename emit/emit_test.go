package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bdwalton/spritec/model"
	"github.com/bdwalton/spritec/tileset"
)

func TestTileBytesLengthAndPlanes(t *testing.T) {
	var tile model.Tile
	tile[0][0] = 3 // both planes set in row 0, leftmost pixel

	out := TileBytes(tile)
	if len(out) != 32 {
		t.Fatalf("len(TileBytes) = %d, want 32", len(out))
	}

	// Top half: bytesPerPlane low-plane bytes, then bytesPerPlane
	// high-plane bytes. Leftmost pixel maps to bit 7.
	lo0, hi0 := out[0], out[8]
	if lo0&0x80 == 0 {
		t.Errorf("low-plane bit for pixel value 3 not set")
	}
	if hi0&0x80 == 0 {
		t.Errorf("high-plane bit for pixel value 3 not set")
	}
}

func TestWriteCHRZeroFillsUnusedSlots(t *testing.T) {
	in := tileset.New()
	var tile model.Tile
	tile[0][0] = 1
	id, _ := in.Intern(tile)

	bank := model.NewBank(0, 2)
	bank.AddOrdered([]int{id})

	var buf bytes.Buffer
	if err := WriteCHR(&buf, []*model.Bank{bank}, in); err != nil {
		t.Fatalf("WriteCHR() error = %v", err)
	}

	want := 2 * 32 // capacity 2, 32 bytes per logical tile
	if buf.Len() != want {
		t.Fatalf("buf.Len() = %d, want %d", buf.Len(), want)
	}
	// Second logical tile's slot should be all zero.
	tail := buf.Bytes()[32:]
	for _, b := range tail {
		if b != 0 {
			t.Fatalf("unused slot not zero-filled: %v", tail)
			break
		}
	}
}

func TestWriteAssemblyIncludesSymbolsAndStreams(t *testing.T) {
	cels := []CelOutput{
		{Name: "walk1", ID: 0, Bank: 0, Stream: []byte{0x80, 0x80, 0x00, 0x01, 0x00}},
		{Name: "walk2", ID: 1, Bank: 0, Stream: []byte{0x00}},
	}

	var buf bytes.Buffer
	if err := WriteAssembly(&buf, AssemblyOptions{Prefix: "spr_", Segment: "RODATA"}, cels, 4); err != nil {
		t.Fatalf("WriteAssembly() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`.segment "RODATA"`,
		"spr_NUMFRAMES = 2",
		"spr_NUMTILES = 4",
		"spr_frametobank:",
		"spr_mspraddrs:",
		"spr_walk1_msp:",
		"spr_walk2_msp:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestWriteAssemblyPadsGapsInFrameTable(t *testing.T) {
	cels := []CelOutput{
		{Name: "a", ID: 0, Bank: 0, Stream: []byte{0x00}},
		{Name: "b", ID: 4, Bank: 1, Stream: []byte{0x00}},
	}

	var buf bytes.Buffer
	if err := WriteAssembly(&buf, AssemblyOptions{Prefix: "p_"}, cels, 1); err != nil {
		t.Fatalf("WriteAssembly() error = %v", err)
	}
	if !strings.Contains(buf.String(), "p_NUMFRAMES = 5") {
		t.Errorf("expected NUMFRAMES to cover the padded range up to id 4")
	}
}

func TestWriteFrameNumbersCoversAliases(t *testing.T) {
	cels := []CelOutput{
		{Name: "walk1", ID: 0, Bank: 2, Aliases: []string{"w1"}},
	}
	tileBase := map[string]int{"walk1": 6}

	var buf bytes.Buffer
	if err := WriteFrameNumbers(&buf, cels, tileBase); err != nil {
		t.Fatalf("WriteFrameNumbers() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"FRAME_walk1=0",
		"FRAMEBANK_walk1=2",
		"FRAMETILENUM_walk1=6",
		"FRAME_w1=0",
		"FRAMEBANK_w1=2",
		"FRAMETILENUM_w1=6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}
