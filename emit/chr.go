// Package emit implements the final pipeline stage (spec.md 4.7): it
// serializes packed banks into a raw CHR blob and writes the
// assembly-language and frame-numbers text outputs consumed by the
// target game's build.
//
// The sequential "read N bytes, check n and err, bail with a wrapped
// error" shape of nesrom.New is mirrored here in reverse, as writes,
// and ROM.String()'s strings.Builder text-table formatting carries
// over directly to the assembly emitter.
package emit

import (
	"fmt"
	"io"

	"github.com/bdwalton/spritec/model"
	"github.com/bdwalton/spritec/tileset"
)

// bytesPerPlane is the row count of one 8x8 CHR half: one byte per
// row, one plane for the low bit and one for the high bit of each
// pixel's 2bpp palette index.
const bytesPerPlane = 8

// TileBytes encodes t as two consecutive physical CHR entries (32
// bytes total): the top 8 rows at the even tile index, the bottom 8
// rows at the odd index immediately after it, per the NES 8x16 sprite
// convention that ppu/oam.go's tileId field documents (bit 0 of the
// tile index selects the pattern table; hardware fetches index and
// index+1 for the two halves).
func TileBytes(t model.Tile) []byte {
	out := make([]byte, 0, 32)
	out = append(out, planarHalf(t, 0)...)
	out = append(out, planarHalf(t, bytesPerPlane)...)
	return out
}

func planarHalf(t model.Tile, rowStart int) []byte {
	lo := make([]byte, bytesPerPlane)
	hi := make([]byte, bytesPerPlane)
	for r := 0; r < bytesPerPlane; r++ {
		var loB, hiB byte
		for c := 0; c < model.TileCols; c++ {
			px := t[rowStart+r][c]
			bit := byte(7 - c)
			if px&0x1 != 0 {
				loB |= 1 << bit
			}
			if px&0x2 != 0 {
				hiB |= 1 << bit
			}
		}
		lo[r] = loB
		hi[r] = hiB
	}
	return append(lo, hi...)
}

// WriteCHR writes the concatenated, bank-ordered CHR blob: each bank
// contributes bank.Capacity logical tiles (32 bytes each once its 8x16
// pixels are split into physical halves), with unused slots at the
// tail of a bank zero-filled.
func WriteCHR(w io.Writer, banks []*model.Bank, tiles *tileset.Interner) error {
	for _, b := range banks {
		for slot := 0; slot < b.Capacity; slot++ {
			var buf []byte
			if slot < len(b.Tiles) {
				buf = TileBytes(tiles.Tile(b.Tiles[slot]))
			} else {
				buf = make([]byte, 32)
			}
			if n, err := w.Write(buf); n != len(buf) || err != nil {
				return &model.IOError{Path: "chr output", Err: fmt.Errorf("writing bank %d slot %d: %w", b.ID, slot, err)}
			}
		}
	}
	return nil
}
