// Package metasprite implements the metasprite encoder (spec.md 4.6):
// it groups a cel's tile references into rows sharing a y-offset and
// palette, and serializes each row into the compact excess-128
// byte-stream format consumed by the target engine's sprite renderer.
//
// The row/attribute bit-packing here is grounded directly on
// ppu/oam.go's OAMFromBytes/attributes() pair in the teacher repo,
// which packs an NES OAM entry's palette, priority and flip bits into
// a single attribute byte; this package generalizes the same
// bit-twiddling idiom to a row-header byte and a per-tile byte instead
// of one hardware sprite attribute byte.
package metasprite

import "github.com/bdwalton/spritec/model"

// MaxRowTiles is the row-width cap: the length field is 3 bits
// (length-1), so a row holds at most 8 tiles.
const MaxRowTiles = 8

// BankLocator resolves a canonical tile id to its even-numbered
// physical slot within one bank.
type BankLocator interface {
	SlotOf(id int) int
}

type row struct {
	y, paletteID int
	lastX        int
	tiles        []model.TileRef
}

// groupRows collapses refs (already in front-to-back strip order) into
// rows: consecutive runs sharing a y-offset and palette, at
// consecutive x-offsets. A 9th consecutive tile in the same row is a
// fatal EncodeError (spec.md 8: "a strip producing 9 consecutive
// in-row tiles at the same y -> EncodeError (max length 8)"), not a
// silent start of a new row, since the length field has only 3 bits.
func groupRows(celName string, refs []model.TileRef) ([]row, error) {
	var rows []row
	for _, r := range refs {
		if n := len(rows); n > 0 {
			last := &rows[n-1]
			if last.y == r.OffY && last.paletteID == r.PaletteID && r.OffX == last.lastX+model.TileCols {
				if len(last.tiles) >= MaxRowTiles {
					return nil, &model.EncodeError{Cel: celName, Reason: "row exceeds the 8-tile maximum length"}
				}
				last.tiles = append(last.tiles, r)
				last.lastX = r.OffX
				continue
			}
		}
		rows = append(rows, row{y: r.OffY, paletteID: r.PaletteID, lastX: r.OffX, tiles: []model.TileRef{r}})
	}
	return rows, nil
}

// excess128 biases a signed pixel offset into the encoder's excess-128
// byte representation, centered so that an offset of 0 encodes as 128.
func excess128(v int) uint8 {
	return uint8(int8(v + 128))
}

// Encode serializes cel's tile references into the row-stream format,
// resolving each tile's physical slot via loc (the bank the cel was
// packed into). It returns an EncodeError if a row's x-coordinate
// would collide with the 0x00 terminator, or if a row runs past the
// 8-tile maximum length (see groupRows).
func Encode(celName string, refs []model.TileRef, loc BankLocator) ([]byte, error) {
	rows, err := groupRows(celName, refs)
	if err != nil {
		return nil, err
	}

	var out []byte
	for _, rw := range rows {
		xb := excess128(rw.tiles[0].OffX)
		yb := excess128(rw.y)
		if xb == 0 {
			return nil, &model.EncodeError{Cel: celName, Reason: "row x-coordinate collides with the 0x00 terminator"}
		}

		flags := uint8(rw.paletteID&0x3) | uint8(len(rw.tiles)-1)<<2
		out = append(out, xb, yb, flags)

		for _, t := range rw.tiles {
			slot := loc.SlotOf(t.TileID)
			if slot < 0 {
				return nil, &model.EncodeError{Cel: celName, Reason: "tile not present in the assigned bank"}
			}
			tb := uint8(slot/2) << 1
			if t.HFlip {
				tb |= 1 << 6
			}
			out = append(out, tb)
		}
	}
	out = append(out, 0x00)
	return out, nil
}
