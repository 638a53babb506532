// Package tileset implements the tile interner (spec.md 4.4): it
// canonicalizes 8x16 tiles modulo horizontal flip into a global,
// stable-id tile table, and remembers per-reference whether a flip was
// applied to reach the canonical form.
//
// The interning map and its "pack a repeated small value into a stable
// compact handle" shape is grounded on ppu/oam.go's attributes()/
// OAMFromBytes pair in the teacher repo, which does the same kind of
// canonical-encode/decode round trip for hardware sprite attribute
// bytes; here the canonical form is a whole tile bitmap rather than a
// single byte, and the "handle" is an intern-table index instead of a
// hardware register value.
package tileset

import (
	"github.com/bdwalton/spritec/model"
	"github.com/bdwalton/spritec/raster"
)

// Interner assigns stable tile ids to canonicalized 8x16 tiles.
type Interner struct {
	byCanon map[model.Tile]int
	tiles   []model.Tile
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{byCanon: make(map[model.Tile]int)}
}

// canonicalize returns the lexicographically smaller of {t, hflip(t)}
// and whether t itself is the flipped member of that pair.
func canonicalize(t model.Tile) (model.Tile, bool) {
	flip := t.HFlip()
	if flip.Less(t) {
		return flip, true
	}
	return t, false
}

// Intern returns the stable tile id for t's canonical form, assigning
// a new one on first sight, plus whether this reference needs its
// hflip bit set to reconstruct t from the canonical tile.
func (in *Interner) Intern(t model.Tile) (id int, hflip bool) {
	canon, hf := canonicalize(t)
	if id, ok := in.byCanon[canon]; ok {
		return id, hf
	}
	id = len(in.tiles)
	in.tiles = append(in.tiles, canon)
	in.byCanon[canon] = id
	return id, hf
}

// InternCel interns every placement produced by the rasterizer for one
// cel, in order, returning the cel's ordered TileRefs.
func (in *Interner) InternCel(placements []raster.Placement) []model.TileRef {
	refs := make([]model.TileRef, len(placements))
	for i, p := range placements {
		id, hf := in.Intern(p.Pixels)
		refs[i] = model.TileRef{
			TileID:     id,
			HFlip:      hf,
			PaletteID:  p.PaletteID,
			OffX:       p.OffX,
			OffY:       p.OffY,
			StripOrder: p.StripOrder,
		}
	}
	return refs
}

// Tile returns the canonical pixel data for tile id.
func (in *Interner) Tile(id int) model.Tile {
	return in.tiles[id]
}

// Len returns the number of distinct canonical tiles interned so far.
func (in *Interner) Len() int {
	return len(in.tiles)
}

// PairCandidates reports whether tiles a and b are horizontal mirrors
// of one another, i.e. whether they're eligible for the bank-packer's
// odd-aligned (t-1, t+1) flipped-pair slot optimization (spec.md 4.4).
// Each id stands for its canonical tile and that tile's mirror, so a
// tile interned next to its own hflip (same id) is a candidate pair.
func (in *Interner) PairCandidates(a, b int) bool {
	return in.tiles[a] == in.tiles[b] || in.tiles[a] == in.tiles[b].HFlip()
}

// TileIDSet collapses a cel's TileRefs down to the distinct set of
// tile ids it needs, which is the unit the bank packer reasons about.
func TileIDSet(refs []model.TileRef) map[int]bool {
	s := make(map[int]bool, len(refs))
	for _, r := range refs {
		s[r.TileID] = true
	}
	return s
}
