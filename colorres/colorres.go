// Package colorres resolves literal image pixels to a declared
// (palette-id, palette-index) pair by nearest-color matching, per
// spec.md 4.2. The search is over at most 4 palettes x 3 foreground
// colors, so it's a hand-written linear scan rather than a clustering
// structure; the same squared-Euclidean distance metric is the one
// soniakeys/quant/median uses internally for its own nearest-center
// lookups during quantization (see DESIGN.md), adapted here to a
// fixed, tiny candidate set instead of a dynamically built tree.
package colorres

import (
	"github.com/bdwalton/spritec/model"
)

// MatchTolerance is the maximum allowed squared Euclidean distance (in
// 8-bit-per-channel space) between a pixel and its nearest declared
// color. spec.md 9 leaves the exact value an open question and
// suggests 48 as a stable default; MatchTolerance is that suggestion
// squared, since the resolver compares squared distances throughout to
// avoid a sqrt per pixel.
const MatchTolerance = 48 * 48

// Match is a resolved pixel: which palette and which index (1-3)
// within it, or BackdropIndex for a color that matched the backdrop.
type Match struct {
	PaletteID int
	Index     int
}

// Resolver matches raw colors against the declared backdrop and
// palettes.
type Resolver struct {
	backdrop    model.Color
	hasBackdrop bool
	palettes    map[int]*model.Palette
}

// New builds a Resolver from a parsed DSL file's backdrop and palette
// declarations.
func New(backdrop model.Color, hasBackdrop bool, palettes map[int]*model.Palette) *Resolver {
	return &Resolver{backdrop: backdrop, hasBackdrop: hasBackdrop, palettes: palettes}
}

func sqDist(a, b model.Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Resolve finds the nearest declared color to c across the backdrop
// and every declared palette, returning ok=false if nothing is within
// MatchTolerance.
func (r *Resolver) Resolve(c model.Color) (Match, bool) {
	best := sqDist(c, r.backdrop)
	bestMatch := Match{PaletteID: -1, Index: model.BackdropIndex}
	found := r.hasBackdrop

	for id, pal := range r.palettes {
		for i, pc := range pal.Colors {
			if d := sqDist(c, pc); !found || d < best {
				best = d
				bestMatch = Match{PaletteID: id, Index: i + 1}
				found = true
			}
		}
	}

	if !found || best > MatchTolerance {
		return Match{}, false
	}
	return bestMatch, true
}

// ResolveInPalette is like Resolve but constrains the search to a
// single palette (plus the backdrop). The rasterizer does not use it:
// it calls Resolve and rejects a match from any other palette.
func (r *Resolver) ResolveInPalette(c model.Color, paletteID int) (Match, bool) {
	pal, ok := r.palettes[paletteID]
	if !ok {
		return Match{}, false
	}

	best := sqDist(c, r.backdrop)
	bestMatch := Match{PaletteID: -1, Index: model.BackdropIndex}
	found := r.hasBackdrop

	for i, pc := range pal.Colors {
		if d := sqDist(c, pc); !found || d < best {
			best = d
			bestMatch = Match{PaletteID: paletteID, Index: i + 1}
			found = true
		}
	}

	if !found || best > MatchTolerance {
		return Match{}, false
	}
	return bestMatch, true
}
