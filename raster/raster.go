// Package raster implements the cel rasterizer (spec.md 4.3): for
// each cel, walk its strips in front-to-back order, clip each strip to
// its source rect, and cut the resulting pixels into 8x16 tiles
// aligned to the strip's destination origin, padding partial edge
// tiles with backdrop.
//
// Grounded on ppu.tick()'s tile-cutting loop in the teacher repo: that
// function walks a linear CHR array in fixed 32-tile strides and
// splits each into an 8x16 (there, 8x8) pixel block; this package
// generalizes the same cut-into-fixed-blocks idea to an arbitrary
// source rectangle anchored at a strip's own destination coordinate
// rather than a fixed bank stride.
package raster

import (
	"github.com/bdwalton/spritec/colorres"
	"github.com/bdwalton/spritec/model"
)

// Source is the minimal pixel-access surface the rasterizer needs.
// imgsrc.Image implements it over a decoded image.Image.
type Source interface {
	Bounds() model.Rect
	ColorAt(x, y int) (model.Color, bool)
}

// Placement is one raw 8x16 tile cut out of a cel, before interning.
type Placement struct {
	Pixels     model.Tile
	PaletteID  int
	OffX, OffY int // pixel offset of the tile's top-left from the cel hotspot
	StripOrder int // index of the originating strip; lower is more "front"
}

// Rasterizer cuts cels into tile placements against a fixed image
// source and color resolver.
type Rasterizer struct {
	src      Source
	resolver *colorres.Resolver
}

// New returns a Rasterizer reading pixels from src and resolving
// colors with resolver.
func New(src Source, resolver *colorres.Resolver) *Rasterizer {
	return &Rasterizer{src: src, resolver: resolver}
}

// Rasterize produces the ordered tile placements for c. Strips are
// processed in declaration order (index 0 is frontmost, per spec.md
// 4.6's "front-to-back, as given by the cel's strip order").
func (rz *Rasterizer) Rasterize(c *model.Cel) ([]Placement, error) {
	bounds := rz.src.Bounds()
	hotspot := c.EffectiveHotspot()

	var placements []Placement
	for stripIdx, s := range c.Strips {
		if s.Src.Left < bounds.Left || s.Src.Top < bounds.Top ||
			s.Src.Right() > bounds.Right() || s.Src.Bottom() > bounds.Bottom() {
			return nil, &model.RasterError{
				Cel:    c.Name,
				Reason: "strip source rect extends outside image bounds",
			}
		}

		dest := s.Dest()
		tileCols := ceilDiv(s.Src.Width, model.TileCols)
		tileRows := ceilDiv(s.Src.Height, model.TileRows)

		for tr := 0; tr < tileRows; tr++ {
			for tcI := 0; tcI < tileCols; tcI++ {
				var tile model.Tile
				var sawPixel bool

				for py := 0; py < model.TileRows; py++ {
					srcY := s.Src.Top + tr*model.TileRows + py
					for px := 0; px < model.TileCols; px++ {
						srcX := s.Src.Left + tcI*model.TileCols + px

						if srcX >= s.Src.Right() || srcY >= s.Src.Bottom() {
							continue // padded edge: leave as backdrop (0)
						}

						col, ok := rz.src.ColorAt(srcX, srcY)
						if !ok {
							return nil, &model.RasterError{Cel: c.Name, Reason: "strip references a pixel outside the image"}
						}

						m, ok := rz.resolver.Resolve(col)
						if !ok {
							return nil, &model.ColorError{
								Cel:    c.Name,
								Pixel:  model.Loc{X: srcX, Y: srcY},
								Reason: "pixel does not match any declared color within tolerance",
							}
						}
						if m.Index != model.BackdropIndex && m.PaletteID != s.PaletteID {
							return nil, &model.RasterError{
								Cel:    c.Name,
								Reason: "strip mixes pixels from more than one palette",
							}
						}
						if m.Index != model.BackdropIndex {
							sawPixel = true
						}
						tile[py][px] = uint8(m.Index)
					}
				}

				if !sawPixel {
					continue // fully-backdrop tile contributes nothing
				}

				originX := dest.X + tcI*model.TileCols
				originY := dest.Y + tr*model.TileRows

				placements = append(placements, Placement{
					Pixels:     tile,
					PaletteID:  s.PaletteID,
					OffX:       originX - hotspot.X,
					OffY:       originY - hotspot.Y,
					StripOrder: stripIdx,
				})
			}
		}
	}

	return placements, nil
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
