// Package debugimg implements the -d/--intermediate debug-image writer
// (spec.md 6): a PNG visualizing every interned tile, quantized and
// laid out on a grid so a developer can eyeball the tile interner's
// output without a hex editor.
//
// Grounded on the rest of the example pack rather than the teacher,
// which has no image-quantization or scaling code of its own:
// golang.org/x/image/draw supplies the scaler used to magnify the
// (small) tile grid into something legible, and
// github.com/soniakeys/quant/median supplies the palette quantizer
// used to flatten the grid into a color.Palette-backed image.Paletted
// before encoding.
package debugimg

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/soniakeys/quant/median"

	"github.com/bdwalton/spritec/model"
	"github.com/bdwalton/spritec/tileset"
)

// Scale is the magnification factor applied to the native tile grid;
// at 1x an 8x16 tile is too small to inspect comfortably.
const Scale = 4

// maxPaletteColors bounds the quantizer's output palette. Every tile
// in the grid is painted with the same single representative palette
// (backdrop + 3 foreground colors), so the grid needs far fewer
// entries than this bound.
const maxPaletteColors = 64

// Write renders every tile in in as an upscaled grid and encodes it as
// a PNG to w. cols is the number of tiles per row of the grid.
func Write(w io.Writer, in *tileset.Interner, palettes map[int]*model.Palette, cols int) error {
	if cols <= 0 {
		cols = 16
	}
	n := in.Len()
	if n == 0 {
		return nil
	}
	rows := (n + cols - 1) / cols

	native := image.NewRGBA(image.Rect(0, 0, cols*model.TileCols, rows*model.TileRows))
	bg := color.RGBA{A: 255}
	draw.Draw(native, native.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	for id := 0; id < n; id++ {
		tile := in.Tile(id)
		tx, ty := (id%cols)*model.TileCols, (id/cols)*model.TileRows
		paintTile(native, tile, tx, ty, representativePalette(palettes))
	}

	scaled := image.NewRGBA(image.Rect(0, 0, native.Bounds().Dx()*Scale, native.Bounds().Dy()*Scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), native, native.Bounds(), draw.Over, nil)

	q := median.Quantizer(maxPaletteColors)
	pal := q.Quantize(make(color.Palette, 0, maxPaletteColors), scaled)
	paletted := image.NewPaletted(scaled.Bounds(), pal)
	draw.Draw(paletted, paletted.Bounds(), scaled, image.Point{}, draw.Src)

	if err := png.Encode(w, paletted); err != nil {
		return &model.IOError{Path: "debug image", Err: fmt.Errorf("encoding tile grid: %w", err)}
	}
	return nil
}

func representativePalette(palettes map[int]*model.Palette) *model.Palette {
	for _, p := range palettes {
		return p
	}
	return &model.Palette{Colors: [3]model.Color{{R: 255}, {G: 255}, {B: 255}}}
}

func paintTile(dst *image.RGBA, t model.Tile, ox, oy int, pal *model.Palette) {
	for y := 0; y < model.TileRows; y++ {
		for x := 0; x < model.TileCols; x++ {
			idx := t[y][x]
			var c color.RGBA
			if idx != model.BackdropIndex {
				rgb := pal.Colors[idx-1]
				c = color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
			}
			dst.SetRGBA(ox+x, oy+y, c)
		}
	}
}
