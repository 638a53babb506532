// Package imgsrc adapts a decoded stdlib image.Image into the small
// Source interface the rasterizer consumes, applying the DSL's global
// "hflip" reflection (spec.md 4.2) at the boundary so every later
// stage only ever sees already-flipped coordinates.
//
// Decoding the PNG itself is explicitly out of this module's scope
// (spec.md 1 names "image file decoding (PNG)" an external
// collaborator); this package only wraps whatever image.Image the
// caller already decoded.
package imgsrc

import (
	stdimage "image"

	"github.com/bdwalton/spritec/model"
)

// Image adapts a decoded image.Image to the rasterizer's Source
// interface, with an optional whole-image horizontal reflection.
type Image struct {
	img  stdimage.Image
	flip bool
	bnds stdimage.Rectangle
}

// New wraps img. When flip is true, every coordinate is mirrored
// around the image width before lookup, per the DSL's "hflip" global.
func New(img stdimage.Image, flip bool) *Image {
	return &Image{img: img, flip: flip, bnds: img.Bounds()}
}

// Bounds returns the image's pixel rectangle in the coordinate space
// the rest of the pipeline uses (post-flip).
func (i *Image) Bounds() model.Rect {
	return model.Rect{
		Left:   0,
		Top:    0,
		Width:  i.bnds.Dx(),
		Height: i.bnds.Dy(),
	}
}

// ColorAt returns the resolved RGB color at (x, y) in post-flip
// coordinates, and false if (x, y) lies outside the image.
func (i *Image) ColorAt(x, y int) (model.Color, bool) {
	b := i.Bounds()
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return model.Color{}, false
	}

	qx := x
	if i.flip {
		qx = b.Width - 1 - x
	}

	r, g, bl, _ := i.img.At(i.bnds.Min.X+qx, i.bnds.Min.Y+y).RGBA()
	return model.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}, true
}
