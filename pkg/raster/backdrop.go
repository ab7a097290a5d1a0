package raster

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// NewBackdrop creates a uniform backdrop of width x height pixels at depth
func NewBackdrop(width, height int, c core.Color, depth float64) *Buffer {
	b := NewBuffer(width, height, c)
	for i := range b.depths {
		b.depths[i] = depth
	}
	return b
}

// NewBackdropFromImage stretches img over width x height pixels, every
// pixel placed at depth
func NewBackdropFromImage(img image.Image, width, height int, depth float64) *Buffer {
	var rgba *image.RGBA
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		rgba = clone.AsRGBA(img)
	} else {
		rgba = transform.Resize(img, width, height, transform.Linear)
	}
	origin := rgba.Bounds().Min
	buf := NewBuffer(width, height, core.Color{})
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, core.FromStdColor(rgba.RGBAAt(origin.X+x, origin.Y+y)), depth)
		}
	}
	return buf
}
