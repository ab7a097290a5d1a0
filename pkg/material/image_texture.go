package material

import (
	"image"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// ImageTexture samples colors from a 2D image in picture coordinates:
// x runs right and y runs down, one unit per pixel
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Color) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// NewImageTextureFromImage copies any decoded image
func NewImageTextureFromImage(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.FromStdColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}
	return NewImageTexture(width, height, pixels)
}

// SampleColor returns the nearest pixel, clamping outside the image
func (t *ImageTexture) SampleColor(x, y float64) core.Color {
	if t.Width == 0 || t.Height == 0 {
		return core.Color{}
	}
	px := max(0, min(t.Width-1, int(x)))
	py := max(0, min(t.Height-1, int(y)))
	return t.Pixels[py*t.Width+px]
}

// SampleValue returns the nearest pixel's average channel value
func (t *ImageTexture) SampleValue(x, y float64) float64 {
	c := t.SampleColor(x, y)
	return (c.R + c.G + c.B) / 3
}

// IsMasked reports fully transparent pixels as masked, so an image with an
// alpha channel can cut the outline of a textured face
func (t *ImageTexture) IsMasked(x, y float64) bool {
	return t.SampleColor(x, y).A == 0
}
