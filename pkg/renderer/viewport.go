package renderer

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// ViewPort receives the pixels of a render. The raytracer calls
// StartRendering, then Clear, then PaintPixel once per output pixel and
// finally StopRendering, all from the goroutine that called Render.
type ViewPort interface {
	StartRendering()
	Clear()
	PaintPixel(x, y int, c core.Color)
	StopRendering()
}

// ImageViewPort paints into an in-memory image. Its accessors may be used
// from other goroutines while a render is painting.
type ImageViewPort struct {
	mu         sync.RWMutex
	img        *image.NRGBA
	background color.Color
	rendering  bool
}

// NewImageViewPort creates a viewport of the given size cleared to background
func NewImageViewPort(width, height int, background core.Color) *ImageViewPort {
	v := &ImageViewPort{
		img:        image.NewNRGBA(image.Rect(0, 0, width, height)),
		background: background.NRGBA(),
	}
	v.Clear()
	return v
}

func (v *ImageViewPort) StartRendering() {
	v.mu.Lock()
	v.rendering = true
	v.mu.Unlock()
}

func (v *ImageViewPort) StopRendering() {
	v.mu.Lock()
	v.rendering = false
	v.mu.Unlock()
}

// Rendering reports whether a render is between start and stop
func (v *ImageViewPort) Rendering() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rendering
}

func (v *ImageViewPort) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	draw.Draw(v.img, v.img.Bounds(), image.NewUniform(v.background), image.Point{}, draw.Src)
}

// PaintPixel ignores pixels outside the image
func (v *ImageViewPort) PaintPixel(x, y int, c core.Color) {
	v.mu.Lock()
	v.img.SetNRGBA(x, y, c.NRGBA())
	v.mu.Unlock()
}

// Image returns a copy of the painted image
func (v *ImageViewPort) Image() *image.NRGBA {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := image.NewNRGBA(v.img.Bounds())
	draw.Draw(out, out.Bounds(), v.img, v.img.Bounds().Min, draw.Src)
	return out
}

// Snapshot returns the painted image resized by scale, for previews and
// thumbnails. Downscaling uses Catmull-Rom, upscaling bilinear filtering.
func (v *ImageViewPort) Snapshot(scale float64) *image.NRGBA {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b := v.img.Bounds()
	w := max(1, int(float64(b.Dx())*scale+0.5))
	h := max(1, int(float64(b.Dy())*scale+0.5))
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	var scaler draw.Scaler = draw.ApproxBiLinear
	if scale < 1 {
		scaler = draw.CatmullRom
	}
	scaler.Scale(out, out.Bounds(), v.img, b, draw.Src, nil)
	return out
}
