// Package raster holds rendered color and depth samples and the image
// operations applied to them after ray tracing.
package raster

import (
	"image"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Buffer is a grid of colors with the depth of the nearest surface behind
// each one. A depth of 0 means no surface was hit.
type Buffer struct {
	width, height int
	colors        []core.Color
	depths        []float64
}

// NewBuffer creates a buffer filled with background and no depth
func NewBuffer(width, height int, background core.Color) *Buffer {
	b := &Buffer{
		width:  width,
		height: height,
		colors: make([]core.Color, width*height),
		depths: make([]float64, width*height),
	}
	b.Fill(background)
	return b
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// InBounds reports whether (x, y) is a cell of the buffer
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b *Buffer) Color(x, y int) core.Color { return b.colors[y*b.width+x] }
func (b *Buffer) Depth(x, y int) float64    { return b.depths[y*b.width+x] }

// Set stores a color and depth at (x, y). Rows are written by one goroutine
// each during rendering; no locking is done.
func (b *Buffer) Set(x, y int, c core.Color, depth float64) {
	i := y*b.width + x
	b.colors[i] = c
	b.depths[i] = depth
}

// SetColor replaces the color at (x, y) and keeps its depth
func (b *Buffer) SetColor(x, y int, c core.Color) {
	b.colors[y*b.width+x] = c
}

// Fill resets every cell to c with no depth
func (b *Buffer) Fill(c core.Color) {
	for i := range b.colors {
		b.colors[i] = c
		b.depths[i] = 0
	}
}

// DepthRange returns the smallest and largest recorded depths, ignoring
// cells without a surface. ok is false when no cell has one.
func (b *Buffer) DepthRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, d := range b.depths {
		if d > 0 {
			lo = min(lo, d)
			hi = max(hi, d)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Clone returns an independent copy
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{width: b.width, height: b.height}
	c.colors = append([]core.Color(nil), b.colors...)
	c.depths = append([]float64(nil), b.depths...)
	return c
}

// Convolute returns the kernel-weighted average of the cells under the
// kernel placed with its top-left cell at (x0, y0). Cells outside the
// buffer and cells the mask rejects are left out and the remaining weights
// renormalised. ok is false when no cell contributes.
func (b *Buffer) Convolute(x0, y0 int, k *Kernel, mask Mask) (c core.Color, ok bool) {
	var sum core.Color
	var total float64
	for row := 0; row < k.Rows; row++ {
		y := y0 + row
		if y < 0 || y >= b.height {
			continue
		}
		for col := 0; col < k.Cols; col++ {
			x := x0 + col
			if x < 0 || x >= b.width {
				continue
			}
			if mask != nil && mask.IsMasked(row, col) {
				continue
			}
			w := k.At(row, col)
			cell := b.colors[y*b.width+x]
			sum.R += w * cell.R
			sum.G += w * cell.G
			sum.B += w * cell.B
			sum.A += w * cell.A
			total += w
		}
	}
	if total <= 0 {
		return core.Color{}, false
	}
	return core.Color{R: sum.R / total, G: sum.G / total, B: sum.B / total, A: sum.A / total}, true
}

// Image converts the colors to an 8-bit image
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			img.SetNRGBA(x, y, b.colors[y*b.width+x].NRGBA())
		}
	}
	return img
}

// Mask excludes kernel cells from a convolution
type Mask interface {
	IsMasked(row, col int) bool
}

// MaskFunc adapts a function to Mask
type MaskFunc func(row, col int) bool

func (f MaskFunc) IsMasked(row, col int) bool { return f(row, col) }
