package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

func TestGaussianKernel(t *testing.T) {
	k := GaussianKernel(3, 3, 2)
	total := 0.0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			total += k.At(r, c)
		}
	}
	assert.InDelta(t, 1, total, 1e-12)
	assert.Greater(t, k.At(1, 1), k.At(0, 1))
	assert.Greater(t, k.At(0, 1), k.At(0, 0))
	assert.InDelta(t, k.At(0, 0), k.At(2, 2), 1e-15, "symmetric")

	single := GaussianKernel(1, 1, 2)
	assert.Equal(t, 1.0, single.At(0, 0))
}

func TestBuffer_Convolute(t *testing.T) {
	b := NewBuffer(2, 2, core.Black)
	b.Set(0, 0, core.White, 1)

	k := GaussianKernel(2, 2, 2)
	c, ok := b.Convolute(0, 0, k, nil)
	require.True(t, ok)
	assert.InDelta(t, 0.25, c.R, 1e-12, "2x2 kernel weighs its cells equally")

	// only the white cell survives the mask
	c, ok = b.Convolute(0, 0, k, MaskFunc(func(row, col int) bool { return row+col > 0 }))
	require.True(t, ok)
	assert.Equal(t, core.White, c)

	// kernel hanging off the edge renormalises over the cells inside
	c, ok = b.Convolute(-1, -1, k, nil)
	require.True(t, ok)
	assert.Equal(t, core.White, c)

	_, ok = b.Convolute(5, 5, k, nil)
	assert.False(t, ok)
}

func TestBuffer_DepthRange(t *testing.T) {
	b := NewBuffer(3, 1, core.Black)
	_, _, ok := b.DepthRange()
	assert.False(t, ok)

	b.Set(0, 0, core.White, 4)
	b.Set(2, 0, core.White, 9)
	lo, hi, ok := b.DepthRange()
	require.True(t, ok)
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 9.0, hi)
}

func depthRamp() *Buffer {
	b := NewBuffer(16, 16, core.NewColor(0.2, 0.3, 0.4))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x == 0 {
				continue // background column
			}
			v := float64((x*7+y*3)%11) / 10
			b.Set(x, y, core.NewColor(v, 1-v, v/2), float64(x))
		}
	}
	return b
}

func TestBlurByDepth_ZeroRadiusIsIdentity(t *testing.T) {
	b := depthRamp()
	params := DefaultBlurParameters()
	params.MaxBlurPixelRadius = 0

	var last float64
	out := BlurByDepth(b, params, func(p float64) { last = p })
	assert.Equal(t, b, out)
	assert.Equal(t, 1.0, last)
	assert.NotSame(t, b, out)
}

func TestBlurByDepth_BlursFarSurfaces(t *testing.T) {
	b := depthRamp()
	params := BlurParameters{
		RelativeInflectionDepth:    0.5,
		Smoothness:                 0.05,
		MaxBlurPixelRadius:         3,
		MaxRelativeDepthSimilarity: 1,
	}
	out := BlurByDepth(b, params, nil)

	for y := 0; y < 16; y++ {
		assert.Equal(t, b.Color(0, y), out.Color(0, y), "background is untouched")
		assert.Equal(t, b.Color(1, y), out.Color(1, y), "nearest surface stays sharp")
		assert.Equal(t, b.Depth(15, y), out.Depth(15, y), "depths are kept")
	}
	changed := 0
	for y := 0; y < 16; y++ {
		if !b.Color(14, y).Equals(out.Color(14, y), 1e-9) {
			changed++
		}
	}
	assert.Positive(t, changed)
}

func TestBlurByDepth_DepthSimilarityKeepsEdges(t *testing.T) {
	b := NewBuffer(9, 1, core.Black)
	for x := 0; x < 9; x++ {
		if x < 4 {
			b.Set(x, 0, core.White, 1)
		} else {
			b.Set(x, 0, core.NewColor(1, 0, 0), 10)
		}
	}
	params := BlurParameters{RelativeInflectionDepth: 0.5, Smoothness: 0.05, MaxBlurPixelRadius: 2, MaxRelativeDepthSimilarity: 0.1}
	out := BlurByDepth(b, params, nil)
	assert.Equal(t, core.NewColor(1, 0, 0), out.Color(4, 0), "near white cells are not blended into the far surface")
}

func TestSigmoidDepthFunction(t *testing.T) {
	f := NewSigmoidDepthFunction(10, 20, 0.5, 0.1)
	assert.InDelta(t, 0, f.Eval(10), 1e-12)
	assert.InDelta(t, 1, f.Eval(20), 1e-12)
	assert.InDelta(t, 0.5, f.Eval(15), 1e-9)
	assert.Less(t, f.Eval(12), f.Eval(13))
	assert.Equal(t, 0.0, f.Eval(5))
	assert.Equal(t, 1.0, f.Eval(25))

	half := ScaledDepthFunction{Func: f, Factor: 0.5}
	assert.InDelta(t, 0.5, half.Eval(20), 1e-12)
}

func TestNewBackdropFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	b := NewBackdropFromImage(img, 2, 1, 50)
	assert.Equal(t, core.NewColor(1, 0, 0), b.Color(0, 0))
	assert.Equal(t, core.NewColor(0, 0, 1), b.Color(1, 0))
	assert.Equal(t, 50.0, b.Depth(1, 0))

	scaled := NewBackdropFromImage(img, 4, 2, 50)
	assert.Equal(t, 4, scaled.Width())
	assert.Equal(t, 2, scaled.Height())

	flat := NewBackdrop(3, 2, core.White, 7)
	assert.Equal(t, 7.0, flat.Depth(2, 1))
	assert.Equal(t, core.White, flat.Color(0, 0))
}

func TestBuffer_Image(t *testing.T) {
	b := NewBuffer(2, 1, core.Color{R: 1, A: 0.5})
	img := b.Image()
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, img.NRGBAAt(1, 0))
}
