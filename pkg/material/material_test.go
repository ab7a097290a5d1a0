package material

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

func TestImageTexture_Sampling(t *testing.T) {
	// 4x4 gradient, each pixel unique
	pixels := make([]core.Color, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			val := float64(y*4+x) / 15.0
			pixels[y*4+x] = core.NewColor(val, val, val)
		}
	}
	texture := NewImageTexture(4, 4, pixels)

	assert.Equal(t, 0.0, texture.SampleValue(0.5, 0.5), "top-left pixel")
	assert.InDelta(t, 1.0, texture.SampleValue(3.5, 3.5), 1e-9, "bottom-right pixel")
	assert.InDelta(t, 1.0/15, texture.SampleValue(1.2, 0.9), 1e-9)
	assert.Equal(t, texture.SampleColor(0, 0), texture.SampleColor(-3, -3), "clamped outside the image")
	assert.Equal(t, texture.SampleColor(3, 3), texture.SampleColor(40, 40))
}

func TestImageTexture_FromImageAndMask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{})

	texture := NewImageTextureFromImage(img)
	assert.Equal(t, 2, texture.Width)
	assert.True(t, texture.SampleColor(0.5, 0.5).Equals(core.NewColor(1, 0, 0), 1e-9))
	assert.False(t, texture.IsMasked(0.5, 0.5))
	assert.True(t, texture.IsMasked(1.5, 0.5))
}

func TestChecker(t *testing.T) {
	c := NewChecker(2, core.White, core.Black)
	assert.Equal(t, core.White, c.SampleColor(0.5, 0.5))
	assert.Equal(t, core.Black, c.SampleColor(2.5, 0.5))
	assert.Equal(t, core.Black, c.SampleColor(-0.5, 0.5))
	assert.Equal(t, 1.0, c.SampleValue(3, 3))
}

func TestMasks(t *testing.T) {
	rect := RectMask{Visible: core.NewRect2D(0, 0, 10, 5)}
	assert.False(t, rect.IsMasked(3, 3))
	assert.True(t, rect.IsMasked(3, 6))

	circle := CircleMask{Center: core.Vec2{X: 5, Y: 5}, Radius: 2}
	assert.False(t, circle.IsMasked(6, 6))
	assert.True(t, circle.IsMasked(8, 5))
}

func TestUniform(t *testing.T) {
	u := NewUniformValue(0.25)
	assert.Equal(t, 0.25, u.SampleValue(100, -100))
	assert.Equal(t, core.NewColor(0.25, 0.25, 0.25), u.SampleColor(0, 0))
}
