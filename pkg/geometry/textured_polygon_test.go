package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

type funcMap struct {
	color func(x, y float64) core.Color
	value func(x, y float64) float64
}

func (m funcMap) SampleColor(x, y float64) core.Color { return m.color(x, y) }
func (m funcMap) SampleValue(x, y float64) float64    { return m.value(x, y) }

type funcMask func(x, y float64) bool

func (m funcMask) IsMasked(x, y float64) bool { return m(x, y) }

func constant(v float64) funcMap {
	return funcMap{value: func(float64, float64) float64 { return v }}
}

// facingSquare turns the canonical XZ square toward the eye at z=-10
func facingSquare(t *testing.T, maps TextureMaps) *TexturedPolygon {
	t.Helper()
	tp := NewTexturedPolygon(core.NewColor(0.5, 0.5, 0.5), nil, core.NewRect2D(0, 0, 4, 4), maps)
	tp.RotateX(math.Pi / 2)
	tp.Translate(0, 0, -10)
	return tp
}

func TestTexturedPolygon_PictureMapping(t *testing.T) {
	cam := testCamera(t)
	red, blue := core.NewColor(1, 0, 0), core.NewColor(0, 0, 1)
	tp := facingSquare(t, TextureMaps{
		Picture: funcMap{color: func(x, y float64) core.Color {
			if x < 2 {
				return red
			}
			return blue
		}},
		Mask: funcMask(func(x, y float64) bool { return y > 3 }),
	})

	pos := tp.PicturePosition(core.NewVec3(-0.5, 0.5, -10), cam)
	assert.InDelta(t, 1, pos.X, 1e-9)
	assert.InDelta(t, 1, pos.Y, 1e-9, "top of the face maps to the top picture rows")

	hits := tp.IntersectEyeRay(eyeRay(-0.05, 0.05), cam, nil, nil)
	require.Len(t, hits, 1)
	assert.Equal(t, red, hits[0].Color)
	assert.Same(t, tp, hits[0].Object)

	hits = tp.IntersectEyeRay(eyeRay(0.05, 0.05), cam, nil, nil)
	require.Len(t, hits, 1)
	assert.Equal(t, blue, hits[0].Color)

	assert.Empty(t, tp.IntersectEyeRay(eyeRay(0, -0.08), cam, nil, nil), "masked region is not part of the face")
}

func TestTexturedPolygon_TransparencyAndLuminance(t *testing.T) {
	cam := testCamera(t)
	tp := facingSquare(t, TextureMaps{
		Transparency: constant(0.25),
		Luminance:    constant(1),
	})

	hits := tp.IntersectLightRay(core.NewSegment(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -20)), cam, nil)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.75, hits[0].Color.A, 1e-9)
	assert.InDelta(t, 0.5, hits[0].Color.R, 1e-9, "luminance applies only with shading")

	hits = tp.IntersectEyeRay(eyeRay(0, 0), cam, fixedLighting(0), nil)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.75, hits[0].Color.A, 1e-9)
	assert.InDelta(t, 1, hits[0].Color.R, 1e-9)
}

func TestTexturedPolygon_NoMapsUsesColor(t *testing.T) {
	cam := testCamera(t)
	tp := facingSquare(t, TextureMaps{})
	hits := tp.IntersectEyeRay(eyeRay(0, 0), cam, fixedLighting(0), nil)
	require.Len(t, hits, 1)
	assert.Equal(t, core.NewColor(0.5, 0.5, 0.5), hits[0].Color)
}
