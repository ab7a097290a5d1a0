package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

func TestViewPlaneIndex_CandidatesCoverHits(t *testing.T) {
	cam := testCamera(t)
	objects := randomFaces(t, 80)
	opts := ViewPlaneOptionsFor(64, 64)

	for _, idx := range []*ViewPlaneIndex{
		NewUniformViewPlaneIndex(objects, cam, opts),
		NewAdaptiveViewPlaneIndex(objects, cam, opts),
		NewViewPlaneIndex(objects, cam, opts),
	} {
		t.Run(idx.Strategy(), func(t *testing.T) {
			for y := -0.41; y <= 0.41; y += 0.0125 {
				for x := -0.41; x <= 0.41; x += 0.0125 {
					p := core.NewVec3(x, y, -1)
					ray := core.NewHalfLine(p, p.Multiply(2))
					candidates := make(map[geometry.Raytraceable]bool)
					last := 0.0
					for _, c := range idx.Objects(x, y) {
						candidates[c.Object] = true
						assert.GreaterOrEqual(t, c.NearDepth, last, "candidates sorted by near depth")
						last = c.NearDepth
					}
					for o := range bruteForce(objects, ray, cam, true) {
						assert.True(t, candidates[o], "object hit at (%.3f, %.3f) is a candidate", x, y)
					}
				}
			}
		})
	}
}

func TestViewPlaneIndex_Projection(t *testing.T) {
	cam := testCamera(t)
	square := func(z float64) *geometry.Polygon {
		p, err := geometry.NewFace(core.White, nil,
			core.NewVec3(-1, -1, z), core.NewVec3(1, -1, z), core.NewVec3(1, 1, z), core.NewVec3(-1, 1, z))
		require.NoError(t, err)
		return p
	}
	far := square(-10)  // projects to [-0.1, 0.1] on the view plane
	behind := square(5) // behind the eye
	straddling, err := geometry.NewFace(core.White, nil,
		core.NewVec3(-50, -1, 5), core.NewVec3(50, -1, 5), core.NewVec3(50, -1, -5))
	require.NoError(t, err)
	e := &everywhere{}

	opts := ViewPlaneOptionsFor(80, 80)
	for _, idx := range []*ViewPlaneIndex{
		NewUniformViewPlaneIndex([]geometry.Raytraceable{far, behind, straddling, e}, cam, opts),
		NewAdaptiveViewPlaneIndex([]geometry.Raytraceable{far, behind, straddling, e}, cam, opts),
	} {
		t.Run(idx.Strategy(), func(t *testing.T) {
			objectsAt := func(x, y float64) []geometry.Raytraceable {
				var out []geometry.Raytraceable
				for _, c := range idx.Objects(x, y) {
					out = append(out, c.Object)
				}
				return out
			}
			center := objectsAt(0, 0)
			assert.Contains(t, center, far)
			assert.Contains(t, center, straddling)
			assert.Contains(t, center, e)
			assert.NotContains(t, center, behind)

			corner := objectsAt(0.4, 0.4)
			assert.Contains(t, corner, straddling)
			if idx.Strategy() == "uniform" {
				assert.NotContains(t, corner, far)
			}

			assert.Nil(t, idx.Objects(1, 0), "outside the view plane")
		})
	}
}

func TestViewPlaneOptionsFor(t *testing.T) {
	opts := ViewPlaneOptionsFor(100, 8000)
	assert.Equal(t, 13, opts.XBins)
	assert.Equal(t, 500, opts.YBins)
	assert.Equal(t, 1, ViewPlaneOptionsFor(0, 0).XBins)
}
