// Package shading colors surface points by the lights that reach them.
package shading

import (
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

const (
	DefaultReflection = 1.0
	DefaultGloss      = 3.0
)

// FlatModel shades a whole face by its light exposure and orientation.
// Reflection in [0, 1] scales every light; Gloss > 0 concentrates
// highlights on faces seen head-on by a light.
type FlatModel struct {
	Reflection float64
	Gloss      float64
}

// NewFlatModel returns the standard model with full reflection and gloss 3
func NewFlatModel() *FlatModel {
	return &FlatModel{Reflection: DefaultReflection, Gloss: DefaultGloss}
}

func (m *FlatModel) ApplyShading(sp *geometry.SurfacePoint, normal core.Vec3, lighting geometry.Lighting) {
	sp.Color = sp.Color.AdjustBrightness(lighting.BrightnessFactor(sp, normal, m.Reflection, m.Gloss))
	if d := lighting.DarknessAtDepth(sp.Depth()); d != 0 {
		sp.Color = sp.Color.AdjustBrightness(d)
	}
}
