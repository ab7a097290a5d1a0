package material

import (
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Uniform is a texture with the same color and value everywhere
type Uniform struct {
	Color core.Color
	Value float64
}

// NewUniformValue creates a uniform texture for luminance or transparency maps
func NewUniformValue(v float64) *Uniform {
	return &Uniform{Color: core.NewColor(v, v, v), Value: v}
}

func (u *Uniform) SampleColor(float64, float64) core.Color { return u.Color }
func (u *Uniform) SampleValue(float64, float64) float64    { return u.Value }

// Checker alternates two colors in square cells of CellSize picture units
type Checker struct {
	CellSize float64
	Color1   core.Color
	Color2   core.Color
	Value1   float64
	Value2   float64
}

// NewChecker creates a checkerboard whose values are the colors' red channel
func NewChecker(cellSize float64, color1, color2 core.Color) *Checker {
	return &Checker{CellSize: cellSize, Color1: color1, Color2: color2, Value1: color1.R, Value2: color2.R}
}

func (c *Checker) first(x, y float64) bool {
	cx := int(math.Floor(x / c.CellSize))
	cy := int(math.Floor(y / c.CellSize))
	return (cx+cy)&1 == 0
}

func (c *Checker) SampleColor(x, y float64) core.Color {
	if c.first(x, y) {
		return c.Color1
	}
	return c.Color2
}

func (c *Checker) SampleValue(x, y float64) float64 {
	if c.first(x, y) {
		return c.Value1
	}
	return c.Value2
}

// RectMask masks everything outside a rectangle of the picture
type RectMask struct {
	Visible core.Rect2D
}

func (m RectMask) IsMasked(x, y float64) bool {
	return !m.Visible.Contains(core.Vec2{X: x, Y: y})
}

// CircleMask masks everything outside a circle, for round cut-outs
type CircleMask struct {
	Center core.Vec2
	Radius float64
}

func (m CircleMask) IsMasked(x, y float64) bool {
	dx, dy := x-m.Center.X, y-m.Center.Y
	return dx*dx+dy*dy > m.Radius*m.Radius
}
