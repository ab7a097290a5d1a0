package core

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB color with opacity A in [0, 1]
type Color struct {
	R, G, B, A float64
}

var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// NewColor creates an opaque color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// ParseHexColor parses "#rrggbb" into an opaque color
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// FromStdColor converts any image/color value
func FromStdColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	// RGBA is alpha-premultiplied
	return Color{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: float64(a) / 65535.0,
	}
}

// NRGBA converts to an 8-bit non-premultiplied color
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float64) uint8 {
	return uint8(max(0, min(1, v))*255 + 0.5)
}

// Transparency returns 1 - opacity
func (c Color) Transparency() float64 {
	return 1 - c.A
}

// WithTransparency returns the color with opacity 1 - t
func (c Color) WithTransparency(t float64) Color {
	c.A = 1 - max(0, min(1, t))
	return c
}

// IsOpaque reports whether nothing shows through the color
func (c Color) IsOpaque() bool {
	return c.A >= 1
}

// Scale multiplies the RGB channels by f
func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

// Add sums RGBA channel-wise
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Interpolate returns c*(1-t) + other*t across all channels
func (c Color) Interpolate(other Color, t float64) Color {
	return Color{
		R: c.R*(1-t) + other.R*t,
		G: c.G*(1-t) + other.G*t,
		B: c.B*(1-t) + other.B*t,
		A: c.A*(1-t) + other.A*t,
	}
}

// Equals compares channels within tolerance eps
func (c Color) Equals(o Color, eps float64) bool {
	d := func(a, b float64) bool { return a-b < eps && b-a < eps }
	return d(c.R, o.R) && d(c.G, o.G) && d(c.B, o.B) && d(c.A, o.A)
}

// AdjustBrightness brightens toward white (f > 0) or darkens toward black
// (f < 0) in HSV space. f is clamped to [-1, 1]; opacity is preserved.
func (c Color) AdjustBrightness(f float64) Color {
	if f == 0 {
		return c
	}
	f = max(-1, min(1, f))
	h, s, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hsv()
	if f >= 0 {
		v = 1 - (1-v)*(1-f)
	} else {
		v = v * (1 + f)
	}
	s *= min(1, 1-f)
	out := colorful.Hsv(h, s, v)
	return Color{R: out.R, G: out.G, B: out.B, A: c.A}
}

// CombineByTransparency lays front over back
func CombineByTransparency(front, back Color) Color {
	if front.IsOpaque() {
		return front
	}
	a := front.A
	return Color{
		R: a*front.R + (1-a)*back.R,
		G: a*front.G + (1-a)*back.G,
		B: a*front.B + (1-a)*back.B,
		A: a + (1-a)*back.A,
	}
}

// CombineColors composites a front-to-back ordered list of layers.
// An empty list yields the zero (fully transparent) color.
func CombineColors(layers []Color) Color {
	if len(layers) == 0 {
		return Color{}
	}
	// Layers behind the first opaque one are invisible
	last := len(layers) - 1
	for i, c := range layers {
		if c.IsOpaque() {
			last = i
			break
		}
	}
	result := layers[last]
	for i := last - 1; i >= 0; i-- {
		result = CombineByTransparency(layers[i], result)
	}
	return result
}
