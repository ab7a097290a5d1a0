package raster

import "math"

// DepthFunction maps a depth, larger meaning further from the eye, to a value
type DepthFunction interface {
	Eval(depth float64) float64
}

// SigmoidDepthFunction rises smoothly from 0 at the near depth to 1 at the
// far depth, steepest at the inflection depth
type SigmoidDepthFunction struct {
	near, far  float64
	inflection float64
	scale      float64
	lo, hi     float64 // raw sigmoid at near and far, for normalising
}

// NewSigmoidDepthFunction creates a sigmoid over [near, far].
// relativeInflection places the inflection point as a fraction of the range
// and smoothness widens the transition as a fraction of the range.
func NewSigmoidDepthFunction(near, far, relativeInflection, smoothness float64) *SigmoidDepthFunction {
	f := &SigmoidDepthFunction{
		near:       near,
		far:        far,
		inflection: near + relativeInflection*(far-near),
		scale:      max(smoothness, 1e-3) * (far - near),
	}
	f.lo, f.hi = f.raw(near), f.raw(far)
	return f
}

func (f *SigmoidDepthFunction) raw(depth float64) float64 {
	if f.scale <= 0 {
		if depth < f.inflection {
			return 0
		}
		return 1
	}
	return 1 / (1 + math.Exp(-(depth-f.inflection)/f.scale))
}

func (f *SigmoidDepthFunction) Eval(depth float64) float64 {
	if f.hi <= f.lo {
		return f.raw(depth)
	}
	v := (f.raw(depth) - f.lo) / (f.hi - f.lo)
	return max(0, min(1, v))
}

// ScaledDepthFunction multiplies another function's value by Factor
type ScaledDepthFunction struct {
	Func   DepthFunction
	Factor float64
}

func (f ScaledDepthFunction) Eval(depth float64) float64 {
	return f.Factor * f.Func.Eval(depth)
}
