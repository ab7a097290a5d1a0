package raster

import "math"

// BlurParameters control depth-of-field blurring
type BlurParameters struct {
	// RelativeInflectionDepth is where blurring ramps up fastest, as a
	// fraction of the rendered depth range
	RelativeInflectionDepth float64 `toml:"relativeInflectionDepth" yaml:"relativeInflectionDepth"`
	// Smoothness widens the ramp, as a fraction of the depth range
	Smoothness float64 `toml:"smoothness" yaml:"smoothness"`
	// MaxBlurPixelRadius is the kernel radius at full blur
	MaxBlurPixelRadius float64 `toml:"maxBlurPixelRadius" yaml:"maxBlurPixelRadius"`
	// MaxRelativeDepthSimilarity is the largest depth difference, as a
	// fraction of the depth range, at which neighbours count as the same
	// surface. Keeps near edges sharp over far backgrounds.
	MaxRelativeDepthSimilarity float64 `toml:"maxRelativeDepthSimilarity" yaml:"maxRelativeDepthSimilarity"`
}

// DefaultBlurParameters blur the far half of a scene moderately
func DefaultBlurParameters() BlurParameters {
	return BlurParameters{
		RelativeInflectionDepth:    0.5,
		Smoothness:                 0.1,
		MaxBlurPixelRadius:         4,
		MaxRelativeDepthSimilarity: 0.05,
	}
}

const blurSpread = 4.0

// BlurByDepth returns a copy of buf in which each surface cell is blurred
// with a radius growing with its depth. Cells without a surface are
// copied unchanged. progress, when non-nil, receives the completed
// fraction after each row.
func BlurByDepth(buf *Buffer, params BlurParameters, progress func(float64)) *Buffer {
	out := buf.Clone()
	maxRadius := int(math.Round(params.MaxBlurPixelRadius))
	near, far, ok := buf.DepthRange()
	if maxRadius <= 0 || !ok {
		if progress != nil {
			progress(1)
		}
		return out
	}
	fn := NewSigmoidDepthFunction(near, far, params.RelativeInflectionDepth, params.Smoothness)
	similarity := params.MaxRelativeDepthSimilarity * (far - near)
	kernels := make(map[int]*Kernel)

	for y := 0; y < buf.height; y++ {
		for x := 0; x < buf.width; x++ {
			depth := buf.Depth(x, y)
			if depth <= 0 {
				continue
			}
			radius := int(math.Floor(fn.Eval(depth) * float64(maxRadius)))
			if radius <= 0 {
				continue
			}
			k, ok := kernels[radius]
			if !ok {
				k = GaussianKernel(2*radius+1, 2*radius+1, blurSpread)
				kernels[radius] = k
			}
			x0, y0 := x-radius, y-radius
			mask := MaskFunc(func(row, col int) bool {
				d := buf.Depth(x0+col, y0+row)
				if d <= 0 {
					// blends with the background
					return false
				}
				return math.Abs(depth-d) > similarity
			})
			if c, ok := buf.Convolute(x0, y0, k, mask); ok {
				out.SetColor(x, y, c)
			}
		}
		if progress != nil {
			progress(float64(y+1) / float64(buf.height))
		}
	}
	return out
}
