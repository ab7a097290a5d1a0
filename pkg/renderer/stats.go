package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/index"
	"github.com/df07/go-scanline-raytracer/pkg/raster"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// Result contains the full-resolution raster of a finished render and
// statistics about how it was produced
type Result struct {
	Raster         *raster.Buffer // supersampled colors and depths, after depth blur
	Duration       time.Duration
	Metrics        shading.Metrics
	ViewPlaneStats index.BinStatistics
	SpatialStats   *index.BinStatistics // nil without shadows
}

// String summarises the render for log lines
func (r *Result) String() string {
	return fmt.Sprintf("%dx%d samples in %v, %s", r.Raster.Width(), r.Raster.Height(),
		r.Duration.Round(time.Millisecond), r.Metrics.String())
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var total float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bl)) / 0xffff
		}
	}
	return total / float64(b.Dx()*b.Dy())
}
