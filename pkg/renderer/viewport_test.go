package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

func TestImageViewPort_PaintAndClear(t *testing.T) {
	vp := NewImageViewPort(4, 4, core.Black)
	vp.PaintPixel(1, 2, red)
	vp.PaintPixel(9, 9, red) // outside, ignored

	img := vp.Image()
	assert.Equal(t, red.NRGBA(), img.NRGBAAt(1, 2))
	assert.Equal(t, core.Black.NRGBA(), img.NRGBAAt(2, 1))

	img.SetNRGBA(0, 0, red.NRGBA())
	assert.Equal(t, core.Black.NRGBA(), vp.Image().NRGBAAt(0, 0), "Image returns a copy")

	vp.Clear()
	assert.Equal(t, core.Black.NRGBA(), vp.Image().NRGBAAt(1, 2))
}

func TestImageViewPort_Snapshot(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		want  image.Rectangle
	}{
		{"same size", 1, image.Rect(0, 0, 8, 4)},
		{"half", 0.5, image.Rect(0, 0, 4, 2)},
		{"double", 2, image.Rect(0, 0, 16, 8)},
		{"tiny", 0.01, image.Rect(0, 0, 1, 1)},
	}
	vp := NewImageViewPort(8, 4, red)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := vp.Snapshot(tt.scale)
			assert.Equal(t, tt.want, snap.Bounds())
			// a uniform image stays uniform at any size, up to filter rounding
			for _, c := range []color.NRGBA{snap.NRGBAAt(0, 0), snap.NRGBAAt(tt.want.Dx()-1, tt.want.Dy()-1)} {
				assert.InDelta(t, 255, int(c.R), 1)
				assert.InDelta(t, 0, int(c.G), 1)
				assert.InDelta(t, 255, int(c.A), 1)
			}
		})
	}
}

func TestImageViewPort_SnapshotAveragesWhenShrinking(t *testing.T) {
	vp := NewImageViewPort(2, 1, core.Black)
	vp.PaintPixel(0, 0, core.White)

	c := vp.Snapshot(0.5).NRGBAAt(0, 0)
	assert.Greater(t, c.R, uint8(0))
	assert.Less(t, c.R, uint8(255))
}
