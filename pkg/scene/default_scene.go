package scene

import (
	"image"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/raster"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// BuildOptions are what a scene builder needs to know about the render
type BuildOptions struct {
	Width  int
	Height int
	// TexturePath is an optional image for scenes that show a picture
	TexturePath string
}

func (o BuildOptions) aspect() float64 {
	if o.Width <= 0 || o.Height <= 0 {
		return 16.0 / 9.0
	}
	return float64(o.Width) / float64(o.Height)
}

func newCamera(position, target core.Vec3, angle, aspect, near, far float64) (*camera.Camera, error) {
	vv, err := camera.NewPerspectiveViewVolume(angle, aspect, near, far)
	if err != nil {
		return nil, err
	}
	return camera.New(position, target, core.NewVec3(0, 1, 0), vv), nil
}

// NewDefaultScene creates a checkered floor with a few solids under a
// point light, in front of a sky backdrop
func NewDefaultScene(opts BuildOptions) (*Scene, error) {
	cam, err := newCamera(core.NewVec3(0, 3, 9), core.NewVec3(0, 0.8, 0), 40, opts.aspect(), 1, 60)
	if err != nil {
		return nil, err
	}
	s, err := New("default", cam)
	if err != nil {
		return nil, err
	}
	flat := shading.NewFlatModel()

	floor := geometry.NewTexturedPolygon(core.White, flat, core.NewRect2D(0, 0, 12, 12), geometry.TextureMaps{
		Picture: material.NewChecker(1, core.NewColor(0.9, 0.9, 0.88), core.NewColor(0.25, 0.3, 0.35)),
	})
	floor.Scale(6, 1, 6)
	s.AddObject(floor)

	box, err := NewBox(core.Vec3{}, core.NewVec3(1.5, 1.5, 1.5), core.NewColor(0.65, 0.25, 0.2), flat)
	if err != nil {
		return nil, err
	}
	box.RotateY(math.Pi / 7)
	box.Translate(-2.2, 0.75, 0)

	pyramid, err := NewPyramid(core.Vec3{}, 1.6, 1.8, core.NewColor(0.85, 0.7, 0.2), flat)
	if err != nil {
		return nil, err
	}
	pyramid.RotateY(math.Pi / 5)
	pyramid.Translate(0, 0.9, -1.2)

	ico, err := NewIcosahedron(core.Vec3{}, 0.9, core.NewColor(0.2, 0.45, 0.75), flat)
	if err != nil {
		return nil, err
	}
	ico.Translate(2.2, 0.9, 0.4)
	s.AddObjects(box, pyramid, ico)

	s.AddLight(lights.NewAmbientLight(0.2))
	s.AddLight(lights.NewPointLight(core.NewVec3(-4, 8, 6), 0.9))

	s.Params.AmbientColor = core.NewColor(0.55, 0.7, 0.95)
	s.Params.Shadows = true
	if opts.Width > 0 && opts.Height > 0 {
		s.Backdrop = raster.NewBackdropFromImage(skyGradient(), opts.Width, opts.Height, 50)
		s.Params.BackdropEnabled = true
	}
	return s, nil
}

// skyGradient is a small vertical gradient scaled to the render size by the backdrop
func skyGradient() image.Image {
	const rows = 64
	img := image.NewRGBA(image.Rect(0, 0, 2, rows))
	top := core.NewColor(0.3, 0.5, 0.9)
	horizon := core.NewColor(0.95, 0.95, 1)
	for y := 0; y < rows; y++ {
		c := top.Interpolate(horizon, float64(y)/(rows-1)).NRGBA()
		img.Set(0, y, c)
		img.Set(1, y, c)
	}
	return img
}
