package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
	"github.com/df07/go-scanline-raytracer/pkg/loaders"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// NewTextureScene creates a row of textured panels demonstrating picture
// mapping, masks, luminance and transparency. With a texture path the
// first panel shows that image, otherwise a checkerboard.
func NewTextureScene(opts BuildOptions) (*Scene, error) {
	cam, err := newCamera(core.NewVec3(0, 2, 10), core.NewVec3(0, 1, 0), 50, opts.aspect(), 1, 50)
	if err != nil {
		return nil, err
	}
	s, err := New("textures", cam)
	if err != nil {
		return nil, err
	}
	flat := shading.NewFlatModel()

	checker := material.NewChecker(32, core.NewColor(0.9, 0.9, 0.9), core.NewColor(0.2, 0.2, 0.8))
	var picture geometry.TextureMap = checker
	region := core.NewRect2D(0, 0, 256, 256)
	if opts.TexturePath != "" {
		tex, err := loaders.LoadTexture(opts.TexturePath)
		if err != nil {
			return nil, fmt.Errorf("texture scene: %w", err)
		}
		picture = tex
		region = core.NewRect2D(0, 0, float64(tex.Width), float64(tex.Height))
	}

	panels := []geometry.TextureMaps{
		{Picture: picture},
		{
			Picture: material.NewChecker(16, core.NewColor(0.7, 0.3, 0.1), core.NewColor(0.5, 0.2, 0.05)),
			Mask:    material.CircleMask{Center: core.NewVec2(128, 128), Radius: 120},
		},
		{
			Picture:   checker,
			Luminance: material.NewChecker(64, core.NewColor(0.8, 0.8, 0.8), core.NewColor(0.3, 0.3, 0.3)),
		},
		{
			Picture:      material.NewChecker(32, core.NewColor(0.2, 0.7, 0.3), core.NewColor(0.9, 0.9, 0.2)),
			Transparency: material.NewUniformValue(0.5),
			Mask:         material.RectMask{Visible: core.NewRect2D(16, 16, 240, 240)},
		},
	}
	for i, maps := range panels {
		r := region
		if i > 0 {
			r = core.NewRect2D(0, 0, 256, 256)
		}
		panel := geometry.NewTexturedPolygon(core.White, flat, r, maps)
		// stand the panel up facing the camera
		panel.RotateX(math.Pi / 2)
		panel.Scale(1.2, 1.2, 1)
		panel.RotateY(float64(i-1) * -0.15)
		panel.Translate(float64(i)*2.8-4.2, 1.4, float64(i%2)*-0.8)
		s.AddObject(panel)
	}

	floor, err := NewGroundQuad(core.Vec3{}, 20, core.NewColor(0.6, 0.6, 0.6), flat)
	if err != nil {
		return nil, err
	}
	s.AddObject(floor)

	s.AddLight(lights.NewAmbientLight(0.3))
	s.AddLight(lights.NewHeadLight(core.NewVec3(0, 1, 0), 0.7))

	s.Params.AmbientColor = core.NewColor(0.95, 0.95, 0.95)
	return s, nil
}
