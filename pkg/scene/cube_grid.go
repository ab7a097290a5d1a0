package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
	"github.com/df07/go-scanline-raytracer/pkg/raster"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// DefaultGridSize is the number of cubes along each side of the grid scene
const DefaultGridSize = 20

// NewCubeGridScene creates a gridSize x gridSize field of small cubes
// receding from the camera, lit by a sun and darkened with depth. It has
// enough primitives to make the spatial indices matter and suits depth blur.
func NewCubeGridScene(opts BuildOptions, gridSize int) (*Scene, error) {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	cam, err := newCamera(core.NewVec3(4.5, 6, 18), core.NewVec3(4.5, 0.8, 4.5), 40, opts.aspect(), 1, 100)
	if err != nil {
		return nil, err
	}
	s, err := New("cubegrid", cam)
	if err != nil {
		return nil, err
	}
	flat := shading.NewFlatModel()

	ground, err := NewGroundQuad(core.NewVec3(4.5, 0, 4.5), 30, core.NewColor(0.5, 0.5, 0.5), flat)
	if err != nil {
		return nil, err
	}
	s.AddObject(ground)

	// fit the grid in a 9x9 area whatever its size
	const targetArea = 9.0
	spacing := targetArea / float64(max(1, gridSize-1))
	side := min(0.7, max(0.04, spacing*0.6))

	grid := geometry.NewComposite()
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			hue := 360 * float64(i*gridSize+j) / float64(gridSize*gridSize)
			c := colorful.Hcl(hue, 0.5, 0.65).Clamped()
			cube, err := NewBox(core.Vec3{}, core.NewVec3(side, side, side), core.NewColor(c.R, c.G, c.B), flat)
			if err != nil {
				return nil, err
			}
			cube.RotateY(float64(i+j) * 0.15)
			cube.Translate(float64(i)*spacing, side/2, float64(j)*spacing)
			grid.Add(cube)
		}
	}
	s.AddObject(grid)

	s.AddLight(lights.NewAmbientLight(0.15))
	s.AddLight(lights.NewDirectionalLight(core.NewVec3(-0.5, -1, -0.4), 0.85))

	s.Params.AmbientColor = core.NewColor(0.5, 0.7, 1)
	s.Params.Shadows = true

	box := s.BoundingBox(geometry.FrameCamera)
	s.Params.Darkness = raster.ScaledDepthFunction{
		Func:   raster.NewSigmoidDepthFunction(-box.Max.Z, -box.Min.Z, 0.7, 0.15),
		Factor: 0.6,
	}
	s.Params.DepthBlur = raster.BlurParameters{
		RelativeInflectionDepth:    0.6,
		Smoothness:                 0.1,
		MaxBlurPixelRadius:         3,
		MaxRelativeDepthSimilarity: 0.05,
	}
	return s, nil
}
