package scene

import (
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// NewCornellScene creates the classic Cornell box: an open-fronted room
// with red and green side walls, two blocks and a light under the ceiling.
// Shadows are on.
func NewCornellScene(opts BuildOptions) (*Scene, error) {
	const boxSize = 555.0
	cam, err := newCamera(core.NewVec3(278, 278, -800), core.NewVec3(278, 278, 0), 40, opts.aspect(), 10, 2000)
	if err != nil {
		return nil, err
	}
	s, err := New("cornell", cam)
	if err != nil {
		return nil, err
	}
	flat := shading.NewFlatModel()

	white := core.NewColor(0.73, 0.73, 0.73)
	red := core.NewColor(0.65, 0.05, 0.05)
	green := core.NewColor(0.12, 0.45, 0.15)

	corner := func(x, y, z float64) core.Vec3 { return core.NewVec3(x*boxSize, y*boxSize, z*boxSize) }
	walls := []struct {
		color    core.Color
		vertices []core.Vec3
	}{
		{white, []core.Vec3{corner(0, 0, 0), corner(0, 0, 1), corner(1, 0, 1), corner(1, 0, 0)}}, // floor
		{white, []core.Vec3{corner(0, 1, 0), corner(1, 1, 0), corner(1, 1, 1), corner(0, 1, 1)}}, // ceiling
		{white, []core.Vec3{corner(0, 0, 1), corner(0, 1, 1), corner(1, 1, 1), corner(1, 0, 1)}}, // back
		{red, []core.Vec3{corner(0, 0, 0), corner(0, 1, 0), corner(0, 1, 1), corner(0, 0, 1)}},   // left
		{green, []core.Vec3{corner(1, 0, 0), corner(1, 0, 1), corner(1, 1, 1), corner(1, 1, 0)}}, // right
	}
	room := geometry.NewComposite()
	for _, w := range walls {
		face, err := geometry.NewFace(w.color, flat, w.vertices...)
		if err != nil {
			return nil, err
		}
		room.Add(face)
	}
	s.AddObject(room)

	tall, err := NewBox(core.Vec3{}, core.NewVec3(165, 330, 165), white, flat)
	if err != nil {
		return nil, err
	}
	tall.RotateY(0.3)
	tall.Translate(185, 165, 351)

	short, err := NewBox(core.Vec3{}, core.NewVec3(165, 165, 165), white, flat)
	if err != nil {
		return nil, err
	}
	short.RotateY(-0.3)
	short.Translate(370, 82.5, 169)
	s.AddObjects(tall, short)

	s.AddLight(lights.NewAmbientLight(0.25))
	s.AddLight(lights.NewPointLight(core.NewVec3(278, boxSize-20, 278), 0.8))

	s.Params.AmbientColor = core.Black
	s.Params.Shadows = true
	return s, nil
}
