package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

// NewMesh creates a composite of convex faces. Each face lists vertex
// indices in order; its front side is where (v1-v0)x(v2-v0) points.
func NewMesh(vertices []core.Vec3, faces [][]int, color core.Color, shading geometry.ShadingModel) (*geometry.Composite, error) {
	mesh := geometry.NewComposite()
	for i, face := range faces {
		points := make([]core.Vec3, len(face))
		for j, v := range face {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range: %w", i, v, core.ErrDegenerate)
			}
			points[j] = vertices[v]
		}
		p, err := geometry.NewFace(color, shading, points...)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		mesh.Add(p)
	}
	return mesh, nil
}

// NewBox creates an axis-aligned box centered at center with outward faces
func NewBox(center, size core.Vec3, color core.Color, shading geometry.ShadingModel) (*geometry.Composite, error) {
	h := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-h.X, -h.Y, -h.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+h.X, -h.Y, -h.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+h.X, +h.Y, -h.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-h.X, +h.Y, -h.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-h.X, -h.Y, +h.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+h.X, -h.Y, +h.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+h.X, +h.Y, +h.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-h.X, +h.Y, +h.Z)), // 7: left-top-front
	}
	faces := [][]int{
		{0, 3, 2, 1}, // back (Z-)
		{4, 5, 6, 7}, // front (Z+)
		{0, 4, 7, 3}, // left (X-)
		{1, 2, 6, 5}, // right (X+)
		{0, 1, 5, 4}, // bottom (Y-)
		{3, 7, 6, 2}, // top (Y+)
	}
	return NewMesh(vertices, faces, color, shading)
}

// NewPyramid creates a square-based pyramid standing on its base
func NewPyramid(center core.Vec3, baseSize, height float64, color core.Color, shading geometry.ShadingModel) (*geometry.Composite, error) {
	b, h := baseSize/2, height/2
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-b, -h, -b)), // 0: left-back
		center.Add(core.NewVec3(+b, -h, -b)), // 1: right-back
		center.Add(core.NewVec3(+b, -h, +b)), // 2: right-front
		center.Add(core.NewVec3(-b, -h, +b)), // 3: left-front
		center.Add(core.NewVec3(0, +h, 0)),   // 4: apex
	}
	faces := [][]int{
		{0, 1, 2, 3},
		{1, 0, 4},
		{2, 1, 4},
		{3, 2, 4},
		{0, 3, 4},
	}
	return NewMesh(vertices, faces, color, shading)
}

// NewIcosahedron creates a regular 20-sided solid of the given circumradius
func NewIcosahedron(center core.Vec3, radius float64, color core.Color, shading geometry.ShadingModel) (*geometry.Composite, error) {
	phi := (1 + math.Sqrt(5)) / 2
	scale := radius / math.Sqrt(1+phi*phi)
	corners := []core.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	vertices := make([]core.Vec3, len(corners))
	for i, c := range corners {
		vertices[i] = center.Add(c.Multiply(scale))
	}
	faces := [][]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return NewMesh(vertices, faces, color, shading)
}

// NewGroundQuad creates a horizontal square centered at center facing up
func NewGroundQuad(center core.Vec3, size float64, color core.Color, shading geometry.ShadingModel) (*geometry.Polygon, error) {
	s := size / 2
	return geometry.NewFace(color, shading,
		center.Add(core.NewVec3(-s, 0, -s)),
		center.Add(core.NewVec3(-s, 0, s)),
		center.Add(core.NewVec3(s, 0, s)),
		center.Add(core.NewVec3(s, 0, -s)),
	)
}
