package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// surface supplies the per-point coloring hooks of a polygon
type surface interface {
	baseColor(p core.Vec3, cam *camera.Camera, front bool) core.Color
	includes(p core.Vec3, cam *camera.Camera) bool
	afterShading(sp *SurfacePoint, cam *camera.Camera)
	finish(sp *SurfacePoint, cam *camera.Camera)
}

// Polygon is a flat convex face with a front and back color. The front
// side is the one the normal (v1-v0)x(v2-v0) points to.
type Polygon struct {
	Node
	FrontColor core.Color
	BackColor  core.Color
	Shading    ShadingModel

	vertices []core.Vec3
	surface  surface

	worldVertices  []core.Vec3
	cameraVertices []core.Vec3
	cameraPlane    *core.Plane
	projection     *projection
}

// NewPolygon creates a convex face from at least three vertices in object
// coordinates. The first three must not be collinear.
func NewPolygon(front, back core.Color, shading ShadingModel, vertices ...core.Vec3) (*Polygon, error) {
	p := &Polygon{}
	if err := p.setup(p, front, back, shading, vertices); err != nil {
		return nil, err
	}
	return p, nil
}

// NewFace creates a polygon with the same color on both sides
func NewFace(color core.Color, shading ShadingModel, vertices ...core.Vec3) (*Polygon, error) {
	return NewPolygon(color, color, shading, vertices...)
}

func (p *Polygon) setup(self Object, front, back core.Color, shading ShadingModel, vertices []core.Vec3) error {
	if len(vertices) < 3 {
		return fmt.Errorf("polygon needs at least 3 vertices, got %d: %w", len(vertices), core.ErrDegenerate)
	}
	if _, err := core.NewPlane(vertices[0], vertices[1], vertices[2]); err != nil {
		return fmt.Errorf("polygon: %w", err)
	}
	p.init(self)
	p.FrontColor = front
	p.BackColor = back
	p.Shading = shading
	p.vertices = append([]core.Vec3(nil), vertices...)
	p.surface = p
	return nil
}

// IsBounded is always true for a polygon
func (p *Polygon) IsBounded() bool { return true }

// Vertices returns the polygon's corners in the given frame
func (p *Polygon) Vertices(frame Frame, cam *camera.Camera) []core.Vec3 {
	switch frame {
	case FrameObject:
		return p.vertices
	case FrameWorld:
		if p.worldVertices == nil {
			p.worldVertices = p.ObjectToRoot().Forward.TransformPoints(p.vertices)
		}
		return p.worldVertices
	default:
		if p.cameraVertices == nil {
			p.cameraVertices = cam.ViewingMatrix().TransformPoints(p.Vertices(FrameWorld, cam))
		}
		return p.cameraVertices
	}
}

// BoundingBox bounds the vertices in the given frame
func (p *Polygon) BoundingBox(frame Frame, cam *camera.Camera) core.AABB {
	return p.cachedBox(frame, func() core.AABB {
		return core.NewAABBFromPoints(p.Vertices(frame, cam)...)
	})
}

// Mesh returns the vertex ring with its closing edge
func (p *Polygon) Mesh(frame Frame, cam *camera.Camera) Mesh {
	verts := p.Vertices(frame, cam)
	edges := make([][2]int, len(verts))
	for i := range verts {
		edges[i] = [2]int{i, (i + 1) % len(verts)}
	}
	return Mesh{Vertices: verts, Edges: edges}
}

// Plane returns the supporting plane in camera coordinates
func (p *Polygon) Plane(cam *camera.Camera) core.Plane {
	if p.cameraPlane == nil {
		v := p.Vertices(FrameCamera, cam)
		plane, err := core.NewPlane(v[0], v[1], v[2])
		if err != nil {
			// a singular transform flattened the face; it cannot be hit
			plane = core.Plane{Point: v[0]}
		}
		p.cameraPlane = &plane
	}
	return *p.cameraPlane
}

func (p *Polygon) projected(cam *camera.Camera) *projection {
	if p.projection == nil {
		p.projection = newProjection(p.Plane(cam).Normal, p.Vertices(FrameCamera, cam))
	}
	return p.projection
}

// hit finds where ray crosses the face, in camera coordinates
func (p *Polygon) hit(ray core.Segment, cam *camera.Camera) (core.Vec3, core.Plane, bool) {
	plane := p.Plane(cam)
	if plane.Normal == (core.Vec3{}) {
		return core.Vec3{}, plane, false
	}
	point, ok := ray.IntersectPlane(plane)
	if !ok {
		return core.Vec3{}, plane, false
	}
	// cheap rejection; a face lying in an axis plane has a flat box
	if !p.BoundingBox(FrameCamera, cam).Expand(core.ApproximateZero).Contains(point) {
		return core.Vec3{}, plane, false
	}
	if !p.projected(cam).contains(point) {
		return core.Vec3{}, plane, false
	}
	if !p.surface.includes(point, cam) {
		return core.Vec3{}, plane, false
	}
	return point, plane, true
}

// IntersectEyeRay appends the hit, colored and shaded, if ray crosses the face
func (p *Polygon) IntersectEyeRay(ray core.Segment, cam *camera.Camera, lighting Lighting, hits []SurfacePoint) []SurfacePoint {
	point, plane, ok := p.hit(ray, cam)
	if !ok {
		return hits
	}
	front := ray.Direction().Dot(plane.Normal) < 0
	sp := SurfacePoint{
		Object:   p.self.(Raytraceable),
		Position: point,
		Color:    p.surface.baseColor(point, cam, front),
	}
	if lighting != nil {
		if p.Shading != nil {
			p.Shading.ApplyShading(&sp, plane.Normal, lighting)
		}
		p.surface.afterShading(&sp, cam)
	}
	p.surface.finish(&sp, cam)
	return append(hits, sp)
}

// IntersectLightRay appends the unshaded hit if ray crosses the face
func (p *Polygon) IntersectLightRay(ray core.Segment, cam *camera.Camera, hits []SurfacePoint) []SurfacePoint {
	point, plane, ok := p.hit(ray, cam)
	if !ok {
		return hits
	}
	front := ray.Direction().Dot(plane.Normal) < 0
	sp := SurfacePoint{
		Object:   p.self.(Raytraceable),
		Position: point,
		Color:    p.surface.baseColor(point, cam, front),
	}
	p.surface.finish(&sp, cam)
	return append(hits, sp)
}

func (p *Polygon) baseColor(_ core.Vec3, _ *camera.Camera, front bool) core.Color {
	if front {
		return p.FrontColor
	}
	return p.BackColor
}

func (p *Polygon) includes(core.Vec3, *camera.Camera) bool  { return true }
func (p *Polygon) afterShading(*SurfacePoint, *camera.Camera) {}
func (p *Polygon) finish(*SurfacePoint, *camera.Camera)       {}

// Prepare computes every cache intersection relies on
func (p *Polygon) Prepare(cam *camera.Camera) {
	for _, f := range []Frame{FrameObject, FrameWorld, FrameCamera} {
		p.BoundingBox(f, cam)
	}
	p.projected(cam)
	p.ObjectToRoot()
}

func (p *Polygon) NotifySelfHasTransformed() {
	p.Node.NotifySelfHasTransformed()
	p.invalidateGeometry()
}

func (p *Polygon) NotifyAncestorHasTransformed() {
	p.Node.NotifyAncestorHasTransformed()
	p.invalidateGeometry()
}

func (p *Polygon) CameraHasChanged(cam *camera.Camera) {
	p.Node.CameraHasChanged(cam)
	p.invalidateCameraGeometry()
}

func (p *Polygon) invalidateGeometry() {
	p.worldVertices = nil
	p.invalidateCameraGeometry()
}

func (p *Polygon) invalidateCameraGeometry() {
	p.cameraVertices = nil
	p.cameraPlane = nil
	p.projection = nil
}

// projection flattens a planar polygon onto the coordinate plane it faces most
type projection struct {
	project func(core.Vec3) core.Vec2
	polygon core.Polygon2D
}

func newProjection(normal core.Vec3, vertices []core.Vec3) *projection {
	var project func(core.Vec3) core.Vec2
	lat := normal.Latitude()
	lon := normal.Longitude()
	switch {
	case math.Abs(lat) >= math.Pi/4:
		project = func(v core.Vec3) core.Vec2 { return core.Vec2{X: v.X, Y: v.Z} }
	case math.Abs(lon-math.Pi/2) <= math.Pi/4 || math.Abs(lon-3*math.Pi/2) <= math.Pi/4:
		project = func(v core.Vec3) core.Vec2 { return core.Vec2{X: v.X, Y: v.Y} }
	default:
		project = func(v core.Vec3) core.Vec2 { return core.Vec2{X: -v.Z, Y: v.Y} }
	}
	poly := make(core.Polygon2D, len(vertices))
	for i, v := range vertices {
		poly[i] = project(v)
	}
	return &projection{project: project, polygon: poly}
}

func (pr *projection) contains(p core.Vec3) bool {
	return pr.polygon.Contains(pr.project(p))
}
