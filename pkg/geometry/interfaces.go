package geometry

import (
	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Frame selects the coordinate system a cached quantity is expressed in
type Frame int

const (
	FrameObject Frame = iota // the object's own coordinates
	FrameWorld               // after the object-to-root transform
	FrameCamera              // after the camera's viewing transform
)

func (f Frame) String() string {
	switch f {
	case FrameObject:
		return "object"
	case FrameWorld:
		return "world"
	case FrameCamera:
		return "camera"
	}
	return "unknown"
}

// Bounded objects report an axis-aligned box per frame.
// Unbounded objects return false from IsBounded and their box is meaningless.
type Bounded interface {
	IsBounded() bool
	BoundingBox(frame Frame, cam *camera.Camera) core.AABB
}

// Transformable objects carry their own transform stack
type Transformable interface {
	Transform(m core.Matrix4)
	UndoLastTransform()
	UndoTransformsFrom(step int) error
	ReplaceTransformAt(step int, m core.Matrix4) error
	ResetTransforms()
	CurrentTransformStep() int
	// ObjectToRoot maps object coordinates to world coordinates, with its inverse
	ObjectToRoot() core.Transform
	NotifySelfHasTransformed()
	NotifyAncestorHasTransformed()
}

// Object is a node of the scene tree
type Object interface {
	Bounded
	Transformable
	camera.Observer
	Parent() *Composite
	base() *Node
}

// Raytraceable objects intersect camera-space rays. Hits are appended to
// hits and the extended slice is returned.
type Raytraceable interface {
	Bounded
	// IntersectEyeRay colors and, when lighting is non-nil, shades each hit
	IntersectEyeRay(ray core.Segment, cam *camera.Camera, lighting Lighting, hits []SurfacePoint) []SurfacePoint
	// IntersectLightRay reports hits with their unshaded color, for translucency
	IntersectLightRay(ray core.Segment, cam *camera.Camera, hits []SurfacePoint) []SurfacePoint
}

// Preparer objects materialise their camera-frame caches ahead of a
// concurrent render, after which intersection performs no writes
type Preparer interface {
	Prepare(cam *camera.Camera)
}

// MeshObject exposes vertices and edges per frame
type MeshObject interface {
	Mesh(frame Frame, cam *camera.Camera) Mesh
}

// Mesh is a vertex list with index pairs for edges
type Mesh struct {
	Vertices []core.Vec3
	Edges    [][2]int
}

// SurfacePoint is a ray hit in camera coordinates
type SurfacePoint struct {
	Object   Raytraceable
	Position core.Vec3
	Color    core.Color
}

// Depth is the distance from the view plane direction, positive in front of the eye
func (sp SurfacePoint) Depth() float64 {
	return -sp.Position.Z
}

// ShadingModel adjusts the color of a surface point for scene lighting
type ShadingModel interface {
	ApplyShading(sp *SurfacePoint, normal core.Vec3, lighting Lighting)
}

// Lighting answers brightness queries for a surface point. It is owned by
// one render worker and may keep per-worker state.
type Lighting interface {
	// BrightnessFactor combines every light into a factor in [-1, 1]
	BrightnessFactor(sp *SurfacePoint, normal core.Vec3, reflection, gloss float64) float64
	// DarknessAtDepth returns a darkening factor in [-1, 0] for a depth, 0 when disabled
	DarknessAtDepth(depth float64) float64
}
