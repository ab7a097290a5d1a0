package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/index"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
	"github.com/df07/go-scanline-raytracer/pkg/raster"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// ErrNoCamera is returned when a scene is created without a camera
var ErrNoCamera = errors.New("a scene must have a camera")

// RenderParameters are the scene's settings for realistic rendering
type RenderParameters struct {
	// AmbientColor fills every raster cell no surface covers
	AmbientColor    core.Color
	Shadows         bool
	BackdropEnabled bool
	// Darkness darkens shaded surfaces by depth; nil disables it
	Darkness raster.DepthFunction
	// DepthBlur is the blur this scene looks best with, used when a
	// renderer enables depth blur without parameters of its own
	DepthBlur raster.BlurParameters
	// Threads is the number of raster workers, at least 1
	Threads int
}

// DefaultRenderParameters return a white background, no shadows and one thread
func DefaultRenderParameters() RenderParameters {
	return RenderParameters{
		AmbientColor: core.White,
		DepthBlur:    raster.DefaultBlurParameters(),
		Threads:      1,
	}
}

// SafeThreads is Threads clamped to at least one worker
func (p RenderParameters) SafeThreads() int {
	return max(1, p.Threads)
}

// Scene contains all the elements needed for rendering: a camera, a forest
// of objects and the lights. It keeps derived state (bounding boxes, the
// spatial indices) and discards it whenever the objects or the camera
// change. A scene must not be modified while it is being rendered.
type Scene struct {
	Name     string
	Params   RenderParameters
	Backdrop *raster.Buffer // color and depth per output pixel, may be nil

	IndexOptions index.Options
	Logger       *slog.Logger

	camera  *camera.Camera
	objects []geometry.Object
	lights  []lights.Light

	boxes           [3]*core.AABB
	distanceOutside float64 // negative when stale

	spatial       *index.Index
	viewPlane     *index.ViewPlaneIndex
	viewPlaneOpts index.ViewPlaneOptions
}

// New creates an empty scene observing cam
func New(name string, cam *camera.Camera) (*Scene, error) {
	if cam == nil {
		return nil, fmt.Errorf("scene %q: %w", name, ErrNoCamera)
	}
	s := &Scene{
		Name:            name,
		Params:          DefaultRenderParameters(),
		IndexOptions:    index.DefaultOptions(),
		Logger:          slog.Default(),
		distanceOutside: -1,
	}
	s.ChangeCamera(cam)
	return s, nil
}

// Camera returns the scene's main camera
func (s *Scene) Camera() *camera.Camera { return s.camera }

// Objects returns the top-level objects; the slice must not be modified
func (s *Scene) Objects() []geometry.Object { return s.objects }

// Lights returns the light sources; the slice must not be modified
func (s *Scene) Lights() []lights.Light { return s.lights }

// LeafObjects returns every raytraceable primitive in the scene
func (s *Scene) LeafObjects() []geometry.Raytraceable {
	return geometry.LeafObjects(s.objects)
}

// AddObject adds a top-level object. Later transforms anywhere in its
// subtree invalidate the scene's boxes and indices.
func (s *Scene) AddObject(o geometry.Object) {
	s.invalidateBoxes()
	s.invalidateIndices()
	s.objects = append(s.objects, o)
	geometry.SetChangeListener(o, s.objectsHaveChanged)
	o.CameraHasChanged(s.camera)
}

// AddObjects adds several top-level objects
func (s *Scene) AddObjects(objects ...geometry.Object) {
	for _, o := range objects {
		s.AddObject(o)
	}
}

// AddLight adds a light source and brings it up to date with the camera
func (s *Scene) AddLight(l lights.Light) {
	s.lights = append(s.lights, l)
	l.CameraHasChanged(s.camera)
}

// ChangeCamera makes cam the main camera
func (s *Scene) ChangeCamera(cam *camera.Camera) {
	if s.camera != nil {
		s.camera.RemoveObserver(s)
	}
	cam.AddObserver(s)
	s.camera = cam
	s.CameraHasChanged(cam)
}

// CameraHasChanged forwards the change to every object and light
func (s *Scene) CameraHasChanged(cam *camera.Camera) {
	s.boxes[geometry.FrameCamera] = nil
	s.invalidateIndices()
	for _, o := range s.objects {
		o.CameraHasChanged(cam)
	}
	for _, l := range s.lights {
		l.CameraHasChanged(cam)
	}
}

func (s *Scene) objectsHaveChanged() {
	s.invalidateBoxes()
	s.invalidateIndices()
}

func (s *Scene) invalidateBoxes() {
	s.boxes = [3]*core.AABB{}
	s.distanceOutside = -1
}

func (s *Scene) invalidateIndices() {
	s.spatial = nil
	s.viewPlane = nil
}

// BoundingBox is the union of the bounded top-level objects' boxes. The
// object frame of a scene is the world frame. The result is not valid
// (see core.AABB.IsValid) when nothing is bounded.
func (s *Scene) BoundingBox(frame geometry.Frame) core.AABB {
	if frame == geometry.FrameObject {
		frame = geometry.FrameWorld
	}
	if b := s.boxes[frame]; b != nil {
		return *b
	}
	box := core.EmptyAABB()
	for _, o := range s.objects {
		if o.IsBounded() {
			box = box.Union(o.BoundingBox(frame, s.camera))
		}
	}
	s.boxes[frame] = &box
	return box
}

// DistanceOutside is long enough to leave the scene from any point in it
func (s *Scene) DistanceOutside() float64 {
	if s.distanceOutside < 0 {
		box := s.BoundingBox(geometry.FrameWorld)
		if box.IsValid() {
			s.distanceOutside = 2 * max(box.Width(), box.Height(), box.Depth())
		} else {
			s.distanceOutside = 0
		}
	}
	return s.distanceOutside
}

// SpatialIndex returns the 3D index of the scene's primitives in camera
// coordinates, building it on first use after a change
func (s *Scene) SpatialIndex() *index.Index {
	if s.spatial == nil {
		opts := s.IndexOptions
		if opts.Logger == nil {
			opts.Logger = s.Logger
		}
		s.spatial = index.New(s.LeafObjects(), s.camera, opts)
	}
	return s.spatial
}

// ViewPlaneIndex returns the 2D index of the scene's primitives on the
// view plane. It is rebuilt when opts differ from the cached index's.
func (s *Scene) ViewPlaneIndex(opts index.ViewPlaneOptions) *index.ViewPlaneIndex {
	if opts.Logger == nil {
		opts.Logger = s.Logger
	}
	if s.viewPlane == nil || s.viewPlaneOpts != opts {
		s.viewPlane = index.NewViewPlaneIndex(s.LeafObjects(), s.camera, opts)
		s.viewPlaneOpts = opts
	}
	return s.viewPlane
}

// Prepare brings every camera-dependent cache up to date so that
// rendering workers only read shared state
func (s *Scene) Prepare() {
	for _, o := range s.objects {
		if p, ok := o.(geometry.Preparer); ok {
			p.Prepare(s.camera)
		}
	}
	s.BoundingBox(geometry.FrameWorld)
	s.BoundingBox(geometry.FrameCamera)
	s.DistanceOutside()
}

// ShadingEnvironment assembles the lighting state for a render of this
// scene. The spatial index is built only when shadows need it.
func (s *Scene) ShadingEnvironment() *shading.Environment {
	env := &shading.Environment{
		Camera:          s.camera,
		Lights:          s.lights,
		Shadows:         s.Params.Shadows,
		DistanceOutside: s.DistanceOutside(),
		Darkness:        s.Params.Darkness,
	}
	if s.Params.Shadows {
		env.Index = s.SpatialIndex()
	}
	return env
}

// String summarises the scene for logs
func (s *Scene) String() string {
	p := s.camera.Position()
	return fmt.Sprintf("scene %q: %d top-level objects, %d lights, camera at (%.2f, %.2f, %.2f)",
		s.Name, len(s.objects), len(s.lights), p.X, p.Y, p.Z)
}

// LogValue implements slog.LogValuer
func (s *Scene) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", s.Name),
		slog.Int("objects", len(s.objects)),
		slog.Int("leaves", len(s.LeafObjects())),
		slog.Int("lights", len(s.lights)),
		slog.Any("camera", s.camera.Position()),
	)
}
