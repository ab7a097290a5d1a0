package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/index"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
)

func testCamera(t *testing.T) *camera.Camera {
	t.Helper()
	vv, err := camera.NewPerspectiveViewVolume(45, 1, 1, 100)
	require.NoError(t, err)
	return camera.New(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0), vv)
}

func testScene(t *testing.T) (*Scene, *geometry.Composite) {
	t.Helper()
	s, err := New("test", testCamera(t))
	require.NoError(t, err)
	box, err := NewBox(core.NewVec3(0, 0, -10), core.NewVec3(2, 4, 6), core.White, nil)
	require.NoError(t, err)
	s.AddObject(box)
	return s, box
}

func TestNew_RequiresCamera(t *testing.T) {
	_, err := New("empty", nil)
	assert.ErrorIs(t, err, ErrNoCamera)
}

func TestScene_BoundingBoxAndDistanceOutside(t *testing.T) {
	s, box := testScene(t)

	world := s.BoundingBox(geometry.FrameWorld)
	assert.True(t, world.Min.Equals(core.NewVec3(-1, -2, -13)))
	assert.True(t, world.Max.Equals(core.NewVec3(1, 2, -7)))
	assert.InDelta(t, 12, s.DistanceOutside(), 1e-9, "twice the largest extent")

	box.Scale(1, 1, 2)
	assert.InDelta(t, 24, s.DistanceOutside(), 1e-9, "scaling about the origin doubles the depth")
}

func TestScene_TransformInvalidatesIndex(t *testing.T) {
	s, box := testScene(t)
	first := s.SpatialIndex()
	assert.Same(t, first, s.SpatialIndex(), "index is cached")

	box.Translate(0, 0, -5)
	second := s.SpatialIndex()
	assert.NotSame(t, first, second)
	assert.InDelta(t, -18, second.Bounds().Min.Z, 1e-9)
}

func TestScene_AddObjectInvalidates(t *testing.T) {
	s, _ := testScene(t)
	first := s.SpatialIndex()
	before := s.BoundingBox(geometry.FrameWorld)

	far, err := NewBox(core.NewVec3(0, 0, -30), core.NewVec3(1, 1, 1), core.White, nil)
	require.NoError(t, err)
	s.AddObject(far)

	assert.NotSame(t, first, s.SpatialIndex())
	after := s.BoundingBox(geometry.FrameWorld)
	assert.Less(t, after.Min.Z, before.Min.Z)
	assert.Len(t, s.LeafObjects(), 12)
}

func TestScene_CameraChangeForwards(t *testing.T) {
	s, _ := testScene(t)
	light := lights.NewPointLight(core.NewVec3(0, 10, 0), 1)
	s.AddLight(light)
	assert.True(t, light.PositionInCamera().Equals(core.NewVec3(0, 10, 0)))

	world := s.BoundingBox(geometry.FrameWorld)
	cameraBox := s.BoundingBox(geometry.FrameCamera)
	first := s.SpatialIndex()

	s.Camera().MoveTo(core.NewVec3(0, 0, 5))

	assert.True(t, light.PositionInCamera().Equals(core.NewVec3(0, 10, -5)), "lights follow the camera")
	assert.Equal(t, world, s.BoundingBox(geometry.FrameWorld), "world box survives a camera move")
	moved := s.BoundingBox(geometry.FrameCamera)
	assert.InDelta(t, cameraBox.Min.Z-5, moved.Min.Z, 1e-9)
	assert.NotSame(t, first, s.SpatialIndex())
}

func TestScene_ChangeCamera(t *testing.T) {
	s, _ := testScene(t)
	old := s.Camera()
	next := testCamera(t)
	next.MoveTo(core.NewVec3(0, 0, 10))
	s.ChangeCamera(next)

	assert.Same(t, next, s.Camera())
	assert.InDelta(t, -23, s.BoundingBox(geometry.FrameCamera).Min.Z, 1e-9)

	// the old camera no longer reaches the scene
	cached := s.SpatialIndex()
	old.MoveTo(core.NewVec3(0, 0, 50))
	assert.Same(t, cached, s.SpatialIndex())
}

func TestScene_ViewPlaneIndexCache(t *testing.T) {
	s, _ := testScene(t)
	opts := index.ViewPlaneOptionsFor(64, 64)
	first := s.ViewPlaneIndex(opts)
	assert.Same(t, first, s.ViewPlaneIndex(opts))

	other := index.ViewPlaneOptionsFor(256, 256)
	assert.NotSame(t, first, s.ViewPlaneIndex(other), "different resolution rebuilds")
}

func TestScene_ShadingEnvironment(t *testing.T) {
	s, _ := testScene(t)
	env := s.ShadingEnvironment()
	assert.Nil(t, env.Index, "no shadow rays without shadows")
	assert.InDelta(t, 12, env.DistanceOutside, 1e-9)

	s.Params.Shadows = true
	env = s.ShadingEnvironment()
	assert.Same(t, s.SpatialIndex(), env.Index)
	assert.True(t, env.Shadows)
}

func TestRenderParameters_SafeThreads(t *testing.T) {
	p := DefaultRenderParameters()
	assert.Equal(t, 1, p.SafeThreads())
	p.Threads = 0
	assert.Equal(t, 1, p.SafeThreads())
	p.Threads = 8
	assert.Equal(t, 8, p.SafeThreads())
}
