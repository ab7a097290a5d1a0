package shading

import (
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/index"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
	"github.com/df07/go-scanline-raytracer/pkg/raster"
)

// noShadowFactor damps lights when shadows are off, which otherwise
// over-light the scene
const noShadowFactor = 0.7

// Environment is the read-only lighting state shared by all workers of a
// render
type Environment struct {
	Camera *camera.Camera
	Lights []lights.Light
	// Index answers shadow rays; it may be nil when Shadows is false
	Index   *index.Index
	Shadows bool
	// DistanceOutside is long enough to carry a ray from any point of the
	// scene out of it, for directional light rays
	DistanceOutside float64
	// Darkness darkens surfaces by depth; nil disables it
	Darkness raster.DepthFunction
}

// Shader computes lighting for one render worker. It implements
// geometry.Lighting and must not be shared between goroutines.
type Shader struct {
	env     *Environment
	cache   *ObscuringCache
	query   *index.Query
	hits    []geometry.SurfacePoint
	metrics *Metrics
}

// NewShader creates a worker's shader. metrics may be nil.
func NewShader(env *Environment, metrics *Metrics) *Shader {
	if metrics == nil {
		metrics = &Metrics{}
	}
	return &Shader{
		env:     env,
		cache:   NewObscuringCache(DefaultCacheCapacity),
		query:   index.NewQuery(),
		metrics: metrics,
	}
}

// Metrics returns the counters this shader updates
func (s *Shader) Metrics() *Metrics { return s.metrics }

// BrightnessFactor combines the lights in darkness space: each light
// removes a share of the remaining darkness, so one blocked light cannot
// cancel the others
func (s *Shader) BrightnessFactor(sp *geometry.SurfacePoint, normal core.Vec3, reflection, gloss float64) float64 {
	s.metrics.SurfacePointsLit++
	product := 1.0
	for _, l := range s.env.Lights {
		f := s.lightFactor(l, sp, normal, reflection, gloss)
		product *= 1 - (f+1)/2
	}
	return (1-product)*2 - 1
}

// lightFactor is one light's contribution in [-1, 1]
func (s *Shader) lightFactor(l lights.Light, sp *geometry.SurfacePoint, normal core.Vec3, reflection, gloss float64) float64 {
	var ray core.Segment
	switch light := l.(type) {
	case lights.Positional:
		ray = core.NewSegment(sp.Position, light.PositionInCamera())
	case lights.Directional:
		ray = core.NewSegment(sp.Position, sp.Position.Subtract(light.DirectionInCamera().Multiply(s.env.DistanceOutside)))
	default:
		return l.Brightness()*reflection - 1
	}

	brightness := l.Brightness() * reflection
	if s.env.Shadows {
		brightness *= s.translucency(ray, sp.Object, l)
	} else {
		brightness *= noShadowFactor
	}
	if brightness <= 0 {
		return -1
	}
	alpha := math.Abs(ray.Unit().AngleBetween(normal)/math.Pi*2 - 1)
	brightness *= math.Pow(alpha, gloss)
	return brightness*2 - 1
}

// translucency is the fraction of light passing along ray, 0 when blocked
func (s *Shader) translucency(ray core.Segment, object geometry.Raytraceable, l lights.Light) float64 {
	if s.obscuredFromMemory(ray, object, l) {
		return 0
	}
	if s.env.Index == nil {
		return 1
	}
	s.metrics.ShadowTraversals++
	translucency := 1.0
	for hit := range s.env.Index.LightRayIntersections(ray, s.query) {
		if hit.Object == object || hit.Position.SquareDistance(ray.P1) < core.ApproximateZero {
			continue
		}
		t := hit.Color.Transparency()
		translucency *= t
		if t <= 0 {
			s.cache.Put(object, l, hit.Object)
			return 0
		}
	}
	return translucency
}

// obscuredFromMemory retests only the blocker cached for object and light
func (s *Shader) obscuredFromMemory(ray core.Segment, object geometry.Raytraceable, l lights.Light) bool {
	blocker := s.cache.Get(object, l)
	if blocker == nil {
		return false
	}
	s.hits = blocker.IntersectLightRay(ray, s.env.Camera, s.hits[:0])
	for _, hit := range s.hits {
		if hit.Color.IsOpaque() && hit.Position.SquareDistance(ray.P1) >= core.ApproximateZero {
			s.metrics.ObscuringCacheHits++
			return true
		}
	}
	s.metrics.ObscuringCacheMiss++
	return false
}

// DarknessAtDepth is the darkening applied at depth, in [-1, 0]
func (s *Shader) DarknessAtDepth(depth float64) float64 {
	if s.env.Darkness == nil {
		return 0
	}
	return -max(0, min(1, s.env.Darkness.Eval(depth)))
}
