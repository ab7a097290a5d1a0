package shading

import "fmt"

// Metrics counts the work of one render worker. Workers keep their own
// Metrics and the renderer merges them when the raster is done.
type Metrics struct {
	EyeRays            int64 // eye rays cast through the view plane
	EyeRayChecks       int64 // object intersection tests for eye rays
	SurfacePointsLit   int64 // brightness computations
	ShadowTraversals   int64 // shadow rays walked through the spatial index
	ObscuringCacheHits int64 // shadow rays settled by a cached blocker
	ObscuringCacheMiss int64 // cached blockers that no longer blocked
}

// Add accumulates other into m
func (m *Metrics) Add(other Metrics) {
	m.EyeRays += other.EyeRays
	m.EyeRayChecks += other.EyeRayChecks
	m.SurfacePointsLit += other.SurfacePointsLit
	m.ShadowTraversals += other.ShadowTraversals
	m.ObscuringCacheHits += other.ObscuringCacheHits
	m.ObscuringCacheMiss += other.ObscuringCacheMiss
}

func (m Metrics) String() string {
	return fmt.Sprintf("eye rays %d (%d object checks), lit points %d, shadow traversals %d, obscuring cache %d hits / %d misses",
		m.EyeRays, m.EyeRayChecks, m.SurfacePointsLit, m.ShadowTraversals, m.ObscuringCacheHits, m.ObscuringCacheMiss)
}
