package shading

import (
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/lights"
)

// DefaultCacheCapacity bounds the entries of an ObscuringCache
const DefaultCacheCapacity = 100

type obscuredKey struct {
	object geometry.Raytraceable
	light  lights.Light
}

// ObscuringCache remembers, per object and light, the last object found
// to fully block that light. It belongs to one render worker. When full it
// is emptied rather than evicting single entries.
type ObscuringCache struct {
	capacity int
	entries  map[obscuredKey]geometry.Raytraceable
}

// NewObscuringCache creates a cache holding at most capacity entries
func NewObscuringCache(capacity int) *ObscuringCache {
	return &ObscuringCache{
		capacity: max(1, capacity),
		entries:  make(map[obscuredKey]geometry.Raytraceable, capacity),
	}
}

// Get returns the cached blocker of light for object, or nil
func (c *ObscuringCache) Get(object geometry.Raytraceable, light lights.Light) geometry.Raytraceable {
	return c.entries[obscuredKey{object, light}]
}

// Put records blocker as fully obscuring light from object
func (c *ObscuringCache) Put(object geometry.Raytraceable, light lights.Light, blocker geometry.Raytraceable) {
	key := obscuredKey{object, light}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.capacity {
		clear(c.entries)
	}
	c.entries[key] = blocker
}

// Len is the number of cached entries
func (c *ObscuringCache) Len() int { return len(c.entries) }
