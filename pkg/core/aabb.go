package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box that contains nothing and is the identity for Union
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return EmptyAABB()
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Clip intersects a segment with the box using the slab method and
// returns the entry and exit parameters along the segment
func (aabb AABB) Clip(s Segment) (t0, t1 float64, ok bool) {
	t0 = 0
	t1 = math.Inf(1)
	if !s.Infinite {
		t1 = 1
	}
	dir := s.Direction()
	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Component(axis)
		max := aabb.Max.Component(axis)
		origin := s.P1.Component(axis)
		direction := dir.Component(axis)

		// Parallel to this slab
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		near := (min - origin) * invDirection
		far := (max - origin) * invDirection
		if near > far {
			near, far = far, near
		}

		t0 = math.Max(t0, near)
		t1 = math.Min(t1, far)
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// Hit reports whether the segment passes through the box
func (aabb AABB) Hit(s Segment) bool {
	_, _, ok := aabb.Clip(s)
	return ok
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Overlaps reports whether two boxes share any point, boundaries included
func (aabb AABB) Overlaps(other AABB) bool {
	return aabb.Min.X <= other.Max.X && aabb.Max.X >= other.Min.X &&
		aabb.Min.Y <= other.Max.Y && aabb.Max.Y >= other.Min.Y &&
		aabb.Min.Z <= other.Max.Z && aabb.Max.Z >= other.Min.Z
}

// Contains reports whether the point lies inside the box, boundaries included
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

func (aabb AABB) Width() float64  { return aabb.Max.X - aabb.Min.X }
func (aabb AABB) Height() float64 { return aabb.Max.Y - aabb.Min.Y }
func (aabb AABB) Depth() float64  { return aabb.Max.Z - aabb.Min.Z }

// Volume returns the box volume, zero for empty or flat boxes
func (aabb AABB) Volume() float64 {
	if !aabb.IsValid() {
		return 0
	}
	size := aabb.Size()
	return size.X * size.Y * size.Z
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0 // X axis
	}
	if size.Y > size.Z {
		return 1 // Y axis
	}
	return 2 // Z axis
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}

// Vertices returns the eight corners of the box
func (aabb AABB) Vertices() []Vec3 {
	lo, hi := aabb.Min, aabb.Max
	return []Vec3{
		{lo.X, lo.Y, lo.Z}, {hi.X, lo.Y, lo.Z}, {lo.X, hi.Y, lo.Z}, {hi.X, hi.Y, lo.Z},
		{lo.X, lo.Y, hi.Z}, {hi.X, lo.Y, hi.Z}, {lo.X, hi.Y, hi.Z}, {hi.X, hi.Y, hi.Z},
	}
}

// Transform returns the box bounding the transformed corners of this box
func (aabb AABB) Transform(m Matrix4) AABB {
	return NewAABBFromPoints(m.TransformPoints(aabb.Vertices())...)
}
