package core

import "math"

// Rect2D is an axis-aligned rectangle on a plane
type Rect2D struct {
	Min, Max Vec2
}

// NewRect2D creates a rectangle from its lower-left and upper-right corners
func NewRect2D(x0, y0, x1, y1 float64) Rect2D {
	return Rect2D{Min: Vec2{x0, y0}, Max: Vec2{x1, y1}}
}

// EmptyRect2D is the identity for ExpandToContain and Union
func EmptyRect2D() Rect2D {
	inf := math.Inf(1)
	return Rect2D{Min: Vec2{inf, inf}, Max: Vec2{-inf, -inf}}
}

func (r Rect2D) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect2D) Height() float64 { return r.Max.Y - r.Min.Y }

// IsEmpty reports whether the rectangle contains no point
func (r Rect2D) IsEmpty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Contains reports whether p is inside, boundaries included
func (r Rect2D) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ExpandToContain grows the rectangle to include p
func (r Rect2D) ExpandToContain(p Vec2) Rect2D {
	return Rect2D{
		Min: Vec2{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Vec2{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing both
func (r Rect2D) Union(o Rect2D) Rect2D {
	return r.ExpandToContain(o.Min).ExpandToContain(o.Max)
}

// Intersect returns the overlap; the result IsEmpty when there is none
func (r Rect2D) Intersect(o Rect2D) Rect2D {
	return Rect2D{
		Min: Vec2{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
}

// Polygon2D is a convex polygon given by its vertices in order
type Polygon2D []Vec2

// Contains reports whether p lies inside or on the boundary
func (poly Polygon2D) Contains(p Vec2) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		switch {
		case cross > 1e-12:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < -1e-12:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}
