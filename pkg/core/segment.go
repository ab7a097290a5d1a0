package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is returned when geometry is built from collinear or coincident points
var ErrDegenerate = errors.New("degenerate geometry")

// Segment is a line segment from P1 to P2. When Infinite is set it is
// a half-line starting at P1 and passing through P2.
type Segment struct {
	P1, P2   Vec3
	Infinite bool
}

// NewSegment creates a bounded segment
func NewSegment(p1, p2 Vec3) Segment {
	return Segment{P1: p1, P2: p2}
}

// NewHalfLine creates a segment unbounded beyond p2
func NewHalfLine(p1, p2 Vec3) Segment {
	return Segment{P1: p1, P2: p2, Infinite: true}
}

// Direction returns P2 - P1
func (s Segment) Direction() Vec3 {
	return s.P2.Subtract(s.P1)
}

// Unit returns the normalized direction
func (s Segment) Unit() Vec3 {
	return s.Direction().Normalize()
}

// Length of the bounded segment
func (s Segment) Length() float64 {
	return s.P1.Distance(s.P2)
}

// PointAt returns P1 + t*(P2-P1)
func (s Segment) PointAt(t float64) Vec3 {
	return s.P1.Add(s.Direction().Multiply(t))
}

// Contains reports whether parameter t lies on the segment
func (s Segment) Contains(t float64) bool {
	return t >= 0 && (s.Infinite || t <= 1)
}

// IntersectPlane returns the point where the segment crosses the plane
func (s Segment) IntersectPlane(p Plane) (Vec3, bool) {
	t, ok := s.PlaneParameter(p)
	if !ok {
		return Vec3{}, false
	}
	return s.PointAt(t), true
}

// PlaneParameter returns the segment parameter of the plane crossing
func (s Segment) PlaneParameter(p Plane) (float64, bool) {
	dir := s.Direction()
	denom := p.Normal.Dot(dir)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	t := p.Normal.Dot(p.Point.Subtract(s.P1)) / denom
	if !s.Contains(t) {
		return 0, false
	}
	return t, true
}

// Plane is defined by a unit normal and a point on the plane
type Plane struct {
	Normal Vec3
	Point  Vec3
}

// NewPlane creates the plane through three points, with normal (p2-p1)x(p3-p1)
func NewPlane(p1, p2, p3 Vec3) (Plane, error) {
	n := p2.Subtract(p1).Cross(p3.Subtract(p1))
	if n.LengthSquared() < 1e-24 {
		return Plane{}, fmt.Errorf("plane through %v %v %v: %w", p1, p2, p3, ErrDegenerate)
	}
	return Plane{Normal: n.Normalize(), Point: p1}, nil
}

// SignedDistance returns the signed distance from q to the plane
func (p Plane) SignedDistance(q Vec3) float64 {
	return p.Normal.Dot(q.Subtract(p.Point))
}
