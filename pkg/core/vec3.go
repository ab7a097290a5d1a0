package core

import (
	"math"
)

// ApproximateZero is the distance below which two positions are treated as coincident
const ApproximateZero = 1e-6

// Vec3 represents a 3D point or vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Normalize returns a unit vector in the same direction.
// The zero vector has no direction; callers must not normalize it.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Distance returns the euclidean distance between two points
func (v Vec3) Distance(other Vec3) float64 {
	return v.Subtract(other).Length()
}

// SquareDistance returns the squared distance between two points
func (v Vec3) SquareDistance(other Vec3) float64 {
	return v.Subtract(other).LengthSquared()
}

// AngleBetween returns the angle in radians between two vectors, in [0, π]
func (v Vec3) AngleBetween(other Vec3) float64 {
	denom := v.Length() * other.Length()
	if denom == 0 {
		return 0
	}
	cos := v.Dot(other) / denom
	return math.Acos(max(-1, min(1, cos)))
}

// Component returns the coordinate along axis (0=X, 1=Y, 2=Z)
func (v Vec3) Component(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns a copy with the coordinate along axis replaced
func (v Vec3) WithComponent(axis int, value float64) Vec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// Latitude of a unit vector, in [-π/2, π/2]
func (v Vec3) Latitude() float64 {
	return math.Asin(max(-1, min(1, v.Y)))
}

// Longitude of a unit vector measured in the XZ plane, in [0, 2π)
func (v Vec3) Longitude() float64 {
	lon := math.Atan2(-v.Z, v.X)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	return lon
}

// Equals reports whether two vectors are equal within ApproximateZero
func (v Vec3) Equals(other Vec3) bool {
	return math.Abs(v.X-other.X) < ApproximateZero &&
		math.Abs(v.Y-other.Y) < ApproximateZero &&
		math.Abs(v.Z-other.Z) < ApproximateZero
}

// Vec2 is a 2D point, used for texture coordinates and view-plane projections
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}
