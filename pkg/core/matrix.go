package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Matrix4 is a 4x4 affine or projective transform acting on column vectors
type Matrix4 struct {
	m mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Matrix4 {
	return Matrix4{m: mgl64.Ident4()}
}

// NewMatrix4 wraps a mathgl matrix
func NewMatrix4(m mgl64.Mat4) Matrix4 {
	return Matrix4{m: m}
}

// Translation returns a matrix translating by (x, y, z)
func Translation(x, y, z float64) Matrix4 {
	return Matrix4{m: mgl64.Translate3D(x, y, z)}
}

// Scaling returns a matrix scaling by (sx, sy, sz) about the origin
func Scaling(sx, sy, sz float64) Matrix4 {
	return Matrix4{m: mgl64.Scale3D(sx, sy, sz)}
}

// RotationX returns a counter-clockwise rotation of angle radians about the X axis
func RotationX(angle float64) Matrix4 {
	return Matrix4{m: mgl64.HomogRotate3DX(angle)}
}

// RotationY returns a counter-clockwise rotation of angle radians about the Y axis
func RotationY(angle float64) Matrix4 {
	return Matrix4{m: mgl64.HomogRotate3DY(angle)}
}

// RotationZ returns a counter-clockwise rotation of angle radians about the Z axis
func RotationZ(angle float64) Matrix4 {
	return Matrix4{m: mgl64.HomogRotate3DZ(angle)}
}

// LookAt returns the viewing matrix of an eye at position looking at target
func LookAt(position, target, up Vec3) Matrix4 {
	return Matrix4{m: mgl64.LookAtV(toMgl(position), toMgl(target), toMgl(up))}
}

// Then returns the transform applying m first and next second
func (m Matrix4) Then(next Matrix4) Matrix4 {
	return Matrix4{m: next.m.Mul4(m.m)}
}

// Inverse returns the inverse transform. m must not be singular.
func (m Matrix4) Inverse() Matrix4 {
	return Matrix4{m: m.m.Inv()}
}

// IsSingular reports whether the matrix has no inverse
func (m Matrix4) IsSingular() bool {
	return math.Abs(m.m.Det()) < 1e-15
}

// Mgl returns the underlying mathgl matrix
func (m Matrix4) Mgl() mgl64.Mat4 {
	return m.m
}

// ApproxEqual compares two matrices element-wise within eps
func (m Matrix4) ApproxEqual(other Matrix4, eps float64) bool {
	return m.m.ApproxEqualThreshold(other.m, eps)
}

// TransformPoint applies the transform to a point, with perspective divide
func (m Matrix4) TransformPoint(p Vec3) Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), m.m))
}

// TransformVector applies the linear part of the transform to a direction
func (m Matrix4) TransformVector(v Vec3) Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(v), m.m))
}

// TransformPoints applies the transform to every point
func (m Matrix4) TransformPoints(points []Vec3) []Vec3 {
	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = m.TransformPoint(p)
	}
	return out
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
