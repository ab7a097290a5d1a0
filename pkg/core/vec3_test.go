package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_AngleBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected float64
	}{
		{"Same direction", NewVec3(1, 0, 0), NewVec3(2, 0, 0), 0},
		{"Perpendicular", NewVec3(1, 0, 0), NewVec3(0, 3, 0), math.Pi / 2},
		{"Opposite", NewVec3(0, 0, 1), NewVec3(0, 0, -1), math.Pi},
		{"Zero vector", NewVec3(0, 0, 0), NewVec3(0, 0, -1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.a.AngleBetween(tt.b), 1e-9)
		})
	}
}

func TestVec3_LatitudeLongitude(t *testing.T) {
	assert.InDelta(t, math.Pi/2, NewVec3(0, 1, 0).Latitude(), 1e-9)
	assert.InDelta(t, 0, NewVec3(1, 0, 0).Latitude(), 1e-9)
	assert.InDelta(t, 0, NewVec3(1, 0, 0).Longitude(), 1e-9)
	assert.InDelta(t, math.Pi/2, NewVec3(0, 0, -1).Longitude(), 1e-9)
	assert.InDelta(t, 3*math.Pi/2, NewVec3(0, 0, 1).Longitude(), 1e-9)
}

func TestVec3_Component(t *testing.T) {
	v := NewVec3(1, 2, 3)
	assert.Equal(t, 1.0, v.Component(0))
	assert.Equal(t, 2.0, v.Component(1))
	assert.Equal(t, 3.0, v.Component(2))
	assert.Equal(t, NewVec3(1, 7, 3), v.WithComponent(1, 7))
}

func TestSegment_IntersectPlane(t *testing.T) {
	plane, err := NewPlane(NewVec3(0, 0, -10), NewVec3(1, 0, -10), NewVec3(0, 1, -10))
	assert.NoError(t, err)

	bounded := NewSegment(NewVec3(0, 0, 0), NewVec3(0, 0, -5))
	_, ok := bounded.IntersectPlane(plane)
	assert.False(t, ok, "bounded segment stops before the plane")

	halfLine := NewHalfLine(NewVec3(0, 0, 0), NewVec3(0.1, 0, -1))
	p, ok := halfLine.IntersectPlane(plane)
	assert.True(t, ok)
	assert.True(t, p.Equals(NewVec3(1, 0, -10)), "got %v", p)

	behind := NewHalfLine(NewVec3(0, 0, 0), NewVec3(0, 0, 1))
	_, ok = behind.IntersectPlane(plane)
	assert.False(t, ok, "plane is behind the half-line origin")
}

func TestNewPlane_Degenerate(t *testing.T) {
	_, err := NewPlane(NewVec3(0, 0, 0), NewVec3(1, 1, 1), NewVec3(2, 2, 2))
	assert.ErrorIs(t, err, ErrDegenerate)
}
