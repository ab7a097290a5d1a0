package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

func TestNewPerspectiveViewVolume_Validation(t *testing.T) {
	tests := []struct {
		name                     string
		angle, aspect, near, far float64
	}{
		{"near equals far", 45, 1, 5, 5},
		{"near beyond far", 45, 1, 10, 5},
		{"zero angle", 0, 1, 1, 10},
		{"right angle", 90, 1, 1, 10},
		{"negative aspect", 45, -1, 1, 10},
		{"zero near", 45, 1, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPerspectiveViewVolume(tt.angle, tt.aspect, tt.near, tt.far)
			assert.ErrorIs(t, err, ErrInvalidViewVolume)
		})
	}
}

func TestPerspectiveViewVolume_ViewPlane(t *testing.T) {
	v, err := NewPerspectiveViewVolume(60, 2, 1, 100)
	require.NoError(t, err)

	assert.Equal(t, -1.0, v.ViewPlaneZ())
	assert.Equal(t, -100.0, v.FarPlaneZ())
	rect := v.ViewPlaneRect()
	top := math.Tan(math.Pi / 6)
	assert.InDelta(t, top, rect.Max.Y, 1e-9)
	assert.InDelta(t, 2*top, rect.Max.X, 1e-9)
	assert.InDelta(t, -2*top, rect.Min.X, 1e-9)
}

func TestEncloseInDepth(t *testing.T) {
	box := core.NewAABB(core.NewVec3(-1, -1, -20), core.NewVec3(1, 1, -5))
	v, err := EncloseInDepth(box, 45, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Near())
	assert.Equal(t, 20.0, v.Far())
}

func TestEncloseEntirely(t *testing.T) {
	box := core.NewAABB(core.NewVec3(-2, -1, -20), core.NewVec3(4, 1, -5))
	v, err := EncloseEntirely(box, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Near())

	// the widest side decides: x extent 4 at aspect 2 needs a half height of 2
	r := v.ViewPlaneRect()
	assert.InDelta(t, 2, r.Max.Y, 1e-9)
	assert.InDelta(t, 4, r.Max.X, 1e-9)
}

type countingObserver struct{ calls int }

func (o *countingObserver) CameraHasChanged(*Camera) { o.calls++ }

func TestCamera_NotifiesObservers(t *testing.T) {
	v, err := NewPerspectiveViewVolume(45, 1, 1, 100)
	require.NoError(t, err)
	cam := New(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), v)

	o := &countingObserver{}
	cam.AddObserver(o)
	cam.AddObserver(o)
	cam.MoveTo(core.NewVec3(0, 0, 20))
	assert.Equal(t, 1, o.calls)
	assert.True(t, cam.ToCamera(core.NewVec3(0, 0, 0)).Equals(core.NewVec3(0, 0, -20)))

	cam.RemoveObserver(o)
	cam.LookAt(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	assert.Equal(t, 1, o.calls)
}
