package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// ErrInvalidViewVolume is returned for impossible perspective parameters
var ErrInvalidViewVolume = errors.New("invalid view volume")

// PerspectiveViewVolume is a symmetric frustum looking down -Z in camera space
type PerspectiveViewVolume struct {
	angle  float64 // vertical view angle in degrees
	aspect float64
	near   float64
	far    float64
}

// NewPerspectiveViewVolume validates and creates a view volume.
// angle is the vertical view angle in degrees, aspect is width over height.
func NewPerspectiveViewVolume(angle, aspect, near, far float64) (*PerspectiveViewVolume, error) {
	if angle <= 0 || angle >= 90 {
		return nil, fmt.Errorf("view angle %g not in (0, 90): %w", angle, ErrInvalidViewVolume)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("aspect ratio %g must be positive: %w", aspect, ErrInvalidViewVolume)
	}
	if near <= 0 || far <= 0 {
		return nil, fmt.Errorf("near %g and far %g must be positive: %w", near, far, ErrInvalidViewVolume)
	}
	if near >= far {
		return nil, fmt.Errorf("near %g must be less than far %g: %w", near, far, ErrInvalidViewVolume)
	}
	return &PerspectiveViewVolume{angle: angle, aspect: aspect, near: near, far: far}, nil
}

// EncloseInDepth returns a view volume whose near and far planes wrap a
// camera-space box lying in front of the eye
func EncloseInDepth(box core.AABB, angle, aspect float64) (*PerspectiveViewVolume, error) {
	far := -box.Min.Z
	near := max(-box.Max.Z, far*1e-3)
	return NewPerspectiveViewVolume(angle, aspect, near, far)
}

// EncloseEntirely returns a view volume wrapping a camera-space box in
// depth, with the narrowest view angle showing all of its X and Y extent at
// the near plane
func EncloseEntirely(box core.AABB, aspect float64) (*PerspectiveViewVolume, error) {
	v, err := EncloseInDepth(box, 60, aspect)
	if err != nil {
		return nil, err
	}
	top := max(math.Abs(box.Min.Y), math.Abs(box.Max.Y))
	right := max(math.Abs(box.Min.X), math.Abs(box.Max.X))
	if right/top > aspect {
		top = right / aspect
	}
	angle := math.Atan(top/v.near) * 2 * 180 / math.Pi
	return NewPerspectiveViewVolume(angle, aspect, v.near, v.far)
}

func (v *PerspectiveViewVolume) ViewAngle() float64   { return v.angle }
func (v *PerspectiveViewVolume) AspectRatio() float64 { return v.aspect }
func (v *PerspectiveViewVolume) Near() float64        { return v.near }
func (v *PerspectiveViewVolume) Far() float64         { return v.far }

// ViewPlaneZ is the camera-space Z of the view (near) plane
func (v *PerspectiveViewVolume) ViewPlaneZ() float64 {
	return -v.near
}

// FarPlaneZ is the camera-space Z of the far plane
func (v *PerspectiveViewVolume) FarPlaneZ() float64 {
	return -v.far
}

// ViewPlaneRect is the visible rectangle on the view plane, centered on the axis
func (v *PerspectiveViewVolume) ViewPlaneRect() core.Rect2D {
	top := v.near * math.Tan(v.angle/2*math.Pi/180)
	right := top * v.aspect
	return core.NewRect2D(-right, -top, right, top)
}

