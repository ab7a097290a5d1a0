package lights

import (
	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// DirectionalLight is infinitely far away, like the sun
type DirectionalLight struct {
	direction  core.Vec3
	brightness float64

	directionInCamera core.Vec3
}

// NewDirectionalLight creates a light travelling along direction in world
// coordinates. direction must not be the zero vector.
func NewDirectionalLight(direction core.Vec3, brightness float64) *DirectionalLight {
	d := direction.Normalize()
	return &DirectionalLight{direction: d, brightness: clampBrightness(brightness), directionInCamera: d}
}

func (l *DirectionalLight) Type() LightType              { return LightTypeDirectional }
func (l *DirectionalLight) Brightness() float64          { return l.brightness }
func (l *DirectionalLight) Direction() core.Vec3         { return l.direction }
func (l *DirectionalLight) DirectionInCamera() core.Vec3 { return l.directionInCamera }

// ScaledDirection returns the camera-space direction with length d
func (l *DirectionalLight) ScaledDirection(d float64) core.Vec3 {
	return l.directionInCamera.Multiply(d)
}

func (l *DirectionalLight) CameraHasChanged(cam *camera.Camera) {
	if cam != nil {
		l.directionInCamera = cam.ViewingMatrix().TransformVector(l.direction).Normalize()
	}
}
