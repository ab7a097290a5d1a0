package lights

import (
	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// PointLight shines from a single position. A world-fixed light stays put
// while the camera moves; a head light's position is given in camera
// coordinates and it travels with the camera.
type PointLight struct {
	position   core.Vec3
	brightness float64
	worldFixed bool

	positionInCamera core.Vec3
}

// NewPointLight creates a light fixed at a world position
func NewPointLight(position core.Vec3, brightness float64) *PointLight {
	return &PointLight{position: position, brightness: clampBrightness(brightness), worldFixed: true}
}

// NewHeadLight creates a light that keeps its position relative to the camera
func NewHeadLight(positionInCamera core.Vec3, brightness float64) *PointLight {
	return &PointLight{
		position:         positionInCamera,
		brightness:       clampBrightness(brightness),
		positionInCamera: positionInCamera,
	}
}

func (l *PointLight) Type() LightType     { return LightTypePoint }
func (l *PointLight) Brightness() float64 { return l.brightness }
func (l *PointLight) IsWorldFixed() bool  { return l.worldFixed }
func (l *PointLight) Position() core.Vec3 { return l.position }

// PositionInCamera is current as of the last CameraHasChanged
func (l *PointLight) PositionInCamera() core.Vec3 { return l.positionInCamera }

// SetBrightness changes the brightness, clamped to [0, 1]
func (l *PointLight) SetBrightness(b float64) {
	l.brightness = clampBrightness(b)
}

// MoveTo changes the position, in world or camera coordinates per IsWorldFixed
func (l *PointLight) MoveTo(position core.Vec3, cam *camera.Camera) {
	l.position = position
	l.CameraHasChanged(cam)
}

func (l *PointLight) CameraHasChanged(cam *camera.Camera) {
	if !l.worldFixed {
		l.positionInCamera = l.position
		return
	}
	if cam != nil {
		l.positionInCamera = cam.ToCamera(l.position)
	}
}
