package lights

import (
	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

type LightType string

const (
	LightTypeAmbient     LightType = "ambient"
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a source of brightness for flat shading. Implementations keep
// their camera-space geometry current through CameraHasChanged, which the
// scene calls before any render.
type Light interface {
	camera.Observer
	Type() LightType
	// Brightness in [0, 1]
	Brightness() float64
}

// Positional lights shine from a point
type Positional interface {
	Light
	PositionInCamera() core.Vec3
}

// Directional lights shine from infinitely far along a fixed direction
type Directional interface {
	Light
	// DirectionInCamera is the unit direction the light travels
	DirectionInCamera() core.Vec3
}

func clampBrightness(b float64) float64 {
	return max(0, min(1, b))
}

// AmbientLight reaches every surface without shadows
type AmbientLight struct {
	brightness float64
}

// NewAmbientLight creates an ambient light
func NewAmbientLight(brightness float64) *AmbientLight {
	return &AmbientLight{brightness: clampBrightness(brightness)}
}

func (l *AmbientLight) Type() LightType                 { return LightTypeAmbient }
func (l *AmbientLight) Brightness() float64             { return l.brightness }
func (l *AmbientLight) CameraHasChanged(*camera.Camera) {}
