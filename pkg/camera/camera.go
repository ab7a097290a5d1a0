package camera

import (
	"slices"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Observer is notified whenever the camera moves or its view volume changes
type Observer interface {
	CameraHasChanged(cam *Camera)
}

// Camera is a positioned eye with a view volume. Camera space has the eye at
// the origin looking down -Z with +Y up.
type Camera struct {
	position   core.Vec3
	target     core.Vec3
	up         core.Vec3
	viewVolume *PerspectiveViewVolume

	viewing   core.Transform
	observers []Observer
}

// New creates a camera at position looking at target
func New(position, target, up core.Vec3, viewVolume *PerspectiveViewVolume) *Camera {
	c := &Camera{position: position, target: target, up: up, viewVolume: viewVolume}
	c.updateViewing()
	return c
}

func (c *Camera) updateViewing() {
	c.viewing = core.NewTransform(core.LookAt(c.position, c.target, c.up))
}

// Position in world coordinates
func (c *Camera) Position() core.Vec3 { return c.position }

// Target is the world point the camera looks at
func (c *Camera) Target() core.Vec3 { return c.target }

// ViewVolume returns the perspective frustum
func (c *Camera) ViewVolume() *PerspectiveViewVolume { return c.viewVolume }

// ViewingMatrix maps world coordinates to camera coordinates
func (c *Camera) ViewingMatrix() core.Matrix4 { return c.viewing.Forward }

// InverseViewingMatrix maps camera coordinates back to world coordinates
func (c *Camera) InverseViewingMatrix() core.Matrix4 { return c.viewing.Reverse }

// ToCamera maps a world point into camera coordinates
func (c *Camera) ToCamera(p core.Vec3) core.Vec3 {
	return c.viewing.Forward.TransformPoint(p)
}

// MoveTo relocates the eye keeping the target
func (c *Camera) MoveTo(position core.Vec3) {
	c.position = position
	c.changed()
}

// LookAt points the camera at a new target
func (c *Camera) LookAt(target, up core.Vec3) {
	c.target = target
	c.up = up
	c.changed()
}

// SetViewVolume swaps the frustum
func (c *Camera) SetViewVolume(v *PerspectiveViewVolume) {
	c.viewVolume = v
	c.changed()
}

func (c *Camera) changed() {
	c.updateViewing()
	for _, o := range c.observers {
		o.CameraHasChanged(c)
	}
}

// AddObserver registers o for change notifications; duplicates are ignored
func (c *Camera) AddObserver(o Observer) {
	if !slices.Contains(c.observers, o) {
		c.observers = append(c.observers, o)
	}
}

// RemoveObserver unregisters o
func (c *Camera) RemoveObserver(o Observer) {
	if i := slices.Index(c.observers, o); i >= 0 {
		c.observers = slices.Delete(c.observers, i, i+1)
	}
}
