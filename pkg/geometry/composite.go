package geometry

import (
	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Composite groups child objects under a shared transform. It has no
// geometry of its own.
type Composite struct {
	Node
	children []Object
}

// NewComposite creates a composite owning the given children
func NewComposite(children ...Object) *Composite {
	c := &Composite{}
	c.init(c)
	for _, child := range children {
		c.Add(child)
	}
	return c
}

// Add takes ownership of child. A child already owned elsewhere is moved.
func (c *Composite) Add(child Object) {
	if child == nil {
		return
	}
	if old := child.Parent(); old != nil {
		old.Remove(child)
	}
	child.base().parent = c
	c.children = append(c.children, child)
	child.NotifyAncestorHasTransformed()
	c.boxes = [3]*core.AABB{}
	c.invalidateUpward()
}

// Remove releases child; it reports whether child was owned by c
func (c *Composite) Remove(child Object) bool {
	for i, o := range c.children {
		if o == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			child.base().parent = nil
			child.NotifyAncestorHasTransformed()
			c.boxes = [3]*core.AABB{}
			c.invalidateUpward()
			return true
		}
	}
	return false
}

// Children returns the owned objects; the slice must not be modified
func (c *Composite) Children() []Object {
	return c.children
}

// IsBounded reports whether any child is bounded
func (c *Composite) IsBounded() bool {
	for _, child := range c.children {
		if child.IsBounded() {
			return true
		}
	}
	return false
}

// BoundingBox is the union of the bounded children's boxes
func (c *Composite) BoundingBox(frame Frame, cam *camera.Camera) core.AABB {
	return c.cachedBox(frame, func() core.AABB {
		box := core.EmptyAABB()
		for _, child := range c.children {
			if !child.IsBounded() {
				continue
			}
			if frame == FrameObject {
				// child object frame to this object's frame
				own := child.base().OwnTransform()
				box = box.Union(child.BoundingBox(FrameObject, cam).Transform(own.Forward))
			} else {
				box = box.Union(child.BoundingBox(frame, cam))
			}
		}
		return box
	})
}

func (c *Composite) NotifySelfHasTransformed() {
	c.Node.NotifySelfHasTransformed()
	c.notifyChildren()
}

func (c *Composite) NotifyAncestorHasTransformed() {
	c.Node.NotifyAncestorHasTransformed()
	c.notifyChildren()
}

func (c *Composite) notifyChildren() {
	for _, child := range c.children {
		child.NotifyAncestorHasTransformed()
	}
}

func (c *Composite) CameraHasChanged(cam *camera.Camera) {
	c.Node.CameraHasChanged(cam)
	for _, child := range c.children {
		child.CameraHasChanged(cam)
	}
}

// IntersectEyeRay fans out to every raytraceable child
func (c *Composite) IntersectEyeRay(ray core.Segment, cam *camera.Camera, lighting Lighting, hits []SurfacePoint) []SurfacePoint {
	for _, child := range c.children {
		if rt, ok := child.(Raytraceable); ok {
			hits = rt.IntersectEyeRay(ray, cam, lighting, hits)
		}
	}
	return hits
}

// IntersectLightRay fans out to every raytraceable child
func (c *Composite) IntersectLightRay(ray core.Segment, cam *camera.Camera, hits []SurfacePoint) []SurfacePoint {
	for _, child := range c.children {
		if rt, ok := child.(Raytraceable); ok {
			hits = rt.IntersectLightRay(ray, cam, hits)
		}
	}
	return hits
}

// Prepare warms every frame's caches in the subtree
func (c *Composite) Prepare(cam *camera.Camera) {
	for _, child := range c.children {
		if p, ok := child.(Preparer); ok {
			p.Prepare(cam)
		}
	}
	for _, f := range []Frame{FrameObject, FrameWorld, FrameCamera} {
		c.BoundingBox(f, cam)
	}
	c.ObjectToRoot()
}
