package geometry

import (
	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Node holds the state every scene object shares: its place in the tree,
// its own transform stack and the caches derived from them. Concrete
// objects embed a Node and call init with themselves so that generic
// operations dispatch to their overrides.
type Node struct {
	self       Object
	parent     *Composite
	transforms core.TransformStack

	objectToRoot *core.Transform
	boxes        [3]*core.AABB
	onChange     func()
}

func (n *Node) init(self Object) {
	n.self = self
}

func (n *Node) base() *Node { return n }

// Parent returns the owning composite, nil for top-level objects
func (n *Node) Parent() *Composite { return n.parent }

// SetChangeListener registers fn to run whenever this subtree's geometry
// changes. It is meant for top-level objects and is how a scene learns
// that its cached boxes and index are stale.
func SetChangeListener(o Object, fn func()) {
	o.base().onChange = fn
}

// Transform appends m to the object's own transform stack
func (n *Node) Transform(m core.Matrix4) {
	n.transforms.Push(m)
	n.self.NotifySelfHasTransformed()
}

// Translate is shorthand for Transform(Translation)
func (n *Node) Translate(x, y, z float64) { n.Transform(core.Translation(x, y, z)) }

// Scale is shorthand for Transform(Scaling)
func (n *Node) Scale(sx, sy, sz float64) { n.Transform(core.Scaling(sx, sy, sz)) }

func (n *Node) RotateX(angle float64) { n.Transform(core.RotationX(angle)) }
func (n *Node) RotateY(angle float64) { n.Transform(core.RotationY(angle)) }
func (n *Node) RotateZ(angle float64) { n.Transform(core.RotationZ(angle)) }

// UndoLastTransform drops the most recent step, if any
func (n *Node) UndoLastTransform() {
	if n.transforms.Undo() {
		n.self.NotifySelfHasTransformed()
	}
}

// UndoTransformsFrom drops the step at index step and all later ones
func (n *Node) UndoTransformsFrom(step int) error {
	if err := n.transforms.UndoFrom(step); err != nil {
		return err
	}
	n.self.NotifySelfHasTransformed()
	return nil
}

// ReplaceTransformAt swaps the step at index step
func (n *Node) ReplaceTransformAt(step int, m core.Matrix4) error {
	if err := n.transforms.Replace(step, m); err != nil {
		return err
	}
	n.self.NotifySelfHasTransformed()
	return nil
}

// ResetTransforms drops every step
func (n *Node) ResetTransforms() {
	n.transforms.Reset()
	n.self.NotifySelfHasTransformed()
}

// CurrentTransformStep is the index the next transform will occupy
func (n *Node) CurrentTransformStep() int {
	return n.transforms.CurrentStep()
}

// OwnTransform is the composite of this object's own steps
func (n *Node) OwnTransform() core.Transform {
	return n.transforms.Composite()
}

// ObjectToRoot composes the own transform with every ancestor's
func (n *Node) ObjectToRoot() core.Transform {
	if n.objectToRoot == nil {
		t := n.transforms.Composite()
		if n.parent != nil {
			t = t.Then(n.parent.ObjectToRoot())
		}
		n.objectToRoot = &t
	}
	return *n.objectToRoot
}

// NotifySelfHasTransformed drops caches that depend on the own transform
// and stale boxes further up the tree
func (n *Node) NotifySelfHasTransformed() {
	n.invalidateTransformed()
	n.invalidateUpward()
}

// NotifyAncestorHasTransformed drops caches that depend on an ancestor's transform
func (n *Node) NotifyAncestorHasTransformed() {
	n.invalidateTransformed()
}

// CameraHasChanged drops camera-frame caches
func (n *Node) CameraHasChanged(*camera.Camera) {
	n.boxes[FrameCamera] = nil
}

func (n *Node) invalidateTransformed() {
	n.objectToRoot = nil
	n.boxes[FrameWorld] = nil
	n.boxes[FrameCamera] = nil
}

// invalidateUpward clears every ancestor's boxes, whose unions include this object
func (n *Node) invalidateUpward() {
	top := n
	for p := n.parent; p != nil; p = p.parent {
		p.boxes = [3]*core.AABB{}
		top = &p.Node
	}
	if top.onChange != nil {
		top.onChange()
	}
}

// cachedBox returns the memoized box for frame, computing it with derive on a miss
func (n *Node) cachedBox(frame Frame, derive func() core.AABB) core.AABB {
	if b := n.boxes[frame]; b != nil {
		return *b
	}
	b := derive()
	n.boxes[frame] = &b
	return b
}
