package core

import "fmt"

// Transform pairs a matrix with its inverse
type Transform struct {
	Forward Matrix4
	Reverse Matrix4
}

// IdentityTransform returns the identity in both directions
func IdentityTransform() Transform {
	return Transform{Forward: Identity(), Reverse: Identity()}
}

// NewTransform pairs m with its computed inverse. m must not be singular.
func NewTransform(m Matrix4) Transform {
	return Transform{Forward: m, Reverse: m.Inverse()}
}

// Then returns the transform applying t first and next second
func (t Transform) Then(next Transform) Transform {
	return Transform{
		Forward: t.Forward.Then(next.Forward),
		Reverse: next.Reverse.Then(t.Reverse),
	}
}

// TransformStack is an ordered list of transform steps with lazily
// composed forward and reverse matrices. It is not safe for concurrent
// mutation; reads after Composite has been called once are safe.
type TransformStack struct {
	steps     []Transform
	composite *Transform
}

// Push appends a step computing its inverse
func (s *TransformStack) Push(m Matrix4) {
	s.PushTransform(NewTransform(m))
}

// PushTransform appends a step with a known inverse
func (s *TransformStack) PushTransform(t Transform) {
	s.steps = append(s.steps, t)
	s.composite = nil
}

// Undo removes the last step. It reports false on an empty stack.
func (s *TransformStack) Undo() bool {
	if len(s.steps) == 0 {
		return false
	}
	s.steps = s.steps[:len(s.steps)-1]
	s.composite = nil
	return true
}

// UndoFrom removes the step at index step and every later step
func (s *TransformStack) UndoFrom(step int) error {
	if step < 0 || step > len(s.steps) {
		return fmt.Errorf("undo from step %d of %d: out of range", step, len(s.steps))
	}
	s.steps = s.steps[:step]
	s.composite = nil
	return nil
}

// Replace swaps the step at index step for m
func (s *TransformStack) Replace(step int, m Matrix4) error {
	if step < 0 || step >= len(s.steps) {
		return fmt.Errorf("replace step %d of %d: out of range", step, len(s.steps))
	}
	s.steps[step] = NewTransform(m)
	s.composite = nil
	return nil
}

// Reset removes every step
func (s *TransformStack) Reset() {
	s.steps = nil
	s.composite = nil
}

// CurrentStep is the number of steps, and the index the next Push will occupy
func (s *TransformStack) CurrentStep() int {
	return len(s.steps)
}

// Composite returns all steps applied in order, with its inverse
func (s *TransformStack) Composite() Transform {
	if s.composite == nil {
		c := IdentityTransform()
		for _, step := range s.steps {
			c = c.Then(step)
		}
		s.composite = &c
	}
	return *s.composite
}
