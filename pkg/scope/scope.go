// Package scope implements ParaC's lexical scope stack: an ordered sequence
// of frames, innermost on top, resolved top-to-bottom.
//
// Grounded on the teacher's pkg/eval.Environment (outer-pointer chain of
// maps), restructured into an explicit stack per spec.md §9's redesign
// guidance ("the scope stack must not be rebuilt into a tree with
// back-pointers; a simple stack of frames suffices because no closure
// exists in the language").
package scope

import (
	"fmt"

	"paracl/pkg/interner"
	"paracl/pkg/value"
)

// Frame is one lexical scope: a mapping from interned name to Value.
type Frame struct {
	bindings map[interner.Handle]value.Value
}

func newFrame() *Frame {
	return &Frame{bindings: make(map[interner.Handle]value.Value)}
}

// Stack is the scope stack. The zero Stack is empty and unusable; use New.
type Stack struct {
	frames []*Frame
}

// New returns an empty stack. Enter must be called before Read/Write.
func New() *Stack {
	return &Stack{}
}

// Enter pushes a fresh, empty frame.
func (s *Stack) Enter() {
	s.frames = append(s.frames, newFrame())
}

// Leave pops the top frame, erasing every binding it introduced.
func (s *Stack) Leave() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth reports how many frames are currently live.
func (s *Stack) Depth() int { return len(s.frames) }

// Read resolves name top-to-bottom and returns a clone of the binding found.
// ok is false if no live frame contains name.
func (s *Stack) Read(name interner.Handle) (v value.Value, ok bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if val, found := s.frames[i].bindings[name]; found {
			return val.Clone(), true
		}
	}
	return nil, false
}

// Write implements spec.md §3.3's write rule: search top-to-bottom; if any
// frame already binds name, write into that frame (respecting shadowing);
// otherwise create the binding in the innermost frame.
func (s *Stack) Write(name interner.Handle, v value.Value) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, found := s.frames[i].bindings[name]; found {
			s.frames[i].bindings[name] = v
			return
		}
	}
	top := s.frames[len(s.frames)-1]
	top.bindings[name] = v
}

// IndexPathError reports why WriteIndexed could not reach the target cell.
type IndexPathError struct {
	// Kind is one of "type" (a non-Array was indexed), "bounds", or
	// "undeclared" (the base name has no live binding at all).
	Kind   string
	Index  int64
	Length int
}

func (e *IndexPathError) Error() string {
	switch e.Kind {
	case "bounds":
		return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Length)
	case "undeclared":
		return "base variable is not bound"
	default:
		return "indexed value is not an array"
	}
}

// WriteIndexed implements spec.md §4.E's WriteInto: name must already be
// bound to an Array; path is the sequence of subscripts, outermost first,
// navigated to the target cell, which is replaced with v. Any non-Array
// encountered along path, or any out-of-range index, returns an
// *IndexPathError without mutating anything.
func (s *Stack) WriteIndexed(name interner.Handle, path []int64, v value.Value) error {
	for i := len(s.frames) - 1; i >= 0; i-- {
		base, found := s.frames[i].bindings[name]
		if !found {
			continue
		}
		arr, ok := base.(*value.Array)
		if !ok {
			return &IndexPathError{Kind: "type"}
		}
		for depth, idx := range path {
			if idx < 0 || int(idx) >= len(arr.Elems) {
				return &IndexPathError{Kind: "bounds", Index: idx, Length: len(arr.Elems)}
			}
			if depth == len(path)-1 {
				arr.Elems[idx] = v
				return nil
			}
			next, ok := arr.Elems[idx].(*value.Array)
			if !ok {
				return &IndexPathError{Kind: "type"}
			}
			arr = next
		}
		return nil
	}
	return &IndexPathError{Kind: "undeclared"}
}
