package capture

import (
	"github.com/gogpu/gg"

	"github.com/dshills/inkwell/internal/ink"
)

// penTracker tracks the single pointer currently drawing.
type penTracker struct {
	// active indicates a stroke is in progress.
	active bool

	// pointerID is the pointer that owns the stroke.
	pointerID int

	// stroke is the stroke being captured.
	stroke *ink.Stroke

	// last is the most recent sampled position.
	last gg.Point
}

// start begins tracking pointer id drawing into s.
func (t *penTracker) start(id int, s *ink.Stroke, pos gg.Point) {
	t.active = true
	t.pointerID = id
	t.stroke = s
	t.last = pos
}

// owns reports whether id is the tracked pointer.
func (t *penTracker) owns(id int) bool {
	return t.active && t.pointerID == id
}

// end stops tracking and returns the finished stroke.
func (t *penTracker) end() *ink.Stroke {
	s := t.stroke
	*t = penTracker{}
	return s
}

// PenState is a snapshot of the pointer tracking state.
type PenState struct {
	// Active indicates a stroke is in progress.
	Active bool

	// PointerID is the pointer that owns the stroke.
	PointerID int

	// Stroke is the stroke being captured, nil when idle.
	Stroke *ink.Stroke

	// Last is the most recent sampled position.
	Last gg.Point
}

func (t *penTracker) state() PenState {
	return PenState{
		Active:    t.active,
		PointerID: t.pointerID,
		Stroke:    t.stroke,
		Last:      t.last,
	}
}
