package capture

import (
	"time"

	"github.com/gogpu/gg"
)

// PointerKind identifies the device that produced a pointer event.
type PointerKind uint8

const (
	// KindPen is a stylus.
	KindPen PointerKind = iota
	// KindMouse is a mouse or trackpad.
	KindMouse
	// KindTouch is a finger on a touch screen.
	KindTouch
)

// String returns a string representation of the kind.
func (k PointerKind) String() string {
	switch k {
	case KindPen:
		return "pen"
	case KindMouse:
		return "mouse"
	case KindTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// PointerAction is the phase of a pointer event.
type PointerAction uint8

const (
	// ActionDown starts contact.
	ActionDown PointerAction = iota
	// ActionMove moves while in contact.
	ActionMove
	// ActionUp ends contact.
	ActionUp
	// ActionOut means the pointer left the surface without an up.
	ActionOut
)

// String returns a string representation of the action.
func (a PointerAction) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	case ActionOut:
		return "out"
	default:
		return "unknown"
	}
}

// PointerEvent is one pointer event delivered by the host UI.
type PointerEvent struct {
	// PointerID distinguishes simultaneous pointers.
	PointerID int

	// Kind is the device type.
	Kind PointerKind

	// Action is the event phase.
	Action PointerAction

	// Position is the canvas position of the event.
	Position gg.Point

	// Intermediate holds coalesced positions reported since the previous
	// event, oldest first. Position is not repeated here.
	Intermediate []gg.Point

	// Pressure is the normalized pen pressure, 0 when unknown.
	Pressure float64

	// Eraser is set when the pen's eraser end or eraser button is active.
	Eraser bool

	// Timestamp is when the event occurred.
	Timestamp time.Time
}
