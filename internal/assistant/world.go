package assistant

import (
	"github.com/gogpu/gg"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/ink"
)

// World is the object space the ink is drawn over.
type World interface {
	// TargetAt returns the topmost object at p. The world itself is
	// returned for empty space.
	TargetAt(p gg.Point) action.Target
	// AllowsDrawingOver reports whether a stroke may start at p.
	AllowsDrawingOver(p gg.Point) bool
}

// Background is implemented by targets that create new objects in the
// area covered by a stroke group, typically the world itself.
type Background interface {
	action.Target
	Construct(kind string, g ink.Group) error
}

// Notifier shows non-fatal messages to the user.
type Notifier interface {
	Inform(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Inform calls f.
func (f NotifierFunc) Inform(msg string) { f(msg) }

// Ink is the stroke store the assistant deletes from.
type Ink interface {
	DeleteStrokes(strokes []*ink.Stroke) []*ink.Stroke
	FlushErased() []*ink.Stroke
}

// Kinds of objects offered on a Background.
const (
	KindRectangle = "rectangle"
	KindCircle    = "circle"
	KindString    = "string"
	// KindShape turns the ink itself into an object.
	KindShape = "shape"
)

// ShapeOperation is the operation offered for the literal recognizer's
// label. Its normalized name equals the normalized default label.
const ShapeOperation = "makeShapeIntoObject"

// ConstructorTarget offers constructor entries for a group drawn on a
// background, followed by the background's own operations.
type ConstructorTarget struct {
	Base  Background
	Group ink.Group
}

// Operations implements action.Target.
func (c ConstructorTarget) Operations() []action.Operation {
	ops := []action.Operation{
		c.constructor(KindRectangle, "Make new rectangle"),
		c.constructor(KindCircle, "Make new circle"),
		c.constructor(KindString, "Make new string"),
	}
	shape := c.constructor(KindShape, "Make shape into object")
	shape.Name = ShapeOperation
	ops = append(ops, shape)
	return append(ops, c.Base.Operations()...)
}

func (c ConstructorTarget) constructor(kind, label string) action.Operation {
	return action.Operation{
		Name:  kind,
		Label: label,
		Invoke: func([]string) error {
			return c.Base.Construct(kind, c.Group)
		},
	}
}
