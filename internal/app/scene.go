package app

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/ink"
)

// Object kinds beyond the assistant's constructor kinds.
const (
	KindScript = "script"
)

// Minimum size of a constructed object, in canvas pixels.
const (
	minObjectWidth  = 40
	minObjectHeight = 24
)

// Object is something placed on the scene. Its operations are what
// recognized ink drawn over it can invoke.
type Object struct {
	ID     string
	Kind   string
	Bounds ink.Rect
	Color  string
	Text   string
	Ticked bool

	// Strokes is the ink a shape object was made from.
	Strokes []*ink.Stroke

	scene  *Scene
	ops    *action.Table
	script action.Target
}

// Operations implements action.Target.
func (o *Object) Operations() []action.Operation {
	if o.script != nil {
		return o.script.Operations()
	}
	return o.ops.Operations()
}

func (o *Object) operations() *action.Table {
	return action.NewTable(
		action.Operation{Name: "destroy", Invoke: func([]string) error {
			if !o.scene.Remove(o) {
				return fmt.Errorf("%s is not on the scene", o.Kind)
			}
			return nil
		}},
		action.Operation{Name: "clone", Invoke: func([]string) error {
			o.scene.clone(o)
			return nil
		}},
		action.Operation{Name: "tickmark", Invoke: func([]string) error {
			o.scene.update(func() { o.Ticked = !o.Ticked })
			return nil
		}},
		action.Operation{Name: "moveBy", Params: []string{"dx", "dy"}, Invoke: func(args []string) error {
			dx, dy, err := parsePair(args)
			if err != nil {
				return err
			}
			o.scene.update(func() { o.Bounds.X += dx; o.Bounds.Y += dy })
			return nil
		}},
		action.Operation{Name: "setPosition", Params: []string{"x", "y"}, Invoke: func(args []string) error {
			x, y, err := parsePair(args)
			if err != nil {
				return err
			}
			o.scene.update(func() { o.Bounds.X, o.Bounds.Y = x, y })
			return nil
		}},
		action.Operation{Name: "setColor", Params: []string{"color"}, Invoke: func(args []string) error {
			o.scene.update(func() { o.Color = args[0] })
			return nil
		}},
		action.Operation{Name: "setText", Params: []string{"text"}, Invoke: func(args []string) error {
			o.scene.update(func() { o.Text = args[0] })
			return nil
		}},
	)
}

func parsePair(args []string) (float64, float64, error) {
	a, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("not a number: %q", args[0])
	}
	b, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("not a number: %q", args[1])
	}
	return a, b, nil
}

// Scene is the world the ink is drawn over. Empty space resolves to the
// scene itself, which constructs new objects. It is safe for concurrent
// use.
type Scene struct {
	mu      sync.RWMutex
	bounds  ink.Rect
	objects []*Object
	ops     *action.Table
}

// NewScene creates an empty scene covering width by height canvas pixels.
func NewScene(width, height float64) *Scene {
	s := &Scene{bounds: ink.Rect{Width: width, Height: height}}
	s.ops = action.NewTable(
		action.Operation{Name: "clear", Invoke: func([]string) error {
			s.mu.Lock()
			s.objects = nil
			s.mu.Unlock()
			return nil
		}},
	)
	return s
}

// Bounds returns the drawable area.
func (s *Scene) Bounds() ink.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// Resize changes the drawable area.
func (s *Scene) Resize(width, height float64) {
	s.mu.Lock()
	s.bounds.Width, s.bounds.Height = width, height
	s.mu.Unlock()
}

// TargetAt implements assistant.World. Later objects are on top.
func (s *Scene) TargetAt(p gg.Point) action.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range slices.Backward(s.objects) {
		if o.Bounds.Contains(p) {
			return o
		}
	}
	return s
}

// AllowsDrawingOver implements assistant.World. Ink may start anywhere
// on the scene.
func (s *Scene) AllowsDrawingOver(p gg.Point) bool {
	return s.Bounds().Contains(p)
}

// Operations implements action.Target.
func (s *Scene) Operations() []action.Operation {
	return s.ops.Operations()
}

// Construct implements assistant.Background.
func (s *Scene) Construct(kind string, g ink.Group) error {
	b := g.Bounds()
	o := &Object{Kind: kind, Bounds: b, Color: "black"}
	switch kind {
	case assistant.KindRectangle, assistant.KindCircle:
		o.Bounds.Width = max(b.Width, minObjectWidth)
		o.Bounds.Height = max(b.Height, minObjectHeight)
	case assistant.KindString:
		o.Text = "text"
		o.Bounds.Width = max(b.Width, minObjectWidth)
		o.Bounds.Height = max(b.Height, minObjectHeight)
	case assistant.KindShape:
		o.Strokes = slices.Clone(g.Strokes)
		if len(o.Strokes) > 0 {
			o.Color = o.Strokes[0].Style.ColorName
		}
	default:
		return fmt.Errorf("cannot construct %q", kind)
	}
	s.add(o)
	return nil
}

// Add places a new object of kind at bounds and returns it.
func (s *Scene) Add(kind string, bounds ink.Rect) *Object {
	o := &Object{Kind: kind, Bounds: bounds, Color: "black"}
	s.add(o)
	return o
}

// AttachScript places an object whose operations come from t.
func (s *Scene) AttachScript(name string, t action.Target, bounds ink.Rect) *Object {
	o := &Object{Kind: KindScript, Bounds: bounds, Color: "blue", Text: name, script: t}
	s.add(o)
	return o
}

func (s *Scene) add(o *Object) {
	o.ID = uuid.NewString()
	o.scene = s
	if o.script == nil {
		o.ops = o.operations()
	}
	s.mu.Lock()
	s.objects = append(s.objects, o)
	s.mu.Unlock()
}

func (s *Scene) clone(o *Object) {
	s.mu.RLock()
	c := &Object{
		Kind:    o.Kind,
		Bounds:  o.Bounds,
		Color:   o.Color,
		Text:    o.Text,
		Ticked:  o.Ticked,
		Strokes: o.Strokes,
		script:  o.script,
	}
	s.mu.RUnlock()
	c.Bounds.X += action.MoveStep
	c.Bounds.Y += action.MoveStep
	s.add(c)
}

// Remove takes o off the scene.
func (s *Scene) Remove(o *Object) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.objects)
	s.objects = slices.DeleteFunc(s.objects, func(x *Object) bool { return x == o })
	return len(s.objects) < n
}

func (s *Scene) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
}

// Objects returns copies of the objects, bottom first.
func (s *Scene) Objects() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = *o
	}
	return out
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
