package recognize

import (
	"context"
	"fmt"

	"github.com/dshills/inkwell/internal/ink"
)

// Recognizer turns the ink of one stroke group into ranked text
// candidates. Implementations must honor ctx and must not modify points
// or strokes.
type Recognizer interface {
	RecognizeInk(ctx context.Context, points []ink.Point, strokes []*ink.Stroke) ([]string, error)
}

// Func adapts a function to Recognizer.
type Func func(ctx context.Context, points []ink.Point, strokes []*ink.Stroke) ([]string, error)

// RecognizeInk calls f.
func (f Func) RecognizeInk(ctx context.Context, points []ink.Point, strokes []*ink.Stroke) ([]string, error) {
	return f(ctx, points, strokes)
}

// nameOf returns r's name for logs.
func nameOf(r Recognizer) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}

// DefaultLiteralLabel is the candidate offered by Literal.
const DefaultLiteralLabel = "Make shape into object"

// Literal offers the same fixed candidate for every group, so any shape
// can be turned into an object.
type Literal struct {
	Label string
}

// RecognizeInk implements Recognizer.
func (l Literal) RecognizeInk(ctx context.Context, _ []ink.Point, _ []*ink.Stroke) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	label := l.Label
	if label == "" {
		label = DefaultLiteralLabel
	}
	return []string{label}, nil
}

// Name identifies the recognizer.
func (Literal) Name() string { return "literal" }

// StrokeSource supplies the strokes captured so far.
type StrokeSource interface {
	Strokes() []*ink.Stroke
}

// StrokesFunc adapts a function to StrokeSource.
type StrokesFunc func() []*ink.Stroke

// Strokes calls f.
func (f StrokesFunc) Strokes() []*ink.Stroke { return f() }
