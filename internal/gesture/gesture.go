// Package gesture implements a point-cloud gesture recognizer in the $P
// family: strokes are resampled, normalized and greedily matched against
// named templates without regard to stroke order or direction.
package gesture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/logging"
)

// Errors returned by the recognizer.
var (
	// ErrNoTemplates indicates no template is registered.
	ErrNoTemplates = errors.New("no gesture templates configured")

	// ErrDegenerateInput indicates input with fewer than two points, a
	// zero-size bounding box or zero path length.
	ErrDegenerateInput = errors.New("degenerate gesture input")
)

const (
	// DefaultResampleCount is the number of points clouds are resampled to.
	DefaultResampleCount = 32

	// DefaultMinScore is the score a match must exceed to be reported by
	// RecognizeInk.
	DefaultMinScore = 0.7

	// scoreSharpness maps normalized cloud distance to a score via
	// exp(-scoreSharpness * d).
	scoreSharpness = 8.0
)

// Definition is a raw template as written in code or template files.
type Definition struct {
	Name   string
	Points []ink.Point
}

// Template is a normalized reference cloud. Templates are immutable.
type Template struct {
	Name   string
	Points []ink.Point
}

// NewTemplate normalizes def into a template of n points.
func NewTemplate(def Definition, n int) (Template, error) {
	if def.Name == "" {
		return Template{}, errors.New("template name is empty")
	}
	pts, err := normalize(def.Points, n)
	if err != nil {
		return Template{}, fmt.Errorf("template %q: %w", def.Name, err)
	}
	return Template{Name: def.Name, Points: pts}, nil
}

// Match is the result of comparing input to one template.
type Match struct {
	Name     string
	Score    float64
	Distance float64
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithTemplates replaces the default template set.
func WithTemplates(defs ...Definition) Option {
	return func(r *Recognizer) {
		r.defs = defs
	}
}

// WithResampleCount sets the resample point count. Values below 2 are
// ignored.
func WithResampleCount(n int) Option {
	return func(r *Recognizer) {
		if n >= 2 {
			r.n = n
		}
	}
}

// WithMinScore sets the acceptance threshold used by RecognizeInk.
func WithMinScore(s float64) Option {
	return func(r *Recognizer) {
		r.minScore = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recognizer) {
		r.logger = l
	}
}

// Recognizer matches ink against registered templates. It is safe for
// concurrent use.
type Recognizer struct {
	mu        sync.RWMutex
	templates []Template

	defs     []Definition
	n        int
	minScore float64
	logger   *slog.Logger
}

// New creates a recognizer loaded with DefaultTemplates unless
// WithTemplates says otherwise.
func New(opts ...Option) (*Recognizer, error) {
	r := &Recognizer{
		defs:     DefaultTemplates(),
		n:        DefaultResampleCount,
		minScore: DefaultMinScore,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.For("gesture")
	}
	for _, def := range r.defs {
		if err := r.AddTemplate(def); err != nil {
			return nil, err
		}
	}
	r.defs = nil
	return r, nil
}

// AddTemplate normalizes def and registers it after existing templates.
func (r *Recognizer) AddTemplate(def Definition) error {
	t, err := NewTemplate(def, r.n)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.templates = append(r.templates, t)
	r.mu.Unlock()
	return nil
}

// Templates returns the registered templates in registration order.
func (r *Recognizer) Templates() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// ResampleCount returns the configured point count.
func (r *Recognizer) ResampleCount() int { return r.n }

// MinScore returns the acceptance threshold.
func (r *Recognizer) MinScore() float64 { return r.minScore }

// Rank scores points against every template, in registration order.
func (r *Recognizer) Rank(points []ink.Point) ([]Match, error) {
	templates := r.Templates()
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	cloud, err := normalize(points, r.n)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(templates))
	for i, t := range templates {
		d := greedyCloudMatch(cloud, t.Points)
		matches[i] = Match{Name: t.Name, Distance: d, Score: score(d)}
	}
	return matches, nil
}

// Recognize returns the best matching template. The first registered
// template wins ties.
func (r *Recognizer) Recognize(points []ink.Point) (Match, error) {
	matches, err := r.Rank(points)
	if err != nil {
		return Match{}, err
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Distance < best.Distance {
			best = m
		}
	}
	return best, nil
}

// RecognizeInk reports the best template name when its score exceeds
// the threshold, and nothing otherwise.
func (r *Recognizer) RecognizeInk(ctx context.Context, points []ink.Point, _ []*ink.Stroke) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := r.Recognize(points)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("gesture scored", "name", m.Name, "score", m.Score)
	if m.Score > r.minScore {
		return []string{m.Name}, nil
	}
	return nil, nil
}

// Name identifies the recognizer in logs and metrics.
func (r *Recognizer) Name() string { return "gesture" }

func score(d float64) float64 {
	return math.Exp(-scoreSharpness * d)
}
