// Package capture turns pointer events into ink strokes.
//
// A Manager tracks one drawing pointer at a time and forwards its samples
// to a Service, which owns the stroke records. Strokes drawn with the pen's
// eraser delete the ink they cross instead of being kept.
package capture

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/gg"

	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/logging"
)

// Mode is the manager's drawing mode, set on each pointer-down.
type Mode uint8

const (
	// ModeInking keeps finished strokes.
	ModeInking Mode = iota
	// ModeErasing deletes the strokes a finished stroke crosses.
	ModeErasing
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	if m == ModeErasing {
		return "erasing"
	}
	return "inking"
}

// Config configures a Manager.
type Config struct {
	// Kinds lists the pointer kinds that may draw.
	Kinds []PointerKind

	// Style is the initial pen style.
	Style ink.Style

	// EraseImmediately deletes crossed strokes when an eraser stroke
	// ends. When false they are only selected until FlushErased.
	EraseImmediately bool
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() Config {
	return Config{
		Kinds:            []PointerKind{KindPen, KindMouse},
		Style:            ink.DefaultStyle,
		EraseImmediately: true,
	}
}

// DrawTest decides whether a stroke may start at a canvas position.
type DrawTest func(pos gg.Point) bool

// Option configures a Manager.
type Option func(*Manager)

// WithDrawTest installs a veto on new strokes.
func WithDrawTest(fn DrawTest) Option {
	return func(m *Manager) { m.drawTest = fn }
}

// WithOnDrawEnd sets the callback run after an ink stroke is finished.
func WithOnDrawEnd(fn func(*ink.Stroke)) Option {
	return func(m *Manager) { m.onDrawEnd = fn }
}

// WithOnDelete sets the callback run after strokes are deleted.
func WithOnDelete(fn func([]*ink.Stroke)) Option {
	return func(m *Manager) { m.onDelete = fn }
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager is the stroke manager: it adapts pointer events to the capture
// service.
type Manager struct {
	mu     sync.Mutex
	svc    Service
	config Config
	style  ink.Style
	mode   Mode
	pen    penTracker

	drawTest  DrawTest
	onDrawEnd func(*ink.Stroke)
	onDelete  func([]*ink.Stroke)
	logger    *slog.Logger
}

// NewManager creates a manager over svc.
func NewManager(svc Service, config Config, opts ...Option) *Manager {
	m := &Manager{
		svc:    svc,
		config: config,
		style:  config.Style,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.Logger()
	}
	m.logger = m.logger.With("component", "capture")
	return m
}

// Handle processes a pointer event. It reports whether the event was
// consumed.
func (m *Manager) Handle(ev PointerEvent) bool {
	var (
		done    *ink.Stroke
		deleted []*ink.Stroke
		handled bool
	)

	m.mu.Lock()
	switch ev.Action {
	case ActionDown:
		handled = m.handleDown(ev)
	case ActionMove:
		handled = m.handleMove(ev)
	case ActionUp, ActionOut:
		done, deleted, handled = m.handleUp(ev)
	}
	onDrawEnd, onDelete := m.onDrawEnd, m.onDelete
	m.mu.Unlock()

	if done != nil && onDrawEnd != nil {
		onDrawEnd(done)
	}
	if len(deleted) > 0 && onDelete != nil {
		onDelete(deleted)
	}
	return handled
}

func (m *Manager) handleDown(ev PointerEvent) bool {
	if m.pen.active {
		return false
	}
	if !slices.Contains(m.config.Kinds, ev.Kind) {
		return false
	}
	if m.drawTest != nil && !m.drawTest(ev.Position) {
		m.logger.Debug("stroke vetoed", "x", ev.Position.X, "y", ev.Position.Y)
		return false
	}

	m.mode = ModeInking
	if ev.Eraser {
		m.mode = ModeErasing
	}
	s := m.svc.Begin(m.style, sampleAt(ev, ev.Position))
	m.pen.start(ev.PointerID, s, ev.Position)
	return true
}

func (m *Manager) handleMove(ev PointerEvent) bool {
	if !m.pen.owns(ev.PointerID) {
		return false
	}
	m.extend(ev)
	return true
}

func (m *Manager) handleUp(ev PointerEvent) (*ink.Stroke, []*ink.Stroke, bool) {
	if !m.pen.owns(ev.PointerID) {
		return nil, nil, false
	}
	if ev.Action == ActionUp {
		m.extend(ev)
	}
	s := m.pen.end()
	m.svc.End(s)

	if m.mode == ModeInking {
		m.logger.Debug("stroke finished", "id", s.ID, "samples", s.Len())
		return s, nil, true
	}

	hits := m.svc.Intersecting(s)
	m.svc.Discard(s)
	for _, h := range hits {
		h.SetSelected(true)
	}
	if !m.config.EraseImmediately {
		return nil, nil, true
	}
	deleted := m.svc.Delete(hits)
	m.logger.Debug("erased strokes", "count", len(deleted))
	return nil, deleted, true
}

// extend samples the event's intermediate positions and its position,
// skipping repeats of the last sample.
func (m *Manager) extend(ev PointerEvent) {
	samples := make([]ink.Sample, 0, len(ev.Intermediate)+1)
	for _, p := range append(slices.Clone(ev.Intermediate), ev.Position) {
		if p == m.pen.last {
			continue
		}
		samples = append(samples, sampleAt(ev, p))
		m.pen.last = p
	}
	if len(samples) > 0 {
		m.svc.Extend(m.pen.stroke, samples...)
	}
}

func sampleAt(ev PointerEvent, p gg.Point) ink.Sample {
	return ink.Sample{X: p.X, Y: p.Y, Pressure: ev.Pressure, Time: ev.Timestamp}
}

// Mode returns the current drawing mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// State returns a snapshot of the pointer tracking state.
func (m *Manager) State() PenState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pen.state()
}

// Style returns the pen style used for new strokes.
func (m *Manager) Style() ink.Style {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.style
}

// SetColor sets the color of new strokes. The name is resolved when the
// stroke is drawn, so unknown names render gray.
func (m *Manager) SetColor(name string) {
	m.mu.Lock()
	m.style.ColorName = name
	m.mu.Unlock()
}

// SetWidth sets the width of new strokes.
func (m *Manager) SetWidth(px float64) {
	m.mu.Lock()
	m.style.WidthPx = px
	m.mu.Unlock()
}

// Strokes returns the finished strokes.
func (m *Manager) Strokes() []*ink.Stroke {
	return m.svc.Strokes()
}

// DeleteStrokes removes the given strokes, matched by identity, and
// returns the ones that were deleted.
func (m *Manager) DeleteStrokes(strokes []*ink.Stroke) []*ink.Stroke {
	for _, s := range strokes {
		s.SetSelected(true)
	}
	deleted := m.svc.Delete(strokes)
	m.notifyDelete(deleted)
	return deleted
}

// FlushErased deletes every selected stroke.
func (m *Manager) FlushErased() []*ink.Stroke {
	var selected []*ink.Stroke
	for _, s := range m.svc.Strokes() {
		if s.Selected() {
			selected = append(selected, s)
		}
	}
	deleted := m.svc.Delete(selected)
	m.notifyDelete(deleted)
	return deleted
}

func (m *Manager) notifyDelete(deleted []*ink.Stroke) {
	if len(deleted) == 0 {
		return
	}
	m.mu.Lock()
	fn := m.onDelete
	m.mu.Unlock()
	if fn != nil {
		fn(deleted)
	}
}
