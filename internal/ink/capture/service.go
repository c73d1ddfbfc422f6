package capture

import (
	"slices"
	"sync"

	"github.com/dshills/inkwell/internal/ink"
)

// DefaultTolerance is the hit distance, in canvas units, used when an
// eraser stroke is tested against the ink.
const DefaultTolerance = 4.0

// Service is the ink capture platform: it owns stroke records, samples
// pointer positions into them and answers geometry queries. Implementations
// must be safe for concurrent use; Strokes is read from the recognition
// goroutine while the UI goroutine extends the active stroke.
type Service interface {
	// Begin starts a stroke at the first sample.
	Begin(style ink.Style, first ink.Sample) *ink.Stroke
	// Extend appends samples to an unfinished stroke.
	Extend(s *ink.Stroke, samples ...ink.Sample)
	// End finalizes a stroke and makes it visible through Strokes.
	End(s *ink.Stroke)
	// Discard drops a stroke without keeping it.
	Discard(s *ink.Stroke)
	// Strokes returns the finished strokes in capture order.
	Strokes() []*ink.Stroke
	// Intersecting returns the finished strokes that s touches.
	Intersecting(s *ink.Stroke) []*ink.Stroke
	// Delete removes the given strokes, matched by identity, and returns
	// the ones that were present.
	Delete(strokes []*ink.Stroke) []*ink.Stroke
}

// MemoryService is the in-process Service.
type MemoryService struct {
	mu        sync.Mutex
	strokes   []*ink.Stroke
	active    map[*ink.Stroke]struct{}
	tolerance float64
}

// NewMemoryService creates an empty service. A non-positive tolerance
// selects DefaultTolerance.
func NewMemoryService(tolerance float64) *MemoryService {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &MemoryService{
		active:    make(map[*ink.Stroke]struct{}),
		tolerance: tolerance,
	}
}

// Begin implements Service.
func (m *MemoryService) Begin(style ink.Style, first ink.Sample) *ink.Stroke {
	s := ink.NewStroke(style)
	m.mu.Lock()
	s.Append(first)
	m.active[s] = struct{}{}
	m.mu.Unlock()
	return s
}

// Extend implements Service.
func (m *MemoryService) Extend(s *ink.Stroke, samples ...ink.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[s]; !ok {
		return
	}
	for _, smp := range samples {
		s.Append(smp)
	}
}

// End implements Service.
func (m *MemoryService) End(s *ink.Stroke) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[s]; !ok {
		return
	}
	delete(m.active, s)
	s.Finish()
	m.strokes = append(m.strokes, s)
}

// Discard implements Service.
func (m *MemoryService) Discard(s *ink.Stroke) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, s)
	m.strokes = slices.DeleteFunc(m.strokes, func(x *ink.Stroke) bool { return x == s })
}

// Strokes implements Service.
func (m *MemoryService) Strokes() []*ink.Stroke {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.strokes)
}

// Intersecting implements Service.
func (m *MemoryService) Intersecting(s *ink.Stroke) []*ink.Stroke {
	m.mu.Lock()
	defer m.mu.Unlock()

	var hits []*ink.Stroke
	for _, o := range m.strokes {
		if o != s && s.Crosses(o, m.tolerance) {
			hits = append(hits, o)
		}
	}
	return hits
}

// Delete implements Service.
func (m *MemoryService) Delete(strokes []*ink.Stroke) []*ink.Stroke {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []*ink.Stroke
	m.strokes = slices.DeleteFunc(m.strokes, func(x *ink.Stroke) bool {
		if slices.Contains(strokes, x) {
			removed = append(removed, x)
			return true
		}
		return false
	})
	return removed
}

// Len returns the number of finished strokes.
func (m *MemoryService) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.strokes)
}
