package ink

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// Stroke is one captured pen stroke.
//
// The capture service appends samples while the pen is down and finishes
// the stroke on pointer-up. After Finish the geometry is immutable; only
// the selection flag changes, so finished strokes may be read from any
// goroutine.
type Stroke struct {
	ID    string
	Style Style

	samples  []Sample
	bounds   Rect
	finished bool
	selected atomic.Bool

	segOnce  sync.Once
	segments []Segment
}

// NewStroke starts a stroke with a fresh ID.
func NewStroke(style Style) *Stroke {
	return &Stroke{ID: uuid.NewString(), Style: style}
}

// NewFinishedStroke builds a finished stroke from samples. Used for
// replayed ink and in tests.
func NewFinishedStroke(style Style, samples ...Sample) *Stroke {
	s := NewStroke(style)
	for _, smp := range samples {
		s.Append(smp)
	}
	s.Finish()
	return s
}

// StrokeFromXY builds a finished stroke from x,y pairs.
func StrokeFromXY(style Style, xy ...float64) *Stroke {
	samples := make([]Sample, 0, len(xy)/2)
	now := time.Now()
	for i := 0; i+1 < len(xy); i += 2 {
		samples = append(samples, Sample{X: xy[i], Y: xy[i+1], Pressure: 0.5, Time: now})
	}
	return NewFinishedStroke(style, samples...)
}

// Append adds a sample to an unfinished stroke. Calls after Finish are
// ignored.
func (s *Stroke) Append(smp Sample) {
	if s.finished {
		return
	}
	s.samples = append(s.samples, smp)
	if len(s.samples) == 1 {
		s.bounds = Rect{X: smp.X, Y: smp.Y}
		return
	}
	s.bounds = RectFromGG(s.bounds.GG().Union(gg.NewRect(smp.Position(), smp.Position())))
}

// Finish freezes the stroke geometry.
func (s *Stroke) Finish() {
	s.finished = true
}

// Finished reports whether the stroke has been finalized.
func (s *Stroke) Finished() bool {
	return s.finished
}

// Samples returns the raw samples. The slice must not be modified.
func (s *Stroke) Samples() []Sample {
	return s.samples
}

// Len returns the number of samples.
func (s *Stroke) Len() int {
	return len(s.samples)
}

// Bounds returns the stroke's bounding box.
func (s *Stroke) Bounds() Rect {
	return s.bounds
}

// Selected reports whether the stroke is marked for deletion.
func (s *Stroke) Selected() bool {
	return s.selected.Load()
}

// SetSelected sets the deletion marker.
func (s *Stroke) SetSelected(v bool) {
	s.selected.Store(v)
}

// Segments returns the curve-fitted rendering segments. For finished
// strokes the fit is computed once.
func (s *Stroke) Segments() []Segment {
	if !s.finished {
		return FitSegments(s.samples)
	}
	s.segOnce.Do(func() {
		s.segments = FitSegments(s.samples)
	})
	return s.segments
}

// Path returns the stroke outline as a gg path.
func (s *Stroke) Path() *gg.Path {
	p := gg.NewPath()
	AppendPath(p, s.Segments())
	return p
}

// InkPoints returns the stroke's samples as recognition points tagged
// with strokeID.
func (s *Stroke) InkPoints(strokeID int) []Point {
	pts := make([]Point, len(s.samples))
	for i, smp := range s.samples {
		pts[i] = Point{X: smp.X, Y: smp.Y, StrokeID: strokeID}
	}
	return pts
}

// HitTest reports whether p lies within tolerance of the stroke's
// polyline.
func (s *Stroke) HitTest(p gg.Point, tolerance float64) bool {
	if len(s.samples) == 0 || !s.bounds.Inflate(tolerance).Contains(p) {
		return false
	}
	if len(s.samples) == 1 {
		return s.samples[0].Position().Distance(p) <= tolerance
	}
	for i := 1; i < len(s.samples); i++ {
		if segmentDistance(p, s.samples[i-1].Position(), s.samples[i].Position()) <= tolerance {
			return true
		}
	}
	return false
}

// Crosses reports whether the polylines of s and o intersect or come
// within tolerance of each other.
func (s *Stroke) Crosses(o *Stroke, tolerance float64) bool {
	if len(s.samples) == 0 || len(o.samples) == 0 {
		return false
	}
	if !s.bounds.Inflate(tolerance).Intersects(o.bounds) {
		return false
	}
	for _, smp := range o.samples {
		if s.HitTest(smp.Position(), tolerance) {
			return true
		}
	}
	for _, smp := range s.samples {
		if o.HitTest(smp.Position(), tolerance) {
			return true
		}
	}
	for i := 1; i < len(s.samples); i++ {
		a, b := s.samples[i-1].Position(), s.samples[i].Position()
		for j := 1; j < len(o.samples); j++ {
			if segmentsIntersect(a, b, o.samples[j-1].Position(), o.samples[j].Position()) {
				return true
			}
		}
	}
	return false
}

// segmentDistance returns the distance from p to segment ab.
func segmentDistance(p, a, b gg.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.LengthSquared()
	if l2 == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = max(0, min(1, t))
	return p.Distance(a.Add(ab.Mul(t)))
}

func segmentsIntersect(a, b, c, d gg.Point) bool {
	d1 := b.Sub(a).Cross(c.Sub(a))
	d2 := b.Sub(a).Cross(d.Sub(a))
	d3 := d.Sub(c).Cross(a.Sub(c))
	d4 := d.Sub(c).Cross(b.Sub(c))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
