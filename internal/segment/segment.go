// Package segment partitions captured strokes into groups that are
// recognized as one unit.
package segment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/logging"
)

// ErrSegmentationUnavailable indicates the segmentation service failed.
// Callers should leave the ink untouched and retry on the next trigger.
var ErrSegmentationUnavailable = errors.New("segmentation unavailable")

// Resolver partitions strokes into groups. Every input stroke ends up in
// exactly one group.
type Resolver interface {
	Group(ctx context.Context, strokes []*ink.Stroke) ([]ink.Group, error)
}

// Segment is one group as reported by a segmentation service.
type Segment struct {
	StrokeIDs  []string
	Alternates []string
}

// Segmenter is an external stroke segmentation service.
type Segmenter interface {
	Segment(ctx context.Context, strokes []*ink.Stroke) ([]Segment, error)
}

// SegmenterFunc adapts a function to Segmenter.
type SegmenterFunc func(ctx context.Context, strokes []*ink.Stroke) ([]Segment, error)

// Segment calls f.
func (f SegmenterFunc) Segment(ctx context.Context, strokes []*ink.Stroke) ([]Segment, error) {
	return f(ctx, strokes)
}

// New returns a resolver backed by seg, or SingleGroup when seg is nil.
func New(seg Segmenter, logger *slog.Logger) Resolver {
	if seg == nil {
		return SingleGroup{}
	}
	return NewServiceResolver(seg, logger)
}

// SingleGroup puts every stroke into one group.
type SingleGroup struct{}

// Group implements Resolver.
func (SingleGroup) Group(_ context.Context, strokes []*ink.Stroke) ([]ink.Group, error) {
	if len(strokes) == 0 {
		return nil, nil
	}
	g := ink.Group{Strokes: make([]*ink.Stroke, len(strokes))}
	copy(g.Strokes, strokes)
	return []ink.Group{g}, nil
}

// ServiceResolver delegates grouping to a Segmenter and repairs its
// answer so the groups partition the input exactly.
type ServiceResolver struct {
	seg    Segmenter
	logger *slog.Logger
}

// NewServiceResolver creates a resolver backed by seg.
func NewServiceResolver(seg Segmenter, logger *slog.Logger) *ServiceResolver {
	if logger == nil {
		logger = logging.For("segment")
	}
	return &ServiceResolver{seg: seg, logger: logger}
}

// Group implements Resolver.
//
// Strokes the service reports twice stay in their first group, unknown
// stroke IDs are dropped, and strokes the service omitted are appended
// as singleton groups in input order.
func (r *ServiceResolver) Group(ctx context.Context, strokes []*ink.Stroke) ([]ink.Group, error) {
	if len(strokes) == 0 {
		return nil, nil
	}
	segs, err := r.seg.Segment(ctx, strokes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSegmentationUnavailable, err)
	}

	byID := make(map[string]*ink.Stroke, len(strokes))
	for _, s := range strokes {
		byID[s.ID] = s
	}
	placed := make(map[string]bool, len(strokes))

	groups := make([]ink.Group, 0, len(segs))
	for _, seg := range segs {
		var g ink.Group
		for _, id := range seg.StrokeIDs {
			s, ok := byID[id]
			if !ok {
				r.logger.Warn("segmenter returned unknown stroke", "stroke", id)
				continue
			}
			if placed[id] {
				r.logger.Warn("segmenter returned stroke twice", "stroke", id)
				continue
			}
			placed[id] = true
			g.Strokes = append(g.Strokes, s)
		}
		if len(g.Strokes) == 0 {
			continue
		}
		g.Alternates = append([]string(nil), seg.Alternates...)
		groups = append(groups, g)
	}

	for _, s := range strokes {
		if !placed[s.ID] {
			placed[s.ID] = true
			groups = append(groups, ink.Group{Strokes: []*ink.Stroke{s}})
		}
	}
	return groups, nil
}
