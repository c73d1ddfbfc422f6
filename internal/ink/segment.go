package ink

import "github.com/gogpu/gg"

// SegmentKind distinguishes rendering segments.
type SegmentKind int

const (
	// SegmentMove is the anchor that starts a stroke.
	SegmentMove SegmentKind = iota
	// SegmentCubic is a cubic Bézier from the previous end point.
	SegmentCubic
)

// String returns the segment kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentMove:
		return "move"
	case SegmentCubic:
		return "cubic"
	default:
		return "unknown"
	}
}

// Segment is one curve-fitted rendering segment. Control points are only
// meaningful for SegmentCubic.
type Segment struct {
	Kind     SegmentKind
	Control1 gg.Point
	Control2 gg.Point
	Point    gg.Point
}

// FitSegments smooths samples into a move anchor followed by cubic
// segments through every sample, using Catmull-Rom tangents. Consecutive
// duplicate samples are skipped.
func FitSegments(samples []Sample) []Segment {
	pts := make([]gg.Point, 0, len(samples))
	for _, s := range samples {
		p := s.Position()
		if n := len(pts); n > 0 && pts[n-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) == 0 {
		return nil
	}

	segs := make([]Segment, 0, len(pts))
	segs = append(segs, Segment{Kind: SegmentMove, Point: pts[0]})
	for i := 0; i+1 < len(pts); i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, len(pts)-1)]
		segs = append(segs, Segment{
			Kind:     SegmentCubic,
			Control1: p1.Add(p2.Sub(p0).Div(6)),
			Control2: p2.Sub(p3.Sub(p1).Div(6)),
			Point:    p2,
		})
	}
	return segs
}

// AppendPath appends segs to path.
func AppendPath(path *gg.Path, segs []Segment) {
	for _, s := range segs {
		switch s.Kind {
		case SegmentMove:
			path.MoveTo(s.Point.X, s.Point.Y)
		case SegmentCubic:
			path.CubicTo(s.Control1.X, s.Control1.Y, s.Control2.X, s.Control2.Y, s.Point.X, s.Point.Y)
		}
	}
}
