package ink

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"black", "#000000"},
		{"Red", "#ff0000"},
		{"#12ab34", "#12ab34"},
		{"#12AB34", "#12ab34"},
		{"#zzzzzz", "#808080"},
		{"chartreuse-ish", "#808080"},
		{"", "#808080"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Style{ColorName: tt.in}.CSS()
			if got != tt.want {
				t.Errorf("CSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleWidthFallback(t *testing.T) {
	assert.Equal(t, 4.0, Style{WidthPx: 4}.Width())
	assert.Equal(t, DefaultStyle.WidthPx, Style{}.Width())
}

func TestStrokeBoundsAndFinish(t *testing.T) {
	s := NewStroke(DefaultStyle)
	s.Append(Sample{X: 10, Y: 20})
	s.Append(Sample{X: 30, Y: 5})
	s.Append(Sample{X: 15, Y: 40})
	s.Finish()
	s.Append(Sample{X: 1000, Y: 1000})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, Rect{X: 10, Y: 5, Width: 20, Height: 35}, s.Bounds())
	assert.True(t, s.Finished())
	assert.NotEmpty(t, s.ID)
}

func TestStrokeIDsAreUnique(t *testing.T) {
	a := StrokeFromXY(DefaultStyle, 0, 0, 1, 1)
	b := StrokeFromXY(DefaultStyle, 0, 0, 1, 1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFitSegments(t *testing.T) {
	s := StrokeFromXY(DefaultStyle, 0, 0, 10, 0, 10, 0, 20, 10)
	segs := s.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, SegmentMove, segs[0].Kind)
	assert.Equal(t, gg.Pt(0, 0), segs[0].Point)
	for _, seg := range segs[1:] {
		assert.Equal(t, SegmentCubic, seg.Kind)
	}
	assert.Equal(t, gg.Pt(20, 10), segs[2].Point)

	// Straight input gives control points on the line.
	line := FitSegments([]Sample{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 12, Y: 0}})
	require.Len(t, line, 3)
	for _, seg := range line[1:] {
		assert.InDelta(t, 0, seg.Control1.Y, 1e-9)
		assert.InDelta(t, 0, seg.Control2.Y, 1e-9)
	}

	assert.Nil(t, FitSegments(nil))
}

func TestStrokePath(t *testing.T) {
	s := StrokeFromXY(DefaultStyle, 0, 0, 10, 10, 20, 0)
	box := s.Path().BoundingBox()
	assert.InDelta(t, 0, box.Min.X, 1e-9)
	assert.InDelta(t, 20, box.Max.X, 1e-9)
}

func TestGroupPointsTagsStrokeIndex(t *testing.T) {
	a := StrokeFromXY(DefaultStyle, 0, 0, 1, 1)
	b := StrokeFromXY(DefaultStyle, 5, 5, 6, 6, 7, 7)
	g := Group{Strokes: []*Stroke{a, b}}

	pts := g.Points()
	require.Len(t, pts, 5)
	assert.Equal(t, Pt(0, 0, 0), pts[0])
	assert.Equal(t, Pt(5, 5, 1), pts[2])
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 7, Height: 7}, g.Bounds())
	assert.True(t, g.Contains(b))
	assert.False(t, g.Contains(StrokeFromXY(DefaultStyle, 0, 0)))
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching", Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"apart", Rect{X: 11, Y: 0, Width: 5, Height: 5}, false},
		{"inflated", Rect{X: 11, Y: 0, Width: 5, Height: 5}.Inflate(2), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestHitTestAndCrosses(t *testing.T) {
	h := StrokeFromXY(DefaultStyle, 0, 10, 10, 10, 20, 10)
	v := StrokeFromXY(DefaultStyle, 10, 0, 10, 20)
	far := StrokeFromXY(DefaultStyle, 100, 100, 110, 110)

	assert.True(t, h.HitTest(gg.Pt(10, 11), 2))
	assert.False(t, h.HitTest(gg.Pt(10, 20), 2))
	assert.True(t, v.Crosses(h, 1))
	assert.False(t, far.Crosses(h, 1))
}
