package ink

// Group is an ordered, non-empty set of strokes treated as one unit, plus
// any text alternates the segmentation service reported for it.
type Group struct {
	Strokes    []*Stroke
	Alternates []string
}

// Points flattens the group's ink, tagging each point with the index of
// its stroke inside the group.
func (g Group) Points() []Point {
	n := 0
	for _, s := range g.Strokes {
		n += s.Len()
	}
	pts := make([]Point, 0, n)
	for i, s := range g.Strokes {
		pts = append(pts, s.InkPoints(i)...)
	}
	return pts
}

// Bounds returns the union of the strokes' bounding boxes.
func (g Group) Bounds() Rect {
	return GroupBounds(g.Strokes)
}

// Contains reports whether s is one of the group's strokes, by identity.
func (g Group) Contains(s *Stroke) bool {
	for _, gs := range g.Strokes {
		if gs == s {
			return true
		}
	}
	return false
}

// GroupBounds returns the union of the strokes' bounding boxes.
func GroupBounds(strokes []*Stroke) Rect {
	if len(strokes) == 0 {
		return Rect{}
	}
	r := strokes[0].Bounds()
	for _, s := range strokes[1:] {
		b := s.Bounds()
		r = RectFromGG(r.GG().Union(b.GG()))
	}
	return r
}
