package segment

import (
	"cmp"
	"context"
	"slices"

	"github.com/dshills/inkwell/internal/ink"
)

// DefaultGap is the distance within which strokes join the same group.
const DefaultGap = 24.0

// ProximitySegmenter is an in-process Segmenter that clusters strokes
// whose bounding boxes, grown by Gap, overlap. Groups are ordered left to
// right. It reports no alternates.
type ProximitySegmenter struct {
	Gap float64
}

// Segment implements Segmenter.
func (p ProximitySegmenter) Segment(ctx context.Context, strokes []*ink.Stroke) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gap := p.Gap
	if gap < 0 {
		gap = 0
	}

	parent := make([]int, len(strokes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := range strokes {
		bi := strokes[i].Bounds().Inflate(gap / 2)
		for j := i + 1; j < len(strokes); j++ {
			if bi.Intersects(strokes[j].Bounds().Inflate(gap / 2)) {
				if ri, rj := find(i), find(j); ri != rj {
					parent[max(ri, rj)] = min(ri, rj)
				}
			}
		}
	}

	type cluster struct {
		members []int
		left    float64
	}
	clusters := map[int]*cluster{}
	var roots []int
	for i, s := range strokes {
		r := find(i)
		c, ok := clusters[r]
		if !ok {
			c = &cluster{left: s.Bounds().X}
			clusters[r] = c
			roots = append(roots, r)
		}
		c.members = append(c.members, i)
		c.left = min(c.left, s.Bounds().X)
	}

	slices.SortStableFunc(roots, func(a, b int) int {
		return cmp.Compare(clusters[a].left, clusters[b].left)
	})

	segs := make([]Segment, 0, len(roots))
	for _, r := range roots {
		ids := make([]string, 0, len(clusters[r].members))
		for _, i := range clusters[r].members {
			ids = append(ids, strokes[i].ID)
		}
		segs = append(segs, Segment{StrokeIDs: ids})
	}
	return segs, nil
}
