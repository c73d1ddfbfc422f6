package gesture

import (
	"math"

	"github.com/dshills/inkwell/internal/ink"
)

// epsilon controls how many start points the greedy matcher tries:
// floor(n^(1-epsilon)).
const epsilon = 0.5

// normalize resamples pts to n points, scales them uniformly so the
// larger bounding box side is 1 and moves the centroid to the origin.
func normalize(pts []ink.Point, n int) ([]ink.Point, error) {
	if len(pts) < 2 {
		return nil, ErrDegenerateInput
	}
	if boxSize(pts) == 0 || pathLength(pts) == 0 {
		return nil, ErrDegenerateInput
	}
	out := resample(pts, n)
	out = scale(out)
	out = translateToOrigin(out)
	return out, nil
}

// resample walks the path at equal arc-length intervals. Distances are
// only measured between consecutive points of the same stroke, so the
// gap between strokes is never interpolated.
func resample(pts []ink.Point, n int) []ink.Point {
	interval := pathLength(pts) / float64(n-1)
	work := make([]ink.Point, len(pts))
	copy(work, pts)

	out := make([]ink.Point, 0, n)
	out = append(out, work[0])
	acc := 0.0
	for i := 1; i < len(work); i++ {
		prev, cur := work[i-1], work[i]
		if prev.StrokeID != cur.StrokeID {
			continue
		}
		d := prev.Distance(cur)
		if acc+d >= interval && d > 0 {
			t := (interval - acc) / d
			q := ink.Point{
				X:        prev.X + t*(cur.X-prev.X),
				Y:        prev.Y + t*(cur.Y-prev.Y),
				StrokeID: cur.StrokeID,
			}
			out = append(out, q)
			// q becomes the start of the next measured segment.
			work = append(work[:i], append([]ink.Point{q}, work[i:]...)...)
			acc = 0
		} else {
			acc += d
		}
		if len(out) == n {
			break
		}
	}
	for len(out) < n {
		out = append(out, pts[len(pts)-1])
	}
	return out
}

// pathLength sums segment lengths within each stroke.
func pathLength(pts []ink.Point) float64 {
	d := 0.0
	for i := 1; i < len(pts); i++ {
		if pts[i].StrokeID == pts[i-1].StrokeID {
			d += pts[i-1].Distance(pts[i])
		}
	}
	return d
}

func bounds(pts []ink.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

func boxSize(pts []ink.Point) float64 {
	minX, minY, maxX, maxY := bounds(pts)
	return math.Max(maxX-minX, maxY-minY)
}

func scale(pts []ink.Point) []ink.Point {
	minX, minY, _, _ := bounds(pts)
	size := boxSize(pts)
	out := make([]ink.Point, len(pts))
	for i, p := range pts {
		out[i] = ink.Point{X: (p.X - minX) / size, Y: (p.Y - minY) / size, StrokeID: p.StrokeID}
	}
	return out
}

func centroid(pts []ink.Point) (x, y float64) {
	for _, p := range pts {
		x += p.X
		y += p.Y
	}
	n := float64(len(pts))
	return x / n, y / n
}

func translateToOrigin(pts []ink.Point) []ink.Point {
	cx, cy := centroid(pts)
	out := make([]ink.Point, len(pts))
	for i, p := range pts {
		out[i] = ink.Point{X: p.X - cx, Y: p.Y - cy, StrokeID: p.StrokeID}
	}
	return out
}

// greedyCloudMatch returns the smallest weighted matching distance over
// several start points, in both directions, normalized by point count.
func greedyCloudMatch(a, b []ink.Point) float64 {
	n := len(a)
	step := int(math.Floor(math.Pow(float64(n), 1-epsilon)))
	if step < 1 {
		step = 1
	}
	best := math.Inf(1)
	for start := 0; start < n; start += step {
		d1 := cloudDistance(a, b, start)
		d2 := cloudDistance(b, a, start)
		best = math.Min(best, math.Min(d1, d2))
	}
	return best / float64(n)
}

// cloudDistance matches each point of a, starting at start, to the
// nearest unmatched point of b. Earlier matches weigh more.
func cloudDistance(a, b []ink.Point, start int) float64 {
	n := len(a)
	matched := make([]bool, len(b))
	sum := 0.0
	i := start
	for {
		index := -1
		best := math.Inf(1)
		for j := range b {
			if matched[j] {
				continue
			}
			if d := a[i].Distance(b[j]); d < best {
				best = d
				index = j
			}
		}
		matched[index] = true
		weight := 1 - float64((i-start+n)%n)/float64(n)
		sum += weight * best
		i = (i + 1) % n
		if i == start {
			break
		}
	}
	return sum
}
