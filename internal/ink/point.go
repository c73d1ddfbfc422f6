// Package ink defines the stroke data model shared by capture, grouping,
// recognition and rendering.
package ink

import (
	"math"
	"time"

	"github.com/gogpu/gg"
)

// Point is a recognition point. StrokeID tags which stroke of a group the
// point came from so multi-stroke gestures keep their structure.
type Point struct {
	X, Y     float64
	StrokeID int
}

// Pt returns a point on stroke id.
func Pt(x, y float64, id int) Point {
	return Point{X: x, Y: y, StrokeID: id}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// GG converts p to a gg point, dropping the stroke tag.
func (p Point) GG() gg.Point {
	return gg.Pt(p.X, p.Y)
}

// Sample is one raw pointer sample captured for a stroke.
type Sample struct {
	X, Y     float64
	Pressure float64
	Time     time.Time
}

// Position returns the sample's canvas position.
func (s Sample) Position() gg.Point {
	return gg.Pt(s.X, s.Y)
}
