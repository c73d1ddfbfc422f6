package ink

import "github.com/gogpu/gg"

// Rect is an axis-aligned rectangle in canvas coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectFromGG converts a gg rectangle.
func RectFromGG(r gg.Rect) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Width(), Height: r.Height()}
}

// GG converts r to a gg rectangle.
func (r Rect) GG() gg.Rect {
	return gg.NewRect(gg.Pt(r.X, r.Y), gg.Pt(r.X+r.Width, r.Y+r.Height))
}

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// TopLeft returns the minimum corner.
func (r Rect) TopLeft() gg.Point {
	return gg.Pt(r.X, r.Y)
}

// Center returns the rectangle's center.
func (r Rect) Center() gg.Point {
	return gg.Pt(r.X+r.Width/2, r.Y+r.Height/2)
}

// Union returns the smallest rectangle containing r and o. A zero
// rectangle acts as the identity.
func (r Rect) Union(o Rect) Rect {
	if r.IsZero() {
		return o
	}
	if o.IsZero() {
		return r
	}
	return RectFromGG(r.GG().Union(o.GG()))
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p gg.Point) bool {
	return r.GG().Contains(p)
}

// Intersects reports whether r and o overlap, touching edges included.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.Width && o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}
