package gesture

import "github.com/dshills/inkwell/internal/ink"

// Default template names.
const (
	Destroy   = "destroy"
	Clone     = "clone"
	Rectangle = "rectangle"
	Tickmark  = "tickmark"
)

// DefaultTemplates returns the built-in gestures. The result is freshly
// allocated on every call.
func DefaultTemplates() []Definition {
	return []Definition{
		{Name: Destroy, Points: []ink.Point{ // X
			ink.Pt(30, 146, 1), ink.Pt(106, 222, 1),
			ink.Pt(30, 225, 2), ink.Pt(106, 146, 2),
		}},
		{Name: Clone, Points: []ink.Point{ // C
			ink.Pt(100, 100, 1), ink.Pt(80, 100, 1),
			ink.Pt(80, 100, 2), ink.Pt(70, 120, 2), ink.Pt(60, 130, 2), ink.Pt(50, 140, 2), ink.Pt(45, 150, 2),
			ink.Pt(45, 150, 3), ink.Pt(50, 160, 3), ink.Pt(60, 170, 3), ink.Pt(80, 180, 3), ink.Pt(90, 190, 3),
			ink.Pt(90, 190, 4), ink.Pt(110, 190, 4),
		}},
		{Name: Rectangle, Points: []ink.Point{
			ink.Pt(30, 100, 1), ink.Pt(170, 100, 1),
			ink.Pt(170, 100, 2), ink.Pt(170, 200, 2),
			ink.Pt(170, 200, 3), ink.Pt(30, 200, 3),
			ink.Pt(30, 200, 4), ink.Pt(30, 100, 4),
		}},
		{Name: Tickmark, Points: []ink.Point{
			ink.Pt(30, 150, 1), ink.Pt(60, 185, 1), ink.Pt(130, 90, 1),
		}},
	}
}
