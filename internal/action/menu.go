package action

import "fmt"

// MenuItem is one entry of an action menu.
type MenuItem struct {
	Label       string
	NeedsParams bool
	Literal     bool
	Candidate   Candidate
}

// Menu is a data description of the action menu shown to the user. The
// UI layer renders it; nothing here draws.
type Menu struct {
	Title string
	Items []MenuItem
}

// NewMenu builds a menu from candidates in order.
func NewMenu(title string, cands []Candidate) Menu {
	m := Menu{Title: title, Items: make([]MenuItem, 0, len(cands))}
	for _, c := range cands {
		m.Items = append(m.Items, MenuItem{
			Label:       c.Label,
			NeedsParams: c.NeedsParams(),
			Literal:     c.Literal(),
			Candidate:   c,
		})
	}
	return m
}

// Empty reports whether the menu has no items.
func (m Menu) Empty() bool {
	return len(m.Items) == 0
}

// Labels returns the item labels in order.
func (m Menu) Labels() []string {
	out := make([]string, len(m.Items))
	for i, it := range m.Items {
		out[i] = it.Label
	}
	return out
}

// Select returns the candidate of item i.
func (m Menu) Select(i int) (Candidate, error) {
	if i < 0 || i >= len(m.Items) {
		return Candidate{}, fmt.Errorf("menu item %d out of range [0,%d)", i, len(m.Items))
	}
	return m.Items[i].Candidate, nil
}
