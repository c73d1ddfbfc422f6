package app

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/ink/capture"
)

// Runes used on the canvas.
const (
	inkRune    = '•'
	tickRune   = '✓'
	menuMargin = 2
)

// styleFor converts an ink color name to a tcell style.
func styleFor(colorName string) tcell.Style {
	r, g, b := ink.ResolveColor(colorName).Clamped().RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// cellOf returns the cell containing a canvas position.
func cellOf(x, y float64) (int, int) {
	return int(math.Floor(x / cellWidth)), int(math.Floor(y / cellHeight))
}

// draw renders the scene, the ink, the menus and the status line.
func (a *Application) draw() {
	s := a.screen
	s.Clear()

	for _, o := range a.scene.Objects() {
		a.drawObject(o)
	}
	for _, st := range a.pipeline.Ink.Strokes() {
		style := styleFor(st.Style.ColorName)
		if st.Selected() {
			style = style.Dim(true)
		}
		plotStroke(s, st.Samples(), 0, 0, style)
	}

	a.mu.Lock()
	prompts := append([]*assistant.Prompt(nil), a.prompts...)
	active := a.active
	status := a.status
	eraser := a.eraser
	a.mu.Unlock()

	for i, p := range prompts {
		drawMenu(s, p, i == active)
	}
	a.drawStatus(status, eraser)
	s.Show()
}

func (a *Application) drawObject(o Object) {
	s := a.screen
	style := styleFor(o.Color)
	x0, y0 := cellOf(o.Bounds.X, o.Bounds.Y)
	x1, y1 := cellOf(o.Bounds.X+o.Bounds.Width, o.Bounds.Y+o.Bounds.Height)

	switch o.Kind {
	case assistant.KindShape:
		src := ink.GroupBounds(o.Strokes)
		dx, dy := o.Bounds.X-src.X, o.Bounds.Y-src.Y
		for _, st := range o.Strokes {
			plotStroke(s, st.Samples(), dx, dy, style)
		}
	case assistant.KindString:
		putStr(s, x0, y0, o.Text, style)
	case assistant.KindCircle:
		drawBox(s, x0, y0, x1, y1, style, '╭', '╮', '╰', '╯')
	default:
		drawBox(s, x0, y0, x1, y1, style, '┌', '┐', '└', '┘')
		label := o.Kind
		if o.Text != "" {
			label = o.Text
		}
		putStr(s, x0+1, y0+1, label, style)
	}
	if o.Ticked {
		s.SetContent(x0, y0, tickRune, nil, style.Bold(true))
	}
}

func drawBox(s tcell.Screen, x0, y0, x1, y1 int, style tcell.Style, tl, tr, bl, br rune) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	for x := x0 + 1; x < x1; x++ {
		s.SetContent(x, y0, '─', nil, style)
		s.SetContent(x, y1, '─', nil, style)
	}
	for y := y0 + 1; y < y1; y++ {
		s.SetContent(x0, y, '│', nil, style)
		s.SetContent(x1, y, '│', nil, style)
	}
	s.SetContent(x0, y0, tl, nil, style)
	s.SetContent(x1, y0, tr, nil, style)
	s.SetContent(x0, y1, bl, nil, style)
	s.SetContent(x1, y1, br, nil, style)
}

// plotStroke marks every cell the polyline through samples passes, offset
// by dx, dy canvas pixels.
func plotStroke(s tcell.Screen, samples []ink.Sample, dx, dy float64, style tcell.Style) {
	for i, smp := range samples {
		x, y := cellOf(smp.X+dx, smp.Y+dy)
		if i == 0 {
			s.SetContent(x, y, inkRune, nil, style)
			continue
		}
		px, py := cellOf(samples[i-1].X+dx, samples[i-1].Y+dy)
		plotLine(s, px, py, x, y, style)
	}
}

// plotLine is Bresenham's line in cell space.
func plotLine(s tcell.Screen, x0, y0, x1, y1 int, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.SetContent(x0, y0, inkRune, nil, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// menuLines returns the menu's title followed by numbered items.
func menuLines(p *assistant.Prompt) []string {
	lines := []string{p.Menu.Title}
	if p.Capture != nil {
		var vals []string
		for _, f := range p.Capture.Fields() {
			v := "_"
			if f.Filled {
				v = strconv.Quote(f.Value)
			}
			vals = append(vals, f.Name+"="+v)
		}
		lines[0] = fmt.Sprintf("%s %v", p.Menu.Title, vals)
	}
	for i, it := range p.Menu.Items {
		label := it.Label
		if it.NeedsParams {
			label += "..."
		}
		if i < 9 {
			label = strconv.Itoa(i+1) + " " + label
		} else {
			label = "  " + label
		}
		lines = append(lines, label)
	}
	return lines
}

// drawMenu draws p's menu to the right of its ink.
func drawMenu(s tcell.Screen, p *assistant.Prompt, active bool) {
	lines := menuLines(p)
	width := 0
	for _, l := range lines {
		width = max(width, uniseg.StringWidth(l))
	}

	bx, by := cellOf(p.Bounds.X+p.Bounds.Width, p.Bounds.Y)
	x := bx + menuMargin
	sw, sh := s.Size()
	if x+width+2 > sw {
		x = max(sw-width-2, 0)
	}
	y := min(max(by, 0), max(sh-statusRows-len(lines)-2, 0))

	frame := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if active {
		frame = frame.Foreground(tcell.ColorYellow)
	}
	drawBox(s, x, y, x+width+1, y+len(lines)+1, frame, '┌', '┐', '└', '┘')
	for i, l := range lines {
		style := tcell.StyleDefault
		if i == 0 {
			style = style.Bold(true)
		}
		fill(s, x+1, y+1+i, width, style)
		putStr(s, x+1, y+1+i, l, style)
	}
}

func (a *Application) drawStatus(msg string, eraser bool) {
	s := a.screen
	w, h := s.Size()
	y := h - 1
	style := tcell.StyleDefault.Reverse(true)
	fill(s, 0, y, w, style)

	mode := a.pipeline.Ink.Style().ColorName
	if eraser {
		mode = capture.ModeErasing.String()
	}
	if a.recognizing.Load() {
		mode += " *"
	}
	left := fmt.Sprintf(" [%s] %d strokes ", mode, len(a.pipeline.Ink.Strokes()))
	n := putStr(s, 0, y, left, style)
	putStr(s, n+1, y, msg, style)
}

func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for i := range width {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}

// putStr writes str at x, y one grapheme cluster per cell group and
// returns the column after the last cluster.
func putStr(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		rs := g.Runes()
		s.SetContent(x, y, rs[0], rs[1:], style)
		x += max(g.Width(), 1)
	}
	return x
}
