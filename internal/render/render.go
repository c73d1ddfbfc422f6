// Package render draws captured ink to raster images with gg.
package render

import (
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/dshills/inkwell/internal/ink"
)

// DefaultPadding is the margin around the ink, in pixels.
const DefaultPadding = 16.0

// Options controls a snapshot.
type Options struct {
	// Width and Height fix the image size. When zero, the image is sized
	// to the ink plus Padding and the ink is shifted into view.
	Width, Height int

	// Padding is the margin around the ink when sizing automatically.
	Padding float64

	// Background fills the image before drawing.
	Background gg.RGBA

	// Groups, when set, are outlined with dashed rectangles.
	Groups []ink.Group
}

// DefaultOptions returns auto-sized options on a white background.
func DefaultOptions() Options {
	return Options{Padding: DefaultPadding, Background: gg.White}
}

// Snapshot draws strokes into a new context. The caller owns the context
// and should Close it.
func Snapshot(strokes []*ink.Stroke, opts Options) (*gg.Context, error) {
	w, h, off := layout(strokes, opts)
	dc := gg.NewContext(w, h)
	dc.ClearWithColor(opts.Background)

	for _, g := range opts.Groups {
		if err := drawGroup(dc, g, off); err != nil {
			_ = dc.Close()
			return nil, err
		}
	}
	for _, s := range strokes {
		if err := drawStroke(dc, s, off); err != nil {
			_ = dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

// WritePNG encodes a snapshot of strokes as PNG.
func WritePNG(w io.Writer, strokes []*ink.Stroke, opts Options) error {
	dc, err := Snapshot(strokes, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG writes a snapshot of strokes to path.
func SavePNG(path string, strokes []*ink.Stroke, opts Options) error {
	dc, err := Snapshot(strokes, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(path)
}

// layout returns the image size and the offset added to canvas
// coordinates.
func layout(strokes []*ink.Stroke, opts Options) (int, int, gg.Point) {
	if opts.Width > 0 && opts.Height > 0 {
		return opts.Width, opts.Height, gg.Point{}
	}
	b := ink.GroupBounds(strokes)
	for _, g := range opts.Groups {
		b = b.Union(g.Bounds())
	}
	pad := opts.Padding
	w := int(math.Ceil(b.Width + 2*pad))
	h := int(math.Ceil(b.Height + 2*pad))
	return max(w, 1), max(h, 1), gg.Pt(pad-b.X, pad-b.Y)
}

func drawStroke(dc *gg.Context, s *ink.Stroke, off gg.Point) error {
	segs := s.Segments()
	if len(segs) == 0 {
		return nil
	}

	c := s.Style.Color()
	if s.Selected() {
		dc.SetRGBA(c.R, c.G, c.B, 0.35)
	} else {
		dc.SetRGB(c.R, c.G, c.B)
	}

	if len(segs) == 1 {
		p := segs[0].Point.Add(off)
		dc.DrawCircle(p.X, p.Y, s.Style.Width()/2)
		return dc.Fill()
	}

	dc.SetLineWidth(s.Style.Width())
	for _, seg := range segs {
		p := seg.Point.Add(off)
		switch seg.Kind {
		case ink.SegmentMove:
			dc.MoveTo(p.X, p.Y)
		case ink.SegmentCubic:
			c1, c2 := seg.Control1.Add(off), seg.Control2.Add(off)
			dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
		}
	}
	return dc.Stroke()
}

func drawGroup(dc *gg.Context, g ink.Group, off gg.Point) error {
	b := g.Bounds().Inflate(4)
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.SetDash(4, 3)
	defer dc.SetDash()
	dc.DrawRectangle(b.X+off.X, b.Y+off.Y, b.Width, b.Height)
	return dc.Stroke()
}
