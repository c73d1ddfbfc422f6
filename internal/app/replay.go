package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gogpu/gg"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/ink/capture"
)

// inkFile is the on-disk layout of recorded ink:
//
//	[[stroke]]
//	color = "red"
//	width = 2.0
//	points = [[10.0, 10.0], [20.0, 12.0, 0.8]]
//
// Each point is x, y and an optional pressure.
type inkFile struct {
	Strokes []inkStroke `toml:"stroke"`
}

type inkStroke struct {
	Color  string      `toml:"color,omitempty"`
	Width  float64     `toml:"width,omitempty"`
	Points [][]float64 `toml:"points"`
}

// sampleInterval spaces the timestamps of replayed samples.
const sampleInterval = 8 * time.Millisecond

// LoadInk reads recorded strokes from a TOML file.
func LoadInk(path string) ([]*ink.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	strokes, err := ParseInk(data)
	if err != nil {
		return nil, &FileError{Op: "parse", Path: path, Err: err}
	}
	return strokes, nil
}

// ParseInk decodes recorded strokes.
func ParseInk(data []byte) ([]*ink.Stroke, error) {
	var f inkFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}

	t0 := time.Now()
	strokes := make([]*ink.Stroke, 0, len(f.Strokes))
	for i, fs := range f.Strokes {
		if len(fs.Points) == 0 {
			return nil, fmt.Errorf("stroke %d has no points", i+1)
		}
		style := ink.Style{ColorName: fs.Color, WidthPx: fs.Width}
		if style.ColorName == "" {
			style.ColorName = ink.DefaultStyle.ColorName
		}
		samples := make([]ink.Sample, 0, len(fs.Points))
		for j, p := range fs.Points {
			if len(p) < 2 || len(p) > 3 {
				return nil, fmt.Errorf("stroke %d point %d: want [x, y] or [x, y, pressure]", i+1, j+1)
			}
			smp := ink.Sample{X: p[0], Y: p[1], Pressure: 0.5, Time: t0}
			if len(p) == 3 {
				smp.Pressure = p[2]
			}
			samples = append(samples, smp)
			t0 = t0.Add(sampleInterval)
		}
		strokes = append(strokes, ink.NewFinishedStroke(style, samples...))
	}
	return strokes, nil
}

// MarshalInk encodes strokes in the ink file format.
func MarshalInk(strokes []*ink.Stroke) ([]byte, error) {
	f := inkFile{Strokes: make([]inkStroke, 0, len(strokes))}
	for _, s := range strokes {
		fs := inkStroke{Color: s.Style.ColorName, Width: s.Style.WidthPx}
		for _, smp := range s.Samples() {
			fs.Points = append(fs.Points, []float64{smp.X, smp.Y, smp.Pressure})
		}
		f.Strokes = append(f.Strokes, fs)
	}
	return toml.Marshal(f)
}

// SaveInk writes strokes to path.
func SaveInk(path string, strokes []*ink.Stroke) error {
	data, err := MarshalInk(strokes)
	if err != nil {
		return &FileError{Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Draw feeds recorded strokes through the capture manager as pen events,
// in the stroke's own style. It returns the number of strokes captured.
func (p *Pipeline) Draw(strokes []*ink.Stroke) int {
	base := p.Ink.Style()
	defer func() {
		p.Ink.SetColor(base.ColorName)
		p.Ink.SetWidth(base.WidthPx)
	}()

	n := 0
	for _, s := range strokes {
		samples := s.Samples()
		if len(samples) == 0 {
			continue
		}
		p.Ink.SetColor(s.Style.ColorName)
		p.Ink.SetWidth(s.Style.WidthPx)

		ev := capture.PointerEvent{PointerID: 1, Kind: capture.KindPen}
		for i, smp := range samples {
			ev.Action = capture.ActionMove
			switch i {
			case 0:
				ev.Action = capture.ActionDown
			case len(samples) - 1:
				ev.Action = capture.ActionUp
			}
			ev.Position = gg.Pt(smp.X, smp.Y)
			ev.Pressure = smp.Pressure
			ev.Timestamp = smp.Time
			p.Ink.Handle(ev)
		}
		if len(samples) == 1 {
			ev.Action = capture.ActionUp
			p.Ink.Handle(ev)
		}
		n++
	}
	return n
}

// Replay draws strokes, runs one recognition pass and returns the menus.
func (p *Pipeline) Replay(ctx context.Context, strokes []*ink.Stroke) ([]*assistant.Prompt, error) {
	if n := p.Draw(strokes); n > 0 {
		p.logger.Debug("replayed ink", "strokes", n)
	}
	results, err := p.Coordinator.Run(ctx)
	if err != nil {
		return nil, err
	}
	return p.Assistant.Respond(results), nil
}
