package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gg"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/ink/capture"
	"github.com/dshills/inkwell/internal/recognize"
	"github.com/dshills/inkwell/internal/render"
)

// mousePointer is the pointer ID used for the terminal mouse.
const mousePointer = 1

// Interrupt payloads posted to the event loop.
type (
	quitSignal   struct{}
	redrawSignal struct{}
	passSettled  struct {
		results []recognize.Result
		err     error
	}
)

// penColors maps keys to pen colors.
var penColors = map[rune]string{
	'k': "black",
	'r': "red",
	'g': "green",
	'b': "blue",
}

// handleEvent processes one terminal event. It returns ErrQuit when the
// application should exit.
func (a *Application) handleEvent(ctx context.Context, ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	case *tcell.EventMouse:
		a.handleMouse(e)
	case *tcell.EventKey:
		return a.handleKey(ctx, e)
	case *tcell.EventInterrupt:
		return a.handleInterrupt(e)
	}
	return nil
}

// canvasPoint returns the canvas position at the center of a cell.
func canvasPoint(x, y int) gg.Point {
	return gg.Pt((float64(x)+0.5)*cellWidth, (float64(y)+0.5)*cellHeight)
}

// handleMouse turns button presses and drags into pen events. The right
// button erases.
func (a *Application) handleMouse(e *tcell.EventMouse) {
	x, y := e.Position()
	btn := e.Buttons()
	ev := capture.PointerEvent{
		PointerID: mousePointer,
		Kind:      capture.KindMouse,
		Position:  canvasPoint(x, y),
		Pressure:  0.5,
		Timestamp: e.When(),
	}

	a.mu.Lock()
	pressed := btn&(tcell.Button1|tcell.Button2) != 0
	switch {
	case pressed && !a.pressed:
		ev.Action = capture.ActionDown
		ev.Eraser = a.eraser || btn&tcell.Button2 != 0
	case pressed:
		ev.Action = capture.ActionMove
	case a.pressed:
		ev.Action = capture.ActionUp
	default:
		a.mu.Unlock()
		return
	}
	a.pressed = pressed
	a.mu.Unlock()

	a.pipeline.Ink.Handle(ev)
}

func (a *Application) handleKey(ctx context.Context, e *tcell.EventKey) error {
	switch e.Key() {
	case tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyEnter:
		a.recognize(ctx)
		return nil
	case tcell.KeyEscape:
		a.mu.Lock()
		a.prompts = nil
		a.active = 0
		a.mu.Unlock()
		return nil
	case tcell.KeyTab:
		a.mu.Lock()
		if len(a.prompts) > 0 {
			a.active = (a.active + 1) % len(a.prompts)
		}
		a.mu.Unlock()
		return nil
	case tcell.KeyRune:
	default:
		return nil
	}

	r := e.Rune()
	switch {
	case r == 'c' && e.Modifiers()&tcell.ModCtrl != 0:
		return ErrQuit
	case r >= '1' && r <= '9':
		a.choose(int(r - '1'))
	case r == 'q':
		return ErrQuit
	case r == 'e':
		a.mu.Lock()
		a.eraser = !a.eraser
		on := a.eraser
		a.mu.Unlock()
		if on {
			a.notify("Eraser on")
		} else {
			a.notify("Eraser off")
		}
	case r == 'x':
		n := len(a.pipeline.Ink.DeleteStrokes(a.pipeline.Ink.Strokes()))
		a.notify(fmt.Sprintf("Cleared %d strokes", n))
	case r == 'w':
		a.save()
	case r == 'p':
		a.snapshot()
	default:
		if c, ok := penColors[r]; ok {
			a.pipeline.Ink.SetColor(c)
			a.notify("Pen " + c)
		}
	}
	return nil
}

func (a *Application) handleInterrupt(e *tcell.EventInterrupt) error {
	switch d := e.Data().(type) {
	case quitSignal:
		return ErrQuit
	case passSettled:
		a.settle(d.results, d.err)
	}
	return nil
}

// recognize starts a pass. Its results arrive later as an interrupt.
func (a *Application) recognize(ctx context.Context) {
	pass, err := a.pipeline.Coordinator.Recognize(ctx)
	switch {
	case errors.Is(err, recognize.ErrNoInk):
		a.notify("Nothing to recognize")
		return
	case errors.Is(err, recognize.ErrAlreadyRunning):
		a.notify("Recognition already running")
		return
	case err != nil:
		a.notify(err.Error())
		return
	}

	a.recognizing.Store(true)
	a.notify("Recognizing...")
	start := time.Now()
	go func() {
		results, err := pass.Wait(ctx)
		a.logger.Debug("pass settled", "groups", len(results), "elapsed", time.Since(start), "error", err)
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(passSettled{results: results, err: err}))
	}()
}

func (a *Application) settle(results []recognize.Result, err error) {
	a.recognizing.Store(false)
	if err != nil {
		a.notify("Recognition failed: " + err.Error())
		return
	}
	prompts := a.pipeline.Assistant.Respond(results)

	a.mu.Lock()
	a.prompts = prompts
	a.active = 0
	a.mu.Unlock()

	if len(prompts) == 0 {
		a.notify("No actions for this ink")
	} else {
		a.notify(fmt.Sprintf("%d menu(s): 1-9 to choose, Tab to switch, Esc to dismiss", len(prompts)))
	}
}

// choose runs item i of the active menu. A menu stays up while it is
// filling a parameter form.
func (a *Application) choose(i int) {
	a.mu.Lock()
	if a.active >= len(a.prompts) {
		a.mu.Unlock()
		return
	}
	p := a.prompts[a.active]
	a.mu.Unlock()

	c, err := p.Menu.Select(i)
	if err != nil {
		return
	}
	out, err := a.pipeline.Assistant.Choose(p, i)
	if err != nil {
		// The assistant has already told the user.
		return
	}

	a.mu.Lock()
	a.prompts = removePrompt(a.prompts, p)
	if a.active >= len(a.prompts) {
		a.active = 0
	}
	a.mu.Unlock()

	switch {
	case out.Capture != nil:
		a.notify(fmt.Sprintf("Write the values for %s, then Enter", out.Capture.Title()))
	case p.Capture != nil:
		switch p.Capture.State() {
		case action.CaptureDone:
			a.notify("Ran " + p.Capture.Title())
		case action.CaptureCancelled:
			a.notify("Cancelled " + p.Capture.Title())
		default:
			a.notify(fmt.Sprintf("%s: %s", p.Capture.Title(), c.Label))
		}
	default:
		a.notify("Ran " + c.Label)
	}
}

func removePrompt(prompts []*assistant.Prompt, p *assistant.Prompt) []*assistant.Prompt {
	return slices.DeleteFunc(prompts, func(x *assistant.Prompt) bool { return x == p })
}

func (a *Application) save() {
	if a.opts.InkPath == "" {
		a.notify("No ink file configured")
		return
	}
	if err := SaveInk(a.opts.InkPath, a.pipeline.Ink.Strokes()); err != nil {
		a.notify(err.Error())
		return
	}
	a.notify("Saved " + a.opts.InkPath)
}

func (a *Application) snapshot() {
	if a.opts.SnapshotPath == "" {
		a.notify("No snapshot file configured")
		return
	}
	a.mu.Lock()
	opts := render.DefaultOptions()
	for _, p := range a.prompts {
		opts.Groups = append(opts.Groups, p.Group)
	}
	a.mu.Unlock()
	if err := render.SavePNG(a.opts.SnapshotPath, a.pipeline.Ink.Strokes(), opts); err != nil {
		a.notify(err.Error())
		return
	}
	a.notify("Wrote " + a.opts.SnapshotPath)
}
