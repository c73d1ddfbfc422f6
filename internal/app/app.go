// Package app is the terminal ink pad: mouse drags are pen input, Enter
// recognizes the ink and number keys pick from the menus that come back.
package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/logging"
)

// Canvas pixels per terminal cell.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// statusRows is the number of rows reserved below the canvas.
const statusRows = 1

// Options configures the application.
type Options struct {
	// Config is the validated configuration. Defaults to config.Default.
	Config *config.Config

	// Screen is the terminal. Defaults to tcell.NewScreen.
	Screen tcell.Screen

	// InkPath is loaded on start when it exists and written by the save
	// key.
	InkPath string

	// SnapshotPath is where the snapshot key writes a PNG.
	SnapshotPath string

	// Logger defaults to the process logger.
	Logger *slog.Logger
}

// Application is the interactive pad.
type Application struct {
	mu sync.Mutex

	screen   tcell.Screen
	pipeline *Pipeline
	scene    *Scene

	prompts []*assistant.Prompt
	active  int
	status  string
	pressed bool
	eraser  bool

	recognizing atomic.Bool
	running     atomic.Bool
	cancel      context.CancelFunc

	opts   Options
	logger *slog.Logger
}

// New creates the application and its pipeline. The screen is not
// touched until Run.
func New(opts Options) (*Application, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Logger()
	}
	a := &Application{
		opts:   opts,
		screen: opts.Screen,
		scene:  NewScene(80*cellWidth, 24*cellHeight),
		logger: opts.Logger.With("component", "app"),
	}

	p, err := NewPipeline(opts.Config, a.scene, assistant.NotifierFunc(a.notify), opts.Logger)
	if err != nil {
		return nil, err
	}
	a.pipeline = p

	if opts.InkPath != "" {
		strokes, err := LoadInk(opts.InkPath)
		switch {
		case err == nil:
			p.Draw(strokes)
		case errors.Is(err, fs.ErrNotExist):
		default:
			_ = p.Close()
			return nil, err
		}
	}
	return a, nil
}

// Pipeline returns the capture and recognition chain.
func (a *Application) Pipeline() *Pipeline {
	return a.pipeline
}

// Scene returns the object world.
func (a *Application) Scene() *Scene {
	return a.scene
}

// Prompts returns the menus currently shown.
func (a *Application) Prompts() []*assistant.Prompt {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*assistant.Prompt(nil), a.prompts...)
}

// Status returns the status line message.
func (a *Application) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// IsRunning reports whether Run is active.
func (a *Application) IsRunning() bool {
	return a.running.Load()
}

// Run initializes the screen and processes events until quit or ctx is
// done.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if a.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		a.mu.Lock()
		a.screen = s
		a.mu.Unlock()
	}
	if err := a.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer a.screen.Fini()
	a.screen.EnableMouse()
	a.resize()

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
	}()

	a.logger.Info("pad started")
	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := a.handleEvent(ctx, ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		a.draw()
	}
}

// Shutdown stops a running Run and releases the pipeline.
func (a *Application) Shutdown() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if err := a.pipeline.Close(); err != nil {
		a.logger.Warn("closing pipeline", "error", err)
	}
}

// ApplyConfig switches the pen to a reloaded configuration. Recognizer
// and policy changes take effect on restart.
func (a *Application) ApplyConfig(cfg *config.Config) {
	a.pipeline.Ink.SetColor(cfg.Ink.Color)
	a.pipeline.Ink.SetWidth(cfg.Ink.Width)
	a.notify("Configuration reloaded")
	a.mu.Lock()
	screen := a.screen
	a.mu.Unlock()
	if screen != nil {
		_ = screen.PostEvent(tcell.NewEventInterrupt(redrawSignal{}))
	}
}

func (a *Application) notify(msg string) {
	a.mu.Lock()
	a.status = msg
	a.mu.Unlock()
	a.logger.Debug("notice", "message", msg)
}

func (a *Application) resize() {
	w, h := a.screen.Size()
	a.scene.Resize(float64(w)*cellWidth, float64(max(h-statusRows, 0))*cellHeight)
}
