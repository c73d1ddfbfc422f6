// Package main is the entry point for the Inkwell ink pad.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/dshills/inkwell/internal/app"
	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/render"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// replayCanvas is the scene size used for headless replay.
const replayCanvas = 4096

type options struct {
	configPath    string
	logLevel      string
	logFile       string
	templates     string
	recognizerURL string
	luaTarget     string
	inkPath       string
	replayPath    string
	snapshotPath  string
	watch         bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logOut, closeLog, err := logOutput(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(cfg.Logging.Format),
		Output: logOut,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logging.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.replayPath != "" {
		if err := replay(ctx, cfg, opts, logger, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	application, err := app.New(app.Options{
		Config:       cfg,
		InkPath:      opts.inkPath,
		SnapshotPath: opts.snapshotPath,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if opts.watch && opts.configPath != "" {
		w, err := config.NewWatcher(opts.configPath, config.WithWatcherLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to watch config: %v\n", err)
			return 1
		}
		defer w.Close()
		w.OnReload(func(next *config.Config, err error) {
			if err != nil {
				logger.Warn("config reload rejected", "error", err)
				return
			}
			application.ApplyConfig(next)
		})
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (TOML)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&opts.templates, "templates", "", "Extra gesture template file (TOML or YAML)")
	flag.StringVar(&opts.recognizerURL, "recognizer-url", "", "Handwriting recognition service URL; enables the remote recognizer")
	flag.StringVar(&opts.luaTarget, "lua", "", "Lua script offered as an object on the scene")
	flag.StringVar(&opts.inkPath, "ink", "", "Ink file loaded on start and written with 'w'")
	flag.StringVar(&opts.replayPath, "replay", "", "Recognize an ink file headless and print the menus")
	flag.StringVar(&opts.snapshotPath, "snapshot", "", "PNG file written with 'p', or after -replay")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the configuration file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkwell - pen input to object actions\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwell [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  drag        draw (right button erases)\n")
		fmt.Fprintf(os.Stderr, "  Enter       recognize the ink\n")
		fmt.Fprintf(os.Stderr, "  1-9 Tab Esc choose, switch or dismiss menus\n")
		fmt.Fprintf(os.Stderr, "  e x         toggle eraser, clear ink\n")
		fmt.Fprintf(os.Stderr, "  k r g b     pen color\n")
		fmt.Fprintf(os.Stderr, "  w p q       save ink, write snapshot, quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkwell -ink sketch.toml          Open the pad on saved ink\n")
		fmt.Fprintf(os.Stderr, "  inkwell -replay sketch.toml       Print the menus for recorded ink\n")
		fmt.Fprintf(os.Stderr, "  inkwell -c inkwell.toml -watch    Reload settings as they change\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Inkwell %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}

// loadConfig layers the file, the environment and the flags, then
// validates the result.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(config.EnvPrefix); err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.templates != "" {
		cfg.Recognition.Templates = opts.templates
	}
	if opts.luaTarget != "" {
		cfg.Assistant.LuaTarget = opts.luaTarget
	}
	if opts.recognizerURL != "" {
		cfg.Recognition.RemoteURL = opts.recognizerURL
		if !slices.Contains(cfg.Recognition.Recognizers, config.RecognizerRemote) {
			cfg.Recognition.Recognizers = append(cfg.Recognition.Recognizers, config.RecognizerRemote)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logOutput picks where logs go. The pad owns the terminal, so it only
// logs to a file.
func logOutput(opts options) (io.Writer, func(), error) {
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	if opts.replayPath != "" {
		return os.Stderr, func() {}, nil
	}
	return io.Discard, func() {}, nil
}

// replay recognizes recorded ink without a terminal and prints the menus.
func replay(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, out io.Writer) error {
	strokes, err := app.LoadInk(opts.replayPath)
	if err != nil {
		return err
	}

	notify := assistant.NotifierFunc(func(msg string) { fmt.Fprintf(out, "! %s\n", msg) })
	p, err := app.NewPipeline(cfg, app.NewScene(replayCanvas, replayCanvas), notify, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	prompts, err := p.Replay(ctx, strokes)
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		fmt.Fprintln(out, "no actions")
	}
	for i, pr := range prompts {
		b := pr.Bounds
		fmt.Fprintf(out, "group %d at (%.0f, %.0f) %.0fx%.0f: %q\n", i+1, b.X, b.Y, b.Width, b.Height, pr.Menu.Title)
		for j, label := range pr.Menu.Labels() {
			fmt.Fprintf(out, "  %d. %s\n", j+1, label)
		}
	}

	if opts.snapshotPath != "" {
		ro := render.DefaultOptions()
		for _, pr := range prompts {
			ro.Groups = append(ro.Groups, pr.Group)
		}
		if err := render.SavePNG(opts.snapshotPath, strokes, ro); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", opts.snapshotPath)
	}
	return nil
}
