// Package logging provides the process-wide structured logger.
//
// By default nothing is logged. The CLI installs a real logger with
// SetLogger after reading the configuration; library packages pick it up
// through Logger and tag their records with a "component" attribute.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Format selects the slog handler used by New.
type Format string

const (
	// FormatText writes key=value records.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// Config configures a logger built with New.
type Config struct {
	// Level is the minimum level written.
	Level slog.Level
	// Format is the output encoding. Defaults to FormatText.
	Format Format
	// Output is where records go. Defaults to os.Stderr.
	Output io.Writer
	// AddSource includes the caller's file and line.
	AddSource bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// nopHandler discards every record. Enabled reports false so callers skip
// attribute formatting altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that drops everything.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(Nop())
}

// SetLogger installs l as the process logger. Passing nil restores the
// silent default. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	loggerPtr.Store(l)
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// For returns the process logger tagged with the given component name.
func For(component string) *slog.Logger {
	return Logger().With("component", component)
}

// New builds a logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var h slog.Handler
	switch cfg.Format {
	case "", FormatText:
		h = slog.NewTextHandler(cfg.Output, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(cfg.Output, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(h), nil
}

// ParseLevel parses a level name. Unknown names yield info and ok=false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
