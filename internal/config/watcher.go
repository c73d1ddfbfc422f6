package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inkwell/internal/logging"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives a freshly loaded and validated configuration, or
// the error that prevented it.
type ReloadFunc func(cfg *Config, err error)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithEnvPrefix applies environment overrides after every reload.
func WithEnvPrefix(prefix string) WatcherOption {
	return func(w *Watcher) { w.envPrefix = prefix }
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// Watcher reloads a configuration file when it changes.
//
// The file's directory is watched rather than the file, so editors that
// save by renaming a temporary file are seen as well.
type Watcher struct {
	mu        sync.Mutex
	path      string
	fsw       *fsnotify.Watcher
	handlers  []ReloadFunc
	debounce  time.Duration
	envPrefix string
	logger    *slog.Logger

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.Logger()
	}
	w.logger = w.logger.With("component", "config-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// OnReload registers a handler. Handlers run on the watcher goroutine in
// registration order.
func (w *Watcher) OnReload(fn ReloadFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, fn)
}

// Close stops watching and waits for the watcher goroutine.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var pending <-chan time.Time
	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending = time.After(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := w.load()
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "error", err)
	} else {
		w.logger.Info("config reloaded", "path", w.path)
	}

	w.mu.Lock()
	handlers := append([]ReloadFunc(nil), w.handlers...)
	w.mu.Unlock()
	for _, fn := range handlers {
		fn(cfg, err)
	}
}

func (w *Watcher) load() (*Config, error) {
	cfg, err := Load(w.path)
	if err != nil {
		return nil, err
	}
	if w.envPrefix != "" {
		if err := cfg.ApplyEnv(w.envPrefix); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
