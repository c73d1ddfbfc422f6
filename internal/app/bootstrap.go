package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/action/luatarget"
	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/gesture"
	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/ink/capture"
	"github.com/dshills/inkwell/internal/recognize"
	"github.com/dshills/inkwell/internal/recognize/remote"
	"github.com/dshills/inkwell/internal/segment"
)

// scriptBounds is where a Lua target is placed on the scene.
var scriptBounds = ink.Rect{X: 8, Y: 8, Width: 160, Height: 48}

// Pipeline is the capture, recognition and menu chain built from a
// configuration. The interactive pad and headless replay share it.
type Pipeline struct {
	Config      *config.Config
	Store       *capture.MemoryService
	Ink         *capture.Manager
	Coordinator *recognize.Coordinator
	Assistant   *assistant.Assistant
	Scene       *Scene

	script *luatarget.Target
	logger *slog.Logger
}

// NewPipeline builds the pipeline over scene. cfg must be valid.
// Notices from the assistant go to notifier.
func NewPipeline(cfg *config.Config, scene *Scene, notifier assistant.Notifier, logger *slog.Logger) (*Pipeline, error) {
	p := &Pipeline{Config: cfg, Scene: scene, logger: logger}

	p.Store = capture.NewMemoryService(cfg.Ink.Tolerance)
	capCfg := capture.DefaultConfig()
	capCfg.Style = cfg.Style()
	capCfg.EraseImmediately = cfg.EraseTiming().Immediate()
	p.Ink = capture.NewManager(p.Store, capCfg,
		capture.WithDrawTest(scene.AllowsDrawingOver),
		capture.WithLogger(logger),
	)

	recs, err := buildRecognizers(cfg, logger)
	if err != nil {
		return nil, &InitError{Component: "recognizers", Err: err}
	}
	p.Coordinator = recognize.New(p.Ink, buildResolver(cfg, logger),
		recognize.WithRecognizers(recs...),
		recognize.WithTimeout(cfg.Recognition.Timeout.Std()),
		recognize.WithLogger(logger.With("component", "recognize")),
	)

	matcher := action.NewMatcher(
		action.WithMaxDistance(cfg.Matching.MaxDistance),
		action.WithCacheSize(cfg.Matching.CacheSize),
		action.WithSymbols(cfg.Matching.Symbols),
		action.WithMatcherLogger(logger.With("component", "action")),
	)
	p.Assistant = assistant.New(scene, p.Ink,
		assistant.WithMatcher(matcher),
		assistant.WithNotifier(notifier),
		assistant.WithConfig(assistant.Config{
			Deletion: cfg.DeletionPolicy(),
			Erase:    cfg.EraseTiming(),
		}),
		assistant.WithLogger(logger),
	)

	if path := cfg.Assistant.LuaTarget; path != "" {
		t, err := luatarget.LoadFile(path, luatarget.WithLogger(logger))
		if err != nil {
			return nil, &InitError{Component: "lua target", Err: err}
		}
		name, ok := t.Field("name")
		if !ok {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		scene.AttachScript(name, t, scriptBounds)
		p.script = t
	}
	return p, nil
}

// Close releases the Lua target, if any.
func (p *Pipeline) Close() error {
	if p.script != nil {
		return p.script.Close()
	}
	return nil
}

func buildRecognizers(cfg *config.Config, logger *slog.Logger) ([]recognize.Recognizer, error) {
	rc := cfg.Recognition
	var recs []recognize.Recognizer
	for _, name := range rc.Recognizers {
		switch name {
		case config.RecognizerGesture:
			defs := gesture.DefaultTemplates()
			if rc.Templates != "" {
				extra, err := gesture.LoadFile(rc.Templates)
				if err != nil {
					return nil, err
				}
				defs = append(defs, extra...)
			}
			g, err := gesture.New(
				gesture.WithTemplates(defs...),
				gesture.WithResampleCount(rc.ResampleCount),
				gesture.WithMinScore(rc.MinScore),
				gesture.WithLogger(logger.With("component", "gesture")),
			)
			if err != nil {
				return nil, err
			}
			recs = append(recs, g)
		case config.RecognizerLiteral:
			recs = append(recs, recognize.Literal{Label: rc.LiteralLabel})
		case config.RecognizerRemote:
			r, err := remote.New(rc.RemoteURL,
				remote.WithLanguage(rc.Language),
				remote.WithLogger(logger),
			)
			if err != nil {
				return nil, err
			}
			recs = append(recs, r)
		default:
			return nil, fmt.Errorf("unknown recognizer %q", name)
		}
	}
	return recs, nil
}

func buildResolver(cfg *config.Config, logger *slog.Logger) segment.Resolver {
	if cfg.Recognition.Segmentation == config.SegmentSingle {
		return segment.SingleGroup{}
	}
	seg := segment.ProximitySegmenter{Gap: cfg.Recognition.ProximityGap}
	return segment.New(seg, logger.With("component", "segment"))
}
