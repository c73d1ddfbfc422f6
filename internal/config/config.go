// Package config holds inkwell's typed configuration.
//
// Settings come from three sources, later ones winning: built-in
// defaults, a TOML file, and INKWELL_* environment variables. A Watcher
// reloads the file when it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/gesture"
	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/ink/capture"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/recognize"
	"github.com/dshills/inkwell/internal/segment"
)

// Recognizer names accepted in recognition.recognizers.
const (
	RecognizerGesture = "gesture"
	RecognizerLiteral = "literal"
	RecognizerRemote  = "remote"
)

// Segmentation modes.
const (
	SegmentProximity = "proximity"
	SegmentSingle    = "single"
)

// Duration is a time.Duration written as a string such as "1.5s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete configuration.
type Config struct {
	Recognition RecognitionConfig `toml:"recognition"`
	Matching    MatchingConfig    `toml:"matching"`
	Ink         InkConfig         `toml:"ink"`
	Assistant   AssistantConfig   `toml:"assistant"`
	Logging     LoggingConfig     `toml:"logging"`
}

// RecognitionConfig configures grouping and recognizers.
type RecognitionConfig struct {
	// Recognizers lists the recognizers to register, in order.
	Recognizers []string `toml:"recognizers"`
	// Templates is an extra gesture template file (TOML or YAML).
	Templates string `toml:"templates"`
	// ResampleCount is the gesture resampling size.
	ResampleCount int `toml:"resample_count"`
	// MinScore is the gesture acceptance threshold.
	MinScore float64 `toml:"min_score"`
	// Timeout bounds each recognizer call. Zero disables it.
	Timeout Duration `toml:"timeout"`
	// RemoteURL is the handwriting service endpoint.
	RemoteURL string `toml:"remote_url"`
	// Language is sent to the handwriting service.
	Language string `toml:"language"`
	// LiteralLabel is the literal recognizer's candidate.
	LiteralLabel string `toml:"literal_label"`
	// Segmentation is "proximity" or "single".
	Segmentation string `toml:"segmentation"`
	// ProximityGap is the clustering distance for proximity grouping.
	ProximityGap float64 `toml:"proximity_gap"`
}

// MatchingConfig configures the action matcher.
type MatchingConfig struct {
	MaxDistance int  `toml:"max_distance"`
	CacheSize   int  `toml:"cache_size"`
	Symbols     bool `toml:"symbols"`
}

// InkConfig configures the pen.
type InkConfig struct {
	Color string  `toml:"color"`
	Width float64 `toml:"width"`
	// Tolerance is the eraser hit distance.
	Tolerance float64 `toml:"tolerance"`
}

// AssistantConfig configures menus and deletion.
type AssistantConfig struct {
	Deletion    string `toml:"deletion"`
	EraseTiming string `toml:"erase_timing"`
	// LuaTarget is a script whose table is offered as the object under
	// the ink.
	LuaTarget string `toml:"lua_target"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Recognition: RecognitionConfig{
			Recognizers:   []string{RecognizerGesture, RecognizerLiteral},
			ResampleCount: gesture.DefaultResampleCount,
			MinScore:      gesture.DefaultMinScore,
			Timeout:       Duration(recognize.DefaultTimeout),
			Language:      "en",
			LiteralLabel:  recognize.DefaultLiteralLabel,
			Segmentation:  SegmentProximity,
			ProximityGap:  segment.DefaultGap,
		},
		Matching: MatchingConfig{
			MaxDistance: action.DefaultMaxDistance,
			CacheSize:   action.DefaultCacheSize,
			Symbols:     true,
		},
		Ink: InkConfig{
			Color:     ink.DefaultStyle.ColorName,
			Width:     ink.DefaultStyle.WidthPx,
			Tolerance: capture.DefaultTolerance,
		},
		Assistant: AssistantConfig{
			Deletion:    string(assistant.DeleteOnSuccess),
			EraseTiming: string(assistant.EraseBeforeMenu),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := cfg.decode(path, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults. name labels errors.
func Parse(name string, data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(name, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(name string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		pe := &ParseError{Path: name, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}
	return nil
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Recognition.Recognizers = slices.Clone(c.Recognition.Recognizers)
	return &out
}

// Validate checks every setting and reports all problems at once as a
// *ValidationError.
func (c *Config) Validate() error {
	v := &ValidationError{}

	r := c.Recognition
	seen := make(map[string]bool)
	for _, name := range r.Recognizers {
		switch name {
		case RecognizerGesture, RecognizerLiteral, RecognizerRemote:
		default:
			v.add("recognition.recognizers", "unknown recognizer", name)
		}
		if seen[name] {
			v.add("recognition.recognizers", "listed twice", name)
		}
		seen[name] = true
	}
	if seen[RecognizerRemote] && r.RemoteURL == "" {
		v.add("recognition.remote_url", "required by the remote recognizer", r.RemoteURL)
	}
	if r.ResampleCount < 2 {
		v.add("recognition.resample_count", "must be at least 2", r.ResampleCount)
	}
	if r.MinScore <= 0 || r.MinScore > 1 {
		v.add("recognition.min_score", "must be in (0, 1]", r.MinScore)
	}
	if r.Timeout < 0 {
		v.add("recognition.timeout", "must not be negative", r.Timeout.Std())
	}
	if r.Segmentation != SegmentProximity && r.Segmentation != SegmentSingle {
		v.add("recognition.segmentation", "must be proximity or single", r.Segmentation)
	}
	if r.ProximityGap < 0 {
		v.add("recognition.proximity_gap", "must not be negative", r.ProximityGap)
	}

	if c.Matching.MaxDistance < 1 {
		v.add("matching.max_distance", "must be at least 1", c.Matching.MaxDistance)
	}
	if c.Matching.CacheSize < 0 {
		v.add("matching.cache_size", "must not be negative", c.Matching.CacheSize)
	}

	if c.Ink.Width <= 0 {
		v.add("ink.width", "must be positive", c.Ink.Width)
	}
	if c.Ink.Tolerance < 0 {
		v.add("ink.tolerance", "must not be negative", c.Ink.Tolerance)
	}

	if _, err := assistant.ParseDeletionPolicy(c.Assistant.Deletion); err != nil {
		v.add("assistant.deletion", "must be on-success, always or never", c.Assistant.Deletion)
	}
	if _, err := assistant.ParseEraseTiming(c.Assistant.EraseTiming); err != nil {
		v.add("assistant.erase_timing", "must be before-menu or after-menu", c.Assistant.EraseTiming)
	}

	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		v.add("logging.level", "unknown level", c.Logging.Level)
	}
	switch logging.Format(c.Logging.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		v.add("logging.format", "must be text or json", c.Logging.Format)
	}

	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// DeletionPolicy returns the parsed deletion policy. Call after Validate.
func (c *Config) DeletionPolicy() assistant.DeletionPolicy {
	p, _ := assistant.ParseDeletionPolicy(c.Assistant.Deletion)
	return p
}

// EraseTiming returns the parsed erase timing. Call after Validate.
func (c *Config) EraseTiming() assistant.EraseTiming {
	t, _ := assistant.ParseEraseTiming(c.Assistant.EraseTiming)
	return t
}

// Style returns the configured pen style.
func (c *Config) Style() ink.Style {
	return ink.Style{ColorName: c.Ink.Color, WidthPx: c.Ink.Width}
}
