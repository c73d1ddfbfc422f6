package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of the environment overrides.
const EnvPrefix = "INKWELL_"

// envSetters maps variable names, without prefix, to the settings they
// override.
var envSetters = map[string]func(c *Config, v string) error{
	"LOG_LEVEL":  func(c *Config, v string) error { c.Logging.Level = v; return nil },
	"LOG_FORMAT": func(c *Config, v string) error { c.Logging.Format = v; return nil },
	"RECOGNIZERS": func(c *Config, v string) error {
		c.Recognition.Recognizers = splitList(v)
		return nil
	},
	"TEMPLATES":    func(c *Config, v string) error { c.Recognition.Templates = v; return nil },
	"REMOTE_URL":   func(c *Config, v string) error { c.Recognition.RemoteURL = v; return nil },
	"LANGUAGE":     func(c *Config, v string) error { c.Recognition.Language = v; return nil },
	"SEGMENTATION": func(c *Config, v string) error { c.Recognition.Segmentation = v; return nil },
	"MIN_SCORE":    floatSetter(func(c *Config) *float64 { return &c.Recognition.MinScore }),
	"PROXIMITY_GAP": floatSetter(func(c *Config) *float64 {
		return &c.Recognition.ProximityGap
	}),
	"TIMEOUT": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Recognition.Timeout = Duration(d)
		return nil
	},
	"MAX_DISTANCE": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Matching.MaxDistance = n
		return nil
	},
	"SYMBOLS": func(c *Config, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		c.Matching.Symbols = b
		return nil
	},
	"PEN_COLOR":    func(c *Config, v string) error { c.Ink.Color = v; return nil },
	"PEN_WIDTH":    floatSetter(func(c *Config) *float64 { return &c.Ink.Width }),
	"DELETION":     func(c *Config, v string) error { c.Assistant.Deletion = v; return nil },
	"ERASE_TIMING": func(c *Config, v string) error { c.Assistant.EraseTiming = v; return nil },
	"LUA_TARGET":   func(c *Config, v string) error { c.Assistant.LuaTarget = v; return nil },
}

func floatSetter(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

// ApplyEnv overrides settings from environment variables named prefix
// followed by a setting name, e.g. INKWELL_LOG_LEVEL. Unparseable values
// are reported together and leave their settings unchanged.
func (c *Config) ApplyEnv(prefix string) error {
	names := make([]string, 0, len(envSetters))
	for name := range envSetters {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		v, ok := os.LookupEnv(prefix + name)
		if !ok {
			continue
		}
		if err := envSetters[name](c, strings.TrimSpace(v)); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", prefix, name, err))
		}
	}
	return errors.Join(errs...)
}

// EnvNames returns the recognized variable names with prefix, sorted.
func EnvNames(prefix string) []string {
	names := make([]string, 0, len(envSetters))
	for name := range envSetters {
		names = append(names, prefix+name)
	}
	slices.Sort(names)
	return names
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
