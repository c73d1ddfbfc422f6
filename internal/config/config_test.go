package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/assistant"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{RecognizerGesture, RecognizerLiteral}, cfg.Recognition.Recognizers)
	assert.Equal(t, 2*time.Second, cfg.Recognition.Timeout.Std())
	assert.Equal(t, 0.7, cfg.Recognition.MinScore)
	assert.Equal(t, assistant.DeleteOnSuccess, cfg.DeletionPolicy())
	assert.Equal(t, assistant.EraseBeforeMenu, cfg.EraseTiming())
	assert.Equal(t, "black", cfg.Style().ColorName)
}

func TestParse(t *testing.T) {
	cfg, err := Parse("inkwell.toml", []byte(`
[recognition]
recognizers = ["remote", "gesture"]
remote_url = "http://localhost:9000/recognize"
timeout = "750ms"
min_score = 0.8

[matching]
symbols = false

[ink]
color = "#336699"
width = 3.5

[assistant]
deletion = "never"
erase_timing = "after-menu"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"remote", "gesture"}, cfg.Recognition.Recognizers)
	assert.Equal(t, 750*time.Millisecond, cfg.Recognition.Timeout.Std())
	assert.Equal(t, 0.8, cfg.Recognition.MinScore)
	assert.Equal(t, 32, cfg.Recognition.ResampleCount, "unset keys keep defaults")
	assert.False(t, cfg.Matching.Symbols)
	assert.Equal(t, "#336699", cfg.Style().CSS())
	assert.Equal(t, assistant.DeleteNever, cfg.DeletionPolicy())
	assert.Equal(t, assistant.EraseAfterMenu, cfg.EraseTiming())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("bad.toml", []byte("[recognition]\nmin_score = = 1\n"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.toml", pe.Path)
	assert.Equal(t, 2, pe.Line)

	_, err = Parse("unknown.toml", []byte("[recognition]\nspeed = 3\n"))
	assert.True(t, errors.As(err, &pe), "unknown keys are rejected")

	_, err = Parse("duration.toml", []byte("[recognition]\ntimeout = \"soon\"\n"))
	assert.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Recognition.Recognizers = []string{"gesture", "ocr", "gesture", "remote"}
	cfg.Recognition.MinScore = 1.5
	cfg.Recognition.Timeout = Duration(-time.Second)
	cfg.Matching.MaxDistance = 0
	cfg.Ink.Width = 0
	cfg.Assistant.Deletion = "sometimes"
	cfg.Logging.Level = "chatty"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	var paths []string
	for _, f := range ve.Fields {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		"recognition.recognizers",
		"recognition.recognizers",
		"recognition.remote_url",
		"recognition.min_score",
		"recognition.timeout",
		"matching.max_distance",
		"ink.width",
		"assistant.deletion",
		"logging.level",
		"logging.format",
	}, paths)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "inkwell.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMarshalKeepsDurations(t *testing.T) {
	cfg := Default()
	cfg.Recognition.Timeout = Duration(1500 * time.Millisecond)
	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse("marshalled", data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestClone(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Recognition.Recognizers[0] = "remote"
	assert.Equal(t, RecognizerGesture, cfg.Recognition.Recognizers[0])
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("INKWELL_LOG_LEVEL", "warn")
	t.Setenv("INKWELL_RECOGNIZERS", "gesture, remote ,")
	t.Setenv("INKWELL_REMOTE_URL", "http://hw.local")
	t.Setenv("INKWELL_TIMEOUT", "3s")
	t.Setenv("INKWELL_SYMBOLS", "off")
	t.Setenv("INKWELL_PEN_WIDTH", "4")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(EnvPrefix))
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"gesture", "remote"}, cfg.Recognition.Recognizers)
	assert.Equal(t, "http://hw.local", cfg.Recognition.RemoteURL)
	assert.Equal(t, 3*time.Second, cfg.Recognition.Timeout.Std())
	assert.False(t, cfg.Matching.Symbols)
	assert.Equal(t, 4.0, cfg.Ink.Width)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvReportsBadValues(t *testing.T) {
	t.Setenv("INKWELL_MIN_SCORE", "high")
	t.Setenv("INKWELL_MAX_DISTANCE", "two")
	t.Setenv("INKWELL_PEN_COLOR", "red")

	cfg := Default()
	err := cfg.ApplyEnv(EnvPrefix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INKWELL_MIN_SCORE")
	assert.Contains(t, err.Error(), "INKWELL_MAX_DISTANCE")
	assert.Equal(t, 0.7, cfg.Recognition.MinScore)
	assert.Equal(t, "red", cfg.Ink.Color, "good values still apply")
}

func TestEnvNames(t *testing.T) {
	names := EnvNames(EnvPrefix)
	assert.Contains(t, names, "INKWELL_LOG_LEVEL")
	assert.Contains(t, names, "INKWELL_ERASE_TIMING")
	assert.IsNonDecreasing(t, names)
}
