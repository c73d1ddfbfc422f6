package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/recognize"
)

func TestLoadConfigFlagsOverride(t *testing.T) {
	cfg, err := loadConfig(options{
		logLevel:      "debug",
		recognizerURL: "http://localhost:9/recognize",
	})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:9/recognize", cfg.Recognition.RemoteURL)
	assert.Contains(t, cfg.Recognition.Recognizers, config.RecognizerRemote)

	n := 0
	for _, r := range cfg.Recognition.Recognizers {
		if r == config.RecognizerRemote {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(options{configPath: filepath.Join(t.TempDir(), "none.toml")})
	require.NoError(t, err)
	assert.Equal(t, config.Default().Ink.Color, cfg.Ink.Color)
}

func TestReplayPrintsMenus(t *testing.T) {
	dir := t.TempDir()
	inkPath := filepath.Join(dir, "ink.toml")
	pngPath := filepath.Join(dir, "ink.png")
	require.NoError(t, os.WriteFile(inkPath, []byte(`
[[stroke]]
points = [[10.0, 10.0], [60.0, 10.0], [60.0, 40.0]]
`), 0o644))

	cfg := config.Default()
	cfg.Recognition.Recognizers = []string{config.RecognizerLiteral}
	cfg.Recognition.Segmentation = config.SegmentSingle

	var out bytes.Buffer
	err := replay(t.Context(), cfg, options{replayPath: inkPath, snapshotPath: pngPath}, logging.Nop(), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "group 1 at (10, 10)")
	assert.Contains(t, out.String(), recognize.DefaultLiteralLabel)
	assert.FileExists(t, pngPath)
}

func TestReplayMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := replay(t.Context(), config.Default(), options{replayPath: filepath.Join(t.TempDir(), "none.toml")}, logging.Nop(), &out)
	assert.Error(t, err)
}
