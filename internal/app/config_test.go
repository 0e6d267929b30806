package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid compile", Config{Command: CommandCompile, Path: "src"}, ""},
		{"unknown command", Config{Command: "deploy", Path: "src"}, "unknown command"},
		{"missing path", Config{Command: CommandRender}, "PATH is required"},
		{"bad platform", Config{Command: CommandRender, Path: "a.json", Platform: "tv"}, "invalid platform"},
		{"bad format", Config{Command: CommandRender, Path: "a.json", Format: "xml"}, "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Path, cfg.Path)
		})
	}
}

func TestNewConfig_ServeDefaultsListen(t *testing.T) {
	cfg, err := NewConfig(Config{Command: CommandServe, Path: "src"})
	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Listen)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "sduigo.yaml")
	require.NoError(t, os.WriteFile(good, []byte("log_level: debug\nlisten: \":9090\"\nwatch: true\nsource: ui\n"), 0o644))
	fc, err := LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "debug", fc.LogLevel)
	assert.Equal(t, ":9090", fc.Listen)
	assert.Equal(t, "ui", fc.Source)
	require.NotNil(t, fc.Watch)
	assert.True(t, *fc.Watch)
	assert.Nil(t, (&FileConfig{}).Watch)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	fc, err = LoadFile(empty)
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, *fc)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("workers: 3\n"), 0o644))
	_, err = LoadFile(unknown)
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open config file")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger("warn", "auto", &buf).Warn("hello", "k", "v")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "auto picks json for non-terminals")
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])

	buf.Reset()
	newLogger("warn", "text", &buf).Info("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	newLogger("debug", "text", &buf).Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
