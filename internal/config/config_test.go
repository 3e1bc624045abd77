package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/shellbridge/internal/env"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELLBRIDGE_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "auto", cfg.Bridge.Mode)
	require.Equal(t, env.DefaultMarker, cfg.Bridge.Marker)
	require.Equal(t, 10*time.Second, cfg.Bridge.Timeout)
	require.Equal(t, 3*time.Second, cfg.Bridge.DialTimeout)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, filepath.Join(home, ".local", "state", "shellbridge", "shellbridge.log"), cfg.Log.File)
	require.Empty(t, cfg.Metrics.Listen)
	require.Equal(t, "text", cfg.UI.StartView)
	require.True(t, cfg.UI.AltScreen)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[bridge]
mode = "native"
url = "ws://127.0.0.1:7420/bridge"
timeout = "2s"
dial_timeout = "500ms"

[ui]
start_view = "printers"
alt_screen = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SHELLBRIDGE_CONFIG", path)
	t.Setenv("SHELLBRIDGE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, path, Path())
	require.Equal(t, "native", cfg.Bridge.Mode)
	require.Equal(t, "ws://127.0.0.1:7420/bridge", cfg.Bridge.URL)
	require.Equal(t, 2*time.Second, cfg.Bridge.Timeout)
	require.Equal(t, 500*time.Millisecond, cfg.Bridge.DialTimeout)
	require.Equal(t, "printers", cfg.UI.StartView)
	require.False(t, cfg.UI.AltScreen)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHELLBRIDGE_CONFIG", "")
	t.Setenv("SHELLBRIDGE_BRIDGE_MODE", "tauri")

	_, err := Load()
	require.ErrorContains(t, err, "bridge.mode")
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHELLBRIDGE_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "auto", cfg.Bridge.Mode)
}

func TestValidate(t *testing.T) {
	ok := Config{
		Bridge: BridgeConfig{Mode: "web", Marker: "X", Timeout: time.Second},
		Log:    LogConfig{Level: "warn", Format: "json"},
		UI:     UIConfig{StartView: "devices"},
	}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Bridge.Marker = " "
	bad.Log.Format = "xml"
	bad.UI.StartView = "dashboard"
	err := bad.Validate()
	require.ErrorContains(t, err, "bridge.marker")
	require.ErrorContains(t, err, "log.format")
	require.ErrorContains(t, err, "ui.start_view")
}
