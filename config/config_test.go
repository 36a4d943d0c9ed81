package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvServerURL, EnvLogLevel, EnvLogFile} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, *cfg)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Server.URL)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		"server": {"url": "http://go.example:8000"},
		"theme": {"symbols": {"black": "X"}}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://go.example:8000", cfg.Server.URL)
	assert.Equal(t, "X", cfg.Theme.Symbols.BlackStone)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultTheme.Symbols.WhiteStone, cfg.Theme.Symbols.WhiteStone)
	assert.Equal(t, DefaultTheme.Colors, cfg.Theme.Colors)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"server": {"url": "http://from-file:1"}}`)
	t.Setenv(EnvServerURL, "https://from-env:2")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFile, "/tmp/aigo.log")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env:2", cfg.Server.URL)
	assert.Equal(t, "debug", cfg.Log.Level)

	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/aigo.log", logPath)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"control character", func(c *Config) { c.Theme.Symbols.BoardSquare = "\x07" }},
		{"two characters", func(c *Config) { c.Theme.Symbols.BlackStone = "ab" }},
		{"empty symbol", func(c *Config) { c.Theme.Symbols.Cursor = "" }},
		{"relative url", func(c *Config) { c.Server.URL = "localhost:5000" }},
		{"ftp url", func(c *Config) { c.Server.URL = "ftp://localhost" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			tt.mutate(&cfg)
			var invalid *InvalidConfig
			assert.ErrorAs(t, cfg.Validate(), &invalid)
		})
	}

	cfg := DefaultConfig
	assert.NoError(t, cfg.Validate())
}

func TestRune(t *testing.T) {
	assert.Equal(t, '●', Rune("●"))
}

func TestInitConfigWritesDefaultsOnFirstRun(t *testing.T) {
	clearEnv(t)
	t.Cleanup(xdg.Reload)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(home, "none"))
	xdg.Reload()

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, *cfg)

	path := filepath.Join(home, appName, "config.json")
	require.FileExists(t, path)

	// the saved file is picked up and edits to it are honored
	require.NoError(t, os.WriteFile(path, []byte(`{"server": {"url": "http://edited:7000"}}`), 0o644))
	cfg, err = InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://edited:7000", cfg.Server.URL)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig
	cfg.Server.URL = "https://saved:1"
	require.NoError(t, saveCfgFile(path, &cfg, 0o664))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}
