package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const appName = "aigo-board"

var (
	cfgFile = appName + "/config.json"
	logFile = appName + "/aigo-board.log"
)

// Environment variables that override the config file.
const (
	EnvPrefix    = "AIGO"
	EnvServerURL = "AIGO_SERVER_URL"
	EnvLogLevel  = "AIGO_LOG_LEVEL"
	EnvLogFile   = "AIGO_LOG_FILE"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor    int `json:"board" mapstructure:"board"`
	BlackColor    int `json:"black" mapstructure:"black"`
	WhiteColor    int `json:"white" mapstructure:"white"`
	LineColor     int `json:"line" mapstructure:"line"`
	CursorColorFG int `json:"cursor_fg" mapstructure:"cursor_fg"`
	CursorColorBG int `json:"cursor_bg" mapstructure:"cursor_bg"`
}

// ConfigSymbols are single characters drawn on the terminal board.
type ConfigSymbols struct {
	BlackStone  string `json:"black" mapstructure:"black"`
	WhiteStone  string `json:"white" mapstructure:"white"`
	BoardSquare string `json:"board" mapstructure:"board"`
	Cursor      string `json:"cursor" mapstructure:"cursor"`
}

type Theme struct {
	DrawCursorBackground bool          `json:"draw_cursor_bg" mapstructure:"draw_cursor_bg"`
	UseGridLines         bool          `json:"use_grid_lines" mapstructure:"use_grid_lines"`
	Colors               ConfigColors  `json:"colors" mapstructure:"colors"`
	Symbols              ConfigSymbols `json:"symbols" mapstructure:"symbols"`
}

// ServerConfig points the client at the game server.
type ServerConfig struct {
	URL string `json:"url" mapstructure:"url"`
}

// LogConfig controls the zap file logger. An empty File logs to the XDG
// state directory.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

type Config struct {
	Theme  Theme        `json:"theme" mapstructure:"theme"`
	Server ServerConfig `json:"server" mapstructure:"server"`
	Log    LogConfig    `json:"log" mapstructure:"log"`
}

// InitConfig loads the config file from the XDG config dirs and applies
// environment overrides. On first run the defaults are written out so the
// user has a file to edit.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		defaults := DefaultConfig
		if err := defaults.Save(); err != nil {
			return nil, err
		}
		if absPath, err = xdg.SearchConfigFile(cfgFile); err != nil {
			return nil, fmt.Errorf("locate config file: %w", err)
		}
	}
	return Load(absPath)
}

// Load reads the JSON config at path on top of DefaultConfig. An empty path
// only applies the defaults and the environment.
func Load(path string) (*Config, error) {
	config := DefaultConfig

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"server.url", "log.level", "log.file"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	s := c.Theme.Symbols
	for _, sym := range []string{s.BlackStone, s.WhiteStone, s.BoardSquare, s.Cursor} {
		if utf8.RuneCountInString(sym) != 1 {
			return &InvalidConfig{fmt.Sprintf("symbol %q must be exactly one character", sym)}
		}
		r, _ := utf8.DecodeRuneInString(sym)
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"unicode characters 1-31 and 127-159 are not allowed"}
		}
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidConfig{fmt.Sprintf("server url %q must be an absolute http(s) url", c.Server.URL)}
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	return nil
}

// Rune returns the first character of a validated symbol.
func Rune(sym string) rune {
	r, _ := utf8.DecodeRuneInString(sym)
	return r
}

// Save writes the config to the user's XDG config dir.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	return saveCfgFile(absPath, c, 0664)
}

// LogPath returns the configured log file, or one under the XDG state dir.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(logFile)
}

// ExportPath returns a path for name under the XDG data dir, creating the
// exports directory when needed.
func ExportPath(name string) (string, error) {
	return xdg.DataFile(filepath.Join(appName, "exports", name))
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err = os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
