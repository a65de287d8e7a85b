// Package config handles the configuration directory, config.toml and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"todos/internal/service"
)

const (
	// AppName is the application directory name.
	AppName = "todos"

	// ConfigFile is the optional configuration filename.
	ConfigFile = "config.toml"

	// DefaultRequestTimeout applies when request_timeout is unset.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultListen is the serve command's default listen address.
	DefaultListen = "127.0.0.1:8080"
)

// Local slot stores.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Environment variables.
const (
	EnvAPIBase    = "TODOS_API_BASE"
	EnvBackendURL = "TODOS_BACKEND_URL" // fallback for EnvAPIBase
	EnvAPIToken   = "TODOS_API_TOKEN"
	EnvDataDir    = "TODOS_DATA_DIR"
	EnvStore      = "TODOS_STORE"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// APIBase is the remote API base address. Empty selects local mode.
	APIBase string

	// APIToken is sent as a bearer token to the remote API.
	APIToken string

	// DataDir holds the local todo slot. Defaults to Dir.
	DataDir string

	// Store selects how local slots are kept: StoreFile or StoreSQLite.
	Store string

	// RequestTimeout bounds each remote request. Zero disables it.
	RequestTimeout time.Duration

	// Listen is the serve command's listen address.
	Listen string

	// LogLevel and LogFormat configure the console logger.
	LogLevel  string
	LogFormat string

	// Mode is resolved once from APIBase by Load.
	Mode service.Mode
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIBase        string `toml:"api_base"`
	APIToken       string `toml:"api_token"`
	DataDir        string `toml:"data_dir"`
	Store          string `toml:"store"`
	RequestTimeout string `toml:"request_timeout"`
	Listen         string `toml:"listen"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todos or $HOME/.config/todos.
// Nothing is read from disk or the environment; see Load.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:            dir,
		DataDir:        dir,
		Store:          StoreFile,
		RequestTimeout: DefaultRequestTimeout,
		Listen:         DefaultListen,
		Mode:           service.ModeLocal,
	}, nil
}

// Load creates a Config, applies config.toml if present, then the
// environment, and resolves the backend mode.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.loadEnv()
	if err := cfg.checkStore(); err != nil {
		return nil, err
	}
	cfg.APIBase = strings.TrimSpace(cfg.APIBase)
	cfg.Mode = service.ModeFor(cfg.APIBase)
	return cfg, nil
}

func (c *Config) loadFile() error {
	var fc fileConfig
	_, err := toml.DecodeFile(c.Path(), &fc)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.APIBase != "" {
		c.APIBase = fc.APIBase
	}
	if fc.APIToken != "" {
		c.APIToken = fc.APIToken
	}
	if fc.DataDir != "" {
		c.DataDir = c.resolve(fc.DataDir)
	}
	if fc.Store != "" {
		c.Store = fc.Store
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s: request_timeout: %q", ConfigFile, fc.RequestTimeout)
		}
		c.RequestTimeout = d
	}
	if fc.Listen != "" {
		c.Listen = fc.Listen
	}
	c.LogLevel = fc.LogLevel
	c.LogFormat = fc.LogFormat
	return nil
}

func (c *Config) loadEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		c.APIBase = v
	} else if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIToken)); v != "" {
		c.APIToken = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		c.DataDir = c.resolve(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStore)); v != "" {
		c.Store = v
	}
}

func (c *Config) checkStore() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreFile, StoreSQLite:
		return nil
	default:
		return fmt.Errorf("invalid store: %q (want %s or %s)", c.Store, StoreFile, StoreSQLite)
	}
}

// resolve makes relative paths relative to the config directory.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.toml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// LogLevelName returns the effective log level, honouring Debug.
func (c *Config) LogLevelName() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
