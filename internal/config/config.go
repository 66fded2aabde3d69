package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for ponto, stored in ~/.ponto/config.json.
// The file supports single-line // comments for documentation purposes.
// Every key can be overridden by a PONTO_* environment variable, e.g.
// PONTO_BACKEND or PONTO_SQL_DSN.
type Config struct {
	// UserID identifies the employee whose entries are read and written.
	UserID string `mapstructure:"user_id"`
	// SessionID keys the punch cooldown. Two terminals sharing it share the cooldown.
	SessionID string `mapstructure:"session_id"`
	// Backend selects where entries and the board live: file, sql or http.
	Backend string `mapstructure:"backend"`
	// DataDir holds the file backend, the cooldown file and cached tokens.
	DataDir string `mapstructure:"data_dir"`
	// BoardID picks the correction board; empty uses the first one.
	BoardID string `mapstructure:"board_id"`

	SQL     SQLConfig     `mapstructure:"sql"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// SQLConfig selects the database of the sql backend.
type SQLConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// APIConfig describes the remote backend of the http backend.
type APIConfig struct {
	BaseURL        string   `mapstructure:"base_url"`
	AccessToken    string   `mapstructure:"access_token"`
	ClientID       string   `mapstructure:"client_id"`
	ClientSecret   string   `mapstructure:"client_secret"`
	TokenURL       string   `mapstructure:"token_url"`
	Scopes         []string `mapstructure:"scopes"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// Timeout returns the request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// SessionConfig selects where the last punch of a session is remembered.
type SessionConfig struct {
	Store         string `mapstructure:"store"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// ServerConfig configures `ponto serve`.
type ServerConfig struct {
	Addr         string   `mapstructure:"addr"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig configures logging. File is optional; when set, JSON logs are
// written there with size-based rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

const (
	BackendFile = "file"
	BackendSQL  = "sql"
	BackendHTTP = "http"

	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PONTO"

// defaults registers every key with viper so AutomaticEnv can override keys
// absent from the file.
var defaults = map[string]any{
	"user_id":    "",
	"session_id": "",
	"backend":    BackendFile,
	"data_dir":   "",
	"board_id":   "",

	"sql.driver": "sqlite",
	"sql.dsn":    "",

	"api.base_url":        "",
	"api.access_token":    "",
	"api.client_id":       "",
	"api.client_secret":   "",
	"api.token_url":       "",
	"api.scopes":          []string{},
	"api.timeout_seconds": 15,

	"session.store":          SessionFile,
	"session.redis_addr":     "localhost:6379",
	"session.redis_password": "",
	"session.redis_db":       0,

	"server.addr":          ":8080",
	"server.allow_origins": []string{"*"},

	"log.level":        "warn",
	"log.file":         "",
	"log.max_size_mb":  100,
	"log.max_backups":  5,
	"log.max_age_days": 30,
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// ponto configuration – ~/.ponto/config.json
//
// All settings are optional; the defaults below keep everything in local
// files under ~/.ponto. Any key can be overridden with an environment
// variable: PONTO_BACKEND, PONTO_SQL_DSN, PONTO_API_BASE_URL, ...
{
  // Employee id used for punches and allocations. Defaults to the OS user.
  "user_id": "",

  // Where entries and the correction board live:
  // • "file" – JSON files under data_dir (default)
  // • "sql"  – a database, see "sql" below
  // • "http" – a remote ponto backend, see "api" below
  "backend": "file",

  // Data directory. Empty means the directory of this file.
  "data_dir": "",

  // ── SQL backend ──────────────────────────────────────────────────────────
  "sql": {
    // "sqlite", "postgres" or "mysql".
    "driver": "sqlite",
    // Empty with sqlite means <data_dir>/ponto.db.
    "dsn": ""
  },

  // ── HTTP backend ─────────────────────────────────────────────────────────
  "api": {
    "base_url": "",
    // Either a static bearer token ...
    "access_token": "",
    // ... or OAuth2 client credentials.
    "client_id": "",
    "client_secret": "",
    "token_url": "",
    "scopes": [],
    "timeout_seconds": 15
  },

  // ── Punch cooldown ───────────────────────────────────────────────────────
  "session": {
    // "file" (default), "memory" or "redis". Use redis to share the
    // cooldown between machines.
    "store": "file",
    "redis_addr": "localhost:6379"
  },

  // ── ponto serve ──────────────────────────────────────────────────────────
  "server": {
    "addr": ":8080",
    "allow_origins": ["*"]
  },

  "log": {
    // debug, info, warn or error.
    "level": "warn",
    // Optional JSON log file with rotation.
    "file": ""
  }
}
`

// FilePath returns the path of the config file: $PONTO_CONFIG when set,
// else ~/.ponto/config.json.
func FilePath() (string, error) {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ponto", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file, creating it with annotated defaults on first
// run. A .env file in the working directory is loaded into the environment
// first.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. See Load.
func LoadFrom(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		data = []byte(configTemplate)
	} else if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadConfig(bytes.NewReader(stripLineComments(data))); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config file %s: %w", path, err)
	}

	cfg.fillDerived(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// fillDerived fills values whose defaults depend on the environment.
func (c *Config) fillDerived(configDir string) {
	if c.DataDir == "" {
		c.DataDir = configDir
	}
	if c.UserID == "" {
		if u, err := user.Current(); err == nil {
			c.UserID = u.Username
		}
	}
	if c.SessionID == "" {
		host, _ := os.Hostname()
		c.SessionID = host + ":" + c.UserID
	}
	if c.SQL.DSN == "" && (c.SQL.Driver == "sqlite" || c.SQL.Driver == "") {
		c.SQL.DSN = filepath.Join(c.DataDir, "ponto.db")
	}
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQL:
	case BackendHTTP:
		if c.API.BaseURL == "" {
			return errors.New(`backend "http" requires api.base_url`)
		}
	default:
		return fmt.Errorf("unknown backend %q (want file, sql or http)", c.Backend)
	}
	switch c.Session.Store {
	case SessionMemory, SessionFile, SessionRedis:
	default:
		return fmt.Errorf("unknown session.store %q (want memory, file or redis)", c.Session.Store)
	}
	if c.UserID == "" {
		return errors.New("user_id is empty and the OS user could not be determined")
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
