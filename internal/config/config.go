// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. A command-line flag:      --config=/path/to/config.yaml
//  2. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//
// Every value in the YAML file can be overridden by the environment
// variable named in its env:"..." tag.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigPathEnv is the environment variable consulted when no --config flag
// is given.
const ConfigPathEnv = "CONFIG_PATH"

// Config is the root configuration structure.
//
// env-required:"true" means the app refuses to start if that value is
// missing. Everything else falls back to its env-default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	HTTPServer HTTPServer `yaml:"http_server"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Database   Database   `yaml:"database"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`

	// MaxBodyBytes caps the size of a request body. Larger bodies get 413.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" env-default:"1048576"`
}

// RateLimit configures the global request rate limiter.
// RPS <= 0 disables rate limiting.
type RateLimit struct {
	RPS   int `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"100"`
	Burst int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"50"`
}

// Database holds connection pool settings for the SQLite store.
type Database struct {
	MaxOpenConns  int `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns  int `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	BusyTimeoutMs int `yaml:"busy_timeout_ms" env:"DB_BUSY_TIMEOUT_MS" env-default:"5000"`
}

// Load reads, validates, and returns the config stored at path.
// An empty path falls back to the CONFIG_PATH environment variable.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	if path == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Check the file up front so the caller gets a clear message rather
	// than a cryptic "open: no such file" from the YAML reader.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file, then applies env overrides,
	// env-default values and env-required checks.
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case "dev", "staging", "prod":
	default:
		return fmt.Errorf("invalid env %q: must be dev, staging or prod", c.Env)
	}

	// env-required only checks that the variable is set, so an empty value
	// gets through cleanenv. An empty storage path opens a throwaway
	// temporary database.
	if c.StoragePath == "" {
		return errors.New("storage_path must not be empty")
	}

	if c.HTTPServer.Addr == "" {
		return errors.New("http_server.address must not be empty")
	}

	if c.HTTPServer.MaxBodyBytes <= 0 {
		return fmt.Errorf("http_server.max_body_bytes must be positive, got %d", c.HTTPServer.MaxBodyBytes)
	}

	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be positive when rate limiting is enabled, got %d", c.RateLimit.Burst)
	}

	return nil
}
