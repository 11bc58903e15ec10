package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all flashcards configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
	// Grace period for in-flight requests on shutdown, e.g. "10s".
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LLMConfig points at the Ollama server used for generation.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	// Empty means no client-side timeout.
	Timeout string `yaml:"timeout"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			StaticDir:       "static",
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Path: "flashcards.db",
		},
		LLM: LLMConfig{
			Endpoint: "http://localhost:11434",
			Model:    "gemma3n:latest",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path on top of the defaults. A missing file
// is not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %q", path)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.Wrapf(err, "read config %q", path)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse PORT %q", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("FLASHCARDS_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("FLASHCARDS_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.LLM.Endpoint == "" {
		return errors.New("llm.endpoint is required")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if _, err := parseDuration(c.LLM.Timeout); err != nil {
		return errors.Wrap(err, "llm.timeout")
	}
	if _, err := parseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.Wrap(err, "server.shutdown_timeout")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetLLMTimeout returns the outbound request timeout, zero if unset.
func (c *Config) GetLLMTimeout() time.Duration {
	d, _ := parseDuration(c.LLM.Timeout)
	return d
}

func (c *Config) GetShutdownTimeout() time.Duration {
	d, _ := parseDuration(c.Server.ShutdownTimeout)
	if d == 0 {
		return 10 * time.Second
	}
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
