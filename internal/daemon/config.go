// Package daemon manages the jokebox runtime and its configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all jokebox configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Source    SourceConfig    `toml:"source"`
	Deck      DeckConfig      `toml:"deck"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the local HTTP bridge.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// SourceConfig points at the joke endpoint.
type SourceConfig struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"` // Go duration; empty uses the client default
}

// DeckConfig sizes the swipe deck.
type DeckConfig struct {
	Preload     int `toml:"preload"`
	RefillBelow int `toml:"refill_below"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level"`  // logrus level name
	Format string `toml:"format"` // "text" or "json"
	File   string `toml:"file"`   // empty logs to stderr
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        11435,
			CORSOrigins: []string{"http://localhost", "http://127.0.0.1"},
		},
		Source: SourceConfig{
			Endpoint: "https://official-joke-api.appspot.com/random_joke",
			Timeout:  "10s",
		},
		Deck: DeckConfig{
			Preload:     3,
			RefillBelow: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
	}
}

// LoadConfig reads config from ~/.jokebox/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := ConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot start with.
func (c Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("config: api.port %d out of range", c.API.Port)
	}
	if c.Source.Endpoint == "" {
		return fmt.Errorf("config: source.endpoint is empty")
	}
	if c.Source.Timeout != "" {
		if _, err := parseDuration(c.Source.Timeout); err != nil {
			return fmt.Errorf("config: source.timeout: %w", err)
		}
	}
	if c.Deck.Preload < 0 || c.Deck.RefillBelow < 0 {
		return fmt.Errorf("config: deck sizes must not be negative")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: logging.format %q is not text or json", c.Logging.Format)
	}
	return nil
}

// SaveConfig writes the config to ~/.jokebox/config.toml.
func SaveConfig(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// ConfigPath returns the location of config.toml.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Home returns the jokebox data directory, ~/.jokebox unless
// JOKEBOX_HOME says otherwise.
func Home() string {
	if env := os.Getenv("JOKEBOX_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".jokebox")
}

// Addr is the listen address of the HTTP bridge.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
