package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/aspectwrap/provider"
)

// Config holds settings loaded from aspectwrap.yml.
type Config struct {
	// AllowNoopFallback enables the null provider when no interception
	// mechanism is available. Nil means the default (true).
	AllowNoopFallback *bool `yaml:"allowNoopFallback,omitempty"`

	// Disable lists mechanisms to treat as unavailable.
	Disable []string `yaml:"disable,omitempty"`

	// LogLevel is a zap level name ("debug", "info", ...).
	LogLevel string `yaml:"logLevel,omitempty"`
}

// Load attempts to read aspectwrap.yml or aspectwrap.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"aspectwrap.yml", "aspectwrap.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

// Validate checks mechanism names and the log level.
func (c *Config) Validate() error {
	if _, err := c.DisabledMechanisms(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// NoopFallback resolves AllowNoopFallback against its default.
func (c *Config) NoopFallback() bool {
	if c.AllowNoopFallback == nil {
		return true
	}
	return *c.AllowNoopFallback
}

// DisabledMechanisms parses Disable.
func (c *Config) DisabledMechanisms() ([]provider.Mechanism, error) {
	out := make([]provider.Mechanism, 0, len(c.Disable))
	for _, name := range c.Disable {
		m, err := provider.ParseMechanism(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
