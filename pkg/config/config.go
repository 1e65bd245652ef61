// Package config loads the YAML configuration shared by the widget, the
// transmitter server and the API client.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/transmitter/pkg/counter"
)

// Defaults used when a field is left empty.
const (
	DefaultServerURL = "http://localhost:5001"
	DefaultListen    = ":5001"
	DefaultEmphasis  = 200 * time.Millisecond
	DefaultLogLevel  = "info"
)

// Config is the top-level configuration.
type Config struct {
	ServerURL    string `yaml:"server_url"`
	Mode         string `yaml:"mode"`          // "local" or "sync".
	TickInterval string `yaml:"tick_interval"` // Local clock period, e.g. "1s".
	PollInterval string `yaml:"poll_interval"` // Sync poll period, e.g. "500ms".
	PollTimeout  string `yaml:"poll_timeout"`
	Emphasis     string `yaml:"emphasis"` // How long a refreshed number stays highlighted.
	LogLevel     string `yaml:"log_level"`
	LogFile      string `yaml:"log_file"` // Widget log destination; empty means inside the app dir.
	Listen       string `yaml:"listen"`   // Address for `serve`.
	Metrics      bool   `yaml:"metrics"`  // Expose /metrics from `serve`.
}

// Default returns a Config with every field populated.
func Default() Config {
	return Config{
		ServerURL:    DefaultServerURL,
		Mode:         counter.ModeLocal.String(),
		TickInterval: counter.DefaultTickInterval.String(),
		PollInterval: counter.DefaultPollInterval.String(),
		PollTimeout:  counter.DefaultPollTimeout.String(),
		Emphasis:     DefaultEmphasis.String(),
		LogLevel:     DefaultLogLevel,
		Listen:       DefaultListen,
		Metrics:      true,
	}
}

// LoadConfig reads a YAML file on top of Default. ${VAR} and $VAR references
// are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes on top of Default.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.fill()

	return cfg, nil
}

// fill restores defaults for fields the file set to empty strings.
func (c *Config) fill() {
	d := Default()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&c.ServerURL, d.ServerURL},
		{&c.Mode, d.Mode},
		{&c.TickInterval, d.TickInterval},
		{&c.PollInterval, d.PollInterval},
		{&c.PollTimeout, d.PollTimeout},
		{&c.Emphasis, d.Emphasis},
		{&c.LogLevel, d.LogLevel},
		{&c.Listen, d.Listen},
	} {
		if strings.TrimSpace(*f.dst) == "" {
			*f.dst = f.def
		}
	}
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if _, err := c.ParsedMode(); err != nil {
		return fmt.Errorf("config: mode: %w", err)
	}

	for _, d := range []struct {
		name  string
		value string
	}{
		{"tick_interval", c.TickInterval},
		{"poll_interval", c.PollInterval},
		{"poll_timeout", c.PollTimeout},
		{"emphasis", c.Emphasis},
	} {
		if _, err := positiveDuration(d.value); err != nil {
			return fmt.Errorf("config: %s: %w", d.name, err)
		}
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("config: server_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: server_url %q: must be an absolute http(s) url", c.ServerURL)
	}

	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}

	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("config: listen is required")
	}

	return nil
}

// ParsedMode returns the configured start-up mode.
func (c Config) ParsedMode() (counter.Mode, error) {
	return counter.ParseMode(c.Mode)
}

// CounterOptions converts the timer settings into controller options. The
// config must have passed Validate.
func (c Config) CounterOptions() counter.Options {
	tick, _ := positiveDuration(c.TickInterval)
	poll, _ := positiveDuration(c.PollInterval)
	timeout, _ := positiveDuration(c.PollTimeout)

	return counter.Options{
		TickInterval: tick,
		PollInterval: poll,
		PollTimeout:  timeout,
	}
}

// EmphasisDuration returns how long a refreshed number stays highlighted.
func (c Config) EmphasisDuration() time.Duration {
	d, err := positiveDuration(c.Emphasis)
	if err != nil {
		return DefaultEmphasis
	}
	return d
}

// SlogLevel maps log_level onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return lvl, nil
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}
