package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/transmitter/pkg/counter"
)

const sampleYAML = `
server_url: http://numbers.internal:8080
mode: sync
tick_interval: 2s
poll_interval: 250ms
poll_timeout: 1s
emphasis: 300ms
log_level: debug
log_file: /tmp/widget.log
listen: 127.0.0.1:9000
metrics: false
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://numbers.internal:8080", cfg.ServerURL)
	assert.Equal(t, "/tmp/widget.log", cfg.LogFile)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.False(t, cfg.Metrics)

	mode, err := cfg.ParsedMode()
	require.NoError(t, err)
	assert.Equal(t, counter.ModeSync, mode)

	assert.Equal(t, counter.Options{
		TickInterval: 2 * time.Second,
		PollInterval: 250 * time.Millisecond,
		PollTimeout:  time.Second,
	}, cfg.CounterOptions())
	assert.Equal(t, 300*time.Millisecond, cfg.EmphasisDuration())

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/no/such/file.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TRANSMITTER_TEST_URL", "https://env.example.com")

	cfg, err := Parse([]byte("server_url: ${TRANSMITTER_TEST_URL}\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("mode: [unclosed"))
	assert.ErrorContains(t, err, "config: parse")
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("mode: \"\"\npoll_interval: \"\"\n"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, counter.Options{
		TickInterval: counter.DefaultTickInterval,
		PollInterval: counter.DefaultPollInterval,
		PollTimeout:  counter.DefaultPollTimeout,
	}, cfg.CounterOptions())
	assert.Equal(t, DefaultEmphasis, cfg.EmphasisDuration())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "turbo" }, "config: mode"},
		{"zero tick", func(c *Config) { c.TickInterval = "0s" }, "config: tick_interval"},
		{"negative poll", func(c *Config) { c.PollInterval = "-1s" }, "config: poll_interval"},
		{"bad timeout", func(c *Config) { c.PollTimeout = "soon" }, "config: poll_timeout"},
		{"bad emphasis", func(c *Config) { c.Emphasis = "0" }, "config: emphasis"},
		{"relative url", func(c *Config) { c.ServerURL = "localhost:5001" }, "config: server_url"},
		{"ftp url", func(c *Config) { c.ServerURL = "ftp://host" }, "config: server_url"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "config: log_level"},
		{"no listen", func(c *Config) { c.Listen = " " }, "config: listen is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	cfg := Default()
	cfg.Mode = "sync"
	cfg.Metrics = false

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: sync")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
