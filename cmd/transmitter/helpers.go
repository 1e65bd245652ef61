package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/germanamz/transmitter/pkg/appdir"
	"github.com/germanamz/transmitter/pkg/config"
)

// loadDotEnv loads environment variables from path. A missing file is not an
// error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// loadConfig resolves, loads and validates the config, then applies flag
// overrides. With no config file on disk the defaults are used.
func loadConfig(f commonFlags) (config.Config, error) {
	cfg := config.Default()

	if path := appdir.ResolveConfigPath(f.configPath, appdir.New(f.dir)); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if f.mode != "" {
		cfg.Mode = f.mode
	}
	if f.server != "" {
		cfg.ServerURL = f.server
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newLogger builds a text logger at the configured level.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// loadRuntime loads the config and a logger writing to w.
func loadRuntime(f commonFlags, w io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(w, cfg), nil
}

// openLogFile opens the widget log for appending. The terminal belongs to the
// TUI, so the widget never logs to stderr.
func openLogFile(cfg config.Config, d appdir.Dir) (*os.File, error) {
	path := cfg.LogFile
	if path == "" {
		path = d.LogPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
