// Package appdir encapsulates path knowledge for the .transmitter/ project
// directory. It provides a Dir value object with accessors for the config
// file and the widget's log.
package appdir

import (
	"os"
	"path/filepath"
)

// DefaultRoot is the directory name used when no --dir flag is given.
const DefaultRoot = ".transmitter"

// FallbackConfig is read when the app dir holds no config.
const FallbackConfig = "transmitter.yaml"

// Dir is a value object that resolves paths within a .transmitter/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Root returns the absolute path to the directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// LogPath returns the default widget log file.
func (d Dir) LogPath() string { return filepath.Join(d.root, "widget.log") }

// GitignorePath returns the path to the .gitignore file inside the directory.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}

// ResolveConfigPath picks the config file: the explicit path, then the app
// dir's config.yaml, then FallbackConfig in the working directory. It returns
// "" when none exists and nothing was requested explicitly.
func ResolveConfigPath(explicit string, d Dir) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat(d.ConfigPath()); err == nil {
		return d.ConfigPath()
	}

	if _, err := os.Stat(FallbackConfig); err == nil {
		return FallbackConfig
	}

	return ""
}
