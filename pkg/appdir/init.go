package appdir

import (
	"errors"
	"fmt"
	"os"
)

const gitignoreContent = "*.log\n"

// EnsureStructure creates the root directory and its .gitignore if they are
// missing. It is idempotent.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.root, 0o750); err != nil {
		return fmt.Errorf("appdir: create dir: %w", err)
	}

	if err := ensureFile(d.GitignorePath(), []byte(gitignoreContent)); err != nil {
		return fmt.Errorf("appdir: gitignore: %w", err)
	}

	return nil
}

// BootstrapWithConfig creates the directory layout and writes configYAML as
// the config file. An existing config is left untouched.
func BootstrapWithConfig(d Dir, configYAML []byte) error {
	if err := EnsureStructure(d); err != nil {
		return err
	}

	if err := ensureFile(d.ConfigPath(), configYAML); err != nil {
		return fmt.Errorf("appdir: write config: %w", err)
	}

	return nil
}

// ensureFile writes data to path unless the file already exists.
func ensureFile(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
