package appdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PathAccessors(t *testing.T) {
	d := New("/project/.transmitter")

	assert.Equal(t, "/project/.transmitter", d.Root())
	assert.Equal(t, "/project/.transmitter/config.yaml", d.ConfigPath())
	assert.Equal(t, "/project/.transmitter/widget.log", d.LogPath())
	assert.Equal(t, "/project/.transmitter/.gitignore", d.GitignorePath())
}

func TestDir_Exists(t *testing.T) {
	tmp := t.TempDir()

	d := New(filepath.Join(tmp, "missing"))
	assert.False(t, d.Exists())

	d = New(tmp)
	assert.True(t, d.Exists())
}

func TestBootstrapWithConfig(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), ".transmitter"))

	require.NoError(t, BootstrapWithConfig(d, []byte("mode: sync\n")))

	assert.True(t, d.Exists())

	cfg, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "mode: sync\n", string(cfg))

	gi, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, gitignoreContent, string(gi))
}

func TestBootstrapWithConfig_DoesNotOverwrite(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), ".transmitter"))

	require.NoError(t, BootstrapWithConfig(d, []byte("mode: sync\n")))
	require.NoError(t, BootstrapWithConfig(d, []byte("mode: local\n")))

	cfg, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "mode: sync\n", string(cfg))
}

func TestResolveConfigPath(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	d := New(filepath.Join(tmp, ".transmitter"))

	assert.Equal(t, "explicit.yaml", ResolveConfigPath("explicit.yaml", d))
	assert.Empty(t, ResolveConfigPath("", d))

	require.NoError(t, os.WriteFile(FallbackConfig, []byte("{}"), 0o600))
	assert.Equal(t, FallbackConfig, ResolveConfigPath("", d))

	require.NoError(t, BootstrapWithConfig(d, []byte("{}")))
	assert.Equal(t, d.ConfigPath(), ResolveConfigPath("", d))
}
