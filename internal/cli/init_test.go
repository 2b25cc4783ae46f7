package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/serialscope/internal/config"
	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := Init(InitOptions{
		Port:           "/dev/ttyACM0",
		Baud:           115200,
		Dir:            dir,
		NonInteractive: true,
		Out:            &out,
	})
	require.NoError(t, err)

	path := filepath.Join(dir, config.ConfigFileName)
	assert.Contains(t, out.String(), "Created "+path)
	assert.NotContains(t, out.String(), "No port set")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Port)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, config.DefaultConfig().Alarm, cfg.Alarm)
}

func TestInitDefaults(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, Init(InitOptions{Dir: dir, NonInteractive: true, Out: &out}))
	assert.Contains(t, out.String(), "No port set")

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestInitExistingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("baud: 4800\n"), 0o644))

	err := Init(InitOptions{Dir: dir, NonInteractive: true, Out: &bytes.Buffer{}})
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "--force")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "baud: 4800\n", string(data))

	require.NoError(t, Init(InitOptions{Dir: dir, Baud: 19200, Overwrite: true, NonInteractive: true, Out: &bytes.Buffer{}}))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 19200, cfg.Baud)
}

func TestInitZeroBaudKeepsDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(InitOptions{Dir: dir, Port: "COM3", NonInteractive: true, Out: &bytes.Buffer{}}))

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "COM3", cfg.Port)
	assert.Equal(t, config.DefaultConfig().Baud, cfg.Baud)
}
