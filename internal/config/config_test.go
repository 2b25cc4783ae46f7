package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Empty(t, cfg.Port)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, 8, cfg.DataBits)
	assert.Equal(t, "none", cfg.Parity)
	assert.Equal(t, "1", cfg.StopBits)
	assert.Equal(t, 500*time.Millisecond, cfg.ReadTimeout)
	assert.False(t, cfg.Hex)
	assert.Equal(t, 80.0, cfg.Alarm.Threshold)
	assert.Equal(t, 2*time.Second, cfg.Alarm.Interval)
	assert.Equal(t, 500, cfg.Series.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Series.Lookback)
	assert.Equal(t, 2*time.Second, cfg.Series.Lookahead)
	assert.Equal(t, 300, cfg.Log.Capacity)
	assert.Equal(t, 100*time.Millisecond, cfg.Render.Interval)
	assert.Empty(t, cfg.Metrics.Addr)

	assert.NoError(t, Validate(cfg))
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
version: 1
port: /dev/ttyACM0
baud: 115200
parity: Even
stop_bits: 1.5
read_timeout: 250ms
hex: true
alarm:
  threshold: 42.5
  interval: 5s
series:
  capacity: 1000
  lookback: 1m
log:
  capacity: 50
metrics:
  addr: ":9464"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Port)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, "even", cfg.Parity)
	assert.Equal(t, "1.5", cfg.StopBits)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	assert.True(t, cfg.Hex)
	assert.Equal(t, 42.5, cfg.Alarm.Threshold)
	assert.Equal(t, 5*time.Second, cfg.Alarm.Interval)
	assert.Equal(t, 1000, cfg.Series.Capacity)
	assert.Equal(t, time.Minute, cfg.Series.Lookback)
	assert.Equal(t, 50, cfg.Log.Capacity)
	assert.Equal(t, ":9464", cfg.Metrics.Addr)

	// Unset keys keep defaults
	assert.Equal(t, 8, cfg.DataBits)
	assert.Equal(t, 2*time.Second, cfg.Series.Lookahead)
	assert.Equal(t, 100*time.Millisecond, cfg.Render.Interval)

	assert.NoError(t, Validate(cfg))
}

func TestLoadExpandsTildeInPort(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, t.TempDir(), "port: ~/dev/pty0\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dev/pty0"), cfg.Port)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/.serialscope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config file not found")
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "baud: [1, 2\n", "Failed to read config file"},
		{"bad duration", "read_timeout: soon\n", "Invalid config format"},
		{"bad number", "baud: fast\n", "Invalid config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string) (explicit, want string)
	}{
		{
			name: "explicit path",
			setup: func(t *testing.T, root string) (string, string) {
				path := filepath.Join(root, "custom.yaml")
				require.NoError(t, os.WriteFile(path, []byte("version: 1"), 0644))
				return path, path
			},
		},
		{
			name: "current directory",
			setup: func(t *testing.T, root string) (string, string) {
				return "", writeConfig(t, filepath.Join(root, "project", "sub"), "version: 1")
			},
		},
		{
			name: "parent directory",
			setup: func(t *testing.T, root string) (string, string) {
				return "", writeConfig(t, filepath.Join(root, "project"), "version: 1")
			},
		},
		{
			name: "stops at git root",
			setup: func(t *testing.T, root string) (string, string) {
				writeConfig(t, filepath.Join(root, "project"), "version: 1")
				require.NoError(t, os.Mkdir(filepath.Join(root, "project", "sub", ".git"), 0755))
				return "", ""
			},
		},
		{
			name: "global config",
			setup: func(t *testing.T, root string) (string, string) {
				dir := filepath.Join(root, GlobalConfigDir)
				require.NoError(t, os.MkdirAll(dir, 0755))
				path := filepath.Join(dir, GlobalConfigFile)
				require.NoError(t, os.WriteFile(path, []byte("version: 1"), 0644))
				return "", path
			},
		},
		{
			name: "nothing found",
			setup: func(t *testing.T, root string) (string, string) {
				return "", ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			t.Setenv("HOME", root)
			cwd := filepath.Join(root, "project", "sub")
			require.NoError(t, os.MkdirAll(cwd, 0755))
			t.Chdir(cwd)

			explicit, want := tt.setup(t, root)

			path, err := Find(explicit)
			require.NoError(t, err)
			assert.Equal(t, want, path)
		})
	}
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Specified config file not found")
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("no file uses defaults", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("HOME", root)
		t.Chdir(root)

		cfg, path, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("environment overrides", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("HOME", root)
		t.Chdir(root)
		t.Setenv("SERIALSCOPE_PORT", "/dev/ttyS1")
		t.Setenv("SERIALSCOPE_ALARM_THRESHOLD", "12.5")

		cfg, _, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyS1", cfg.Port)
		assert.Equal(t, 12.5, cfg.Alarm.Threshold)
	})

	t.Run("file found", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("HOME", root)
		t.Chdir(root)
		want := writeConfig(t, root, "baud: 57600\n")

		cfg, path, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, want, path)
		assert.Equal(t, 57600, cfg.Baud)
	})
}

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, "dev"), ExpandTilde("~/dev"))
	assert.Equal(t, "/dev/ttyUSB0", ExpandTilde("/dev/ttyUSB0"))
	assert.Equal(t, "~other/dev", ExpandTilde("~other/dev"))
	assert.Equal(t, "", ExpandTilde(""))
}

func TestSerialConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyUSB1"
	cfg.Hex = true

	sc := cfg.SerialConfig()
	assert.Equal(t, "/dev/ttyUSB1", sc.Port)
	assert.Equal(t, 9600, sc.Baud)
	assert.Equal(t, "none", sc.Parity)
	assert.Equal(t, "1", sc.StopBits)
	assert.True(t, sc.Hex)
}

func TestViewerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alarm.Threshold = 3.3
	cfg.Alarm.Interval = 0
	cfg.Series.Capacity = 10
	cfg.Series.Lookback = time.Minute
	cfg.Log.Capacity = 20

	opts := cfg.ViewerOptions()
	assert.Equal(t, 3.3, opts.Threshold)
	assert.Equal(t, time.Duration(0), opts.AlarmInterval)
	assert.Equal(t, 10, opts.SeriesCapacity)
	assert.Equal(t, 20, opts.LogCapacity)
	assert.Equal(t, series.Window{Lookback: time.Minute, Lookahead: 2 * time.Second}, opts.Window)
}
