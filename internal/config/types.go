package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .serialscope.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Port is the serial device path. Empty means pick interactively.
	Port string `yaml:"port" mapstructure:"port"`

	Baud     int    `yaml:"baud" mapstructure:"baud"`
	DataBits int    `yaml:"data_bits" mapstructure:"data_bits"`
	Parity   string `yaml:"parity" mapstructure:"parity"`

	// StopBits is kept as text so 1.5 survives the round trip.
	StopBits string `yaml:"stop_bits" mapstructure:"stop_bits"`

	// ReadTimeout bounds each read so Close is noticed promptly.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`

	// Hex shows raw bytes instead of parsing values.
	Hex bool `yaml:"hex" mapstructure:"hex"`

	Alarm   AlarmConfig   `yaml:"alarm" mapstructure:"alarm"`
	Series  SeriesConfig  `yaml:"series" mapstructure:"series"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// AlarmConfig controls threshold alarms.
type AlarmConfig struct {
	// Threshold is exceeded when a value is strictly greater than it.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`

	// Interval is the minimum time between two alarms.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// SeriesConfig controls the rolling sample buffer and chart window.
type SeriesConfig struct {
	Capacity  int           `yaml:"capacity" mapstructure:"capacity"`
	Lookback  time.Duration `yaml:"lookback" mapstructure:"lookback"`
	Lookahead time.Duration `yaml:"lookahead" mapstructure:"lookahead"`
}

// LogConfig controls the event log.
type LogConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// RenderConfig controls the TUI refresh.
type RenderConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address, e.g. ":9464". Empty disables the endpoint.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:     CurrentConfigVersion,
		Baud:        9600,
		DataBits:    8,
		Parity:      "none",
		StopBits:    "1",
		ReadTimeout: 500 * time.Millisecond,
		Alarm: AlarmConfig{
			Threshold: 80,
			Interval:  2 * time.Second,
		},
		Series: SeriesConfig{
			Capacity:  500,
			Lookback:  30 * time.Second,
			Lookahead: 2 * time.Second,
		},
		Log: LogConfig{
			Capacity: 300,
		},
		Render: RenderConfig{
			Interval: 100 * time.Millisecond,
		},
	}
}
