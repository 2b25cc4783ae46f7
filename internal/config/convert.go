package config

import (
	"github.com/rileyhilliard/serialscope/internal/series"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/rileyhilliard/serialscope/internal/viewer"
)

// SerialConfig returns the transport settings for opening the port.
func (c *Config) SerialConfig() transport.SerialConfig {
	return transport.SerialConfig{
		Port:        c.Port,
		Baud:        c.Baud,
		DataBits:    c.DataBits,
		Parity:      c.Parity,
		StopBits:    c.StopBits,
		ReadTimeout: c.ReadTimeout,
		Hex:         c.Hex,
	}
}

// ViewerOptions returns controller options for this config. Collaborators
// (clock, logger, alert, metrics) are left for the caller to fill in.
func (c *Config) ViewerOptions() viewer.Options {
	opts := viewer.DefaultOptions()
	opts.Threshold = c.Alarm.Threshold
	opts.AlarmInterval = c.Alarm.Interval
	opts.SeriesCapacity = c.Series.Capacity
	opts.LogCapacity = c.Log.Capacity
	opts.Window = series.Window{
		Lookback:  c.Series.Lookback,
		Lookahead: c.Series.Lookahead,
	}
	return opts
}
