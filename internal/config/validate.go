package config

import (
	"fmt"
	"math"
	"net"
	"time"

	"github.com/rileyhilliard/serialscope/internal/errors"
)

// MinRenderInterval is the fastest redraw rate accepted.
const MinRenderInterval = 10 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but serialscope only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade serialscope, or lower 'version' in .serialscope.yaml.")
	}

	if err := validateSerial(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the serial settings at the top of your .serialscope.yaml.")
	}

	if err := validateAlarm(cfg.Alarm); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'alarm' section in your .serialscope.yaml.")
	}

	if err := validateSeries(cfg.Series); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'series' section in your .serialscope.yaml.")
	}

	if cfg.Log.Capacity <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("log.capacity must be positive, got %d", cfg.Log.Capacity),
			"300 entries is a good default.")
	}

	if cfg.Render.Interval < MinRenderInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("render.interval %s is too fast (minimum %s)", cfg.Render.Interval, MinRenderInterval),
			"100ms keeps the chart smooth without burning CPU.")
	}

	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("metrics.addr %q is not a listen address", cfg.Metrics.Addr),
				"Use host:port or :port, like ':9464'.")
		}
	}

	return nil
}

func validateSerial(cfg *Config) error {
	if cfg.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", cfg.Baud)
	}
	if cfg.DataBits < 5 || cfg.DataBits > 8 {
		return fmt.Errorf("data_bits must be between 5 and 8, got %d", cfg.DataBits)
	}
	if cfg.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout can't be negative, got %s", cfg.ReadTimeout)
	}
	// Parity and stop bits are checked by the same mapping the port uses
	if _, err := cfg.SerialConfig().Mode(); err != nil {
		return fmt.Errorf("%s", errors.Summarize(err))
	}
	return nil
}

func validateAlarm(a AlarmConfig) error {
	if math.IsNaN(a.Threshold) || math.IsInf(a.Threshold, 0) {
		return fmt.Errorf("alarm.threshold must be a finite number")
	}
	if a.Interval < 0 {
		return fmt.Errorf("alarm.interval can't be negative, got %s", a.Interval)
	}
	return nil
}

func validateSeries(s SeriesConfig) error {
	if s.Capacity <= 0 {
		return fmt.Errorf("series.capacity must be positive, got %d", s.Capacity)
	}
	if s.Lookback <= 0 {
		return fmt.Errorf("series.lookback must be positive, got %s", s.Lookback)
	}
	if s.Lookahead < 0 {
		return fmt.Errorf("series.lookahead can't be negative, got %s", s.Lookahead)
	}
	return nil
}
