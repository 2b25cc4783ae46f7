// Package alarm decides when an over-threshold sample should raise an alarm.
package alarm

import (
	"sync"
	"time"
)

// Defaults used when no configuration overrides them.
const (
	DefaultThreshold = 80.0
	DefaultInterval  = 2 * time.Second
)

// Debouncer fires when a value exceeds the threshold, at most once per
// interval. There is no hysteresis: a sustained over-threshold signal
// re-fires every interval without first dropping below the threshold.
type Debouncer struct {
	mu        sync.Mutex
	threshold float64
	interval  time.Duration
	lastAlarm time.Time
}

// NewDebouncer creates a debouncer. A negative interval is treated as zero.
func NewDebouncer(threshold float64, interval time.Duration) *Debouncer {
	if interval < 0 {
		interval = 0
	}
	return &Debouncer{
		threshold: threshold,
		interval:  interval,
	}
}

// Check reports whether value at now fires an alarm, recording now as the
// last alarm time when it does.
func (d *Debouncer) Check(value float64, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if value <= d.threshold {
		return false
	}
	if !d.lastAlarm.IsZero() && now.Sub(d.lastAlarm) < d.interval {
		return false
	}

	d.lastAlarm = now
	return true
}

// Threshold returns the current threshold.
func (d *Debouncer) Threshold() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.threshold
}

// SetThreshold changes the threshold. The last alarm time is kept.
func (d *Debouncer) SetThreshold(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.threshold = v
}

// Interval returns the minimum time between alarms.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// LastAlarm returns when the debouncer last fired, zero if never.
func (d *Debouncer) LastAlarm() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastAlarm
}
