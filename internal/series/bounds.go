package series

import "time"

// Axis margin policy: 20% of the visible span, at least 1.0 unit.
const (
	MarginRatio = 0.2
	MinMargin   = 1.0
)

// Range is a closed value interval for the chart's Y axis.
type Range struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Bounds computes the Y axis range for samples: their min and max widened by
// max(span*MarginRatio, MinMargin) on each side. Returns false when empty.
func Bounds(samples []Sample) (Range, bool) {
	if len(samples) == 0 {
		return Range{}, false
	}

	minY, maxY := samples[0].Value, samples[0].Value
	for _, s := range samples[1:] {
		if s.Value < minY {
			minY = s.Value
		}
		if s.Value > maxY {
			maxY = s.Value
		}
	}

	margin := (maxY - minY) * MarginRatio
	if margin < MinMargin {
		margin = MinMargin
	}
	return Range{Min: minY - margin, Max: maxY + margin}, true
}

// Window is the time span shown on the chart's X axis.
type Window struct {
	Lookback  time.Duration
	Lookahead time.Duration
}

// DefaultWindow returns the [now-30s, now+2s] window.
func DefaultWindow() Window {
	return Window{Lookback: DefaultLookback, Lookahead: DefaultLookahead}
}

// At returns the window bounds relative to now.
func (w Window) At(now time.Time) (from, to time.Time) {
	return now.Add(-w.Lookback), now.Add(w.Lookahead)
}
