package viewer

import (
	"time"

	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/eventlog"
	"github.com/rileyhilliard/serialscope/internal/series"
	"github.com/rileyhilliard/serialscope/internal/transport"
)

// State is the session state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// ErrAlreadyOpen is returned by Open when a session is already running.
var ErrAlreadyOpen = errors.New(errors.ErrState,
	"Port is already open",
	"Close the current port before opening another")

// Opener produces the line source for a new session.
type Opener func() (transport.Source, error)

// PortLister enumerates serial devices.
type PortLister func() ([]transport.PortDescriptor, error)

// AlertFunc is called when an alarm fires. It runs on the processing
// goroutine and must not block.
type AlertFunc func(value, threshold float64)

// Observer is called after each processed line. It must not block.
type Observer func()

// Stats counts what a controller has processed since it was created.
type Stats struct {
	Lines           int `json:"lines"`
	Samples         int `json:"samples"`
	InvalidSegments int `json:"invalid_segments"`
	Alarms          int `json:"alarms"`
	TransportErrors int `json:"transport_errors"`
}

// Snapshot is a read-only copy of the controller's state at one instant.
type Snapshot struct {
	Taken     time.Time
	State     State
	Port      string
	Hex       bool
	Threshold float64
	LastAlarm time.Time

	Samples  []series.Sample
	Capacity int

	// Visible holds the samples inside [From, To], the chart's time axis.
	Window    series.Window
	From, To  time.Time
	Visible   []series.Sample
	Bounds    series.Range
	HasBounds bool
	Latest    series.Sample
	HasLatest bool
	Updated   time.Time

	Entries []eventlog.Entry
	Raw     []string
	Stats   Stats
}
