package viewer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/serialscope/internal/alarm"
	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/eventlog"
	"github.com/rileyhilliard/serialscope/internal/lineparse"
	"github.com/rileyhilliard/serialscope/internal/logger"
	"github.com/rileyhilliard/serialscope/internal/series"
	"github.com/rileyhilliard/serialscope/internal/transport"
)

// DefaultRawCapacity is how many raw lines are kept for the raw data pane.
const DefaultRawCapacity = 200

// Options configures a Controller. Start from DefaultOptions; zero capacities,
// window and collaborators fall back to defaults while a zero AlarmInterval
// disables debouncing.
type Options struct {
	Threshold      float64
	AlarmInterval  time.Duration
	SeriesCapacity int
	LogCapacity    int
	RawCapacity    int
	Window         series.Window

	Clock   func() time.Time
	Alert   AlertFunc
	Logger  logger.Logger
	Metrics *Metrics
}

// DefaultOptions returns the stock viewer settings.
func DefaultOptions() Options {
	return Options{
		Threshold:      alarm.DefaultThreshold,
		AlarmInterval:  alarm.DefaultInterval,
		SeriesCapacity: series.DefaultCapacity,
		LogCapacity:    eventlog.DefaultCapacity,
		RawCapacity:    DefaultRawCapacity,
		Window:         series.DefaultWindow(),
	}
}

// hexSetter is implemented by sources that can switch to hex dumps.
type hexSetter interface {
	SetHex(on bool)
}

// Controller owns one viewer session's series, alarm state and log.
type Controller struct {
	// mu guards the session fields below
	mu      sync.Mutex
	state   State
	opening bool
	source  transport.Source
	stop   chan struct{}
	ended  chan struct{}
	hex    bool
	wg     sync.WaitGroup

	// proc serializes line processing against snapshots and resets so a
	// reader never sees half of a line's samples
	proc     sync.Mutex
	series   *series.Series
	alarm    *alarm.Debouncer
	log      *eventlog.Sink
	raw      []string
	rawCap   int
	updated  time.Time
	stats    Stats
	observer Observer

	window  series.Window
	now     func() time.Time
	alert   AlertFunc
	metrics *Metrics
}

// NewController creates a closed controller.
func NewController(opts Options) *Controller {
	def := DefaultOptions()
	if opts.RawCapacity <= 0 {
		opts.RawCapacity = def.RawCapacity
	}
	if opts.Window == (series.Window{}) {
		opts.Window = def.Window
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Alert == nil {
		opts.Alert = func(float64, float64) {}
	}

	return &Controller{
		series:  series.New(opts.SeriesCapacity),
		alarm:   alarm.NewDebouncer(opts.Threshold, opts.AlarmInterval),
		log:     eventlog.NewSink(opts.LogCapacity, eventlog.WithClock(opts.Clock), eventlog.WithLogger(opts.Logger)),
		rawCap:  opts.RawCapacity,
		window:  opts.Window,
		now:     opts.Clock,
		alert:   opts.Alert,
		metrics: opts.Metrics,
	}
}

// Log returns the controller's log sink so other components can report
// conditions into the same event list.
func (c *Controller) Log() *eventlog.Sink {
	return c.log
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers the observer called after each processed line,
// replacing any previous one.
func (c *Controller) Subscribe(fn Observer) {
	c.proc.Lock()
	defer c.proc.Unlock()
	c.observer = fn
}

// Open starts a session reading from the source returned by open.
// The session also ends its processing loop when ctx is cancelled; Close is
// still required to release the source.
func (c *Controller) Open(ctx context.Context, open Opener) error {
	c.mu.Lock()
	if c.state == StateOpen || c.opening {
		c.mu.Unlock()
		c.log.Warn("port already open")
		return ErrAlreadyOpen
	}
	c.opening = true
	c.mu.Unlock()

	// Device opens can block; snapshots keep flowing meanwhile
	src, err := open()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.opening = false
	if err != nil {
		c.log.Error("failed to open port: %s", errors.Summarize(err))
		return err
	}

	if hs, ok := src.(hexSetter); ok {
		hs.SetHex(c.hex)
	}

	c.state = StateOpen
	c.source = src
	c.stop = make(chan struct{})
	c.ended = make(chan struct{})
	c.metrics.setOpen(true)
	c.log.Info("port %s opened", src.Name())

	c.wg.Add(1)
	go c.run(ctx, src, c.stop, c.ended)
	return nil
}

// Close ends the session. The line being processed, if any, completes first.
// Closing a closed controller is a no-op.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	src := c.source
	close(c.stop)
	c.state = StateClosed
	c.source = nil
	c.mu.Unlock()

	c.wg.Wait()
	c.metrics.setOpen(false)

	if err := src.Close(); err != nil {
		c.log.Error("failed to close port %s: %s", src.Name(), errors.Summarize(err))
		return errors.Wrap(err, fmt.Sprintf("Failed to close %s", src.Name()))
	}
	c.log.Info("port %s closed", src.Name())
	return nil
}

// Ended returns a channel closed once the current session's source stops
// producing lines. Nil while closed.
func (c *Controller) Ended() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return nil
	}
	return c.ended
}

func (c *Controller) run(ctx context.Context, src transport.Source, stop, ended chan struct{}) {
	defer c.wg.Done()

	lines := src.Lines()
	errs := src.Errors()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				lines = nil
				c.log.Info("input from %s ended", src.Name())
				close(ended)
				continue
			}
			c.HandleLine(line)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.HandleTransportError(err)
		}
	}
}

// HandleLine processes one raw line. It is called from the session goroutine
// and may be called directly when lines are fed synchronously.
func (c *Controller) HandleLine(line transport.Line) {
	start := time.Now()

	c.proc.Lock()
	observer := c.observer
	func() {
		defer c.proc.Unlock()
		defer func() {
			if r := recover(); r != nil {
				c.log.Error("processing error: %v", r)
			}
		}()
		c.processLocked(line)
	}()

	c.metrics.observeLine(time.Since(start))
	if observer != nil {
		observer()
	}
}

// processLocked must be called with c.proc held.
func (c *Controller) processLocked(line transport.Line) {
	c.appendRawLocked(line.Text)
	c.stats.Lines++
	c.metrics.incLines()

	if line.Hex {
		return
	}

	res := lineparse.Parse(line.Text)
	for _, seg := range res.Invalid {
		c.stats.InvalidSegments++
		c.metrics.incInvalid()
		c.log.Warn("invalid segment: %s", seg)
	}
	if len(res.Values) == 0 {
		return
	}

	now := c.now()
	for _, v := range res.Values {
		c.series.Append(series.Sample{Time: now, Value: v})
		c.stats.Samples++
		c.metrics.incSamples(v)

		if c.alarm.Check(v, now) {
			threshold := c.alarm.Threshold()
			c.stats.Alarms++
			c.metrics.incAlarms()
			c.log.Warn("alarm: value %.2f exceeds threshold %g", v, threshold)
			c.alert(v, threshold)
		}
	}
	c.updated = now
	c.metrics.setSeriesLen(c.series.Len())
}

func (c *Controller) appendRawLocked(text string) {
	c.raw = append(c.raw, text)
	if over := len(c.raw) - c.rawCap; over > 0 {
		c.raw = append(c.raw[:0], c.raw[over:]...)
	}
}

// HandleTransportError logs a failure reported by the source. The session
// stays open.
func (c *Controller) HandleTransportError(err error) {
	if err == nil {
		return
	}
	c.proc.Lock()
	c.stats.TransportErrors++
	c.proc.Unlock()

	c.metrics.incTransportErrors()
	c.log.Error("transport error: %s", errors.Summarize(err))
}

// RefreshPorts enumerates devices and logs what was found.
func (c *Controller) RefreshPorts(list PortLister) []transport.PortDescriptor {
	ports, err := list()
	if err != nil {
		c.log.Error("port refresh failed: %s", errors.Summarize(err))
		return nil
	}
	if len(ports) == 0 {
		c.log.Warn("no serial ports found")
		return ports
	}
	c.log.Info("found %d serial ports", len(ports))
	return ports
}

// SetHex switches the raw view between text and hex dumps. Hex lines are
// shown but not parsed.
func (c *Controller) SetHex(on bool) {
	c.mu.Lock()
	c.hex = on
	if hs, ok := c.source.(hexSetter); ok {
		hs.SetHex(on)
	}
	c.mu.Unlock()

	if on {
		c.log.Info("hex view on")
	} else {
		c.log.Info("hex view off")
	}
}

// Hex reports whether hex view is on.
func (c *Controller) Hex() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hex
}

// SetThreshold changes the alarm threshold.
func (c *Controller) SetThreshold(v float64) {
	c.alarm.SetThreshold(v)
	c.log.Info("alarm threshold set to %g", v)
}

// Threshold returns the alarm threshold.
func (c *Controller) Threshold() float64 {
	return c.alarm.Threshold()
}

// ResetView drops all charted samples.
func (c *Controller) ResetView() {
	c.proc.Lock()
	c.series.Reset()
	c.updated = time.Time{}
	c.proc.Unlock()

	c.metrics.setSeriesLen(0)
	c.log.Info("view reset")
}

// Snapshot returns a consistent copy of everything presentation code needs.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	state := c.state
	hex := c.hex
	port := ""
	if c.source != nil {
		port = c.source.Name()
	}
	c.mu.Unlock()

	c.proc.Lock()
	defer c.proc.Unlock()

	now := c.now()
	snap := Snapshot{
		Taken:     now,
		State:     state,
		Port:      port,
		Hex:       hex,
		Threshold: c.alarm.Threshold(),
		LastAlarm: c.alarm.LastAlarm(),
		Samples:   c.series.Samples(),
		Capacity:  c.series.Cap(),
		Updated:   c.updated,
		Entries:   c.log.Entries(),
		Raw:       append([]string(nil), c.raw...),
		Stats:     c.stats,
	}

	snap.Window = c.window
	snap.From, snap.To = c.window.At(now)
	snap.Visible = c.series.VisibleWindow(snap.From, snap.To)
	snap.Bounds, snap.HasBounds = series.Bounds(snap.Visible)
	snap.Latest, snap.HasLatest = c.series.Last()
	return snap
}
