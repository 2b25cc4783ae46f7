package monitor

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/serialscope/internal/eventlog"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/rileyhilliard/serialscope/internal/ui"
	"github.com/rileyhilliard/serialscope/internal/viewer"
)

const (
	// DefaultInterval is the redraw rate when none is configured.
	DefaultInterval = 100 * time.Millisecond
	// FlashDuration is how long the header stays red after an alarm.
	FlashDuration = time.Second
)

// Controller is the part of viewer.Controller the dashboard drives.
type Controller interface {
	Open(ctx context.Context, open viewer.Opener) error
	Close() error
	State() viewer.State
	Snapshot() viewer.Snapshot
	SetHex(on bool)
	Hex() bool
	SetThreshold(v float64)
	Threshold() float64
	ResetView()
	RefreshPorts(list viewer.PortLister) []transport.PortDescriptor
	Log() *eventlog.Sink
}

var _ Controller = (*viewer.Controller)(nil)

// Sources are the ways the dashboard can start a session. Nil entries
// disable the matching key.
type Sources struct {
	Port       viewer.Opener
	TestSignal viewer.Opener
	ListPorts  viewer.PortLister
}

// Model is the Bubble Tea model for the oscilloscope dashboard. It never
// receives pushes from the controller; every tick it takes a fresh snapshot.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	sources  Sources
	keys     KeyMap
	help     help.Model
	logView  viewport.Model
	snapshot viewer.Snapshot
	ports    []transport.PortDescriptor

	width    int
	height   int
	interval time.Duration
	now      func() time.Time

	alarmSeen  time.Time
	flashUntil time.Time

	showHelp bool
	quitting bool
}

// tickMsg signals a periodic redraw.
type tickMsg time.Time

// sessionMsg reports the result of an open or close issued from a key.
type sessionMsg struct {
	err error
}

// portsMsg carries a fresh port enumeration.
type portsMsg struct {
	ports []transport.PortDescriptor
}

// NewModel creates the dashboard. interval <= 0 uses DefaultInterval.
func NewModel(ctx context.Context, ctrl Controller, sources Sources, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		sources:  sources,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		interval: interval,
		now:      time.Now,
	}
	l := m.layout()
	m.logView = viewport.New(l.paneWidth, l.paneHeight)
	// Alarms from before the dashboard started don't flash
	m.alarmSeen = ctrl.Snapshot().LastAlarm
	m.refresh()
	return m
}

// Init starts the redraw timer.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		l := m.layout()
		m.logView.Width = l.paneWidth
		m.logView.Height = l.paneHeight
		m.setLogContent()
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tickCmd()

	case sessionMsg:
		m.refresh()
		return m, nil

	case portsMsg:
		m.ports = msg.ports
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Snapshot returns the state last pulled from the controller.
func (m Model) Snapshot() viewer.Snapshot {
	return m.snapshot
}

// Flashing reports whether the alarm flash is showing.
func (m Model) Flashing() bool {
	return m.now().Before(m.flashUntil)
}

// refresh pulls a snapshot and starts the alarm flash when a new alarm has
// fired since the last one.
func (m *Model) refresh() {
	snap := m.ctrl.Snapshot()
	if snap.LastAlarm.After(m.alarmSeen) {
		m.alarmSeen = snap.LastAlarm
		m.flashUntil = m.now().Add(FlashDuration)
	}
	m.snapshot = snap
	m.setLogContent()
}

// setLogContent fills the log pane, wrapping entries to its width.
func (m *Model) setLogContent() {
	entries := m.snapshot.Entries
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = ui.WrapEntry(e, m.logView.Width)
	}
	m.logView.SetContent(strings.Join(lines, "\n"))
}

// tickCmd returns a command that sends a tick after the redraw interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// openCmd starts a session in the background. An open session is closed
// first so the test signal can replace a port and vice versa.
func (m Model) openCmd(open viewer.Opener, what string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		if open == nil {
			ctrl.Log().Warn("no %s configured", what)
			return sessionMsg{}
		}
		if ctrl.State() == viewer.StateOpen {
			if err := ctrl.Close(); err != nil {
				return sessionMsg{err: err}
			}
		}
		return sessionMsg{err: ctrl.Open(ctx, open)}
	}
}

// closeCmd ends the session in the background.
func (m Model) closeCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return sessionMsg{err: ctrl.Close()}
	}
}

// refreshPortsCmd re-enumerates serial devices in the background.
func (m Model) refreshPortsCmd() tea.Cmd {
	ctrl, list := m.ctrl, m.sources.ListPorts
	if list == nil {
		return nil
	}
	return func() tea.Msg {
		return portsMsg{ports: ctrl.RefreshPorts(list)}
	}
}
