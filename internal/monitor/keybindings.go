package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/serialscope/internal/viewer"
)

// ThresholdStep is how far + and - move the alarm threshold.
const ThresholdStep = 1.0

// KeyMap defines the dashboard key bindings. It implements help.KeyMap.
type KeyMap struct {
	TogglePort    key.Binding
	TestSignal    key.Binding
	ToggleHex     key.Binding
	ResetView     key.Binding
	RefreshPorts  key.Binding
	RaiseLimit    key.Binding
	LowerLimit    key.Binding
	ClearLog      key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	ToggleHelp    key.Binding
	CloseOverlays key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		TogglePort:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open/close port")),
		TestSignal:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "test signal")),
		ToggleHex:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hex view")),
		ResetView:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
		RefreshPorts:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "refresh ports")),
		RaiseLimit:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise threshold")),
		LowerLimit:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "lower threshold")),
		ClearLog:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear log")),
		ScrollUp:      key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "scroll log")),
		ScrollDown:    key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "scroll log")),
		ToggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		CloseOverlays: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePort, k.TestSignal, k.ToggleHex, k.ResetView, k.ToggleHelp, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TogglePort, k.TestSignal, k.RefreshPorts, k.ToggleHex},
		{k.RaiseLimit, k.LowerLimit, k.ResetView, k.ClearLog},
		{k.ScrollUp, k.ScrollDown, k.ToggleHelp, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input and returns the command to run.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.ToggleHelp) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key.Matches(msg, m.keys.CloseOverlays) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.TogglePort):
		if m.snapshot.State == viewer.StateOpen {
			return true, m.closeCmd()
		}
		return true, m.openCmd(m.sources.Port, "port")

	case key.Matches(msg, m.keys.TestSignal):
		return true, m.openCmd(m.sources.TestSignal, "test signal")

	case key.Matches(msg, m.keys.ToggleHex):
		m.ctrl.SetHex(!m.ctrl.Hex())
		m.refresh()
		return true, nil

	case key.Matches(msg, m.keys.ResetView):
		m.ctrl.ResetView()
		m.refresh()
		return true, nil

	case key.Matches(msg, m.keys.RefreshPorts):
		return true, m.refreshPortsCmd()

	case key.Matches(msg, m.keys.RaiseLimit):
		m.ctrl.SetThreshold(m.ctrl.Threshold() + ThresholdStep)
		m.refresh()
		return true, nil

	case key.Matches(msg, m.keys.LowerLimit):
		m.ctrl.SetThreshold(m.ctrl.Threshold() - ThresholdStep)
		m.refresh()
		return true, nil

	case key.Matches(msg, m.keys.ClearLog):
		m.ctrl.Log().Clear()
		m.refresh()
		return true, nil

	case key.Matches(msg, m.keys.ScrollUp):
		if msg.String() == "pgup" {
			m.logView.HalfPageUp()
		} else {
			m.logView.ScrollUp(1)
		}
		return true, nil

	case key.Matches(msg, m.keys.ScrollDown):
		if msg.String() == "pgdown" {
			m.logView.HalfPageDown()
		} else {
			m.logView.ScrollDown(1)
		}
		return true, nil
	}

	return false, nil
}
