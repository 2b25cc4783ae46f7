package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"golang.org/x/term"
)

// portItem implements list.Item for the Bubbles list component.
type portItem struct {
	port transport.PortDescriptor
}

func (i portItem) Title() string {
	return i.port.Name
}

func (i portItem) Description() string {
	var parts []string
	if i.port.Description != "" && i.port.Description != i.port.Name {
		parts = append(parts, i.port.Description)
	}
	if i.port.SerialNumber != "" {
		parts = append(parts, "s/n "+i.port.SerialNumber)
	}
	if len(parts) == 0 {
		return "serial device"
	}
	return strings.Join(parts, " | ")
}

func (i portItem) FilterValue() string {
	return strings.Join([]string{i.port.Name, i.port.Description, i.port.SerialNumber}, " ")
}

// PortPickerModel is a Bubble Tea model for selecting a serial port.
type PortPickerModel struct {
	list     list.Model
	selected *transport.PortDescriptor
	quitting bool
}

type portPickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var portPickerKeys = portPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewPortPickerModel creates a new port picker model.
func NewPortPickerModel(ports []transport.PortDescriptor) PortPickerModel {
	items := make([]list.Item, len(ports))
	for i, p := range ports {
		items[i] = portItem{port: p}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderForeground(ColorSecondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted)

	l := list.New(items, delegate, 80, 15)
	l.Title = "Select a serial port"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	return PortPickerModel{list: l}
}

// Init implements tea.Model.
func (m PortPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PortPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Let the list handle keys while the user is typing a filter
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, portPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(portItem); ok {
				m.selected = &item.port
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, portPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PortPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the selected port, or nil if cancelled.
func (m PortPickerModel) Selected() *transport.PortDescriptor {
	return m.selected
}

// PickPort displays an interactive port picker and returns the selected port.
// Returns nil if the user cancels (ESC/q/Ctrl+C).
func PickPort(ports []transport.PortDescriptor) (*transport.PortDescriptor, error) {
	return PickPortWithOutput(ports, os.Stdout, os.Stdin)
}

// PickPortWithOutput displays the port picker using custom I/O.
func PickPortWithOutput(ports []transport.PortDescriptor, output io.Writer, input io.Reader) (*transport.PortDescriptor, error) {
	if len(ports) == 0 {
		return nil, errors.New(errors.ErrPort,
			"No serial ports found",
			"Plug in the device, or try 'serialscope watch --test-signal' to check the display")
	}

	if len(ports) == 1 {
		// Only one port, no need to pick
		return &ports[0], nil
	}

	p := tea.NewProgram(
		NewPortPickerModel(ports),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPort,
			"Port picker failed",
			"Use --port to specify the device directly")
	}

	if m, ok := finalModel.(PortPickerModel); ok {
		return m.Selected(), nil
	}
	return nil, nil
}

// IsTerminal returns true if the file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
