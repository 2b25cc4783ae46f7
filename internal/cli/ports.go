package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/rileyhilliard/serialscope/internal/ui"
	"github.com/rileyhilliard/serialscope/internal/viewer"
)

// portsCommand prints the serial devices reported by list.
func portsCommand(w io.Writer, list viewer.PortLister, asJSON bool) error {
	ports, err := list()
	if err != nil {
		if asJSON {
			_ = WriteJSONFromError(w, err)
		}
		return err
	}
	if ports == nil {
		ports = []transport.PortDescriptor{}
	}

	if asJSON {
		return WriteJSONSuccess(w, ports)
	}

	if len(ports) == 0 {
		fmt.Fprintln(w, lipgloss.NewStyle().Foreground(ui.ColorWarning).Render(ui.SymbolWarning+" No serial ports found"))
		return nil
	}

	width := 0
	for _, p := range ports {
		width = max(width, lipgloss.Width(p.Name))
	}

	name := lipgloss.NewStyle().Bold(true).Width(width + 2)
	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, p := range ports {
		fmt.Fprintln(w, name.Render(p.Name)+muted.Render(portDetails(p)))
	}
	fmt.Fprintln(w, muted.Render(fmt.Sprintf("\n%d serial %s", len(ports), plural(len(ports), "port", "ports"))))
	return nil
}

// portDetails describes a port beyond its name.
func portDetails(p transport.PortDescriptor) string {
	var parts []string
	if p.Description != "" && p.Description != p.Name {
		parts = append(parts, p.Description)
	}
	if p.IsUSB {
		usb := fmt.Sprintf("USB %s:%s", p.VID, p.PID)
		if p.SerialNumber != "" {
			usb += " serial " + p.SerialNumber
		}
		parts = append(parts, usb)
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
