package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/serialscope/internal/eventlog"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2"   // Green
	ColorError   lipgloss.Color = "1"   // Red
	ColorWarning lipgloss.Color = "208" // Orange
	ColorInfo    lipgloss.Color = "6"   // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
	ColorAccent    lipgloss.Color = "5" // Magenta, the trace color
)

// LevelColor maps a log level to its display color: Info green,
// Warning orange, Error red.
func LevelColor(level eventlog.Level) lipgloss.Color {
	switch level {
	case eventlog.LevelWarning:
		return ColorWarning
	case eventlog.LevelError:
		return ColorError
	default:
		return ColorSuccess
	}
}

// LevelStyle returns the foreground style for a log level.
func LevelStyle(level eventlog.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LevelColor(level))
}

// DisableColors switches lipgloss to monochrome output (for --no-color).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
