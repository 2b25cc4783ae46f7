package ui

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/rileyhilliard/serialscope/internal/eventlog"
)

// FormatEntry renders one log entry as "[15:04:05.000] message", colored by
// level.
func FormatEntry(e eventlog.Entry) string {
	return LevelStyle(e.Level).Render(PlainEntry(e))
}

// WrapEntry renders an entry like FormatEntry, word-wrapped to width
// columns. Words longer than width are broken. width <= 0 disables wrapping.
func WrapEntry(e eventlog.Entry, width int) string {
	if width <= 0 {
		return FormatEntry(e)
	}
	return LevelStyle(e.Level).Render(ansi.Wrap(PlainEntry(e), width, ""))
}

// PlainEntry renders one log entry without color.
func PlainEntry(e eventlog.Entry) string {
	return fmt.Sprintf("[%s] %s %s", e.Timestamp, LevelSymbol(e.Level), e.Message)
}
