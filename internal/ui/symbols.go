package ui

import "github.com/rileyhilliard/serialscope/internal/eventlog"

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Operation succeeded
	SymbolFail    = "✗" // Operation failed
	SymbolWarning = "⚠" // Warning entry or alarm
	SymbolInfo    = "•" // Informational entry
	SymbolOpen    = "●" // Port open
	SymbolClosed  = "○" // Port closed
)

// LevelSymbol returns the marker shown before a log entry.
func LevelSymbol(level eventlog.Level) string {
	switch level {
	case eventlog.LevelWarning:
		return SymbolWarning
	case eventlog.LevelError:
		return SymbolFail
	default:
		return SymbolInfo
	}
}
