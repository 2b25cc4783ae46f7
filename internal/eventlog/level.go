package eventlog

// Level is the severity of a log entry.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// String returns the display name of the level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "Info"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ParseLevel maps a display name back to a Level. Unknown names map to Info.
func ParseLevel(s string) Level {
	switch s {
	case "Warning", "warning", "warn":
		return LevelWarning
	case "Error", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
