package doctor

import (
	"os"

	"github.com/muesli/termenv"
)

// NewTerminalChecks returns the TERMINAL checks for out.
func NewTerminalChecks(out *os.File, isTerminal func(*os.File) bool) []Check {
	return []Check{
		&TerminalCheck{Out: out, IsTerminal: isTerminal},
		&ColorCheck{Profile: termenv.NewOutput(out).EnvColorProfile()},
	}
}

// TerminalCheck reports whether watch can show the dashboard.
type TerminalCheck struct {
	Out        *os.File
	IsTerminal func(*os.File) bool
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run() CheckResult {
	if c.IsTerminal(c.Out) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Output is a terminal, watch shows the dashboard",
		}
	}
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    "Output is not a terminal, watch prints events instead of the dashboard",
		Suggestion: "Run without redirecting stdout to get the dashboard",
	}
}

func (c *TerminalCheck) Fix() error { return nil }

// ColorCheck reports the color support the chart will render with.
type ColorCheck struct {
	Profile termenv.Profile
}

func (c *ColorCheck) Name() string     { return "color" }
func (c *ColorCheck) Category() string { return CategoryTerminal }

func (c *ColorCheck) Run() CheckResult {
	switch c.Profile {
	case termenv.TrueColor:
		return CheckResult{Name: c.Name(), Status: StatusPass, Message: "True color supported"}
	case termenv.ANSI256:
		return CheckResult{Name: c.Name(), Status: StatusPass, Message: "256 colors supported"}
	case termenv.ANSI:
		return CheckResult{Name: c.Name(), Status: StatusPass, Message: "16 colors supported"}
	default:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No color support, alarms won't be highlighted",
			Suggestion: "Unset NO_COLOR, or set TERM/COLORTERM for your terminal",
		}
	}
}

func (c *ColorCheck) Fix() error { return nil }
