package doctor

import (
	"os"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalCheck(t *testing.T) {
	yes := func(*os.File) bool { return true }
	no := func(*os.File) bool { return false }

	assert.Equal(t, StatusPass, (&TerminalCheck{Out: os.Stdout, IsTerminal: yes}).Run().Status)

	result := (&TerminalCheck{Out: os.Stdout, IsTerminal: no}).Run()
	assert.Equal(t, StatusWarn, result.Status)
	assert.Contains(t, result.Message, "prints events")
}

func TestColorCheck(t *testing.T) {
	tests := []struct {
		profile termenv.Profile
		status  CheckStatus
		message string
	}{
		{termenv.TrueColor, StatusPass, "True color supported"},
		{termenv.ANSI256, StatusPass, "256 colors supported"},
		{termenv.ANSI, StatusPass, "16 colors supported"},
		{termenv.Ascii, StatusWarn, "No color support"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			result := (&ColorCheck{Profile: tt.profile}).Run()
			assert.Equal(t, tt.status, result.Status)
			assert.Contains(t, result.Message, tt.message)
		})
	}
}

func TestNewTerminalChecks(t *testing.T) {
	checks := NewTerminalChecks(os.Stdout, func(*os.File) bool { return false })
	require.Len(t, checks, 2)
	for _, c := range checks {
		assert.Equal(t, CategoryTerminal, c.Category())
	}
}
