package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rileyhilliard/serialscope/internal/doctor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCheck returns a fixed result, turning into a pass once fixed.
type stubCheck struct {
	name     string
	category string
	result   doctor.CheckResult
	fixed    bool
}

func (s *stubCheck) Name() string     { return s.name }
func (s *stubCheck) Category() string { return s.category }
func (s *stubCheck) Run() doctor.CheckResult {
	if s.fixed {
		return doctor.CheckResult{Name: s.name, Status: doctor.StatusPass, Message: s.name + " fixed"}
	}
	return s.result
}
func (s *stubCheck) Fix() error {
	s.fixed = true
	return nil
}

func sampleChecks() []doctor.Check {
	return []doctor.Check{
		&stubCheck{name: "terminal", category: doctor.CategoryTerminal, result: doctor.CheckResult{
			Name: "terminal", Status: doctor.StatusPass, Message: "Output is a terminal",
		}},
		&stubCheck{name: "config_file", category: doctor.CategoryConfig, result: doctor.CheckResult{
			Name: "config_file", Status: doctor.StatusWarn, Message: "No config file found",
			Suggestion: "Run 'serialscope init'", Fixable: true,
		}},
		&stubCheck{name: "configured_port", category: doctor.CategoryPorts, result: doctor.CheckResult{
			Name: "configured_port", Status: doctor.StatusFail, Message: "/dev/ttyUSB9 is not connected",
			Suggestion: "line one\nline two",
		}},
	}
}

func TestDoctorText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, doctorCommand(&buf, sampleChecks(), false, false))
	out := ansi.Strip(buf.String())

	assert.Contains(t, out, "serialscope Diagnostic Report")
	assert.Contains(t, out, "⚠ No config file found")
	assert.Contains(t, out, "    Run 'serialscope init'")
	assert.Contains(t, out, "✗ /dev/ttyUSB9 is not connected")
	assert.Contains(t, out, "    line one\n    line two")
	assert.Contains(t, out, "✓ Output is a terminal")
	assert.Contains(t, out, "2 issues found")
	assert.Contains(t, out, "--fix")

	// Categories follow report order regardless of check order
	assert.Less(t, strings.Index(out, "CONFIG"), strings.Index(out, "PORTS"))
	assert.Less(t, strings.Index(out, "PORTS"), strings.Index(out, "TERMINAL"))
}

func TestDoctorFix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, doctorCommand(&buf, sampleChecks(), true, false))
	out := ansi.Strip(buf.String())

	assert.Contains(t, out, "config_file fixed")
	assert.Contains(t, out, "1 issue found")
	assert.NotContains(t, out, "Run with --fix")
}

func TestDoctorAllClear(t *testing.T) {
	checks := sampleChecks()[:1]
	var buf bytes.Buffer
	require.NoError(t, doctorCommand(&buf, checks, false, false))
	assert.Contains(t, ansi.Strip(buf.String()), "✓ Everything looks good")
}

func TestDoctorJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, doctorCommand(&buf, sampleChecks(), false, true))

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Categories []struct {
				Name    string `json:"name"`
				Results []struct {
					Name   string `json:"name"`
					Status string `json:"status"`
				} `json:"results"`
			} `json:"categories"`
			Summary SummaryOutput `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	require.Len(t, env.Data.Categories, 3)
	assert.Equal(t, "CONFIG", env.Data.Categories[0].Name)
	assert.Equal(t, "warn", env.Data.Categories[0].Results[0].Status)
	assert.Equal(t, SummaryOutput{Pass: 1, Warn: 1, Fail: 1, Fixable: 1}, env.Data.Summary)
}
