package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/serialscope/internal/config"
	"github.com/rileyhilliard/serialscope/internal/doctor"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/rileyhilliard/serialscope/internal/ui"
	"github.com/spf13/cobra"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd diagnoses config, device and terminal issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, port and terminal issues",
	Long: `Run diagnostic checks to find out why watch isn't working.

Checks:
  - Config file location and validity
  - Serial port enumeration
  - Whether the configured port is connected and can be opened
  - Terminal and color support

Examples:
  serialscope doctor
  serialscope doctor --fix
  serialscope doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.OutOrStdout(), collectChecks(), doctorFix, doctorJSON)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// collectChecks gathers every diagnostic check for the current config.
func collectChecks() []doctor.Check {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		// The schema check reports the load error
		cfg = config.DefaultConfig()
	}

	var checks []doctor.Check
	checks = append(checks, doctor.NewConfigChecks(cfgFile, ".")...)
	checks = append(checks, doctor.NewPortChecks(cfg.SerialConfig(), doctor.PortLister(listPorts), openPort)...)
	checks = append(checks, doctor.NewTerminalChecks(os.Stdout, isTerminal)...)
	return checks
}

func openPort(sc transport.SerialConfig) (transport.Source, error) {
	return serialOpener(sc)()
}

// doctorCommand runs checks and reports the results to w.
func doctorCommand(w io.Writer, checks []doctor.Check, fix, asJSON bool) error {
	results := doctor.RunAll(checks)
	if fix {
		results = doctor.FixAll(checks, results)
	}

	if asJSON {
		return WriteJSONSuccess(w, buildDoctorOutput(checks, results))
	}
	writeDoctorText(w, checks, results, fix)
	return nil
}

// buildDoctorOutput groups results by category in report order.
func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := groupByCategory(checks)

	output := DoctorOutput{Categories: []CategoryOutput{}}
	for _, cat := range doctor.Categories {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		co := CategoryOutput{Name: cat}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

// groupByCategory maps each category to the indices of its checks.
func groupByCategory(checks []doctor.Check) map[string][]int {
	grouped := make(map[string][]int)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], i)
	}
	return grouped
}

// writeDoctorText renders results in human-readable format.
func writeDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("serialscope Diagnostic Report"))
	fmt.Fprintln(w)

	grouped := groupByCategory(checks)
	for _, category := range doctor.Categories {
		indices, ok := grouped[category]
		if !ok {
			continue
		}

		fmt.Fprintln(w, headerStyle.Render(category))
		for _, idx := range indices {
			writeCheckResult(w, results[idx], mutedStyle)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))

		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	}
	fmt.Fprintln(w)
}

// writeCheckResult renders a single check result.
func writeCheckResult(w io.Writer, result doctor.CheckResult, mutedStyle lipgloss.Style) {
	var symbol string
	var style lipgloss.Style

	switch result.Status {
	case doctor.StatusPass:
		symbol = ui.SymbolSuccess
		style = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	case doctor.StatusWarn:
		symbol = ui.SymbolWarning
		style = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	default:
		symbol = ui.SymbolFail
		style = lipgloss.NewStyle().Foreground(ui.ColorError)
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
		}
	}
}
