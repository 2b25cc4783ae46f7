package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/serialscope/internal/config"
	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "serialscope",
	Short: "Terminal oscilloscope for numeric serial data",
	Long: `serialscope reads line-oriented numeric data from a serial port, charts it
live in the terminal, and raises an alarm when values cross a threshold.

Lines like "42.1", "12,13.5,-4", "temp:21.5;hum=40" and "a=1|b=2" are all
understood; anything that isn't a number is reported and skipped.

Get started:
  serialscope ports                List connected devices
  serialscope watch --port COM3    Chart a device
  serialscope watch --test-signal  Try the display without hardware`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search for "+config.ConfigFileName+")")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err in the ✗ message / cause / suggestion layout.
func printError(w io.Writer, err error) {
	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			err = errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a serialscope command", name),
				"Run 'serialscope --help' to see what's available.")
		}
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "✗") {
		msg = "✗ " + msg + "\n"
	}
	fmt.Fprint(w, msg)
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "serialscope"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig finds, loads and validates the configuration.
// A missing file yields the defaults.
func loadConfig() (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
