package cli

import (
	"os"

	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	watchFlags WatchOptions
	portsJSON  bool
	parseFlags ParseOptions
	initFlags  InitOptions
)

// watchCmd opens a device and shows the live dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Chart a serial device live",
	Long: `Open a serial port and chart the numbers it sends.

When stdout is a terminal this starts the dashboard. Otherwise events
(port state, alarms, bad input) are printed one per line, which is handy
for logging to a file.

If no port is configured and several devices are connected, you'll be
asked to pick one.

Keyboard shortcuts:
  o           Open/close the port
  t           Switch to the test signal
  h           Toggle hex view
  + / -       Raise/lower the alarm threshold
  r           Reset the chart
  p           Refresh the port list
  c           Clear the event log
  ?           Show help
  q / Ctrl+C  Quit

Examples:
  serialscope watch
  serialscope watch --port /dev/ttyUSB0 --baud 115200
  serialscope watch --test-signal
  serialscope watch --metrics-addr :9464`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := watchFlags.apply(cmd, cfg); err != nil {
			return err
		}
		return watchCommand(cmd.Context(), cfg, watchFlags)
	},
}

// portsCmd lists serial devices
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Long: `List the serial devices the system knows about, with USB details when
available.

Examples:
  serialscope ports
  serialscope ports --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return portsCommand(cmd.OutOrStdout(), listPorts, portsJSON)
	},
}

// parseCmd runs captured data through the parser and alarm
var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Parse lines from stdin or files",
	Long: `Run captured lines through the same parser and alarm the dashboard uses,
printing the numbers found on each line, tab separated.

Reads stdin when no files are given (or for "-"). Problems and alarms are
reported on stderr, followed by a summary.

Examples:
  serialscope parse capture.log
  cat /dev/ttyUSB0 | serialscope parse
  serialscope parse --threshold 50 --json capture.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("threshold") {
			cfg.Alarm.Threshold = parseFlags.Threshold
		}
		inputs, err := openInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return parseCommand(cmd.Context(), cfg, inputs, cmd.OutOrStdout(), cmd.ErrOrStderr(), parseFlags)
	},
}

// initCmd creates a new .serialscope.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .serialscope.yaml configuration",
	Long: `Write a .serialscope.yaml with the default settings, each one commented.

On a terminal you'll be asked which device and baud rate to use.

Examples:
  serialscope init
  serialscope init --port /dev/ttyACM0 --baud 115200
  serialscope init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initFlags
		opts.Out = cmd.OutOrStdout()
		if !opts.NonInteractive {
			opts.NonInteractive = !stdinIsTerminal()
		}
		return Init(opts)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for serialscope.

Examples:
  # Bash
  serialscope completion bash > /etc/bash_completion.d/serialscope

  # Zsh
  serialscope completion zsh > "${fpath[1]}/_serialscope"

  # Fish
  serialscope completion fish > ~/.config/fish/completions/serialscope.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	addWatchFlags(watchCmd, &watchFlags)

	// ports command flags
	portsCmd.Flags().BoolVar(&portsJSON, "json", false, "output as JSON")

	// parse command flags
	parseCmd.Flags().BoolVar(&parseFlags.JSON, "json", false, "output as JSON")
	parseCmd.Flags().Float64Var(&parseFlags.Threshold, "threshold", 0, "alarm threshold")

	// init command flags
	initCmd.Flags().StringVar(&initFlags.Port, "port", "", "serial device to write into the config")
	initCmd.Flags().IntVar(&initFlags.Baud, "baud", 0, "baud rate to write into the config")
	initCmd.Flags().BoolVar(&initFlags.Overwrite, "force", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initFlags.NonInteractive, "non-interactive", false, "skip prompts and use flags or defaults")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}

// addWatchFlags registers the flags that override config for a session.
func addWatchFlags(cmd *cobra.Command, opts *WatchOptions) {
	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "serial device (e.g. /dev/ttyUSB0, COM3)")
	cmd.Flags().IntVarP(&opts.Baud, "baud", "b", 0, "baud rate")
	cmd.Flags().BoolVar(&opts.Hex, "hex", false, "start in hex view")
	cmd.Flags().BoolVar(&opts.TestSignal, "test-signal", false, "chart a generated sine wave instead of a device")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "alarm threshold")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
}

func stdinIsTerminal() bool {
	return isTerminal(os.Stdin)
}
