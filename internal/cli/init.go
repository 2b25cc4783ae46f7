package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/serialscope/internal/config"
	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/rileyhilliard/serialscope/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Port           string    // Pre-specified serial device
	Baud           int       // Pre-specified baud rate
	Dir            string    // Directory to write into, default "."
	Overwrite      bool      // Overwrite existing config without asking
	NonInteractive bool      // Skip prompts, use flags or defaults
	Out            io.Writer // Defaults to stdout
}

// Init creates a new .serialscope.yaml configuration file.
func Init(opts InitOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		opts.Overwrite = true
	}

	cfg := config.DefaultConfig()
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.Baud > 0 {
		cfg.Baud = opts.Baud
	}

	if !opts.NonInteractive {
		if err := promptSerial(cfg, opts.Port != "", opts.Baud > 0); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.WriteFile(configPath, cfg, opts.Overwrite); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n", ui.SymbolSuccess, configPath)
	if cfg.Port == "" {
		fmt.Fprintln(out, "  No port set; 'serialscope watch' will ask which device to use.")
	}
	fmt.Fprintln(out, "  Run 'serialscope watch' to start charting.")
	return nil
}

// promptSerial asks for the settings not already given on the command line.
func promptSerial(cfg *config.Config, portSet, baudSet bool) error {
	var fields []huh.Field

	if !portSet {
		options := []huh.Option[string]{huh.NewOption("Ask each time", "")}
		// Enumeration failures just leave the list short; the port can be
		// typed into the file later
		ports, _ := listPorts()
		for _, p := range ports {
			options = append(options, huh.NewOption(portLabel(p), p.Name))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Serial port").
			Description("Device to open when you run 'serialscope watch'").
			Options(options...).
			Value(&cfg.Port))
	}

	if !baudSet {
		options := make([]huh.Option[int], len(transport.StandardBaudRates))
		for i, rate := range transport.StandardBaudRates {
			options[i] = huh.NewOption(strconv.Itoa(rate), rate)
		}
		fields = append(fields, huh.NewSelect[int]().
			Title("Baud rate").
			Description("Must match the device's serial settings").
			Options(options...).
			Value(&cfg.Baud))
	}

	if len(fields) == 0 {
		return nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive with --port and --baud")
	}
	return nil
}

// portLabel shows the port name with whatever the enumerator knows about it.
func portLabel(p transport.PortDescriptor) string {
	if details := portDetails(p); details != "" {
		return p.Name + " (" + details + ")"
	}
	return p.Name
}
