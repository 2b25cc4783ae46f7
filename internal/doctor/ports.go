package doctor

import (
	"fmt"
	"runtime"

	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/transport"
)

// PortLister enumerates serial devices.
type PortLister func() ([]transport.PortDescriptor, error)

// PortOpener opens a serial device with the configured settings.
type PortOpener func(transport.SerialConfig) (transport.Source, error)

// NewPortChecks returns the PORTS checks for the configured serial settings.
func NewPortChecks(sc transport.SerialConfig, list PortLister, open PortOpener) []Check {
	enum := &PortEnumerationCheck{List: list}
	return []Check{
		enum,
		&ConfiguredPortCheck{Port: sc.Port, Enum: enum},
		&PortAccessCheck{Config: sc, Open: open},
	}
}

// PortEnumerationCheck verifies the system can list serial devices.
// Results are cached for ConfiguredPortCheck.
type PortEnumerationCheck struct {
	List PortLister

	ports []transport.PortDescriptor
	err   error
	ran   bool
}

func (c *PortEnumerationCheck) Name() string     { return "port_enumeration" }
func (c *PortEnumerationCheck) Category() string { return CategoryPorts }

// Ports returns the enumerated ports, listing them on first use.
func (c *PortEnumerationCheck) Ports() ([]transport.PortDescriptor, error) {
	if !c.ran {
		c.ports, c.err = c.List()
		c.ran = true
	}
	return c.ports, c.err
}

func (c *PortEnumerationCheck) Run() CheckResult {
	ports, err := c.Ports()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't list serial ports: %s", errors.Summarize(err)),
			Suggestion: "Check you can read the system's device list",
		}
	}

	if len(ports) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No serial ports found",
			Suggestion: "Plug in the device and check its driver is installed; 'serialscope watch --test-signal' works without one",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Found %d serial port%s", len(ports), pluralize(len(ports))),
	}
}

func (c *PortEnumerationCheck) Fix() error { return nil }

// ConfiguredPortCheck verifies the configured port is currently connected.
type ConfiguredPortCheck struct {
	Port string
	Enum *PortEnumerationCheck
}

func (c *ConfiguredPortCheck) Name() string     { return "configured_port" }
func (c *ConfiguredPortCheck) Category() string { return CategoryPorts }

func (c *ConfiguredPortCheck) Run() CheckResult {
	if c.Port == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No port configured, watch will ask which one to use",
		}
	}

	ports, err := c.Enum.Ports()
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("Can't tell whether %s is connected", c.Port),
		}
	}

	for _, p := range ports {
		if p.Name == c.Port {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: fmt.Sprintf("%s is connected", c.Port),
			}
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusFail,
		Message:    fmt.Sprintf("%s is not connected", c.Port),
		Suggestion: "Run 'serialscope ports' to see what is, then update 'port' in your config",
	}
}

func (c *ConfiguredPortCheck) Fix() error { return nil }

// PortAccessCheck opens the configured port with the configured settings
// and closes it again.
type PortAccessCheck struct {
	Config transport.SerialConfig
	Open   PortOpener
}

func (c *PortAccessCheck) Name() string     { return "port_access" }
func (c *PortAccessCheck) Category() string { return CategoryPorts }

func (c *PortAccessCheck) Run() CheckResult {
	if c.Config.Port == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Skipped, no port configured",
		}
	}

	if _, err := c.Config.Mode(); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    errors.Summarize(err),
			Suggestion: "Check parity and stop_bits in your config",
		}
	}

	src, err := c.Open(c.Config)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't open %s: %s", c.Config.Port, errors.Summarize(err)),
			Suggestion: accessSuggestion(),
		}
	}
	_ = src.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Opened %s at %d baud", c.Config.Port, c.Config.Baud),
	}
}

func (c *PortAccessCheck) Fix() error { return nil }

// accessSuggestion covers the usual reasons a present port won't open.
func accessSuggestion() string {
	switch runtime.GOOS {
	case "linux":
		return "Close other programs using the port, and make sure you're in the dialout group:\nsudo usermod -aG dialout $USER (then log in again)"
	case "windows":
		return "Close other programs using the port (serial monitors, IDEs)"
	default:
		return "Close other programs using the port and check its permissions"
	}
}
