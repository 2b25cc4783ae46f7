package transport

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/serialscope/internal/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// SerialConfig describes how to open a serial device.
type SerialConfig struct {
	Port        string
	Baud        int
	DataBits    int
	Parity      string // none, odd, even, mark, space
	StopBits    string // 1, 1.5, 2
	ReadTimeout time.Duration
	Hex         bool
}

// StandardBaudRates are offered by the interactive picker.
var StandardBaudRates = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}

// Mode converts the config into a go.bug.st/serial mode.
func (c SerialConfig) Mode() (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: c.Baud,
		DataBits: c.DataBits,
	}
	if mode.BaudRate <= 0 {
		mode.BaudRate = 9600
	}
	if mode.DataBits == 0 {
		mode.DataBits = 8
	}

	switch strings.ToLower(c.Parity) {
	case "", "none":
		mode.Parity = serial.NoParity
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	case "mark":
		mode.Parity = serial.MarkParity
	case "space":
		mode.Parity = serial.SpaceParity
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown parity %q", c.Parity),
			"Use one of: none, odd, even, mark, space")
	}

	switch c.StopBits {
	case "", "1":
		mode.StopBits = serial.OneStopBit
	case "1.5":
		mode.StopBits = serial.OnePointFiveStopBits
	case "2":
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown stop bits %q", c.StopBits),
			"Use one of: 1, 1.5, 2")
	}

	return mode, nil
}

// openPort is swapped out in tests.
var openPort = func(name string, mode *serial.Mode) (serial.Port, error) {
	return serial.Open(name, mode)
}

// OpenSerial opens the configured port and starts reading lines from it.
func OpenSerial(cfg SerialConfig) (*ReaderSource, error) {
	if cfg.Port == "" {
		return nil, errors.New(errors.ErrPort,
			"No serial port selected",
			"Pass --port or set 'port' in .serialscope.yaml")
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	port, err := openPort(cfg.Port, mode)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Failed to open %s", cfg.Port),
			"Check the device is plugged in and not held by another program")
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, errors.WrapWithCode(err, errors.ErrTransport,
				fmt.Sprintf("Failed to configure %s", cfg.Port),
				"Try a different read_timeout")
		}
	}

	return NewReaderSource(cfg.Port, port, cfg.Hex), nil
}

// PortDescriptor describes a serial device found on the system.
type PortDescriptor struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsUSB        bool   `json:"usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// detailedPorts is swapped out in tests.
var detailedPorts = enumerator.GetDetailedPortsList

// ListPorts enumerates serial devices, sorted by name.
func ListPorts() ([]PortDescriptor, error) {
	details, err := detailedPorts()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPort,
			"Failed to enumerate serial ports",
			"Check you have permission to read the device list")
	}

	ports := make([]PortDescriptor, 0, len(details))
	for _, d := range details {
		if d == nil || d.Name == "" {
			continue
		}
		ports = append(ports, PortDescriptor{
			Name:         d.Name,
			Description:  describe(d),
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
		})
	}

	sort.Slice(ports, func(i, j int) bool {
		return ports[i].Name < ports[j].Name
	})
	return ports, nil
}

// describe builds "Product - NAME" when the enumerator knows the product.
func describe(d *enumerator.PortDetails) string {
	switch {
	case d.Product != "":
		return fmt.Sprintf("%s - %s", d.Product, d.Name)
	case d.IsUSB:
		return fmt.Sprintf("USB %s:%s - %s", d.VID, d.PID, d.Name)
	default:
		return d.Name
	}
}
