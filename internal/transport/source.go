// Package transport supplies raw lines to the viewer: serial devices, any
// io.Reader (stdin, capture files), and a synthetic test signal.
package transport

import "time"

// Line is one unit of raw text attributed to a read from the device.
type Line struct {
	Text string
	// Hex is set when Text is a hex dump of raw bytes rather than device text.
	Hex  bool
	Time time.Time
}

// Source produces lines until it is closed or the device goes away.
// Lines is closed when the source stops producing.
type Source interface {
	Name() string
	Lines() <-chan Line
	Errors() <-chan error
	Close() error
}
