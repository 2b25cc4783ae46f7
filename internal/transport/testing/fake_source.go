// Package testing provides test doubles for the transport package.
package testing

import (
	"sync"
	"time"

	"github.com/rileyhilliard/serialscope/internal/transport"
)

// FakeSource is an in-memory transport.Source fed by the test.
type FakeSource struct {
	mu sync.Mutex

	name     string
	lines    chan transport.Line
	errs     chan error
	finished bool

	// Configuration
	CloseErr error

	// Call tracking
	Closed    bool
	CloseHits int
	HexCalls  []bool
}

// NewFakeSource creates a source with buffered channels.
func NewFakeSource(name string) *FakeSource {
	return &FakeSource{
		name:  name,
		lines: make(chan transport.Line, 64),
		errs:  make(chan error, 8),
	}
}

func (f *FakeSource) Name() string                 { return f.name }
func (f *FakeSource) Lines() <-chan transport.Line { return f.lines }
func (f *FakeSource) Errors() <-chan error         { return f.errs }

// Push queues a text line.
func (f *FakeSource) Push(text string) {
	f.lines <- transport.Line{Text: text, Time: time.Now()}
}

// PushHex queues a hex dump line.
func (f *FakeSource) PushHex(text string) {
	f.lines <- transport.Line{Text: text, Hex: true, Time: time.Now()}
}

// PushError queues a transport error.
func (f *FakeSource) PushError(err error) {
	f.errs <- err
}

// Finish closes the line channel, as a device does when it goes away.
func (f *FakeSource) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.finished {
		f.finished = true
		close(f.lines)
	}
}

// SetHex records hex toggles.
func (f *FakeSource) SetHex(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.HexCalls = append(f.HexCalls, on)
}

// Close records the call and returns CloseErr.
func (f *FakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	f.CloseHits++
	return f.CloseErr
}

// WasClosed reports whether Close has been called.
func (f *FakeSource) WasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Closed
}

// Opener returns a viewer-compatible opener that hands out this source.
func (f *FakeSource) Opener() func() (transport.Source, error) {
	return func() (transport.Source, error) {
		return f, nil
	}
}

var _ transport.Source = (*FakeSource)(nil)
