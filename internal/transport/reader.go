package transport

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/serialscope/internal/lineparse"
)

// MaxLineLength bounds a line with no terminator; longer runs are emitted as
// their own line.
const MaxLineLength = 4096

const readBufferSize = 1024

// ReaderSource splits an io.ReadCloser into lines on CR or LF.
// In hex mode each read chunk is emitted as a hex dump instead.
type ReaderSource struct {
	name   string
	rc     io.ReadCloser
	lines  chan Line
	errs   chan error
	done   chan struct{}
	wg     sync.WaitGroup
	hex    atomic.Bool
	closed atomic.Bool
	once   sync.Once
	now    func() time.Time
}

// NewReaderSource starts reading rc in a background goroutine.
func NewReaderSource(name string, rc io.ReadCloser, hex bool) *ReaderSource {
	s := &ReaderSource{
		name:  name,
		rc:    rc,
		lines: make(chan Line, 64),
		errs:  make(chan error, 8),
		done:  make(chan struct{}),
		now:   time.Now,
	}
	s.hex.Store(hex)

	s.wg.Add(1)
	go s.readLoop()
	return s
}

// Name returns the source name (port path or input label).
func (s *ReaderSource) Name() string { return s.name }

// Lines returns the line channel.
func (s *ReaderSource) Lines() <-chan Line { return s.lines }

// Errors returns the read error channel.
func (s *ReaderSource) Errors() <-chan error { return s.errs }

// SetHex toggles hex dump mode for subsequent reads.
func (s *ReaderSource) SetHex(on bool) { s.hex.Store(on) }

// Hex reports whether hex dump mode is on.
func (s *ReaderSource) Hex() bool { return s.hex.Load() }

// Close stops the reader and closes the underlying device.
func (s *ReaderSource) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.done)
		// Closing the device unblocks a pending Read
		err = s.rc.Close()
		s.wg.Wait()
	})
	return err
}

func (s *ReaderSource) readLoop() {
	defer s.wg.Done()
	defer close(s.lines)

	buf := make([]byte, readBufferSize)
	var pending []byte

	for {
		n, err := s.rc.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if s.hex.Load() {
				raw := append(pending, chunk...)
				pending = nil
				if !s.emit(Line{Text: lineparse.FormatHex(raw), Hex: true, Time: s.now()}) {
					return
				}
			} else {
				pending = append(pending, chunk...)
				var ok bool
				if pending, ok = s.drain(pending); !ok {
					return
				}
			}
		}

		if err != nil {
			if len(pending) > 0 {
				s.emit(Line{Text: string(pending), Time: s.now()})
			}
			if !errors.Is(err, io.EOF) && !s.closed.Load() {
				s.report(err)
			}
			return
		}

		select {
		case <-s.done:
			return
		default:
		}
	}
}

// drain emits every complete line in pending and returns the remainder.
func (s *ReaderSource) drain(pending []byte) ([]byte, bool) {
	for {
		idx := bytes.IndexAny(pending, "\r\n")
		if idx < 0 {
			break
		}
		line := pending[:idx]
		pending = pending[idx+1:]
		if len(line) == 0 {
			continue
		}
		if !s.emit(Line{Text: string(line), Time: s.now()}) {
			return nil, false
		}
	}

	if len(pending) >= MaxLineLength {
		if !s.emit(Line{Text: string(pending), Time: s.now()}) {
			return nil, false
		}
		pending = nil
	}
	// Detach from the read buffer's backing array
	return append([]byte(nil), pending...), true
}

func (s *ReaderSource) emit(l Line) bool {
	select {
	case s.lines <- l:
		return true
	case <-s.done:
		return false
	}
}

func (s *ReaderSource) report(err error) {
	select {
	case s.errs <- err:
	case <-s.done:
	}
}

var _ Source = (*ReaderSource)(nil)
