// Package eventlog keeps the bounded, newest-first list of human-readable
// events shown in the viewer's log pane.
package eventlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/serialscope/internal/logger"
)

// DefaultCapacity is the default number of entries retained.
const DefaultCapacity = 300

// TimestampLayout formats entry times with millisecond precision.
const TimestampLayout = "15:04:05.000"

// Entry is a single log line.
type Entry struct {
	// Seq increases by one per recorded entry and survives Clear.
	Seq       uint64
	Time      time.Time
	Timestamp string
	Message   string
	Level     Level
}

// Sink stores entries newest-first and drops the oldest beyond capacity.
// Every entry is also forwarded to a logger.Logger at the matching level.
type Sink struct {
	mu       sync.RWMutex
	entries  []Entry
	seq      uint64
	capacity int
	now      func() time.Time
	log      logger.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		s.now = now
	}
}

// WithLogger sets the logger entries are mirrored to.
func WithLogger(l logger.Logger) Option {
	return func(s *Sink) {
		s.log = l
	}
}

// NewSink creates a sink holding at most capacity entries.
func NewSink(capacity int, opts ...Option) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Sink{
		entries:  make([]Entry, 0, capacity+1),
		capacity: capacity,
		now:      time.Now,
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record inserts a new entry at the head.
func (s *Sink) Record(message string, level Level) {
	t := s.now()
	entry := Entry{
		Time:      t,
		Timestamp: t.Format(TimestampLayout),
		Message:   message,
		Level:     level,
	}

	s.mu.Lock()
	s.seq++
	entry.Seq = s.seq
	s.entries = append(s.entries, Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = entry
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	s.mu.Unlock()

	switch level {
	case LevelWarning:
		s.log.Warn("%s", message)
	case LevelError:
		s.log.Error("%s", message)
	default:
		s.log.Info("%s", message)
	}
}

// Info records a formatted Info entry.
func (s *Sink) Info(format string, args ...interface{}) {
	s.Record(fmt.Sprintf(format, args...), LevelInfo)
}

// Warn records a formatted Warning entry.
func (s *Sink) Warn(format string, args ...interface{}) {
	s.Record(fmt.Sprintf(format, args...), LevelWarning)
}

// Error records a formatted Error entry.
func (s *Sink) Error(format string, args ...interface{}) {
	s.Record(fmt.Sprintf(format, args...), LevelError)
}

// Entries returns a newest-first copy of the stored entries.
func (s *Sink) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Since returns the stored entries recorded after seq, oldest first.
// Entries already dropped for capacity are not returned.
func (s *Sink) Since(seq uint64) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Seq > seq {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// Len returns the number of stored entries.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Cap returns the maximum number of entries retained.
func (s *Sink) Cap() int {
	return s.capacity
}

// CountLevel returns how many stored entries have the given level.
func (s *Sink) CountLevel(level Level) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Clear removes all entries.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}
