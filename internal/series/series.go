// Package series holds the rolling window of samples behind the chart.
package series

import (
	"sync"
	"time"
)

// DefaultCapacity is the default number of samples retained.
const DefaultCapacity = 500

// Default chart time window relative to now.
const (
	DefaultLookback  = 30 * time.Second
	DefaultLookahead = 2 * time.Second
)

// Sample is one parsed value and the time it arrived.
type Sample struct {
	Time  time.Time
	Value float64
}

// Series is a fixed-capacity FIFO of samples backed by a ring buffer.
// Appending past capacity evicts the oldest sample. Safe for concurrent use.
type Series struct {
	mu    sync.RWMutex
	data  []Sample
	head  int
	count int
	size  int
}

// New creates a series holding at most capacity samples.
func New(capacity int) *Series {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Series{
		data: make([]Sample, capacity),
		size: capacity,
	}
}

// Append adds a sample, evicting the oldest one when full.
func (s *Series) Append(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[s.head] = sample
	s.head = (s.head + 1) % s.size
	if s.count < s.size {
		s.count++
	}
}

// Len returns the number of samples currently stored.
func (s *Series) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Cap returns the maximum number of samples retained.
func (s *Series) Cap() int {
	return s.size
}

// Samples returns all stored samples in arrival order (oldest first).
func (s *Series) Samples() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLocked(s.count)
}

// Last returns the most recent sample.
func (s *Series) Last() (Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count == 0 {
		return Sample{}, false
	}
	return s.data[(s.head-1+s.size)%s.size], true
}

// VisibleWindow returns the samples with from <= Time <= to, oldest first.
func (s *Series) VisibleWindow(from, to time.Time) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Sample
	for _, sample := range s.lastLocked(s.count) {
		if sample.Time.Before(from) || sample.Time.After(to) {
			continue
		}
		out = append(out, sample)
	}
	return out
}

// Reset drops all samples.
func (s *Series) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]Sample, s.size)
	s.head = 0
	s.count = 0
}

// lastLocked returns the last n samples in chronological order.
// Must be called with s.mu held.
func (s *Series) lastLocked(n int) []Sample {
	if n <= 0 || s.count == 0 {
		return nil
	}
	if n > s.count {
		n = s.count
	}

	out := make([]Sample, n)
	// head is the next write position, so the newest sample sits at head-1
	start := (s.head - n + s.size) % s.size
	for i := 0; i < n; i++ {
		out[i] = s.data[(start+i)%s.size]
	}
	return out
}
