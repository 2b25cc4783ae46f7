package series

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleAt(sec int, v float64) Sample {
	return Sample{Time: epoch.Add(time.Duration(sec) * time.Second), Value: v}
}

func values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"default capacity", 0, DefaultCapacity},
		{"negative capacity", -3, DefaultCapacity},
		{"custom capacity", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.capacity)
			assert.Equal(t, tt.expected, s.Cap())
			assert.Equal(t, 0, s.Len())
			assert.Nil(t, s.Samples())
		})
	}
}

func TestAppendWithinCapacity(t *testing.T) {
	s := New(10)
	for i := 0; i < 5; i++ {
		s.Append(sampleAt(i, float64(i*10)))
	}

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, values(s.Samples()))
}

func TestAppendEvictsOldest(t *testing.T) {
	const capacity = 5
	s := New(capacity)

	// capacity+1 samples: the first one falls off
	for i := 0; i <= capacity; i++ {
		s.Append(sampleAt(i, float64(i)))
	}

	require.Equal(t, capacity, s.Len())
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, values(s.Samples()))

	// Keep going well past one wrap
	for i := capacity + 1; i < 13; i++ {
		s.Append(sampleAt(i, float64(i)))
	}
	assert.Equal(t, capacity, s.Len())
	assert.Equal(t, []float64{8, 9, 10, 11, 12}, values(s.Samples()))
}

func TestDefaultCapacityEviction(t *testing.T) {
	s := New(0)
	for i := 0; i < DefaultCapacity+1; i++ {
		s.Append(sampleAt(i, float64(i)))
	}

	got := s.Samples()
	require.Len(t, got, DefaultCapacity)
	assert.Equal(t, float64(1), got[0].Value)
	assert.Equal(t, float64(DefaultCapacity), got[len(got)-1].Value)
}

func TestLast(t *testing.T) {
	s := New(3)
	_, ok := s.Last()
	assert.False(t, ok)

	for i := 0; i < 4; i++ {
		s.Append(sampleAt(i, float64(i)))
	}
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, float64(3), last.Value)
}

func TestSamplesIsCopy(t *testing.T) {
	s := New(3)
	s.Append(sampleAt(0, 1))

	got := s.Samples()
	got[0].Value = 99

	assert.Equal(t, []float64{1}, values(s.Samples()))
}

func TestVisibleWindow(t *testing.T) {
	s := New(100)
	for i := 0; i < 60; i++ {
		s.Append(sampleAt(i, float64(i)))
	}

	now := epoch.Add(59 * time.Second)
	from, to := DefaultWindow().At(now)
	visible := s.VisibleWindow(from, to)

	// Seconds 29..59 inclusive
	require.Len(t, visible, 31)
	assert.Equal(t, float64(29), visible[0].Value)
	assert.Equal(t, float64(59), visible[len(visible)-1].Value)

	// Bounds are inclusive on both ends
	exact := s.VisibleWindow(epoch.Add(10*time.Second), epoch.Add(10*time.Second))
	assert.Equal(t, []float64{10}, values(exact))

	assert.Empty(t, s.VisibleWindow(epoch.Add(time.Hour), epoch.Add(2*time.Hour)))
}

func TestReset(t *testing.T) {
	s := New(4)
	for i := 0; i < 6; i++ {
		s.Append(sampleAt(i, float64(i)))
	}
	s.Reset()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 4, s.Cap())

	s.Append(sampleAt(10, 7))
	assert.Equal(t, []float64{7}, values(s.Samples()))
}

func TestConcurrentAppendAndRead(t *testing.T) {
	s := New(50)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.Append(sampleAt(i, float64(i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = s.Samples()
			_, _ = s.Last()
		}
	}()
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
