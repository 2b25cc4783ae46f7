package transport

import (
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// Synthetic test signal defaults: 100 points, one every 50ms.
const (
	DefaultSyntheticPoints   = 100
	DefaultSyntheticInterval = 50 * time.Millisecond
)

// SyntheticSource emits a noisy sine wave, 50 + 30*sin(i*0.1) + noise in
// [0,5), for exercising the chart and alarms without a device.
type SyntheticSource struct {
	lines    chan Line
	errs     chan error
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	rng      *rand.Rand
	points   int
	interval time.Duration
}

// NewSyntheticSource starts emitting points values spaced by interval.
// points <= 0 means run until closed. The seed makes the noise reproducible.
func NewSyntheticSource(points int, interval time.Duration, seed uint64) *SyntheticSource {
	if interval <= 0 {
		interval = DefaultSyntheticInterval
	}
	s := &SyntheticSource{
		lines:    make(chan Line),
		errs:     make(chan error),
		done:     make(chan struct{}),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		points:   points,
		interval: interval,
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// SyntheticValue returns the noiseless signal at step i.
func SyntheticValue(i int) float64 {
	return 50 + 30*math.Sin(float64(i)*0.1)
}

func (s *SyntheticSource) Name() string         { return "test-signal" }
func (s *SyntheticSource) Lines() <-chan Line   { return s.lines }
func (s *SyntheticSource) Errors() <-chan error { return s.errs }

// Close stops the signal.
func (s *SyntheticSource) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
	return nil
}

func (s *SyntheticSource) run() {
	defer s.wg.Done()
	defer close(s.lines)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; s.points <= 0 || i < s.points; i++ {
		v := SyntheticValue(i) + s.rng.Float64()*5
		line := Line{Text: strconv.FormatFloat(v, 'f', 3, 64), Time: time.Now()}

		select {
		case s.lines <- line:
		case <-s.done:
			return
		}

		select {
		case <-ticker.C:
		case <-s.done:
			return
		}
	}
}

var _ Source = (*SyntheticSource)(nil)
