package monitor

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/serialscope/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	os.Exit(m.Run())
}

// Escape sequences for the chart colors under the TrueColor profile.
const (
	criticalSeq = "38;2;255;0;85"
	warningSeq  = "38;2;255;136;0"
)

var chartEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func chartSamples(values ...float64) []series.Sample {
	out := make([]series.Sample, len(values))
	for i, v := range values {
		out[i] = series.Sample{Time: chartEpoch.Add(time.Duration(i) * time.Second), Value: v}
	}
	return out
}

func TestRenderChartDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantLines     int
	}{
		{"zero width", 0, 3, 0},
		{"zero height", 10, 0, 0},
		{"small", 10, 3, 3},
		{"wide", 60, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderChart(Chart{
				Samples:   chartSamples(1, 2, 3),
				From:      chartEpoch,
				To:        chartEpoch.Add(10 * time.Second),
				Bounds:    series.Range{Min: 0, Max: 4},
				Threshold: 80,
				Width:     tt.width,
				Height:    tt.height,
			})
			if tt.wantLines == 0 {
				assert.Empty(t, out)
				return
			}
			lines := strings.Split(out, "\n")
			require.Len(t, lines, tt.wantLines)
			for _, l := range lines {
				assert.Equal(t, tt.width, ansi.StringWidth(l))
			}
		})
	}
}

func TestRenderChartEmpty(t *testing.T) {
	out := RenderChart(Chart{
		From:   chartEpoch,
		To:     chartEpoch.Add(time.Second),
		Bounds: series.Range{Min: 0, Max: 100},
		Width:  5,
		Height: 2,
	})
	assert.Equal(t, "     \n     ", ansi.Strip(out))
}

func TestRenderChartPlotsTrace(t *testing.T) {
	out := ansi.Strip(RenderChart(Chart{
		Samples:   chartSamples(0, 10),
		From:      chartEpoch,
		To:        chartEpoch.Add(time.Second),
		Bounds:    series.Range{Min: 0, Max: 10},
		Threshold: 100,
		Width:     2,
		Height:    1,
	}))

	runes := []rune(out)
	require.Len(t, runes, 2)
	// First sample sits bottom-left, last one top-right
	assert.NotZero(t, (runes[0]-brailleBase)&(1<<6), "bottom-left dot lit")
	assert.NotZero(t, (runes[1]-brailleBase)&(1<<3), "top-right dot lit")
}

func TestRenderChartThresholdColoring(t *testing.T) {
	base := Chart{
		From:   chartEpoch,
		To:     chartEpoch.Add(5 * time.Second),
		Bounds: series.Range{Min: 0, Max: 100},
		Width:  20,
		Height: 4,
	}

	t.Run("values above threshold are critical", func(t *testing.T) {
		c := base
		c.Samples = chartSamples(10, 95, 20)
		c.Threshold = 80
		assert.Contains(t, RenderChart(c), criticalSeq)
	})

	t.Run("values below threshold are not", func(t *testing.T) {
		c := base
		c.Samples = chartSamples(10, 15, 20)
		c.Threshold = 80
		out := RenderChart(c)
		assert.NotContains(t, out, criticalSeq)
		assert.Contains(t, out, warningSeq, "threshold line drawn")
	})

	t.Run("threshold outside bounds is not drawn", func(t *testing.T) {
		c := base
		c.Samples = chartSamples(10, 15, 20)
		c.Threshold = 500
		assert.NotContains(t, RenderChart(c), warningSeq)
	})
}

func TestYAxisLabels(t *testing.T) {
	labels := YAxisLabels(series.Range{Min: 0, Max: 100}, 5)
	assert.Equal(t, []string{"100.0", "     ", " 50.0", "     ", "  0.0"}, labels)

	assert.Equal(t, []string{" 7.5", "-2.5"}, YAxisLabels(series.Range{Min: -2.5, Max: 7.5}, 2))
	assert.Nil(t, YAxisLabels(series.Range{}, 0))
}

func TestXAxisLabel(t *testing.T) {
	label := XAxisLabel(series.DefaultWindow(), 40)
	assert.Len(t, label, 40)
	assert.True(t, strings.HasPrefix(label, "-30s "))
	assert.True(t, strings.HasSuffix(label, " now +2s"))

	assert.Equal(t, "-30s +2s", XAxisLabel(series.DefaultWindow(), 8))

	half := XAxisLabel(series.Window{Lookback: 10 * time.Second, Lookahead: 10 * time.Second}, 21)
	assert.Equal(t, "-10s     now     +10s", half)
}

func TestFormatAxisDuration(t *testing.T) {
	assert.Equal(t, "30s", formatAxisDuration(30*time.Second))
	assert.Equal(t, "1.5s", formatAxisDuration(1500*time.Millisecond))
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, 0.5, normalizeValue(5, 0, 10))
	assert.Equal(t, 0.5, normalizeValue(5, 3, 3))
	assert.Equal(t, 0.0, normalizeValue(0, 0, 10))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, clampInt(-1, 5))
	assert.Equal(t, 5, clampInt(9, 5))
	assert.Equal(t, 3, clampInt(3, 5))
}
