package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline creates a sparkline visualization from a slice of float64 values.
// The width parameter determines how many of the most recent data points to display.
// Values are mapped to 8 vertical levels based on the min/max range. The line
// is red when the newest value is above threshold and green otherwise.
func RenderSparkline(data []float64, width int, threshold float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	// Use only the most recent 'width' data points
	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range data {
		level := numLevels / 2
		if valueRange > 0 {
			normalized := (v - minVal) / valueRange
			level = min(max(int(normalized*float64(numLevels-1)), 0), numLevels-1)
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	color := ColorSuccess
	if data[len(data)-1] > threshold {
		color = ColorError
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
