package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/serialscope/internal/series"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '⠀'

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// Chart describes one frame of the oscilloscope plot.
type Chart struct {
	Samples   []series.Sample
	From, To  time.Time
	Bounds    series.Range
	Threshold float64
	// Width and Height are the plot area in cells.
	Width, Height int
}

// dotGrid is a braille canvas addressed in dots, origin bottom-left.
type dotGrid struct {
	width, height int
	cells         [][]rune
}

func newDotGrid(width, height int) *dotGrid {
	g := &dotGrid{width: width, height: height, cells: make([][]rune, height)}
	for i := range g.cells {
		g.cells[i] = make([]rune, width)
		for j := range g.cells[i] {
			g.cells[i][j] = brailleBase
		}
	}
	return g
}

func (g *dotGrid) dotsX() int { return g.width * 2 }
func (g *dotGrid) dotsY() int { return g.height * 4 }

// set lights the dot at (x, y) and returns its cell, ok false when out of range.
func (g *dotGrid) set(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 || x >= g.dotsX() || y >= g.dotsY() {
		return 0, 0, false
	}
	row = g.height - 1 - y/4
	col = x / 2
	g.cells[row][col] |= rune(1) << brailleDots[3-y%4][x%2]
	return row, col, true
}

// line lights the dots between two points.
func (g *dotGrid) line(x0, y0, x1, y1 int, mark func(row, col int)) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		if row, col, ok := g.set(x0, y0); ok {
			mark(row, col)
		}
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (x1-x0)*i/steps
		y := y0 + (y1-y0)*i/steps
		if row, col, ok := g.set(x, y); ok {
			mark(row, col)
		}
	}
}

func (g *dotGrid) empty(row, col int) bool {
	return g.cells[row][col] == brailleBase
}

// RenderChart draws the samples as a connected trace over a dotted threshold
// line. Cells holding a point above the threshold are drawn in the critical
// color.
func RenderChart(c Chart) string {
	if c.Width <= 0 || c.Height <= 0 {
		return ""
	}

	trace := newDotGrid(c.Width, c.Height)
	limit := newDotGrid(c.Width, c.Height)
	hot := make([][]bool, c.Height)
	for i := range hot {
		hot[i] = make([]bool, c.Width)
	}

	span := c.To.Sub(c.From)
	xDot := func(t time.Time) int {
		if span <= 0 {
			return trace.dotsX() - 1
		}
		return int(float64(t.Sub(c.From)) / float64(span) * float64(trace.dotsX()-1))
	}
	yDot := func(v float64) int {
		return clampInt(int(normalizeValue(v, c.Bounds.Min, c.Bounds.Max)*float64(trace.dotsY()-1)), trace.dotsY()-1)
	}

	if c.Threshold >= c.Bounds.Min && c.Threshold <= c.Bounds.Max && len(c.Samples) > 0 {
		y := yDot(c.Threshold)
		for x := 0; x < limit.dotsX(); x += 3 {
			limit.set(x, y)
		}
	}

	prevX, prevY := -1, -1
	for _, s := range c.Samples {
		x, y := xDot(s.Time), yDot(s.Value)
		above := s.Value > c.Threshold
		mark := func(row, col int) {
			if above {
				hot[row][col] = true
			}
		}
		if prevX < 0 {
			trace.line(x, y, x, y, mark)
		} else {
			trace.line(prevX, prevY, x, y, mark)
		}
		prevX, prevY = x, y
	}

	traceStyle := lipgloss.NewStyle().Foreground(ColorGraph)
	hotStyle := lipgloss.NewStyle().Foreground(ColorCritical)
	limitStyle := lipgloss.NewStyle().Foreground(ColorWarning)

	lines := make([]string, c.Height)
	for row := 0; row < c.Height; row++ {
		var b strings.Builder
		for col := 0; col < c.Width; col++ {
			switch {
			case !trace.empty(row, col) && hot[row][col]:
				b.WriteString(hotStyle.Render(string(trace.cells[row][col])))
			case !trace.empty(row, col):
				b.WriteString(traceStyle.Render(string(trace.cells[row][col])))
			case !limit.empty(row, col):
				b.WriteString(limitStyle.Render(string(limit.cells[row][col])))
			default:
				b.WriteRune(' ')
			}
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// YAxisLabels returns one label per chart row: max at the top, the midpoint
// in the middle row and min at the bottom, right-aligned to a common width.
func YAxisLabels(bounds series.Range, height int) []string {
	if height <= 0 {
		return nil
	}
	labels := make([]string, height)
	labels[0] = formatAxisValue(bounds.Max)
	if height > 1 {
		labels[height-1] = formatAxisValue(bounds.Min)
	}
	if height > 2 {
		labels[height/2] = formatAxisValue((bounds.Min + bounds.Max) / 2)
	}

	w := 0
	for _, l := range labels {
		w = max(w, len(l))
	}
	for i, l := range labels {
		labels[i] = strings.Repeat(" ", w-len(l)) + l
	}
	return labels
}

// XAxisLabel renders the time axis under a plot of the given width: the
// look-back at the left edge, "now" under the current time and the
// look-ahead at the right edge.
func XAxisLabel(window series.Window, width int) string {
	left := "-" + formatAxisDuration(window.Lookback)
	right := "+" + formatAxisDuration(window.Lookahead)
	now := "now"
	edges := left + strings.Repeat(" ", max(width-len(left)-len(right), 1)) + right

	total := window.Lookback + window.Lookahead
	if total <= 0 {
		return edges
	}

	nowCol := int(float64(window.Lookback) / float64(total) * float64(width-1))
	nowStart := min(nowCol-len(now)/2, width-len(right)-1-len(now))
	if nowStart < len(left)+1 {
		return edges
	}
	return left + strings.Repeat(" ", nowStart-len(left)) + now +
		strings.Repeat(" ", width-nowStart-len(now)-len(right)) + right
}

func formatAxisValue(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatAxisDuration(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	return d.String()
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
