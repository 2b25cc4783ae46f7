package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/serialscope/internal/eventlog"
	"github.com/rileyhilliard/serialscope/internal/series"
	"github.com/rileyhilliard/serialscope/internal/ui"
	"github.com/rileyhilliard/serialscope/internal/viewer"
)

// Size used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 32
)

// Fixed chrome around the plot: panel border, title, axis and status lines.
const (
	chartChrome  = 5
	paneChrome   = 3
	labelGap     = 2 // " ┤" between the y labels and the plot
	sparkWidth   = 20
	minPlotWidth = 10
	minRows      = 3
)

// emptyBounds is the y range shown before any sample arrives.
var emptyBounds = series.Range{Min: 0, Max: 100}

// dims holds the computed sizes of the dashboard regions.
type dims struct {
	width      int
	plotWidth  int
	plotHeight int
	paneWidth  int
	paneHeight int
}

// layout splits the terminal between the chart and the two lower panes.
func (m Model) layout() dims {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	// Header, blank line and footer
	avail := height - 3
	plotHeight := max(avail*3/5-chartChrome, minRows)
	paneHeight := max(avail-plotHeight-chartChrome-paneChrome, minRows)

	labelWidth := len(YAxisLabels(m.chartBounds(), minRows)[0]) + labelGap
	return dims{
		width:      width,
		plotWidth:  max(width-4-labelWidth, minPlotWidth),
		plotHeight: plotHeight,
		paneWidth:  max(width/2-4, minPlotWidth),
		paneHeight: paneHeight,
	}
}

// chartBounds returns the y range for the current snapshot.
func (m Model) chartBounds() series.Range {
	if m.snapshot.HasBounds {
		return m.snapshot.Bounds
	}
	return emptyBounds
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	l := m.layout()

	var b strings.Builder
	b.WriteString(m.renderHeader(l.width))
	b.WriteString("\n\n")
	b.WriteString(m.renderChart(l))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderLogPane(l), m.renderRawPane(l)))
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderHeader renders the title bar with session state and alarm flash.
func (m Model) renderHeader(width int) string {
	snap := m.snapshot

	state := StatusClosedStyle.Render(StatusClosed + " closed")
	if snap.State == viewer.StateOpen {
		state = StatusOpenStyle.Render(StatusOpen + " " + snap.Port)
	}

	parts := []string{
		lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render("serialscope"),
		state,
		LabelStyle.Render(fmt.Sprintf("threshold %g", snap.Threshold)),
	}
	if snap.Hex {
		parts = append(parts, LabelStyle.Render("hex"))
	}
	if len(m.ports) > 0 {
		parts = append(parts, LabelStyle.Render(fmt.Sprintf("%d ports", len(m.ports))))
	}
	if spark := ui.RenderSparkline(values(snap.Visible), sparkWidth, snap.Threshold); spark != "" {
		parts = append(parts, spark)
	}

	style := HeaderStyle
	if m.Flashing() {
		parts = append(parts, ui.SymbolWarning+" ALARM")
		style = AlarmHeaderStyle
	}
	return style.Width(width).Render(strings.Join(parts, " | "))
}

// renderChart renders the plot with its axes and status line.
func (m Model) renderChart(l dims) string {
	snap := m.snapshot
	bounds := m.chartBounds()

	plot := strings.Split(RenderChart(Chart{
		Samples:   snap.Visible,
		From:      snap.From,
		To:        snap.To,
		Bounds:    bounds,
		Threshold: snap.Threshold,
		Width:     l.plotWidth,
		Height:    l.plotHeight,
	}), "\n")
	labels := YAxisLabels(bounds, l.plotHeight)

	rows := make([]string, 0, len(plot)+3)
	rows = append(rows, PanelTitleStyle.Render("Signal"))
	for i, line := range plot {
		rows = append(rows, MutedStyle.Render(labels[i]+" ┤")+line)
	}
	indent := strings.Repeat(" ", len(labels[0])+labelGap)
	rows = append(rows, MutedStyle.Render(indent+XAxisLabel(snap.Window, l.plotWidth)))
	rows = append(rows, m.statusLine())

	return PanelStyle.Width(l.width - 2).Render(strings.Join(rows, "\n"))
}

// statusLine summarizes the series under the chart.
func (m Model) statusLine() string {
	snap := m.snapshot
	if !snap.HasLatest {
		return MutedStyle.Render("waiting for data")
	}
	latest := lipgloss.NewStyle().
		Foreground(ValueColor(snap.Latest.Value, snap.Threshold)).
		Render(fmt.Sprintf("%.2f", snap.Latest.Value))
	return LabelStyle.Render(fmt.Sprintf("%d points | latest ", len(snap.Samples))) +
		latest +
		LabelStyle.Render(" | updated "+snap.Updated.Format(eventlog.TimestampLayout))
}

// renderLogPane renders the scrollable event log.
func (m Model) renderLogPane(l dims) string {
	title := PanelTitleStyle.Render(fmt.Sprintf("Events (%d)", len(m.snapshot.Entries)))
	body := m.logView.View()
	return PanelStyle.Width(l.paneWidth + 2).Render(title + "\n" + body)
}

// renderRawPane renders the newest raw lines, oldest at the top.
func (m Model) renderRawPane(l dims) string {
	title := "Raw data"
	if m.snapshot.Hex {
		title += " (hex)"
	}

	raw := m.snapshot.Raw
	if len(raw) > l.paneHeight {
		raw = raw[len(raw)-l.paneHeight:]
	}
	clip := lipgloss.NewStyle().MaxWidth(l.paneWidth)
	lines := make([]string, len(raw))
	for i, r := range raw {
		lines[i] = clip.Render(r)
	}

	body := ValueStyle.Render(strings.Join(lines, "\n"))
	return PanelStyle.Width(l.paneWidth + 2).Render(PanelTitleStyle.Render(title) + "\n" + body)
}

func values(samples []series.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}
