// Package monitor implements the full-screen oscilloscope dashboard.
//
// The dashboard shows the rolling series as a braille trace over the alarm
// threshold, the newest-first event log, and the raw lines as received.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds the last controller snapshot, layout and overlay state
//   - Update: Processes keystrokes, redraw ticks and session results
//   - View: Renders the current snapshot to a string for display
//
// # Message Flow
//
// The controller processes lines on its own goroutine and is never blocked
// by the UI. The dashboard pulls instead:
//
//  1. tickMsg fires at the render interval (default 100ms)
//  2. Model.refresh takes a viewer.Snapshot and notices new alarms
//  3. View() redraws the chart, log and raw panes from the snapshot
//
// Opening and closing the port run as tea.Cmds so a slow device never
// stalls the event loop.
//
// # Keyboard Shortcuts
//
//	o           - Open or close the configured port
//	t           - Replace the session with the test signal
//	p           - Re-enumerate serial ports
//	h           - Toggle hex view
//	+ / -       - Raise or lower the alarm threshold by 1
//	r           - Reset the view (drop charted samples)
//	c           - Clear the event log
//	↑/↓, j/k    - Scroll the event log
//	?           - Toggle help overlay
//	q, Ctrl+C   - Quit
package monitor
