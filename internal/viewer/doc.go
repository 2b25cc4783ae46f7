// Package viewer wires the parsing, charting, alarm and log pieces into a
// single session controller.
//
// # Session lifecycle
//
// A Controller is either Closed or Open. Open takes an Opener that produces a
// transport.Source; on success one processing goroutine consumes the source's
// lines until Close. Opening twice logs a warning and returns ErrAlreadyOpen.
// Closing a closed controller does nothing.
//
// # Processing
//
// Each line runs through lineparse.Parse. Every value is appended to the
// rolling series and checked against the alarm debouncer; alarms are logged
// at Warning and passed to the AlertFunc. Invalid segments are logged at
// Warning, transport errors at Error. Nothing that arrives on a line can end
// the session.
//
// # Rendering
//
// Presentation code never touches the series or log directly. It calls
// Snapshot on its own tick and may register one Observer to learn that new
// data arrived.
package viewer
