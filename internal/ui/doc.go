// Package ui holds the styling shared by the CLI and the monitor: the color
// palette, log level colors and symbols, sparklines, and the interactive
// serial port picker.
//
// Log levels render as Info green, Warning orange, Error red:
//
//	fmt.Println(ui.FormatEntry(entry)) // [12:01:02.345] ⚠ invalid segment: x
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
package ui
