// Package cli implements the serialscope command-line interface.
//
// Each Cobra command parses its flags and delegates to a command function
// that takes explicit inputs and writers, so the work can be tested without
// a terminal:
//
//	serialscope watch       - Live dashboard (or event stream when piped)
//	serialscope ports       - List serial devices
//	serialscope parse       - Parse captured lines from stdin or files
//	serialscope init        - Write a commented .serialscope.yaml
//	serialscope doctor      - Diagnose config, port and terminal issues
//	serialscope version     - Print build information
//	serialscope completion  - Generate shell completion scripts
//
// Global flags (--config, --no-color) are defined on the root command.
// Configuration is loaded through internal/config, so SERIALSCOPE_* environment
// variables override file values for every command.
package cli
