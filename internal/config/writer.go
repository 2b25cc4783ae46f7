package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/serialscope/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileHeader opens every generated config file.
const fileHeader = `serialscope configuration
Generated by 'serialscope init'. Every key is optional.`

// keyComments annotate generated files, keyed by dotted path.
var keyComments = map[string]string{
	"version":          "config schema version",
	"port":             "serial device; empty picks one interactively",
	"baud":             "bits per second",
	"data_bits":        "5 to 8",
	"parity":           "none, odd, even, mark or space",
	"stop_bits":        "1, 1.5 or 2",
	"read_timeout":     "per-read timeout",
	"hex":              "show raw bytes as hex instead of parsing values",
	"alarm.threshold":  "alarm when a value is above this",
	"alarm.interval":   "minimum time between alarms",
	"series.capacity":  "samples kept for the chart",
	"series.lookback":  "chart history shown",
	"series.lookahead": "empty space right of the newest sample",
	"log.capacity":     "event log entries kept",
	"render.interval":  "TUI redraw interval",
	"metrics.addr":     "Prometheus listen address like :9464; empty disables",
}

// Marshal renders cfg as commented YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var body yaml.Node
	if err := body.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	annotate(&body, "")

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: fileHeader,
		Content:     []*yaml.Node{&body},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return out, nil
}

// annotate attaches keyComments to the scalar values of a mapping node.
func annotate(node *yaml.Node, prefix string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		if value.Kind == yaml.MappingNode {
			annotate(value, path)
			continue
		}
		if comment, ok := keyComments[path]; ok {
			value.LineComment = comment
		}
	}
}

// WriteFile writes cfg to path. An existing file is only replaced when
// overwrite is set.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s already exists", path),
			"Use --force to overwrite it")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render config",
			"This is unexpected - please report it")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to create config directory "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check file permissions")
	}
	return nil
}
