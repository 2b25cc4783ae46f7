package doctor

import (
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/serialscope/internal/config"
	"github.com/rileyhilliard/serialscope/internal/errors"
)

// NewConfigChecks returns the CONFIG checks. explicit is the --config path,
// dir is where --fix writes a new file.
func NewConfigChecks(explicit, dir string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: explicit, Dir: dir},
		&ConfigSchemaCheck{ConfigPath: explicit},
	}
}

// ConfigFileCheck reports which config file is in use. Running on defaults
// is fine, so a missing file is only a warning.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
	Dir        string // Where Fix writes the default file
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %s", errors.Summarize(err)),
			Suggestion: "Check the --config path, or run 'serialscope init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: fmt.Sprintf("Run 'serialscope init' to create %s", config.ConfigFileName),
			Fixable:    c.ConfigPath == "",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

// Fix writes the default config into Dir.
func (c *ConfigFileCheck) Fix() error {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return config.WriteFile(filepath.Join(dir, config.ConfigFileName), config.DefaultConfig(), false)
}

// ConfigSchemaCheck verifies that the config loads and validates.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run() CheckResult {
	cfg, path, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", errors.Summarize(err)),
			Suggestion: "Check the YAML syntax and any SERIALSCOPE_* environment variables",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Invalid settings: %s", validationMessage(err)),
			Suggestion: "Fix the values named above",
		}
	}

	msg := "Settings valid"
	if path == "" {
		msg = "Default settings valid"
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: msg,
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Invalid values need a human
}

// validationMessage drops the cause Validate repeats in its message.
func validationMessage(err error) string {
	var scErr *errors.Error
	if stderrors.As(err, &scErr) {
		return scErr.Message
	}
	return err.Error()
}
