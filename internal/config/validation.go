package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for inconsistencies. It returns
// ValidationErrors listing every problem found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	if c.Definitions.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "definitions.path",
			Message: "must not be empty",
		})
	}
	switch c.Definitions.Format {
	case "auto", "ahk", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "definitions.format",
			Message: fmt.Sprintf("unknown format %q (want auto, ahk, or json)", c.Definitions.Format),
		})
	}

	if c.Output.KeyDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "output.key_delay_ms",
			Message: "must not be negative",
		})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Logging.Level),
		})
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json", "":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", c.Logging.Format),
		})
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr", "file", "both", "":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("unknown output %q", c.Logging.Output),
		})
	}
	if out := strings.ToLower(c.Logging.Output); (out == "file" || out == "both") && c.Logging.FilePath == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file_path",
			Message: "required when logging to a file",
		})
	}

	if c.Stats.Enabled && c.Stats.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "stats.path",
			Message: "required when stats are enabled",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
