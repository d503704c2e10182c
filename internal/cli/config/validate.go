package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var outputModes = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(outputModes, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("invalid output %q\nHint: use one of %s", c.OutputFormat, strings.Join(outputModes, ", "))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q\nHint: use debug, info, warn or error", c.LogLevel)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	return nil
}
