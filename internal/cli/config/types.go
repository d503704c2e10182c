// Package config provides configuration management for the erdgen CLI.
package config

// Default configuration values.
const (
	DefaultOutputDir = "."
	DefaultOutput    = "auto"
	DefaultLogLevel  = "info"
	DefaultEnvPrefix = "ERDGEN_"
)

// ConfigFileNames are the files searched for in the working directory.
var ConfigFileNames = []string{"erdgen.yaml", "erdgen.yml"}

// Config holds all CLI configuration options.
type Config struct {
	OutputDir    string   `koanf:"output_dir"`
	Translators  []string `koanf:"translators"`
	Jobs         int      `koanf:"jobs"`
	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`
	LogLevel     string   `koanf:"log_level"`

	// Properties overrides translator properties, keyed by translator
	// display name and then property name.
	Properties map[string]map[string]any `koanf:"properties"`
}

// TranslatorProperties returns the configured overrides for a translator.
func (c *Config) TranslatorProperties(name string) map[string]any {
	if c == nil || c.Properties == nil {
		return nil
	}
	return c.Properties[name]
}
