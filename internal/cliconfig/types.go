package cliconfig

import (
	"fmt"
	"strings"
)

// CLIConfig is the complete configuration of the fth CLI.
type CLIConfig struct {
	// Logging settings
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// Database settings used by `fth schema`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Strategy string `yaml:"strategy"`

	// BaseDir resolves relative response body files of pattern fixtures.
	// Empty means the directory of each pattern file.
	BaseDir string `yaml:"baseDir"`

	// Sources tracks where each value came from, keyed by YAML name.
	Sources map[string]string `yaml:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// Validate checks enumerated settings.
func (c *CLIConfig) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	switch strings.ToLower(c.Strategy) {
	case "memory", "persistent":
	default:
		return fmt.Errorf("strategy %q is not one of memory, persistent", c.Strategy)
	}
	if c.Driver == "" {
		return fmt.Errorf("driver must not be empty")
	}
	return nil
}

// Set assigns the value for key and records source. Unknown keys are ignored.
func (c *CLIConfig) Set(key, value, source string) {
	switch key {
	case "logLevel":
		c.LogLevel = value
	case "logFormat":
		c.LogFormat = value
	case "driver":
		c.Driver = value
	case "dsn":
		c.DSN = value
	case "strategy":
		c.Strategy = value
	case "baseDir":
		c.BaseDir = value
	default:
		return
	}
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}
