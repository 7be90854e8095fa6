package cliconfig

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".fth.yaml", ".fth.yml"}

// FindLocalConfig searches dir for a local config file.
// Returns empty string if there is none.
func FindLocalConfig(dir string) string {
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a CLIConfig from a YAML file. Unknown keys are errors.
// Sources lists the keys present in the file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, newConfigError(path, err)
	}

	var keys map[string]any
	_ = yaml.Unmarshal(data, &keys)
	cfg.Sources = make(map[string]string, len(keys))
	for k := range keys {
		cfg.Sources[k] = SourceLocal
	}
	return &cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

var yamlLine = regexp.MustCompile(`line (\d+): `)

func newConfigError(path string, err error) *ConfigError {
	msg := err.Error()
	ce := &ConfigError{Path: path, Message: msg}
	if loc := yamlLine.FindStringSubmatchIndex(msg); loc != nil {
		ce.Line, _ = strconv.Atoi(msg[loc[2]:loc[3]])
		ce.Message = msg[loc[1]:]
	}
	return ce
}

// MergeConfig copies the values source has a source entry for into target.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	values := map[string]string{
		"logLevel":  source.LogLevel,
		"logFormat": source.LogFormat,
		"driver":    source.Driver,
		"dsn":       source.DSN,
		"strategy":  source.Strategy,
		"baseDir":   source.BaseDir,
	}
	for key, v := range values {
		if _, ok := source.Sources[key]; ok {
			target.Set(key, v, sourceType)
		}
	}
}

// LoadAll loads configuration from all sources below flags and merges them.
// The local config is FTH_CONFIG when set, otherwise .fth.yaml in dir.
// A broken config file is an error; a missing one is not.
func LoadAll(dir string) (*CLIConfig, error) {
	cfg := NewDefault()

	path := os.Getenv(EnvConfig)
	if path == "" {
		path = FindLocalConfig(dir)
	}
	if path != "" {
		local, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, local, SourceLocal)
	}

	LoadEnvConfig(cfg)
	return cfg, nil
}
