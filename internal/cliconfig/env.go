package cliconfig

import "os"

// Environment variable names
const (
	EnvLogLevel  = "FTH_LOG_LEVEL"
	EnvLogFormat = "FTH_LOG_FORMAT"
	EnvDriver    = "FTH_DRIVER"
	EnvDSN       = "FTH_DSN"
	EnvStrategy  = "FTH_STRATEGY"
	EnvBaseDir   = "FTH_BASE_DIR"
	EnvConfig    = "FTH_CONFIG"
)

var envKeys = []struct {
	env string
	key string
}{
	{EnvLogLevel, "logLevel"},
	{EnvLogFormat, "logFormat"},
	{EnvDriver, "driver"},
	{EnvDSN, "dsn"},
	{EnvStrategy, "strategy"},
	{EnvBaseDir, "baseDir"},
}

// LoadEnvConfig applies the FTH_* variables present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	for _, e := range envKeys {
		if v := os.Getenv(e.env); v != "" {
			cfg.Set(e.key, v, SourceEnv)
		}
	}
}
