package cliconfig

// Default values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultDriver    = "sqlite3"
	DefaultDSN       = ":memory:"
	DefaultStrategy  = "memory"
)

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{Sources: make(map[string]string)}
	cfg.Set("logLevel", DefaultLogLevel, SourceDefault)
	cfg.Set("logFormat", DefaultLogFormat, SourceDefault)
	cfg.Set("driver", DefaultDriver, SourceDefault)
	cfg.Set("dsn", DefaultDSN, SourceDefault)
	cfg.Set("strategy", DefaultStrategy, SourceDefault)
	return cfg
}
