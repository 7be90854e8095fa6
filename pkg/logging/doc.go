// Package logging configures the log/slog loggers used by the registry, the
// schema strategies and the fth command.
//
// Library code takes a *slog.Logger through an option and falls back to
// Nop, so tests stay quiet unless they ask for output:
//
//	reg := httpmock.NewRegistry(httpmock.WithLogger(logging.ForTest(t, logging.LevelDebug)))
//
// ForTest routes records through t.Log, so they show up next to the failing
// test and only for failing or verbose runs.
//
// The command builds its logger from configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel(cfg.LogLevel),
//	    Format: logging.ParseFormat(cfg.LogFormat),
//	})
//
// When Config.File is set, records are also written there as JSON.
package logging
