package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/daFish/functional-test-helpers/internal/cliconfig"
	"github.com/daFish/functional-test-helpers/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// app is the state shared by the commands of one invocation.
type app struct {
	cfg *cliconfig.CLIConfig
	log *slog.Logger

	logFile string
	file    *os.File

	stdout io.Writer
	stderr io.Writer
}

// newRootCmd builds the command tree writing to stdout and stderr.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{stdout: stdout, stderr: stderr, log: logging.Nop()}

	root := &cobra.Command{
		Use:   "fth",
		Short: "fth runs HTTP mock patterns and database fixtures for functional tests",
		Long: `fth checks which recorded request pattern answers a request and applies
database schema and seed data fixtures.

Configuration can be provided via flags, FTH_* environment variables, or a
.fth.yaml file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text, json")
	pf.StringVar(&a.logFile, "log-file", "", "Also write JSON logs to this file")

	root.AddCommand(
		newMatchCmd(a),
		newListCmd(a),
		newSchemaCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := cliconfig.LoadAll(dir)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logCfg := logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: a.stderr,
	}
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.file = f
		logCfg.File = f
	}
	a.log = logging.New(logCfg)
	a.log.Debug("configuration loaded", "sources", cfg.Sources)
	return nil
}

func (a *app) close() {
	if a.file != nil {
		_ = a.file.Close()
		a.file = nil
	}
}

// configFlags maps flag names to configuration keys.
var configFlags = map[string]string{
	"log-level":  "logLevel",
	"log-format": "logFormat",
	"driver":     "driver",
	"dsn":        "dsn",
	"strategy":   "strategy",
	"base-dir":   "baseDir",
}

// applyFlags overrides configuration with the flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *cliconfig.CLIConfig) {
	for flag, key := range configFlags {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		cfg.Set(key, f.Value.String(), cliconfig.SourceFlag)
	}
}

// Run executes fth with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd(stdout, stderr)
	defer a.close()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		var exit *ExitError
		if errors.As(err, &exit) {
			return exit.Code
		}
		return 1
	}
	return 0
}

// Main runs fth with the process arguments.
func Main() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}
