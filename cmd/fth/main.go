// fth CLI - runs HTTP mock patterns and database fixtures for functional tests
package main

import (
	"os"

	"github.com/daFish/functional-test-helpers/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	os.Exit(cli.Main())
}
