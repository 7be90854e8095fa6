// Package cli provides the fth command-line interface.
//
// Commands:
//   - match: send one request through pattern fixture files and show the answer
//   - list: validate pattern fixture files and list their patterns
//   - schema apply: create tables and insert seed data
//   - schema reset: delete all rows and restart identity sequences
//   - version: show fth version
//
// Global flags --log-level, --log-format and --log-file control logging;
// everything else can also come from FTH_* variables or .fth.yaml.
package cli
