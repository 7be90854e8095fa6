// Package cliconfig provides configuration types and loading for the fth CLI.
//
// Configuration is layered with the following precedence (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (FTH_* prefix)
//  3. Local config file (.fth.yaml in the working directory)
//  4. Default values
//
// The source of each value is tracked for `fth config`-style debugging output.
package cliconfig
