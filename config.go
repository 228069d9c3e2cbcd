package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/xyproto/env/v2"
)

// Config holds settings that come from the environment. Command-line flags
// are applied on top by the CLI.
type Config struct {
	CC        string   // driver used to assemble and link: $MINICC_CC, then $CC, then "cc"
	LDFlags   []string // extra driver flags: $MINICC_LDFLAGS
	Verbose   bool     // $MINICC_VERBOSE
	KeepTemps bool     // keep build directories: $MINICC_KEEP_TEMPS
}

// LoadConfig reads Config from the environment. The env package caches
// variables on first use, so the cache is refreshed before each read.
func LoadConfig() Config {
	env.Load()
	return Config{
		CC:        env.Str("MINICC_CC", env.Str("CC", "cc")),
		LDFlags:   strings.Fields(env.Str("MINICC_LDFLAGS")),
		Verbose:   env.Bool("MINICC_VERBOSE"),
		KeepTemps: env.Bool("MINICC_KEEP_TEMPS"),
	}
}

// logf prints a progress line to stderr when verbose output is enabled.
// Stdout is reserved for assembly.
func (c Config) logf(format string, args ...any) {
	if !c.Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "minicc: "+format+"\n", args...)
}
