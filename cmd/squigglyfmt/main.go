// Package main is the entry point for the squigglyfmt CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/cyriljoui/squiggly/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	logging.SetDefault("squigglyfmt", version, "text")

	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("squigglyfmt failed", "error", err, "commit", commit, "date", date)
		os.Exit(1)
	}
}
