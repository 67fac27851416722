// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the squigglyfmt CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squigglyfmt",
		Short: "squigglyfmt - apply squiggly property filters to JSON",
		Long: `squigglyfmt reads a JSON document from stdin, applies one or more
squiggly filter expressions, and writes the filtered document to stdout.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newApplyCmd())

	return cmd
}
