// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cyriljoui/squiggly"
	"github.com/cyriljoui/squiggly/config"
	"github.com/cyriljoui/squiggly/jsonnode"
)

// applyConfig holds configuration for the apply command.
type applyConfig struct {
	filters  []string
	cfgFiles []string
}

// newApplyCmd creates the apply subcommand with all flags configured.
func newApplyCmd() *cobra.Command {
	cfg := &applyConfig{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply one or more filter expressions to a JSON document read from stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, cfg)
		},
	}

	cmd.Flags().StringArrayVarP(&cfg.filters, "filter", "f", nil, "squiggly filter expression (repeatable; applied in order)")
	cmd.Flags().StringArrayVarP(&cfg.cfgFiles, "config-file", "c", nil, "path to a squiggly config YAML file (repeatable)")

	return cmd
}

func runApply(cmd *cobra.Command, cfg *applyConfig) error {
	loaded, err := loadConfig(cmd.Flags(), cfg.cfgFiles)
	if err != nil {
		return fmt.Errorf("squigglyfmt: load config: %w", err)
	}

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("squigglyfmt: read stdin: %w", err)
	}

	doc, err := jsonnode.Parse(input)
	if err != nil {
		return fmt.Errorf("squigglyfmt: parse input JSON: %w", err)
	}

	engine := squiggly.New(squiggly.WithConfig(*loaded))
	out, err := squiggly.Apply[any](engine, doc, jsonnode.Builder{}, cfg.filters)
	if err != nil {
		return fmt.Errorf("squigglyfmt: apply filters: %w", err)
	}

	raw, err := jsonnode.Marshal(out.(*jsonnode.Node))
	if err != nil {
		return fmt.Errorf("squigglyfmt: marshal output JSON: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}

func loadConfig(flags *pflag.FlagSet, paths []string) (*config.Config, error) {
	if len(paths) == 0 {
		if configFile != "" {
			paths = []string{configFile}
		}
	}
	return config.Load(flags, paths...)
}
