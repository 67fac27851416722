// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package config loads the engine's tunables, layering a YAML file, the
// process environment, and command-line flags with koanf — the stack the
// teacher repo declares in its go.mod but never wires up; this package
// gives it a caller.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the five options of spec.md §6, with the defaults named
// there.
type Config struct {
	// AppendContextInNodeFilter controls whether an ambient filter
	// derived from the root bean's type is appended after user filters.
	AppendContextInNodeFilter bool `koanf:"append_context_in_node_filter"`

	// FilterImplicitlyIncludeBaseFieldsInView includes a type's base
	// (non-annotated) fields even when a view filter doesn't name them.
	FilterImplicitlyIncludeBaseFieldsInView bool `koanf:"filter_implicitly_include_base_fields_in_view"`

	// FilterPropagateViewToNestedFilters propagates the active view name
	// into nested object filters instead of resetting it.
	FilterPropagateViewToNestedFilters bool `koanf:"filter_propagate_view_to_nested_filters"`

	// PropertyAddNonAnnotatedFieldsToBaseView adds fields with no
	// explicit view annotation to the base view rather than excluding
	// them from every view.
	PropertyAddNonAnnotatedFieldsToBaseView bool `koanf:"property_add_non_annotated_fields_to_base_view"`

	// ParseCacheMaxEntries bounds the parse cache's LRU (spec §4.6).
	ParseCacheMaxEntries int `koanf:"parse_cache_max_entries"`
}

// Defaults returns the documented defaults for every option (spec §6).
func Defaults() Config {
	return Config{
		AppendContextInNodeFilter:               true,
		FilterImplicitlyIncludeBaseFieldsInView: true,
		FilterPropagateViewToNestedFilters:       false,
		PropertyAddNonAnnotatedFieldsToBaseView:  true,
		ParseCacheMaxEntries:                     10000,
	}
}

// EnvPrefix is the prefix koanf strips from environment variables, so
// SQUIGGLY_PARSE_CACHE_MAX_ENTRIES maps to parse_cache_max_entries.
const EnvPrefix = "SQUIGGLY_"

// Load builds a Config by layering, in increasing priority: the documented
// defaults, an optional YAML file at each of paths (later paths override
// earlier ones), the process environment (SQUIGGLY_* variables), and
// flags (if non-nil). Missing files are skipped rather than treated as
// errors; a malformed file is not.
func Load(flags *pflag.FlagSet, paths ...string) (*Config, error) {
	k := koanf.New(".")
	defaults := Defaults()
	defaultsMap := map[string]any{
		"append_context_in_node_filter":                defaults.AppendContextInNodeFilter,
		"filter_implicitly_include_base_fields_in_view": defaults.FilterImplicitlyIncludeBaseFieldsInView,
		"filter_propagate_view_to_nested_filters":       defaults.FilterPropagateViewToNestedFilters,
		"property_add_non_annotated_fields_to_base_view": defaults.PropertyAddNonAnnotatedFieldsToBaseView,
		"parse_cache_max_entries":                        defaults.ParseCacheMaxEntries,
	}
	if err := k.Load(confmap.Provider(defaultsMap, "."), nil); err != nil {
		return nil, oops.Wrapf(err, "load config defaults")
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, statErr := os.Stat(p); statErr != nil {
			continue
		}
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return nil, oops.With("path", p).Wrapf(err, "load config file")
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, oops.Wrapf(err, "load config environment")
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Wrapf(err, "load config flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Wrapf(err, "unmarshal config")
	}
	return &cfg, nil
}
