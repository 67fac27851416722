// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package staticview is a convenience dsl.ViewSource backed by a YAML
// document mapping view names to field lists. It is not required by the
// core engine — any dsl.ViewSource implementation works — but it is the
// shape most hosts reach for: a handful of named views checked into
// config alongside the rest of a service's static data.
package staticview

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cyriljoui/squiggly/dsl"
)

// Source resolves view names against an in-memory map loaded once at
// construction. It is safe for concurrent read-only use.
type Source struct {
	views map[string][]string
}

var _ dsl.ViewSource = (*Source)(nil)

// New builds a Source directly from a name -> fields map, useful for
// tests and programmatic registration.
func New(views map[string][]string) *Source {
	cp := make(map[string][]string, len(views))
	for k, v := range views {
		cp[k] = append([]string(nil), v...)
	}
	return &Source{views: cp}
}

// document is the YAML shape Load expects:
//
//	views:
//	  summaryView: [id, issueSummary]
//	  reporterView: [reporter]
type document struct {
	Views map[string][]string `yaml:"views"`
}

// Load reads a YAML file of the document shape above and returns a Source
// over its views.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("staticview: read %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("staticview: parse %s: %w", path, err)
	}
	return New(doc.Views), nil
}

// ResolveView implements dsl.ViewSource.
func (s *Source) ResolveView(name string) ([]string, bool) {
	fields, ok := s.views[name]
	return fields, ok
}
