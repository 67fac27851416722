// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package staticview_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyriljoui/squiggly/staticview"
)

func TestSource_ResolveViewFromMap(t *testing.T) {
	s := staticview.New(map[string][]string{"summaryView": {"id", "issueSummary"}})
	fields, ok := s.ResolveView("summaryView")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "issueSummary"}, fields)
}

func TestSource_ResolveViewUnknownNameMisses(t *testing.T) {
	s := staticview.New(nil)
	_, ok := s.ResolveView("missing")
	assert.False(t, ok)
}

func TestLoad_ParsesYAMLViewsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "views.yaml")
	content := "views:\n  summaryView:\n    - id\n    - issueSummary\n  reporterView:\n    - reporter\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := staticview.Load(path)
	require.NoError(t, err)

	fields, ok := s.ResolveView("reporterView")
	require.True(t, ok)
	assert.Equal(t, []string{"reporter"}, fields)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := staticview.Load("/nonexistent/path/views.yaml")
	assert.Error(t, err)
}
