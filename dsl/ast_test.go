// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package dsl_test

import (
	"testing"

	"github.com/cyriljoui/squiggly/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_RootWrapsStatementsInOrder(t *testing.T) {
	f, err := dsl.Parse("id,issueSummary,assignee")
	require.NoError(t, err)

	root := f.Root()
	require.Len(t, root.Children, 3)
	assert.Equal(t, "id", root.Children[0].Name)
	assert.Equal(t, "issueSummary", root.Children[1].Name)
	assert.Equal(t, "assignee", root.Children[2].Name)

	// cached across calls
	assert.Same(t, root, f.Root())
}

func TestFilter_EmptyFilterHasNoStatements(t *testing.T) {
	f, err := dsl.Parse("")
	require.NoError(t, err)
	assert.Empty(t, f.Statements)
	assert.Empty(t, f.Root().Children)
}
