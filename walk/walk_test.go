// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package walk_test

import (
	"testing"

	"github.com/cyriljoui/squiggly/dsl"
	"github.com/cyriljoui/squiggly/jsonnode"
	"github.com/cyriljoui/squiggly/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, doc, filterText string) string {
	t.Helper()
	n, err := jsonnode.Parse([]byte(doc))
	require.NoError(t, err)
	f, err := dsl.Parse(filterText)
	require.NoError(t, err)
	out, err := walk.Walk[any](n, jsonnode.Builder{}, f.Root(), walk.Options{})
	require.NoError(t, err)
	raw, err := jsonnode.Marshal(out.(*jsonnode.Node))
	require.NoError(t, err)
	return string(raw)
}

func TestWalk_SelectsTopLevelFields(t *testing.T) {
	out := apply(t, `{"id":1,"issueSummary":"x","extra":"drop me"}`, "id,issueSummary")
	assert.JSONEq(t, `{"id":1,"issueSummary":"x"}`, out)
}

func TestWalk_NestedSelection(t *testing.T) {
	doc := `{"actions":{"user":{"firstName":"Ada","lastName":"Lovelace"}}}`
	out := apply(t, doc, "actions.user[firstName]")
	assert.JSONEq(t, `{"actions":{"user":{"firstName":"Ada"}}}`, out)
}

func TestWalk_AnyDeepWithExclusion(t *testing.T) {
	doc := `{"id":1,"reporter":{"firstName":"Ada","lastName":"Lovelace"}}`
	out := apply(t, doc, "**,reporter[-firstName]")
	assert.JSONEq(t, `{"id":1,"reporter":{"lastName":"Lovelace"}}`, out)
}

func TestWalk_EmptyNestedPrunesAllChildren(t *testing.T) {
	doc := `{"assignee":{"firstName":"Ada","lastName":"Lovelace"}}`
	out := apply(t, doc, "assignee[]")
	assert.JSONEq(t, `{"assignee":{}}`, out)
}

func TestWalk_ArraysOfObjects(t *testing.T) {
	doc := `{"actions":[{"user":{"firstName":"Ada"}},{"user":{"firstName":"Grace"}}]}`
	out := apply(t, doc, "actions.user[firstName]")
	assert.JSONEq(t, `{"actions":[{"user":{"firstName":"Ada"}},{"user":{"firstName":"Grace"}}]}`, out)
}

func TestWalk_EmptyFilterSelectsNothing(t *testing.T) {
	out := apply(t, `{"id":1}`, "")
	assert.JSONEq(t, `{}`, out)
}
