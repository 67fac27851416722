// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package jsonnode_test

import (
	"testing"

	"github.com/cyriljoui/squiggly/jsonnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	n, err := jsonnode.Parse([]byte(`{"z":1,"a":2,"m":3}`))
	require.NoError(t, err)
	require.True(t, n.IsObject())
	fields := n.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{fields[0].Key, fields[1].Key, fields[2].Key})
}

func TestParse_NestedArraysAndObjects(t *testing.T) {
	n, err := jsonnode.Parse([]byte(`{"actions":[{"user":{"firstName":"Ada"}}]}`))
	require.NoError(t, err)
	actions := n.Fields()[0].Node
	require.True(t, actions.IsArray())
	elems := actions.Elements()
	require.Len(t, elems, 1)
	require.True(t, elems[0].IsObject())
}

func TestMarshal_RoundTripsKeyOrder(t *testing.T) {
	n, err := jsonnode.Parse([]byte(`{"z":1,"a":2}`))
	require.NoError(t, err)
	out, err := jsonnode.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":2}`, string(out))
	assert.Equal(t, `{"z":1,"a":2}`, string(out))
}
