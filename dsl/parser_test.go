// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package dsl_test

import (
	"testing"

	"github.com/cyriljoui/squiggly/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleField(t *testing.T) {
	f, err := dsl.Parse("id")
	require.NoError(t, err)
	require.Len(t, f.Statements, 1)
	root := f.Statements[0].Root
	assert.Equal(t, "id", root.Name)
	assert.Equal(t, dsl.KindExact, root.Kind)
	assert.False(t, root.Negated)
}

func TestParse_CommaList(t *testing.T) {
	f, err := dsl.Parse("id,issueSummary")
	require.NoError(t, err)
	require.Len(t, f.Statements, 2)
	assert.Equal(t, "id", f.Statements[0].Root.Name)
	assert.Equal(t, "issueSummary", f.Statements[1].Root.Name)
}

func TestParse_NestedBraceAndBracketInterchangeable(t *testing.T) {
	a, err := dsl.Parse("assignee{firstName}")
	require.NoError(t, err)
	b, err := dsl.Parse("assignee[firstName]")
	require.NoError(t, err)

	require.Len(t, a.Statements[0].Root.Children, 1)
	require.Len(t, b.Statements[0].Root.Children, 1)
	assert.Equal(t, a.Statements[0].Root.Children[0].Name, b.Statements[0].Root.Children[0].Name)
}

func TestParse_DotPathSugar(t *testing.T) {
	dotted, err := dsl.Parse("actions.user.firstName")
	require.NoError(t, err)
	braced, err := dsl.Parse("actions{user{firstName}}")
	require.NoError(t, err)

	root := dotted.Statements[0].Root
	assert.True(t, root.Squiggly)
	require.Len(t, root.Children, 1)
	user := root.Children[0]
	assert.False(t, user.Squiggly, "intermediate dot-path node must be non-squiggly")
	require.Len(t, user.Children, 1)
	firstName := user.Children[0]
	assert.Equal(t, "firstName", firstName.Name)
	assert.False(t, firstName.Squiggly)

	bracedRoot := braced.Statements[0].Root
	assert.True(t, bracedRoot.Squiggly)
	assert.True(t, bracedRoot.Children[0].Squiggly, "explicit block stays squiggly")
	assert.Equal(t, root.Name, bracedRoot.Name)
	assert.Equal(t, root.Children[0].Name, bracedRoot.Children[0].Name)
	assert.Equal(t, root.Children[0].Children[0].Name, bracedRoot.Children[0].Children[0].Name)
}

func TestParse_Negation(t *testing.T) {
	f, err := dsl.Parse("reporter[-firstName]")
	require.NoError(t, err)
	reporter := f.Statements[0].Root
	require.Len(t, reporter.Children, 1)
	assert.True(t, reporter.Children[0].Negated)
	assert.Equal(t, "firstName", reporter.Children[0].Name)
}

func TestParse_EmptyNestedPrunesChildren(t *testing.T) {
	f, err := dsl.Parse("assignee[]")
	require.NoError(t, err)
	assignee := f.Statements[0].Root
	assert.True(t, assignee.EmptyNested)
	assert.Empty(t, assignee.Children)
}

func TestParse_Wildcards(t *testing.T) {
	f, err := dsl.Parse("**")
	require.NoError(t, err)
	assert.Equal(t, dsl.KindAnyDeep, f.Statements[0].Root.Kind)

	f, err = dsl.Parse("*")
	require.NoError(t, err)
	assert.Equal(t, dsl.KindAnyShallow, f.Statements[0].Root.Kind)
}

func TestParse_Glob(t *testing.T) {
	f, err := dsl.Parse("issue*")
	require.NoError(t, err)
	root := f.Statements[0].Root
	assert.Equal(t, dsl.KindGlob, root.Kind)
	assert.Equal(t, "issue", root.RawName)
}

func TestParse_Regex(t *testing.T) {
	f, err := dsl.Parse(`~iss[a-z]e.*~`)
	require.NoError(t, err)
	root := f.Statements[0].Root
	assert.Equal(t, dsl.KindRegex, root.Kind)

	f2, err := dsl.Parse(`/ISS[A-Z]E.*/i`)
	require.NoError(t, err)
	assert.Equal(t, dsl.KindRegex, f2.Statements[0].Root.Kind)
}

func TestParse_GroupDistributesNested(t *testing.T) {
	f, err := dsl.Parse("(a,b)[tail]")
	require.NoError(t, err)
	require.Len(t, f.Statements, 2)
	a := f.Statements[0].Root
	b := f.Statements[1].Root
	require.Len(t, a.Children, 1)
	require.Len(t, b.Children, 1)
	assert.Equal(t, "tail", a.Children[0].Name)
	assert.Equal(t, "tail", b.Children[0].Name)
	// children must be independently owned, not aliased
	assert.NotSame(t, a.Children[0], b.Children[0])
	assert.Same(t, a, a.Children[0].Parent)
	assert.Same(t, b, b.Children[0].Parent)
}

func TestParse_NegatedGroup(t *testing.T) {
	f, err := dsl.Parse("-(a,b)")
	require.NoError(t, err)
	require.Len(t, f.Statements, 2)
	assert.True(t, f.Statements[0].Root.Negated)
	assert.True(t, f.Statements[1].Root.Negated)
}

func TestParse_Functions(t *testing.T) {
	f, err := dsl.Parse(`firstName@upper.truncate(3,"...")`)
	require.NoError(t, err)
	root := f.Statements[0].Root
	require.Len(t, root.ValueFunctions, 2)
	assert.Equal(t, "upper", root.ValueFunctions[0].Name)
	assert.Equal(t, "truncate", root.ValueFunctions[1].Name)
	require.Len(t, root.ValueFunctions[1].Arguments, 2)
	assert.EqualValues(t, 3, root.ValueFunctions[1].Arguments[0].Literal)
	assert.Equal(t, "...", root.ValueFunctions[1].Arguments[1].Literal)
}

func TestParse_FunctionArgumentVariants(t *testing.T) {
	f, err := dsl.Parse(`x@f(ref,g(1),-2,true)`)
	require.NoError(t, err)
	args := f.Statements[0].Root.ValueFunctions[0].Arguments
	require.Len(t, args, 4)
	assert.Equal(t, dsl.ArgRef, args[0].Kind)
	assert.Equal(t, "ref", args[0].Ref)
	assert.Equal(t, dsl.ArgCall, args[1].Kind)
	assert.Equal(t, "g", args[1].Call.Name)
	assert.Equal(t, dsl.ArgLiteral, args[2].Kind)
	assert.EqualValues(t, -2, args[2].Literal)
	assert.Equal(t, dsl.ArgLiteral, args[3].Kind)
	assert.Equal(t, true, args[3].Literal)
}

func TestParse_ViewExpansion(t *testing.T) {
	views := staticViews{"summary": {"id", "issueSummary"}}
	f, err := dsl.ParseWithViews("summary[extra]", views)
	require.NoError(t, err)
	require.Len(t, f.Statements, 2)
	assert.Equal(t, "id", f.Statements[0].Root.Name)
	assert.Equal(t, "issueSummary", f.Statements[1].Root.Name)
	assert.Equal(t, "extra", f.Statements[0].Root.Children[0].Name)
}

func TestParse_DisallowsNameWithOnlyDash(t *testing.T) {
	_, err := dsl.Parse("-")
	require.Error(t, err)
	var synErr *dsl.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestParse_UnterminatedBlockIsSyntaxError(t *testing.T) {
	_, err := dsl.Parse("assignee{firstName")
	require.Error(t, err)
	var synErr *dsl.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestParse_CacheTransparency(t *testing.T) {
	f1, err := dsl.Parse("id,actions.user[firstName]")
	require.NoError(t, err)
	f2, err := dsl.Parse("id,actions.user[firstName]")
	require.NoError(t, err)
	assert.Equal(t, f1.Statements[0].Root.Name, f2.Statements[0].Root.Name)
	assert.Equal(t, f1.Statements[1].Root.Children[0].Children[0].Name,
		f2.Statements[1].Root.Children[0].Children[0].Name)
}

type staticViews map[string][]string

func (s staticViews) ResolveView(name string) ([]string, bool) {
	fields, ok := s[name]
	return fields, ok
}
