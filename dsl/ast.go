// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package dsl

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Kind classifies how an ExpressionNode's name matches a path element.
type Kind int

const (
	KindExact Kind = iota
	KindAnyShallow
	KindAnyDeep
	KindGlob
	KindRegex
	// kindSyntheticRoot is never produced by the parser; it marks the
	// implicit wrapper node a Filter builds over its statement roots so
	// the matcher has a single entry point regardless of statement count.
	kindSyntheticRoot
)

// Filter is an ordered sequence of Statements, combined by set-union over
// matched paths.
type Filter struct {
	Statements []*Statement

	// root is the synthetic wrapper built lazily by Root(); see kindSyntheticRoot.
	root *ExpressionNode
}

// Root returns (building and caching on first use) a synthetic
// ExpressionNode whose children are this Filter's statement roots, in
// declaration order. The matcher descends from this node, which is how a
// multi-statement Filter presents a single match(path, expr_root) entry
// point per spec.
func (f *Filter) Root() *ExpressionNode {
	if f.root != nil {
		return f.root
	}
	children := make([]*ExpressionNode, 0, len(f.Statements))
	for _, s := range f.Statements {
		children = append(children, s.Root)
	}
	f.root = WrapRoots(children...)
	return f.root
}

// WrapRoots builds a synthetic root node over the given expressions, the
// same technique Filter.Root uses for a whole filter's statements. It lets
// callers present an arbitrary set of top-level expressions as a single
// match.Match root argument.
func WrapRoots(nodes ...*ExpressionNode) *ExpressionNode {
	return &ExpressionNode{Kind: kindSyntheticRoot, Children: nodes}
}

// Statement holds one top-level comma-separated branch of a Filter.
type Statement struct {
	Root *ExpressionNode
}

// ExpressionNode is the central AST entity: one path segment and its
// nested projection. Once built an ExpressionNode is immutable and safe
// to share across concurrent walks.
type ExpressionNode struct {
	Name    string
	RawName string
	Kind    Kind

	Negated     bool
	Squiggly    bool
	EmptyNested bool

	// Regex holds the compiled pattern for Kind == KindRegex; Glob holds
	// the compiled matcher for Kind == KindGlob.
	Regex      *regexp.Regexp
	Glob       glob.Glob
	regexFlags string

	Children []*ExpressionNode

	KeyFunctions   []*FunctionCall
	ValueFunctions []*FunctionCall

	// Parent is a non-owning back-reference; children are owned solely by
	// the parent's Children slice. Never used to free or reparent nodes.
	Parent *ExpressionNode
}

// newExpressionNode builds a leaf ExpressionNode for the given raw token
// text, classifying it into a Kind and compiling glob/regex patterns where
// needed. name must be non-empty; the literal "-" is rejected by the
// parser before this is called.
func newExpressionNode(text string) (*ExpressionNode, error) {
	n := &ExpressionNode{Name: text}
	switch {
	case text == "**":
		n.Kind = KindAnyDeep
		n.RawName = ""
	case text == "*":
		n.Kind = KindAnyShallow
		n.RawName = ""
	case strings.ContainsAny(text, "*?"):
		n.Kind = KindGlob
		n.RawName = stripWildcards(text)
		g, err := glob.Compile(text, '.')
		if err != nil {
			return nil, err
		}
		n.Glob = g
	default:
		n.Kind = KindExact
		n.RawName = text
	}
	return n, nil
}

// newRegexNode builds a leaf ExpressionNode from a regex literal's pattern
// and flags (flags currently supports only "i", case-insensitive).
func newRegexNode(pattern, flags string) (*ExpressionNode, error) {
	goPattern := pattern
	if strings.Contains(flags, "i") {
		goPattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(goPattern)
	if err != nil {
		return nil, err
	}
	return &ExpressionNode{
		Name:       pattern,
		RawName:    pattern,
		Kind:       KindRegex,
		Regex:      re,
		regexFlags: flags,
	}, nil
}

func stripWildcards(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '*' || r == '?' {
			return -1
		}
		return r
	}, s)
}

// Matches reports whether this node's pattern matches the given object
// key, independent of specificity scoring (see package match).
func (n *ExpressionNode) Matches(key string) bool {
	switch n.Kind {
	case KindExact:
		return n.Name == key
	case KindAnyShallow, KindAnyDeep:
		return true
	case KindGlob:
		return n.Glob.Match(key)
	case KindRegex:
		return n.Regex.MatchString(key)
	default:
		return false
	}
}

// FunctionCall is one `name(args...)` invocation attached to an
// ExpressionNode's key- or value-function chain.
type FunctionCall struct {
	Name      string
	Arguments []Argument
}

// ArgKind distinguishes the three shapes an Argument may take.
type ArgKind int

const (
	ArgLiteral ArgKind = iota
	ArgRef
	ArgCall
)

// Argument is a tagged variant: a literal value, a bare identifier
// reference, or a nested function call.
type Argument struct {
	Kind    ArgKind
	Literal any // string, int64, or bool
	Ref     string
	Call    *FunctionCall
}
