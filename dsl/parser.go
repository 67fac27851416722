// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package dsl

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// --- grammar (see spec §4.2) ---
//
//	filter     := statement (',' statement)*
//	statement  := expression
//	expression := ['-'] name ['@' funcs] [nested]
//	name       := Name | Regex | '(' expression (',' expression)* ')'
//	nested     := '{' filter '}' | '[' filter ']' | '.' expression
//	funcs      := func ('.' func)*
//	func       := Name ['(' args? ')']
//
// rawExpr and friends are participle's recognition of this grammar; they
// hold the literal parse tree, position included, and carry no domain
// meaning of their own. lowerFilter and its helpers below turn a raw tree
// into Filter/ExpressionNode, resolving views, classifying names into
// Kinds, and desugaring dot-paths — work a struct-tag grammar cannot
// perform by itself, so it happens in a separate pass, the same shape as
// the teacher's validatePolicy/validateConditionBlock pass over an
// already-parsed Policy.

type rawFilter struct {
	Statements []*rawExpr `parser:"(@@ (',' @@)*)?"`
}

type rawExpr struct {
	Pos     lexer.Position `parser:""`
	Negated bool           `parser:"@'-'?"`
	Group   []*rawExpr     `parser:"(  '(' @@ (',' @@)* ')'"`
	Regex   string         `parser:" | @Regex"`
	Name    string         `parser:" | @Name )"`
	Funcs   []*rawFuncCall `parser:"('@' @@ ('.' @@)*)?"`
	Nested  *rawNested     `parser:"@@?"`
}

type rawNested struct {
	Brace *rawBlock `parser:"(  '{' @@ '}'"`
	Brack *rawBlock `parser:" | '[' @@ ']'"`
	Dot   *rawExpr  `parser:" | '.' @@ )"`
}

type rawBlock struct {
	Children []*rawExpr `parser:"(@@ (',' @@)*)?"`
}

type rawFuncCall struct {
	Pos  lexer.Position `parser:""`
	Name string         `parser:"@Name"`
	Call *rawCallArgs   `parser:"@@?"`
}

type rawCallArgs struct {
	Args []*rawArg `parser:"'(' (@@ (',' @@)*)? ')'"`
}

type rawArg struct {
	Pos lexer.Position `parser:""`
	Str *string        `parser:"(  @String"`
	Neg bool           `parser:" | (@'-'?"`
	Int *string        `parser:"      @Int)"`
	Ref *rawFuncCall   `parser:" | @@ )"`
}

// grammarParser is the singleton participle parser for the filter
// grammar, built once at package init, mirroring the teacher's own
// singleton *participle.Parser[Policy].
var grammarParser *participle.Parser[rawFilter]

func init() {
	var err error
	grammarParser, err = participle.Build[rawFilter](participle.Lexer(dslLexer))
	if err != nil {
		panic("dsl: failed to build filter grammar: " + err.Error())
	}
}

// Parse parses filter text with no view resolution.
func Parse(text string) (*Filter, error) {
	return ParseWithViews(text, nil)
}

// ParseWithViews parses filter text, resolving bare top-level names
// against views.
func ParseWithViews(text string, views ViewSource) (*Filter, error) {
	raw, err := grammarParser.ParseString("", text)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return lowerFilter(raw, views)
}

func lowerFilter(raw *rawFilter, views ViewSource) (*Filter, error) {
	var statements []*Statement
	for _, re := range raw.Statements {
		nodes, err := lowerExprList(re, views)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			statements = append(statements, &Statement{Root: n})
		}
	}
	return &Filter{Statements: statements}, nil
}

// lowerExprList lowers one `expression` production. It returns more than
// one node only when the expression's name was a parenthesized group or a
// resolved view, both of which distribute the shared '@funcs'/nested
// suffix across each member (spec §4.2, "the parenthesized form").
func lowerExprList(re *rawExpr, views ViewSource) ([]*ExpressionNode, error) {
	var nodes []*ExpressionNode

	switch {
	case len(re.Group) > 0:
		for _, member := range re.Group {
			members, err := lowerExprList(member, views)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, members...)
		}
		if re.Negated {
			for _, n := range nodes {
				n.Negated = true
			}
		}

	case re.Regex != "":
		pattern, flags := splitRegexLiteral(re.Regex)
		n, err := newRegexNode(pattern, flags)
		if err != nil {
			return nil, newSyntaxError(position(re.Pos), err.Error())
		}
		n.Negated = re.Negated
		nodes = []*ExpressionNode{n}

	default:
		text := re.Name
		viewResolved := false
		if views != nil {
			if fields, ok := views.ResolveView(text); ok {
				viewResolved = true
				for _, f := range fields {
					n, err := newExpressionNode(f)
					if err != nil {
						return nil, newSyntaxError(position(re.Pos), err.Error())
					}
					n.Negated = re.Negated
					nodes = append(nodes, n)
				}
			}
		}
		if !viewResolved {
			n, err := newExpressionNode(text)
			if err != nil {
				return nil, newSyntaxError(position(re.Pos), err.Error())
			}
			n.Negated = re.Negated
			nodes = []*ExpressionNode{n}
		}
	}

	valueFuncs, err := lowerFuncs(re.Funcs)
	if err != nil {
		return nil, err
	}
	children, squiggly, emptyNested, err := lowerNested(re.Nested, nil)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 1 {
		n := nodes[0]
		n.ValueFunctions = valueFuncs
		n.Squiggly = squiggly
		n.EmptyNested = emptyNested
		for _, c := range children {
			c.Parent = n
		}
		n.Children = children
	} else {
		for _, n := range nodes {
			n.ValueFunctions = valueFuncs
			n.Squiggly = squiggly
			n.EmptyNested = emptyNested
			n.Children = cloneChildren(children, n)
		}
	}
	return nodes, nil
}

// lowerFuncs lowers an optional '@' funcs suffix. Per spec §4.2 the
// grammar defines a single functions slot; this implementation attaches
// it to ValueFunctions (see SPEC_FULL.md "Key-function syntax"). Once a
// funcs chain is present, the grammar's own greedy ('.' @@)* repetition
// has already consumed every subsequent '.' as a chain continuation —
// nested's dot-path branch never gets a chance at them, which is how
// "an '@' block claims all following dots" falls out of the grammar
// itself rather than needing special-casing here.
func lowerFuncs(raws []*rawFuncCall) ([]*FunctionCall, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	calls := make([]*FunctionCall, 0, len(raws))
	for _, r := range raws {
		call, err := lowerFuncCall(r)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func lowerFuncCall(r *rawFuncCall) (*FunctionCall, error) {
	call := &FunctionCall{Name: r.Name}
	if r.Call == nil {
		return call, nil
	}
	for _, a := range r.Call.Args {
		arg, err := lowerArgument(a)
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)
	}
	return call, nil
}

func lowerArgument(a *rawArg) (Argument, error) {
	switch {
	case a.Str != nil:
		return Argument{Kind: ArgLiteral, Literal: unescapeStringLiteral(*a.Str)}, nil

	case a.Int != nil:
		n, convErr := strconv.ParseInt(*a.Int, 10, 64)
		if convErr != nil {
			return Argument{}, newSyntaxError(position(a.Pos), "invalid integer literal")
		}
		if a.Neg {
			n = -n
		}
		return Argument{Kind: ArgLiteral, Literal: n}, nil

	case a.Ref != nil:
		if a.Ref.Call == nil {
			if a.Ref.Name == "true" || a.Ref.Name == "false" {
				return Argument{Kind: ArgLiteral, Literal: a.Ref.Name == "true"}, nil
			}
			return Argument{Kind: ArgRef, Ref: a.Ref.Name}, nil
		}
		call, err := lowerFuncCall(a.Ref)
		if err != nil {
			return Argument{}, err
		}
		return Argument{Kind: ArgCall, Call: call}, nil

	default:
		return Argument{}, newSyntaxError(position(a.Pos), "expected argument")
	}
}

func lowerNested(rn *rawNested, views ViewSource) (children []*ExpressionNode, squiggly bool, emptyNested bool, err error) {
	if rn == nil {
		return nil, false, false, nil
	}
	switch {
	case rn.Brace != nil:
		return lowerBlock(rn.Brace, views)
	case rn.Brack != nil:
		return lowerBlock(rn.Brack, views)
	default:
		members, err := lowerExprList(rn.Dot, views)
		if err != nil {
			return nil, false, false, err
		}
		// Dot-path sugar: a.b.c == a{b{c}}, but the intermediate nodes
		// (here, the root of the recursively lowered tail) are marked
		// non-squiggly because they did not open an explicit block.
		for _, m := range members {
			m.Squiggly = false
		}
		return members, true, false, nil
	}
}

func lowerBlock(b *rawBlock, views ViewSource) ([]*ExpressionNode, bool, bool, error) {
	if len(b.Children) == 0 {
		return nil, true, true, nil
	}
	var children []*ExpressionNode
	for _, re := range b.Children {
		nodes, err := lowerExprList(re, views)
		if err != nil {
			return nil, false, false, err
		}
		children = append(children, nodes...)
	}
	return children, true, false, nil
}

// splitRegexLiteral splits a raw ~pattern~flags or /pattern/flags token,
// captured whole by the lexer, into its pattern and trailing flags.
// Backslash-escape pairs are copied through verbatim (not unescaped) so a
// regex escape like `\d` or an escaped delimiter like `\~` survives into
// the pattern text regexp.Compile eventually sees.
func splitRegexLiteral(raw string) (pattern, flags string) {
	delim := raw[0]
	var b strings.Builder
	i := 1
	for i < len(raw) {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			b.WriteByte(c)
			b.WriteByte(raw[i+1])
			i += 2
			continue
		}
		if c == delim {
			i++
			break
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), raw[i:]
}

// unescapeStringLiteral strips the surrounding quotes from a raw "..."
// token and resolves backslash escapes by dropping the backslash and
// keeping the following byte verbatim — there are no named escapes (\n,
// \t, ...) in string-literal arguments, only "escape the next character".
func unescapeStringLiteral(raw string) string {
	inner := raw[1 : len(raw)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			b.WriteByte(inner[i])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// cloneChildren deep-copies a child subtree for a new owning parent, used
// when a group or resolved view distributes one parsed nested block
// across several sibling ExpressionNodes (each needs its own Parent
// chain).
func cloneChildren(children []*ExpressionNode, parent *ExpressionNode) []*ExpressionNode {
	if len(children) == 0 {
		return nil
	}
	out := make([]*ExpressionNode, len(children))
	for i, c := range children {
		out[i] = cloneNode(c, parent)
	}
	return out
}

func cloneNode(n *ExpressionNode, parent *ExpressionNode) *ExpressionNode {
	clone := *n
	clone.Parent = parent
	if len(n.Children) > 0 {
		clone.Children = make([]*ExpressionNode, len(n.Children))
		for i, c := range n.Children {
			clone.Children[i] = cloneNode(c, &clone)
		}
	}
	return &clone
}
