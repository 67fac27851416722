// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package dsl tokenizes and parses the squiggly filter DSL into an
// immutable AST (Filter, Statement, ExpressionNode, FunctionCall). Lexing
// and grammar recognition are built with participle; see parser.go for the
// semantic lowering pass that turns a recognized parse tree into
// ExpressionNodes (view expansion, glob/regex classification, dot-path
// desugaring) — the kind of work a struct-tag grammar cannot express on
// its own, the same split the teacher's own policy DSL uses between
// participle's grammar and its post-parse validators.
package dsl

import "github.com/alecthomas/participle/v2/lexer"

// dslLexer defines the token classes for filter text.
//
// A single "Name" rule covers bare identifiers, glob patterns ("user*",
// "*Name") and the bare wildcards "*"/"**": Kind classification
// (exact/glob/wildcard) happens in newExpressionNode, after parsing, not
// in the lexer — one token class, semantic decision downstream, mirroring
// how the teacher's own lexer defers "permit"/"is"/"contains" keyword
// recognition to literal-value matching over a single Ident rule rather
// than minting a lexer rule per keyword.
//
// Name cannot start with a digit, so a digit-led run always tokenizes as
// an Int; digits are accepted only after a Name's first character.
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Regex", Pattern: `~(?:\\.|[^~\\])*~i*|/(?:\\.|[^/\\])*/i*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Name", Pattern: `[A-Za-z_*?][A-Za-z0-9_*?]*`},
	{Name: "Punct", Pattern: `[,.{}()@\[\]-]`},
	{Name: "whitespace", Pattern: `\s+`},
})
