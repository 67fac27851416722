// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package dsl

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// SyntaxError is returned on malformed filter text, whether the failure
// was caught by participle's grammar recognition or by this package's own
// semantic lowering pass (view resolution, glob/regex compilation) that
// runs over an already-recognized parse tree.
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Message)
}

func position(p lexer.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

// newSyntaxError builds a SyntaxError for failures raised during semantic
// lowering, once participle has already recognized the grammar.
func newSyntaxError(pos Position, msg string) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: msg}
}

// wrapParseError reshapes a participle grammar/lexer error, which always
// carries position information, into a *SyntaxError.
func wrapParseError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &SyntaxError{Pos: position(perr.Position()), Message: perr.Message()}
	}
	return err
}
