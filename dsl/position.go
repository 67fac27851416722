// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package dsl

import "fmt"

// Position is a byte offset plus 1-based line/column, used for
// diagnostics. It reshapes participle's lexer.Position so callers outside
// this package never need to import participle themselves.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
