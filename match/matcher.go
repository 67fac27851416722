// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package match implements the specificity-ranked path matcher: given a
// DocumentPath and a root ExpressionNode (normally a Filter's synthetic
// root, dsl.Filter.Root), it decides whether the node at that path is
// included, excluded, or never matched (spec §4.3).
package match

import (
	"math"

	"github.com/cyriljoui/squiggly/dsl"
)

// ElementKind distinguishes object-property path elements from array-index
// elements (spec §3, DocumentPath).
type ElementKind int

const (
	Property ElementKind = iota
	Index
)

// PathElement is one segment of a DocumentPath.
type PathElement struct {
	Kind      ElementKind
	Key       string // valid when Kind == Property
	Idx       int    // valid when Kind == Index
	BeanClass any    // opaque type id, optional
}

// DocumentPath is an ordered sequence of PathElements from the document
// root to the node currently being matched.
type DocumentPath []PathElement

// Result is the outcome of matching a path against an expression tree.
type Result int

const (
	NeverMatch Result = iota
	Exclude
	Include
)

// MaxSpecificity is the score of an exact-name match; see Specificity.
const MaxSpecificity = math.MaxInt32

// Specificity scores how precisely node matches key, or -1 if it does not
// match at all (spec §4.3):
//
//	exact name equality  -> MaxSpecificity
//	glob or regex        -> len(RawName) + 2
//	any_shallow ('*')    -> 1
//	any_deep ('**')      -> 0
//	no match             -> -1
func Specificity(node *dsl.ExpressionNode, key string) int {
	switch node.Kind {
	case dsl.KindAnyDeep:
		return 0
	case dsl.KindExact:
		if node.Name == key {
			return MaxSpecificity
		}
		return -1
	case dsl.KindAnyShallow:
		return 1
	case dsl.KindGlob, dsl.KindRegex:
		if node.Matches(key) {
			return len(node.RawName) + 2
		}
		return -1
	default:
		return -1
	}
}

// Match descends root's children in lockstep with path, applying the
// specificity, tie-break, and negation rules of spec §4.3, and returns the
// decision plus the ExpressionNode responsible for it (nil for
// NeverMatch).
func Match(path DocumentPath, root *dsl.ExpressionNode) (Result, *dsl.ExpressionNode) {
	levelCandidates := root.Children
	var activeDeep []*dsl.ExpressionNode
	var winner *dsl.ExpressionNode

	i := 0
	for i < len(path) {
		elem := path[i]
		if elem.Kind == Index {
			// Array indices are never matched by name; resume at the next
			// element against the same candidate set.
			i++
			continue
		}

		best, ok := pickBest(elem.Key, levelCandidates, activeDeep)
		if !ok {
			return NeverMatch, nil
		}

		// any_deep expressions found at this level survive for the
		// remainder of the descent, regardless of which node wins here.
		for _, c := range levelCandidates {
			if c.Kind == dsl.KindAnyDeep {
				activeDeep = append(activeDeep, c)
			}
		}

		winner = best
		moreToGo := i < len(path)-1
		if winner.EmptyNested && moreToGo {
			// empty-nested prunes every descendant unconditionally; no
			// further path element can match anything beneath it.
			return NeverMatch, nil
		}
		if winner.Kind == dsl.KindAnyDeep {
			levelCandidates = nil // any_deep contributes no children of its own
		} else {
			levelCandidates = winner.Children
		}
		i++
	}

	if winner == nil {
		return NeverMatch, nil
	}
	if winner.Negated {
		return Exclude, winner
	}
	return Include, winner
}

// pickBest selects the winning candidate for key among normal (level)
// candidates and any still-active any_deep nodes, applying specificity
// ranking, "last declared wins" tie-breaking, and the negation-precedence
// rule (spec §4.3): an exclude beats a competing include only when its
// specificity is >= the include's.
func pickBest(key string, level, deep []*dsl.ExpressionNode) (node *dsl.ExpressionNode, ok bool) {
	bestIncludeScore, bestExcludeScore := -1, -1
	var bestInclude, bestExclude *dsl.ExpressionNode

	consider := func(n *dsl.ExpressionNode) {
		score := Specificity(n, key)
		if score < 0 {
			return
		}
		if n.Negated {
			if score >= bestExcludeScore {
				bestExclude, bestExcludeScore = n, score
			}
			return
		}
		if score >= bestIncludeScore {
			bestInclude, bestIncludeScore = n, score
		}
	}

	// Declaration order drives "last declared wins": equal scores let a
	// later candidate overwrite an earlier one.
	for _, n := range level {
		consider(n)
	}
	for _, n := range deep {
		consider(n)
	}

	switch {
	case bestExclude != nil && (bestInclude == nil || bestExcludeScore >= bestIncludeScore):
		return bestExclude, true
	case bestInclude != nil:
		return bestInclude, true
	default:
		return nil, false
	}
}
