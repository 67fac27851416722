// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

package walk

import (
	"github.com/cyriljoui/squiggly/dsl"
	"github.com/cyriljoui/squiggly/function"
	"github.com/cyriljoui/squiggly/match"
)

// Options configures how Walk applies a filter.
type Options struct {
	// Invoker resolves key_functions/value_functions chains. A nil
	// Invoker is valid when a filter uses no functions; Walk returns a
	// function.FunctionError if one is needed but none was supplied.
	Invoker function.Invoker
}

// Walk applies one filter's statements to root, returning the filtered
// tree. filterRoot is expected to be that filter's dsl.Filter.Root() — a
// node whose Children are every statement's root expression, so the
// statements within one filter text are unioned in a single pass. The
// document root itself is never matched or pruned, only its descendants
// are: every descendant is matched by calling match.Match with the full
// path from the document root against the one constant filterRoot, which
// is how a deep ('**') expression seen several levels up stays a live
// candidate at every level below it (spec §4.3, §4.4). The exception is a
// node matched by a bare name with no nested block (other than '**'): it
// is kept with its whole subtree, and its descendants are not matched.
//
// A host applying several independent filter texts in sequence (the
// `filters []string` surface, spec §6) calls Walk once per text, in
// order, feeding each call's output as the next call's root — see
// squiggly.Engine.Apply.
func Walk[T any](root Node[T], builder Builder[T], filterRoot *dsl.ExpressionNode, opts Options) (Node[T], error) {
	w := &walker[T]{builder: builder, opts: opts, root: filterRoot}
	return w.descendChildren(root, match.DocumentPath{})
}

type walker[T any] struct {
	builder Builder[T]
	opts    Options
	root    *dsl.ExpressionNode
}

// matchAndDescend matches one child's full path against the filter root,
// applies the winning node's key/value functions, and recurses into the
// child's own children. It returns matched=false to signal a prune.
func (w *walker[T]) matchAndDescend(n Node[T], path match.DocumentPath, key string) (Node[T], bool, error) {
	res, matched := match.Match(path, w.root)
	if res != match.Include {
		return nil, false, nil // NeverMatch or Exclude
	}

	outKey := key
	if len(matched.KeyFunctions) > 0 {
		if w.opts.Invoker == nil {
			return nil, false, &function.FunctionError{Function: matched.KeyFunctions[0].Name, Cause: errNoInvoker}
		}
		renamed, err := w.opts.Invoker.Invoke(key, key, nil, matched.KeyFunctions)
		if err != nil {
			return nil, false, err
		}
		if s, ok := renamed.(string); ok {
			outKey = s
		}
	}

	if matched.EmptyNested {
		// All descendants pruned unconditionally; emit the node itself
		// with no children.
		empty := n
		switch {
		case n.IsObject():
			empty = w.builder.NewObject(nil)
		case n.IsArray():
			empty = w.builder.NewArray(nil)
		}
		out, err := w.finishValueFunctions(empty, matched, outKey)
		return out, err == nil, err
	}

	if len(matched.Children) == 0 && matched.Kind != dsl.KindAnyDeep {
		// A bare name with no nested block keeps its whole subtree.
		out, err := w.finishValueFunctions(n, matched, outKey)
		return out, err == nil, err
	}

	descended, err := w.descendChildren(n, path)
	if err != nil {
		return nil, false, err
	}
	out, err := w.finishValueFunctions(descended, matched, outKey)
	return out, err == nil, err
}

// descendChildren iterates n's object fields or array elements, matching
// each one's full accumulated path against the filter root. Non-collection
// values pass through unchanged.
func (w *walker[T]) descendChildren(n Node[T], path match.DocumentPath) (Node[T], error) {
	switch {
	case n.IsObject():
		var fields []Field[T]
		for _, f := range n.Fields() {
			childPath := appendPath(path, match.PathElement{Kind: match.Property, Key: f.Key})
			child, ok, err := w.matchAndDescend(f.Node, childPath, f.Key)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			fields = append(fields, Field[T]{Key: f.Key, Node: child})
		}
		return w.builder.NewObject(fields), nil

	case n.IsArray():
		var elements []Node[T]
		for i, el := range n.Elements() {
			childPath := appendPath(path, match.PathElement{Kind: match.Index, Idx: i})
			child, ok, err := w.matchAndDescend(el, childPath, "")
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			elements = append(elements, child)
		}
		return w.builder.NewArray(elements), nil

	default:
		return n, nil
	}
}

func appendPath(path match.DocumentPath, elem match.PathElement) match.DocumentPath {
	out := make(match.DocumentPath, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}

func (w *walker[T]) finishValueFunctions(n Node[T], matched *dsl.ExpressionNode, key string) (Node[T], error) {
	if len(matched.ValueFunctions) == 0 {
		return n, nil
	}
	if w.opts.Invoker == nil {
		return nil, &function.FunctionError{Function: matched.ValueFunctions[0].Name, Cause: errNoInvoker}
	}
	result, err := w.opts.Invoker.Invoke(key, n.Value(), nil, matched.ValueFunctions)
	if err != nil {
		return nil, err
	}
	if asNode, ok := result.(Node[T]); ok {
		return asNode, nil
	}
	if typed, ok := result.(T); ok {
		return w.builder.NewScalar(typed), nil
	}
	return n, nil
}

var errNoInvoker = noInvokerError{}

type noInvokerError struct{}

func (noInvokerError) Error() string {
	return "filter calls a function but no Invoker was configured"
}
