// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package function defines the contract between the walker and an external
// function registry: the walker never knows how a named function computes
// its result, only how to thread one through the value (or key) it was
// called against.
package function

import (
	"fmt"

	"github.com/cyriljoui/squiggly/dsl"
)

// Invoker resolves named functions against an external registry and
// applies them, left to right, to a key or value being walked. key and
// value describe the node the FunctionCall chain was attached to; parent
// is the enclosing object or array value, or nil. walk.Walk passes nil as
// parent on every call.
//
// Composition is value-threading: each call receives the previous call's
// result as its value.
type Invoker interface {
	Invoke(key string, value any, parent any, calls []*dsl.FunctionCall) (any, error)
}

// FunctionError reports a function invocation failure: an unregistered
// name, or an error returned by the registered function itself. walk.Walk
// returns it as soon as it occurs, so the whole walk fails and no filtered
// tree is produced; the other statements of the filter are not applied
// on their own.
type FunctionError struct {
	Function string
	Cause    error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %q: %v", e.Function, e.Cause)
}

func (e *FunctionError) Unwrap() error {
	return e.Cause
}

// ErrUnknownFunction is wrapped by FunctionError.Cause when an Invoker
// implementation cannot resolve a call's name against its registry.
type ErrUnknownFunction struct {
	Name string
}

func (e *ErrUnknownFunction) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// InvokeChain runs calls left to right starting from value, threading each
// result into the next call, and returning FunctionError on the first
// failure. It is a convenience most Invoker implementations can delegate
// to once they can resolve a single named call.
func InvokeChain(key string, value any, parent any, calls []*dsl.FunctionCall, resolve func(call *dsl.FunctionCall, key string, value any, parent any) (any, error)) (any, error) {
	current := value
	for _, call := range calls {
		result, err := resolve(call, key, current, parent)
		if err != nil {
			return nil, &FunctionError{Function: call.Name, Cause: err}
		}
		current = result
	}
	return current, nil
}
