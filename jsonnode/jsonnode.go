// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package jsonnode is the reference walk.Node[any] adapter over JSON: the
// thin glue between encoding/json's generic shape and the walker, not a
// core engine concern (see DESIGN.md for why this is the one package that
// reaches for encoding/json directly).
package jsonnode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cyriljoui/squiggly/walk"
)

// Node wraps a decoded JSON value: an *Object, an *Array, or a scalar
// (string, json.Number, bool, nil as decoded by Parse, or any value given
// to Builder.NewScalar).
type Node struct {
	object *Object
	array  *Array
	scalar any
}

// Object preserves first-seen key order across decode, so the walker's
// "host child enumeration order" guarantee is meaningful for JSON
// documents (encoding/json's map[string]any does not preserve order).
type Object struct {
	keys   []string
	values map[string]*Node
}

// Array is an ordered list of nodes.
type Array struct {
	elements []*Node
}

var _ walk.Node[any] = (*Node)(nil)

func scalarNode(v any) *Node { return &Node{scalar: v} }

// Value returns the underlying value: a *Object, a *Array, or a JSON
// scalar.
func (n *Node) Value() any {
	switch {
	case n.object != nil:
		return n.object
	case n.array != nil:
		return n.array
	default:
		return n.scalar
	}
}

func (n *Node) IsObject() bool { return n.object != nil }
func (n *Node) IsArray() bool  { return n.array != nil }

func (n *Node) Fields() []walk.Field[any] {
	if n.object == nil {
		return nil
	}
	fields := make([]walk.Field[any], 0, len(n.object.keys))
	for _, k := range n.object.keys {
		fields = append(fields, walk.Field[any]{Key: k, Node: n.object.values[k]})
	}
	return fields
}

func (n *Node) Elements() []walk.Node[any] {
	if n.array == nil {
		return nil
	}
	out := make([]walk.Node[any], len(n.array.elements))
	for i, e := range n.array.elements {
		out[i] = e
	}
	return out
}

// Builder implements walk.Builder[any] for Node.
type Builder struct{}

var _ walk.Builder[any] = Builder{}

func (Builder) NewObject(fields []walk.Field[any]) walk.Node[any] {
	obj := &Object{keys: make([]string, 0, len(fields)), values: make(map[string]*Node, len(fields))}
	for _, f := range fields {
		child, _ := f.Node.(*Node)
		if child == nil {
			child = scalarNode(f.Node.Value())
		}
		obj.keys = append(obj.keys, f.Key)
		obj.values[f.Key] = child
	}
	return &Node{object: obj}
}

func (Builder) NewArray(elements []walk.Node[any]) walk.Node[any] {
	arr := &Array{elements: make([]*Node, len(elements))}
	for i, e := range elements {
		child, _ := e.(*Node)
		if child == nil {
			child = scalarNode(e.Value())
		}
		arr.elements[i] = child
	}
	return &Node{array: arr}
}

func (Builder) NewScalar(value any) walk.Node[any] {
	return scalarNode(value)
}

// Parse decodes JSON bytes into a Node tree, preserving object key order.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeValue(dec, tok)
}

func decodeValue(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("jsonnode: unexpected delimiter %q", t)
		}
	default:
		return scalarNode(tok), nil
	}
}

func decodeObject(dec *json.Decoder) (*Node, error) {
	obj := &Object{values: make(map[string]*Node)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("jsonnode: expected object key, got %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.keys = append(obj.keys, key)
		obj.values[key] = val
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, err
	}
	return &Node{object: obj}, nil
}

func decodeArray(dec *json.Decoder) (*Node, error) {
	arr := &Array{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr.elements = append(arr.elements, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, err
	}
	return &Node{array: arr}, nil
}

// Marshal encodes n back to JSON, preserving object key order.
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, n *Node) error {
	switch {
	case n.object != nil:
		buf.WriteByte('{')
		for i, k := range n.object.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := encode(buf, n.object.values[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case n.array != nil:
		buf.WriteByte('[')
		for i, e := range n.array.elements {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		scalarJSON, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(scalarJSON)
		return nil
	}
}
