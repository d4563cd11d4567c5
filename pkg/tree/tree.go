// Package tree provides the insertion-ordered nested mapping used for
// configuration values, specifications and validation results.
//
// A Tree maps section and key names to leaf values or nested trees. Leaves
// are the scalar kinds produced by the loader (string, bool, int, int64,
// float64), sequences ([]any), and for validation results bool or error.
// Key order is the order keys were first set, which is also the order a
// YAML document declares them in.
package tree

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tree is an insertion-ordered mapping from keys to values or nested trees.
// The zero value is not usable; create trees with New or Of.
type Tree struct {
	m *orderedmap.OrderedMap[string, any]
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{m: orderedmap.New[string, any]()}
}

// Of builds a tree from alternating key/value arguments. It panics if a key
// is not a string or the argument count is odd, so it is meant for literals.
func Of(pairs ...any) *Tree {
	if len(pairs)%2 != 0 {
		panic("tree.Of: odd number of arguments")
	}
	t := New()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("tree.Of: key %v is %T, not string", pairs[i], pairs[i]))
		}
		t.Set(key, pairs[i+1])
	}
	return t
}

// Len returns the number of keys at this level.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.m.Len()
}

// Set stores v under key. An existing key keeps its position.
func (t *Tree) Set(key string, v any) {
	t.m.Set(key, v)
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	return t.m.Get(key)
}

// Has reports whether key is present at this level.
func (t *Tree) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Delete removes key if present.
func (t *Tree) Delete(key string) {
	t.m.Delete(key)
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, t.m.Len())
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Subtree returns the nested tree stored under key, if the value is one.
func (t *Tree) Subtree(key string) (*Tree, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Tree)
	return sub, ok
}

// Clone returns a deep copy. Nested trees and sequences are copied; scalar
// leaves and error values are shared.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := New()
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, cloneValue(pair.Value))
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Tree:
		return val.Clone()
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return v
	}
}

// MarshalJSON encodes the tree as a JSON object in key order. Error leaves
// are encoded as their message.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	out := orderedmap.New[string, any]()
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, jsonValue(pair.Value))
	}
	return json.Marshal(out)
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case error:
		return val.Error()
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = jsonValue(item)
		}
		return items
	default:
		return v
	}
}
