package errortree

import (
	"strings"

	"github.com/leapstack-labs/confreport/pkg/tree"
)

// Normalize strips marker keys from a validation result and collapses every
// all-passing branch into a single true. The input is not modified.
func Normalize(result any, marker string) any {
	return Squash(Strip(result, marker))
}

// Strip returns a copy of result without keys that contain marker. Sections
// left empty by the stripping are dropped. Non-tree values are returned as
// they are.
func Strip(result any, marker string) any {
	t, ok := result.(*tree.Tree)
	if !ok {
		return result
	}
	if marker == "" {
		return t.Clone()
	}
	return stripTree(t, marker)
}

func stripTree(t *tree.Tree, marker string) *tree.Tree {
	out := tree.New()
	for _, key := range t.Keys() {
		if strings.Contains(key, marker) {
			continue
		}
		v, _ := t.Get(key)
		if sub, ok := v.(*tree.Tree); ok {
			stripped := stripTree(sub, marker)
			if stripped.Len() > 0 {
				out.Set(key, stripped)
			}
			continue
		}
		out.Set(key, v)
	}
	return out
}

// Squash collapses a result tree into true when every leaf passes. Partly
// failing trees are returned as a copy with their passing branches squashed.
// Sequences are treated like trees.
func Squash(result any) any {
	switch v := result.(type) {
	case *tree.Tree:
		out := tree.New()
		all := true
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			s := Squash(child)
			if b, ok := s.(bool); !ok || !b {
				all = false
			}
			out.Set(key, s)
		}
		if all {
			return true
		}
		return out
	case []any:
		out := make([]any, len(v))
		all := true
		for i, item := range v {
			out[i] = Squash(item)
			if b, ok := out[i].(bool); !ok || !b {
				all = false
			}
		}
		if all {
			return true
		}
		return out
	default:
		return result
	}
}
