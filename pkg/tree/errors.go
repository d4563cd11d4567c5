package tree

import (
	"fmt"
	"strings"
)

// KeyNotFoundError is returned by Lookup when a key along the path is absent.
type KeyNotFoundError struct {
	Key  string   // first missing key
	Path []string // keys successfully descended before Key
}

func (e *KeyNotFoundError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("key %q not found", e.Key)
	}
	return fmt.Sprintf("key %q not found under %q", e.Key, strings.Join(e.Path, "."))
}

// UnsupportedTypeError is returned by the sanitizer for value kinds it
// cannot turn into display text.
type UnsupportedTypeError struct {
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported data type %T", e.Value)
}
