// Package spec interprets the two kinds of specification values: directive
// keys that control presentation (section__title, __header, ...) and type
// strings of the form typename(param=value, ...) that describe a value.
package spec

import (
	"fmt"
	"strings"
)

// Default reserved tokens.
const (
	DefaultDelimiter = "__"
	DefaultMarker    = "@"
)

// DirectiveKind is the closed set of presentation directives.
type DirectiveKind int

// Directive kinds.
const (
	DirectiveIgnore DirectiveKind = iota + 1
	DirectiveType
	DirectiveHeader
	DirectiveToggle
	DirectiveParent
	DirectiveWrap
	DirectiveTitle
	DirectiveNote
	DirectiveSpacer
)

var directiveNames = map[DirectiveKind]string{
	DirectiveIgnore: "ignore",
	DirectiveType:   "type",
	DirectiveHeader: "header",
	DirectiveToggle: "toggle",
	DirectiveParent: "parent",
	DirectiveWrap:   "wrap",
	DirectiveTitle:  "title",
	DirectiveNote:   "note",
	DirectiveSpacer: "spacer",
}

func (k DirectiveKind) String() string {
	if name, ok := directiveNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DirectiveKind(%d)", int(k))
}

// EntryLevel reports whether the directive may annotate a single entry
// (entry__title) rather than a whole section (__title).
func (k DirectiveKind) EntryLevel() bool {
	switch k {
	case DirectiveTitle, DirectiveNote, DirectiveIgnore:
		return true
	default:
		return false
	}
}

// ParseDirectiveKind maps a directive name to its kind.
func ParseDirectiveKind(name string) (DirectiveKind, error) {
	for kind, n := range directiveNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, &UnknownDirectiveError{Name: name}
}

// KeyClass says how a specification key is interpreted.
type KeyClass int

// Key classes.
const (
	// KeyPlain is a value entry or a nested section name.
	KeyPlain KeyClass = iota
	// KeySectionDirective applies to the section the key appears in (__header).
	KeySectionDirective
	// KeyEntryDirective annotates a sibling entry (option1__note) or, when
	// the sibling is a nested section, that section (basic__header).
	KeyEntryDirective
	// KeyReserved is a validator wildcard wrapped in the delimiter (__many__).
	KeyReserved
)

// Key is a classified specification key.
type Key struct {
	Class     KeyClass
	Entry     string        // annotated entry for KeyEntryDirective, the key itself for KeyPlain
	Directive DirectiveKind // set for both directive classes
}

// ClassifyKey splits a specification key on delim. The entry name is the
// text before the first delimiter and the directive name the text after the
// last one, so "a__b__note" annotates "a" with a note.
func ClassifyKey(key, delim string) (Key, error) {
	if delim == "" || !strings.Contains(key, delim) {
		return Key{Class: KeyPlain, Entry: key}, nil
	}
	if strings.HasPrefix(key, delim) && strings.HasSuffix(key, delim) && len(key) > 2*len(delim) {
		return Key{Class: KeyReserved}, nil
	}

	entry := key[:strings.Index(key, delim)]
	name := key[strings.LastIndex(key, delim)+len(delim):]
	kind, err := ParseDirectiveKind(name)
	if err != nil {
		return Key{}, &UnknownDirectiveError{Name: name, Key: key}
	}

	if entry == "" {
		return Key{Class: KeySectionDirective, Directive: kind}, nil
	}
	return Key{Class: KeyEntryDirective, Entry: entry, Directive: kind}, nil
}

// IsTrue implements the textual boolean contract used by ignore, spacer and
// toggle: only the text "true" in any letter case is true. Surrounding space
// or other truthy spellings do not count.
func IsTrue(s string) bool {
	return strings.EqualFold(s, "true")
}

// IsFalse is the counterpart of IsTrue for the text "false".
func IsFalse(s string) bool {
	return strings.EqualFold(s, "false")
}
