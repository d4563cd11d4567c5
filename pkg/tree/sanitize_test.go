package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "plain string", input: "zenconfig", want: "zenconfig"},
		{name: "double quoted", input: `"hello"`, want: "hello"},
		{name: "single quoted", input: `'hello'`, want: "hello"},
		{name: "nested quotes", input: `"'hello'"`, want: "hello"},
		{name: "inner quotes kept", input: `it's "fine"`, want: `it's "fine"`},
		{name: "mismatched quotes untouched", input: `"hello'`, want: `"hello'`},
		{name: "escaped newline", input: `line1\nline2`, want: "line1\nline2"},
		{name: "escaped tab and backslash", input: `a\tb\\c`, want: "a\tb\\c"},
		{name: "hex and unicode escapes", input: `\x41\u00e9`, want: "Aé"},
		{name: "unknown escape kept", input: `C:\path`, want: `C:\path`},
		{name: "escaped quote", input: `say \"hi\"`, want: `say "hi"`},
		{name: "trailing backslash kept", input: `end\`, want: `end\`},
		{name: "int", input: 3021, want: "3021"},
		{name: "int64", input: int64(-7), want: "-7"},
		{name: "integral float", input: 3.0, want: "3.0"},
		{name: "float", input: 0.25, want: "0.25"},
		{name: "bool true", input: true, want: "True"},
		{name: "bool false", input: false, want: "False"},
		{name: "list", input: []any{"eggs", "bacon", 3}, want: "eggs, bacon, 3"},
		{name: "quoted list items", input: []any{`"a"`, `'b'`}, want: "a, b"},
		{name: "string slice", input: []string{"x", "y"}, want: "x, y"},
		{name: "empty list", input: []any{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []any{"zenconfig", `"quoted"`, `"'nested'"`, `'"''"'`, `""`, `multi\nline`, []any{"a", "b"}, 42, 1.5, false, "Custom configuration settings."}
	for _, in := range inputs {
		once, err := Sanitize(in)
		require.NoError(t, err)
		twice, err := Sanitize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %v", in)
	}
}

func TestSanitize_UnsupportedType(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "nil", input: nil},
		{name: "tree", input: New()},
		{name: "struct", input: struct{}{}},
		{name: "nested unsupported", input: []any{"a", map[string]int{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sanitize(tt.input)
			var ute *UnsupportedTypeError
			require.True(t, errors.As(err, &ute), "expected UnsupportedTypeError, got %v", err)
		})
	}
}

func TestSanitizeValue_Tree(t *testing.T) {
	in := Of("a", `"x"`, "b", Of("c", []any{1, 2}))
	out, err := SanitizeValue(in)
	require.NoError(t, err)

	tr, ok := out.(*Tree)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tr.Keys())
	a, _ := tr.Get("a")
	assert.Equal(t, "x", a)
	c, err := Lookup(tr, []string{"b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "1, 2", c)

	// input untouched
	orig, _ := in.Get("a")
	assert.Equal(t, `"x"`, orig)
}
