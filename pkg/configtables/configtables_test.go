package configtables

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/confreport/internal/testutil"
	"github.com/leapstack-labs/confreport/pkg/spec"
	"github.com/leapstack-labs/confreport/pkg/tree"
)

func mustTree(t *testing.T, doc string) *tree.Tree {
	t.Helper()
	var tr tree.Tree
	require.NoError(t, yaml.Unmarshal([]byte(doc), &tr))
	return &tr
}

func asciiRenderer(t *testing.T) Renderer {
	t.Helper()
	r, err := NewPrettyRenderer(StyleASCII, FormatText)
	require.NoError(t, err)
	return r
}

const exampleSpec = `
info:
  __title: General Info
  name: string(default="zenconfig")
  name__title: Name
  description: string()
  description__title: Description
basic:
  __title: Basic Config
  __header: Option, Value
  option1: list(min=2, max=5)
  option1__title: Option 1
  option2: string()
  option2__title: Option 2
  secondary:
    __parent: basic
    __title: "Secondary settings:"
    port: integer(1024, 65535)
    port__title: Port
    address: ip_addr()
    address__title: Address
advanced:
  __title: Advanced Config
  __header: Option, Value, Note
  enabled: boolean()
  enabled__title: Enabled
  items:
    __parent: advanced
    __type: list_values
    __wrap: 2
    __title: Items
    __note: "You can also add notes\nto various entries!"
    __many__: string()
`

const exampleConfig = `
info:
  name: zenconfig
  description: Custom configuration settings.
basic:
  option1: [eggs, bacon, pancakes, waffles]
  option2: super_custom_value
  secondary:
    port: 3021
    address: 174.192.0.34
advanced:
  enabled: false
  items:
    guitars: Electric guitars
    synths: Synthesizers
    hats: Hi-hats
    kicks: Kick drums
    studio: Studio equipment...
`

func TestGenerate_ExampleSet(t *testing.T) {
	set, err := Generate(mustTree(t, exampleConfig), mustTree(t, exampleSpec), Options{
		Renderer: asciiRenderer(t),
		Logger:   testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"info", "basic", "advanced"}, set.Paths(), "merged sections must not remain")

	info, _ := set.Get("info")
	assert.Equal(t, [][]string{
		{"Name", "zenconfig"},
		{"Description", "Custom configuration settings."},
	}, info.Rows)
	assert.False(t, info.Header)

	basic, _ := set.Get("basic")
	assert.Equal(t, [][]string{
		{"Option", "Value"},
		{"Option 1", "eggs, bacon, pancakes, waffles"},
		{"Option 2", "super_custom_value"},
		{"Secondary settings:", ""},
		{"Port", "3021"},
		{"Address", "174.192.0.34"},
	}, basic.Rows)
	assert.True(t, basic.Header)

	advanced, _ := set.Get("advanced")
	assert.Equal(t, [][]string{
		{"Option", "Value", "Note"},
		{"Enabled", "False", ""},
		{"Items", "Electric guitars, Synthesizers\nHi-hats, Kick drums\nStudio equipment...", "You can also add notes\nto various entries!"},
	}, advanced.Rows)

	assertLines(t, info.Table, []string{
		`\+-+\+`,
		`\| General Info\s+\|`,
		`\+-+\+-+\+`,
		`\| Name\s+\| zenconfig\s+\|`,
		`\| Description\s+\| Custom configuration settings\.\s+\|`,
		`\+-+\+-+\+`,
	})
	assert.Regexp(t, `\| Option\s+\| Value\s+\|`, basic.Table)
	assert.Regexp(t, `\| Option 1\s+\| eggs, bacon, pancakes, waffles\s+\|`, basic.Table)
	assert.Regexp(t, `\| Secondary settings:\s+\|\s+\|`, basic.Table)
	assert.Regexp(t, `\|\s+\| Hi-hats, Kick drums\s+\| to various entries!\s+\|`, advanced.Table)

	all, ok := set.Concat()
	require.True(t, ok)
	assert.Equal(t, info.Table+"\n\n"+basic.Table+"\n\n"+advanced.Table, all)
}

// assertLines matches every line of s against the regexp at the same index.
func assertLines(t *testing.T, s string, patterns []string) {
	t.Helper()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	require.Len(t, lines, len(patterns), "table:\n%s", s)
	for i, p := range patterns {
		assert.True(t, regexp.MustCompile(`^`+p+`$`).MatchString(lines[i]), "line %d %q does not match %q", i, lines[i], p)
	}
}

func TestGenerate_RowsHaveUniformWidth(t *testing.T) {
	set, err := Generate(mustTree(t, exampleConfig), mustTree(t, exampleSpec), Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	for _, sec := range set.Sections() {
		for i, row := range sec.Rows {
			assert.Len(t, row, len(sec.Rows[0]), "section %s row %d", sec.Path, i)
		}
	}
}

func TestGenerate_HeaderDeclaredOnParentLevel(t *testing.T) {
	specTree := mustTree(t, `
basic__header: "Option, Value"
basic:
  option1: list(min=2, max=5)
`)
	config := mustTree(t, `
basic:
  option1: [eggs, bacon, pancakes, waffles]
`)
	set, err := Generate(config, specTree, Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	require.Equal(t, []string{"basic"}, set.Paths())

	basic, _ := set.Get("basic")
	assert.Equal(t, [][]string{
		{"Option", "Value"},
		{"option1", "eggs, bacon, pancakes, waffles"},
	}, basic.Rows)
	assertLines(t, basic.Table, []string{
		`\+-+\+-+\+`,
		`\| Option\s+\| Value\s+\|`,
		`\+-+\+-+\+`,
		`\| option1\s+\| eggs, bacon, pancakes, waffles\s+\|`,
		`\+-+\+-+\+`,
	})
}

func TestAssemble_SectionTypes(t *testing.T) {
	config := `
plugins:
  a: alpha
  b: beta
  c: gamma
`
	tests := []struct {
		name     string
		spec     string
		wantRows [][]string
		wantKeep string // expected title directive remaining
	}{
		{
			name: "list_keys uses titles",
			spec: `
plugins:
  __type: list_keys
  a: string()
  a__title: A
  b: string()
  b__title: B
  c: string()
  c__title: C
`,
			wantRows: [][]string{{"", "A, B, C"}},
		},
		{
			name: "list_keys falls back to keys for undeclared entries",
			spec: `
plugins:
  __type: list_keys
  __many__: string()
  a__title: A
`,
			wantRows: [][]string{{"", "A, b, c"}},
		},
		{
			name: "list_values with title and note",
			spec: `
plugins:
  __type: list_values
  __title: Plugins
  __note: loaded at start
  __many__: string()
`,
			wantRows: [][]string{{"Plugins", "alpha, beta, gamma", "loaded at start"}},
		},
		{
			name: "list_values wraps",
			spec: `
plugins:
  __type: list_values
  __wrap: 2
  __many__: string()
`,
			wantRows: [][]string{{"", "alpha, beta\ngamma"}},
		},
		{
			name: "list_all pairs titles and values",
			spec: `
plugins:
  __type: list_all
  __many__: string()
  a__title: A
`,
			wantRows: [][]string{{"", "A (alpha), b (beta), c (gamma)"}},
		},
		{
			name: "variable keeps every live key and the banner",
			spec: `
plugins:
  __type: variable
  __title: Plugins
  __many__: string()
  b__note: second
`,
			wantRows: [][]string{{"a", "alpha", ""}, {"b", "beta", "second"}, {"c", "gamma", ""}},
			wantKeep: "Plugins",
		},
		{
			name: "ignored entries are left out of lists",
			spec: `
plugins:
  __type: list_values
  __many__: string()
  b__ignore: "true"
`,
			wantRows: [][]string{{"", "alpha, gamma"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Generate(mustTree(t, config), mustTree(t, tt.spec), Options{Renderer: asciiRenderer(t)})
			require.NoError(t, err)
			sec, ok := set.Get("plugins")
			require.True(t, ok)
			assert.Equal(t, tt.wantRows, sec.Rows)
			assert.Equal(t, tt.wantKeep, sec.Directives[spec.DirectiveTitle])
		})
	}
}

func TestAssemble_Visibility(t *testing.T) {
	config := `
features:
  extras: false
  debug: true
  mode: "False "
extras:
  color: blue
`
	tests := []struct {
		name    string
		spec    string
		visible bool
	}{
		{name: "toggle on false hides", spec: "__toggle: features.extras", visible: false},
		{name: "toggle on true shows", spec: "__toggle: features.debug", visible: true},
		{name: "toggle needs exact false text", spec: "__toggle: features.mode", visible: true},
		{name: "toggle on missing entry does not fire", spec: "__toggle: features.nothing", visible: true},
		{name: "toggle on missing section does not fire", spec: "__toggle: nowhere.extras", visible: true},
		{name: "ignore true hides", spec: "__ignore: \"True\"", visible: false},
		{name: "ignore other text shows", spec: "__ignore: \"yes\"", visible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `
features:
  extras: boolean()
  debug: boolean()
  mode: string()
extras:
  ` + tt.spec + `
  color: string()
`
			set, err := Generate(mustTree(t, config), mustTree(t, doc), Options{Renderer: asciiRenderer(t)})
			require.NoError(t, err)
			_, ok := set.Get("extras")
			assert.Equal(t, tt.visible, ok)
		})
	}
}

func TestAssemble_ToggleSeesMergedSection(t *testing.T) {
	config := mustTree(t, `
main:
  name: x
  opts:
    extras: false
extras:
  color: blue
`)
	specTree := mustTree(t, `
main:
  name: string()
  opts:
    __parent: main
    extras: boolean()
extras:
  __toggle: main.opts.extras
  color: string()
`)
	set, err := Generate(config, specTree, Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, set.Paths())
}

func TestAssemble_EntryIgnore(t *testing.T) {
	set, err := Generate(
		mustTree(t, "s:\n  a: 1\n  b: 2\n  c: 3\n"),
		mustTree(t, "s:\n  a: integer()\n  b: integer()\n  b__ignore: \"TRUE\"\n  c: integer()\n  c__ignore: \"no\"\n"),
		Options{Renderer: asciiRenderer(t)},
	)
	require.NoError(t, err)
	s, _ := set.Get("s")
	assert.Equal(t, [][]string{{"a", "1"}, {"c", "3"}}, s.Rows)
}

func TestAssemble_ParentMerge(t *testing.T) {
	config := mustTree(t, `
main:
  port: 80
  child:
    port: 9000
    host: example.org
`)
	specTree := mustTree(t, `
main:
  port: integer()
  child:
    __parent: main
    __spacer: "true"
    __title: Child
    port: integer()
    host: string()
`)
	set, err := Generate(config, specTree, Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, set.Paths())

	main, _ := set.Get("main")
	assert.Equal(t, [][]string{
		{"port", "80"}, // parent wins the collision
		{"", ""},
		{"Child", ""},
		{"host", "example.org"},
	}, main.Rows)
	_, ok := main.Entry("main.child__spacer")
	assert.True(t, ok)
	_, ok = main.Entry("main.child__title")
	assert.True(t, ok)
}

func TestAssemble_ParentChainInAnyOrder(t *testing.T) {
	config := mustTree(t, "b:\n  x: 1\na:\n  y: 2\nc:\n  z: 3\n")
	specTree := mustTree(t, `
b:
  __parent: c
  x: integer()
a:
  __parent: b
  y: integer()
c:
  z: integer()
`)
	set, err := Generate(config, specTree, Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, set.Paths())

	c, _ := set.Get("c")
	assert.Equal(t, [][]string{{"z", "3"}, {"x", "1"}, {"y", "2"}}, c.Rows)
}

func TestAssemble_ParentCycle(t *testing.T) {
	config := mustTree(t, "a:\n  x: 1\nb:\n  y: 2\n")
	specTree := mustTree(t, "a:\n  __parent: b\n  x: integer()\nb:\n  __parent: a\n  y: integer()\n")

	_, err := Generate(config, specTree, Options{Renderer: asciiRenderer(t)})
	var e *ParentCycleError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"a", "b"}, e.Paths)
}

func TestAssemble_ParentIgnoredStillAbsorbs(t *testing.T) {
	config := mustTree(t, "main:\n  a: 1\n  child:\n    b: 2\n")
	specTree := mustTree(t, `
main:
  __ignore: "true"
  a: integer()
  child:
    __parent: main
    b: integer()
`)
	set, err := Generate(config, specTree, Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	_, ok := set.Concat()
	assert.False(t, ok)
}

func TestAssemble_HeaderFirstAndMalformed(t *testing.T) {
	config := mustTree(t, "s:\n  a: 1\n")

	set, err := Generate(config, mustTree(t, "s:\n  a: integer()\n  __header: Key, Val, Note\n"), Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	s, _ := set.Get("s")
	assert.Equal(t, [][]string{{"Key", "Val", "Note"}, {"a", "1", ""}}, s.Rows)
	assert.True(t, s.Header)

	set, err = Generate(config, mustTree(t, "s:\n  a: integer()\n  __header: a, b, c, d\n"), Options{
		Renderer: asciiRenderer(t),
		Logger:   testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	s, _ = set.Get("s")
	assert.Equal(t, [][]string{{"a", "1"}}, s.Rows)
	assert.False(t, s.Header)

	set, err = Generate(config, mustTree(t, "s:\n  a: integer()\n  __header: \"\"\n"), Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	s, _ = set.Get("s")
	assert.False(t, s.Header)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		spec   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "entry missing from config",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  a: integer()\n  b: integer()\n",
			check: func(t *testing.T, err error) {
				var e *SpecConfigMismatchError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "s.b", e.Path)
				var knf *tree.KeyNotFoundError
				assert.ErrorAs(t, err, &knf)
			},
		},
		{
			name:   "entry directive for missing entry",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  a: integer()\n  b__note: hi\n",
			check: func(t *testing.T, err error) {
				var e *SpecConfigMismatchError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "s.b", e.Path)
			},
		},
		{
			name:   "section is a scalar in config",
			config: "s: 5\n",
			spec:   "s:\n  a: integer()\n",
			check: func(t *testing.T, err error) {
				var e *SpecConfigMismatchError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "s", e.Path)
			},
		},
		{
			name:   "invalid section type",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  __type: table\n  a: integer()\n",
			check: func(t *testing.T, err error) {
				var e *InvalidSectionTypeError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "s", e.Path)
				assert.Equal(t, "table", e.Type)
			},
		},
		{
			name:   "dangling parent",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  __parent: nowhere\n  a: integer()\n",
			check: func(t *testing.T, err error) {
				var e *ParentNotFoundError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "nowhere", e.Parent)
			},
		},
		{
			name:   "self parent",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  __parent: s\n  a: integer()\n",
			check: func(t *testing.T, err error) {
				var e *ParentNotFoundError
				require.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "non numeric wrap",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  __type: list_values\n  __wrap: many\n  a: integer()\n",
			check: func(t *testing.T, err error) {
				var e *InvalidDirectiveValueError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "wrap", e.Directive)
			},
		},
		{
			name:   "unknown directive",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  __colour: red\n  a: integer()\n",
			check: func(t *testing.T, err error) {
				var e *spec.UnknownDirectiveError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "colour", e.Name)
			},
		},
		{
			name:   "section directive on a plain entry",
			config: "s:\n  a: 1\n",
			spec:   "s:\n  a: integer()\n  a__parent: s\n",
			check: func(t *testing.T, err error) {
				var e *spec.UnknownDirectiveError
				require.ErrorAs(t, err, &e)
				assert.True(t, e.EntryLevel)
			},
		},
		{
			name:   "unsupported config value",
			config: "s:\n  a:\n    nested: 1\n",
			spec:   "s:\n  a: integer()\n",
			check: func(t *testing.T, err error) {
				var e *tree.UnsupportedTypeError
				require.ErrorAs(t, err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(mustTree(t, tt.config), mustTree(t, tt.spec), Options{Renderer: asciiRenderer(t)})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestAssemble_DoesNotModifyBuiltSections(t *testing.T) {
	config := mustTree(t, exampleConfig)
	built, err := NewBuilder("", nil).Build(config, mustTree(t, exampleSpec))
	require.NoError(t, err)
	before := built.Paths()

	asm := NewAssembler("", asciiRenderer(t), nil)
	_, err = asm.Assemble(built, config)
	require.NoError(t, err)

	assert.Equal(t, before, built.Paths())
	basic, _ := built.Get("basic")
	_, hasHeader := basic.Entry(headerKey)
	assert.False(t, hasHeader)
	items, _ := built.Get("advanced.items")
	assert.Equal(t, "Items", items.Directives[spec.DirectiveTitle])
}

func TestBuilder_RootEntriesAndCustomDelimiter(t *testing.T) {
	config := mustTree(t, "name: app\nport: 8080\n")
	specTree := mustTree(t, "\"::title\": Root\nname: string()\nport: integer()\n\"port::note\": http\n")

	set, err := Generate(config, specTree, Options{Delimiter: "::", Renderer: asciiRenderer(t)})
	require.NoError(t, err)
	root, ok := set.Get("")
	require.True(t, ok)
	assert.Equal(t, [][]string{{"name", "app", ""}, {"port", "8080", "http"}}, root.Rows)
	assert.Contains(t, root.Table, "Root")
}

func TestRender_EmptySectionsHaveNoTable(t *testing.T) {
	config := mustTree(t, "s:\n  a: 1\n")
	set, err := Generate(config, mustTree(t, "s:\n  a: integer()\n  a__ignore: \"true\"\n"), Options{Renderer: asciiRenderer(t)})
	require.NoError(t, err)

	s, ok := set.Get("s")
	require.True(t, ok)
	assert.Empty(t, s.Rows)
	assert.Empty(t, s.Table)
	assert.Empty(t, set.Tables())
	_, ok = set.Concat()
	assert.False(t, ok)
}

type failingRenderer struct{}

func (failingRenderer) RenderTable(Table) (string, error) {
	return "", &InvalidTableTypeError{Reason: "broken"}
}

func TestRender_SurfacesRendererErrors(t *testing.T) {
	_, err := Generate(mustTree(t, "s:\n  a: 1\n"), mustTree(t, "s:\n  a: integer()\n"), Options{Renderer: failingRenderer{}})
	var e *InvalidTableTypeError
	require.True(t, errors.As(err, &e))
	assert.Contains(t, err.Error(), `section "s"`)
}

func TestJoinWrapped(t *testing.T) {
	assert.Equal(t, "", joinWrapped(nil, 6))
	assert.Equal(t, "a, b, c", joinWrapped([]string{"a", "b", "c"}, 6))
	assert.Equal(t, "a, b\nc, d\ne", joinWrapped([]string{"a", "b", "c", "d", "e"}, 2))
	assert.Equal(t, "a\nb", joinWrapped([]string{"a", "b"}, 1))
}
