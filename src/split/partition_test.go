package split

import (
	"errors"
	"fmt"
	"testing"

	"github.com/seuros/gopher-sass/src/parser"
	"github.com/seuros/gopher-sass/src/render"
	"github.com/seuros/gopher-sass/src/scss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func split(t *testing.T, src string, mode Mode, opts ...Option) string {
	t.Helper()
	out, err := Partition(mustParse(t, src), mode, opts...)
	require.NoError(t, err)
	text, err := render.SCSS(out)
	require.NoError(t, err)
	return text
}

// memImporter serves documents from memory; names are canonical as is.
type memImporter struct {
	files map[string]string
}

func (m memImporter) Import(path, from string) (string, *scss.Document, error) {
	src, ok := m.files[path]
	if !ok {
		return "", nil, fmt.Errorf("%s not found", path)
	}
	p, err := parser.New()
	if err != nil {
		return "", nil, err
	}
	doc, err := p.Parse(path, src)
	return path, doc, err
}

func (m memImporter) Canonical(file string) string { return file }

func TestParseMode(t *testing.T) {
	for input, want := range map[string]Mode{"static": Static, "Dynamic": Dynamic, "": Static} {
		got, err := ParseMode(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("both")
	assert.Error(t, err)
	assert.Equal(t, "dynamic", Dynamic.String())
}

func TestHighlightWithLiteralArgument(t *testing.T) {
	src := "@mixin highlight($color) { color: $color; }\n.a { @include highlight(red); }"

	assert.Equal(t, ".a {\n  color: red;\n}\n", split(t, src, Static))
	assert.Equal(t, "@mixin highlight($color) {\n  color: $color;\n}\n", split(t, src, Dynamic))
}

func TestHighlightWithUnboundArgument(t *testing.T) {
	src := "@mixin highlight($color) { color: $color; }\n.a { @include highlight($user-color); }"

	assert.Equal(t, "", split(t, src, Static))
	assert.Equal(t,
		"@mixin highlight($color) {\n  color: $color;\n}\n.a {\n  @include highlight($user-color);\n}\n",
		split(t, src, Dynamic))
}

func TestArityErrorThroughPartition(t *testing.T) {
	src := "@mixin two($a, $b) { a: $a; }\n.a { @include two(1, 2, 3); }"
	_, err := Partition(mustParse(t, src), Static)

	var arity *ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 2, arity.Declared)
	assert.Equal(t, 3, arity.Supplied)
	assert.Equal(t, 2, arity.Pos().Line)
	assert.Equal(t, "test.scss:2: Mixin two takes 2 arguments but 3 were passed.", err.Error())
}

func TestUndefinedMixin(t *testing.T) {
	_, err := Partition(mustParse(t, ".a {\n  @include nope;\n}"), Dynamic)
	var lookup *LookupError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, "Undefined mixin 'nope'.", lookup.Message())
	assert.Equal(t, 2, lookup.Pos().Line)
}

func TestDeclarationsPartition(t *testing.T) {
	src := `
/* header */
$w: 10px;
.a {
  color: red;
  width: $w;
  .b {
    height: 1px;
  }
  .c {
    top: $t;
  }
}
.#{$name} {
  margin: 0;
}
`
	assert.Equal(t,
		"/* header */\n$w: 10px;\n.a {\n  color: red;\n  .b {\n    height: 1px;\n  }\n}\n.#{$name} {\n  margin: 0;\n}\n",
		split(t, src, Static))
	assert.Equal(t,
		"$w: 10px;\n.a {\n  width: $w;\n  .c {\n    top: $t;\n  }\n}\n",
		split(t, src, Dynamic))
}

// leaves collects declarations, extends and includes by kind and line.
func leaves(nodes []scss.Node, out map[string]int) {
	for _, n := range nodes {
		switch n.(type) {
		case *scss.Declaration, *scss.Extend, *scss.Include:
			out[fmt.Sprintf("%s@%d", scss.KindOf(n), n.Pos().Line)]++
		}
		leaves(scss.ChildrenOf(n), out)
	}
}

func TestPartitionIsExhaustiveAndDisjoint(t *testing.T) {
	src := `
.a {
  color: red;
  width: $w;
  @extend .z;
  @extend %p-#{$x};
  .b-#{$s} {
    height: 1px;
    top: 2px + $gap;
  }
  @media print {
    display: none;
    font: $font;
  }
}
.z { margin: 0 auto; }
%p-q { padding: 1px; }
#{$prop}: 1px;
`
	doc := mustParse(t, src)
	input := map[string]int{}
	leaves(doc.Children, input)

	static, err := Partition(doc, Static)
	require.NoError(t, err)
	dynamic, err := Partition(doc, Dynamic)
	require.NoError(t, err)

	inStatic, inDynamic := map[string]int{}, map[string]int{}
	leaves(static.Children, inStatic)
	leaves(dynamic.Children, inDynamic)

	for key, count := range input {
		assert.Equal(t, count, inStatic[key]+inDynamic[key], key)
		assert.False(t, inStatic[key] > 0 && inDynamic[key] > 0, "%s in both outputs", key)
	}
	assert.Len(t, inStatic, 6)
	assert.Len(t, inDynamic, 5)
}

func TestStaticPartitionIsIdempotent(t *testing.T) {
	src := `
$base: 4px;
@mixin pad($p: $base) { padding: $p; }
@mixin box($w, $rest...) { width: $w; .inner { @include pad; } }
.a { @include box(10px, 1, 2); color: red; }
`
	doc := mustParse(t, src)
	before, err := render.SCSS(doc)
	require.NoError(t, err)

	first, err := Partition(doc, Static)
	require.NoError(t, err)
	second, err := Partition(doc, Static)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	after, err := render.SCSS(doc)
	require.NoError(t, err)
	assert.Equal(t, before, after, "input must not be modified")

	text, err := render.SCSS(first)
	require.NoError(t, err)
	assert.Equal(t, "$base: 4px;\n.a {\n  width: 10px;\n  .inner {\n    padding: 4px;\n  }\n  color: red;\n}\n", text)
}

func TestStartingEnvironmentIsNotModified(t *testing.T) {
	env := NewEnv(nil)
	env.Set("c", ident("red"))
	src := "$c: blue;\n@mixin m($x: $c) { a: $x; }\n.a { @include m; }"

	assert.Equal(t, "$c: blue;\n.a {\n  a: blue;\n}\n", split(t, src, Static, WithEnv(env)))
	v, _ := env.Lookup("c")
	assert.Equal(t, ident("red"), v)
	_, ok := env.LookupMixin("m")
	assert.False(t, ok)
}

func TestDefaultBindingRespectsExistingValue(t *testing.T) {
	env := NewEnv(nil)
	env.Set("c", ident("red"))
	src := "$c: blue !default;\n@mixin m($x: $c) { a: $x; }\n.a { @include m; }"

	assert.Equal(t, "$c: blue !default;\n.a {\n  a: red;\n}\n", split(t, src, Static, WithEnv(env)))
}

func TestDynamicSpreadIsKeptForLater(t *testing.T) {
	src := "@mixin m($a...) { x: y; }\n.a { @include m($list...); }"

	assert.Equal(t, "", split(t, src, Static))
	assert.Contains(t, split(t, src, Dynamic), "@include m($list...);")
}

func TestIncludeWithUnusedDynamicArgumentExpands(t *testing.T) {
	src := "@mixin m($unused) { x: y; }\n.a { @include m($v); }"

	assert.Equal(t, ".a {\n  x: y;\n}\n", split(t, src, Static))
	assert.Equal(t, "@mixin m($unused) {\n  x: y;\n}\n", split(t, src, Dynamic))
}

func TestMixinReferencingGlobalStaysDynamic(t *testing.T) {
	src := "$g: 1px;\n@mixin m { border: $g solid; }\n.a { @include m; }"

	assert.Equal(t, "$g: 1px;\n", split(t, src, Static))
	assert.Contains(t, split(t, src, Dynamic), ".a {\n  @include m;\n}\n")
}

func TestNestedIncludesExpand(t *testing.T) {
	src := `
@mixin inner($c) { color: $c; }
@mixin outer($c, $w: 1px) {
  @include inner($c);
  .x { width: $w; }
}
.a { @include outer(red, $w: 2px); }
`
	assert.Equal(t, ".a {\n  color: red;\n  .x {\n    width: 2px;\n  }\n}\n", split(t, src, Static))
}

func TestNestedIncludeOfDynamicMixin(t *testing.T) {
	tests := []struct {
		name  string
		inner string
	}{
		{"body", "@mixin inner { color: $g; }"},
		{"default", "@mixin inner($c: $g) { color: $c; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.inner + "\n@mixin outer { @include inner; }\n.x { @include outer; }"

			assert.Equal(t, "", split(t, src, Static))
			assert.Contains(t, split(t, src, Dynamic), ".x {\n  @include outer;\n}\n")
		})
	}
}

func TestNestedIncludeWithStaticDefaultExpands(t *testing.T) {
	src := "@mixin inner($c: red) { color: $c; }\n@mixin outer { @include inner; }\n.x { @include outer; }"

	assert.Equal(t, ".x {\n  color: red;\n}\n", split(t, src, Static))
	assert.NotContains(t, split(t, src, Dynamic), ".x")
}

func TestNestedIncludeArgumentShadowsGlobal(t *testing.T) {
	src := "@mixin inner($g) { color: $g; }\n@mixin outer { @include inner(blue); }\n.x { @include outer; }"

	assert.Equal(t, ".x {\n  color: blue;\n}\n", split(t, src, Static))
	assert.NotContains(t, split(t, src, Dynamic), ".x")
}

func TestReferencesTerminateOnIncludeCycle(t *testing.T) {
	src := "@mixin a { @include b; }\n@mixin b { x: $v; @include a; }\n.x { @include a; }"

	assert.Equal(t, "", split(t, src, Static))
	assert.Contains(t, split(t, src, Dynamic), ".x {\n  @include a;\n}\n")
}

func TestRuleHoldingOnlyLocalBindingsIsDropped(t *testing.T) {
	src := ".a { $x: 1; width: 1px; }"

	assert.Equal(t, ".a {\n  $x: 1;\n  width: 1px;\n}\n", split(t, src, Static))
	assert.Equal(t, "", split(t, src, Dynamic))

	global := ".a { $x: 1 !global; width: 1px; }"
	assert.Equal(t, ".a {\n  $x: 1 !global;\n}\n", split(t, global, Dynamic))
}

func TestMixinCycle(t *testing.T) {
	src := "@mixin a { @include b; }\n@mixin b { @include a; }\n.x { @include a; }"

	_, err := Partition(mustParse(t, src), Static)
	var cycle *MixinCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "b", "a"}, cycle.Chain)
	assert.Contains(t, cycle.Message(), "a includes b, b includes a")
	require.Len(t, cycle.Trace(), 2)
	assert.Equal(t, "b", cycle.Trace()[0].Name)
	assert.Equal(t, "mixin", cycle.Trace()[0].Kind)

	// nothing is expanded in dynamic mode
	assert.Equal(t, "@mixin a {\n  @include b;\n}\n@mixin b {\n  @include a;\n}\n", split(t, src, Dynamic))
}

func TestRecursionLimit(t *testing.T) {
	src := "@mixin c { d: e; }\n@mixin b { @include c; }\n@mixin a { @include b; }\n.x { @include a; }"

	_, err := Partition(mustParse(t, src), Static, WithMaxDepth(2))
	var limit *RecursionError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 2, limit.Limit)
	assert.Equal(t, "Maximum nesting depth of 2 exceeded.", limit.Message())

	assert.Equal(t, ".x {\n  d: e;\n}\n", split(t, src, Static))
}

func TestUnboundVariableInsideExpansionIsReported(t *testing.T) {
	c := mixin("m", "a")
	c.Body = []scss.Node{&scss.Declaration{
		Position: scss.Position{File: "test.scss", Line: 7},
		Name:     scss.NewText(scss.Position{}, "x"),
		Value:    &scss.Variable{Position: scss.Position{File: "test.scss", Line: 7}, Name: "a"},
	}}
	_, err := evaluator{env: NewEnv(nil), strict: true}.nodes(c.Body)
	var lookup *LookupError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, `test.scss:7: Undefined variable: "$a".`, err.Error())
}

func TestExtendIsReparsed(t *testing.T) {
	src := "@mixin ext($t) { @extend %#{$t}; }\n.a { @include ext(msg); }"

	out, err := Partition(mustParse(t, src), Static)
	require.NoError(t, err)
	rule := out.Children[0].(*scss.Rule)
	ext := rule.Children[0].(*scss.Extend)
	assert.Equal(t, scss.SelectorList{"%msg"}, ext.ResolvedSelector)
	assert.Equal(t, "%msg", ext.Selector.String())

	text, err := render.SCSS(out)
	require.NoError(t, err)
	assert.Equal(t, ".a {\n  @extend %msg;\n}\n", text)
}

func TestExtendReparseErrorCarriesPosition(t *testing.T) {
	src := "@mixin ext($t) {\n  @extend #{$t};\n}\n.a { @include ext(\".b,\"); }"

	_, err := Partition(mustParse(t, src), Static)
	var syntax *scss.SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, scss.Position{File: "test.scss", Line: 2}, syntax.Position)
}

func TestAtRuleIsNeverPruned(t *testing.T) {
	src := "$bp: 10px;\n@media (min-width: #{$bp}) { .a { color: $c; } }"

	assert.Equal(t, "$bp: 10px;\n@media (min-width: 10px) {\n}\n", split(t, src, Static))
	assert.Equal(t, "$bp: 10px;\n@media (min-width: 10px) {\n  .a {\n    color: $c;\n  }\n}\n", split(t, src, Dynamic))
}

func TestImportsAreInlinedOnce(t *testing.T) {
	imp := memImporter{files: map[string]string{
		"vars":   "$c: red;\n.v { x: y; }",
		"plain":  "p { q: r; }",
		"nested": "@import \"plain\";",
	}}
	src := "@import \"vars\";\n@import \"theme.css\";\n.a { b: $c; }"

	assert.Equal(t, "$c: red;\n.v {\n  x: y;\n}\n@import \"theme.css\";\n", split(t, src, Static, WithImporter(imp)))
	assert.Equal(t, "$c: red;\n.a {\n  b: $c;\n}\n", split(t, src, Dynamic, WithImporter(imp)))

	// a file imported twice along different paths is not a cycle
	src = "@import \"plain\";\n@import \"nested\";"
	assert.Equal(t, "p {\n  q: r;\n}\np {\n  q: r;\n}\n", split(t, src, Static, WithImporter(imp)))
}

func TestImportCycle(t *testing.T) {
	imp := memImporter{files: map[string]string{
		"a": "@import \"b\";",
		"b": "@import \"a\";",
	}}
	p, err := parser.New()
	require.NoError(t, err)
	root, err := p.Parse("a", imp.files["a"])
	require.NoError(t, err)

	_, err = Partition(root, Static, WithImporter(imp))
	var cycle *ImportCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "b", "a"}, cycle.Chain)
	assert.Equal(t, "b:1: An @import loop has been found: a imports b, b imports a", err.Error())
	require.Len(t, cycle.Trace(), 1)
	assert.Equal(t, "import", cycle.Trace()[0].Kind)
}

func TestImportErrors(t *testing.T) {
	_, err := Partition(mustParse(t, "@import \"missing\";"), Static)
	var imp *ImportError
	require.ErrorAs(t, err, &imp)
	assert.Equal(t, "missing", imp.Path)

	_, err = Partition(mustParse(t, "@import \"missing\";"), Static, WithImporter(memImporter{}))
	require.ErrorAs(t, err, &imp)
	assert.Contains(t, errors.Unwrap(imp).Error(), "not found")

	broken := memImporter{files: map[string]string{"broken": "a {"}}
	_, err = Partition(mustParse(t, "@import \"broken\";"), Static, WithImporter(broken))
	var syntax *scss.SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, "broken", syntax.Position.File)
}
