package parser

import (
	"testing"

	"github.com/seuros/gopher-sass/src/scss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *scss.Document {
	t.Helper()
	p, err := New()
	require.NoError(t, err)
	doc, err := p.Parse("test.scss", src)
	require.NoError(t, err)
	return doc
}

func TestBasicParsing(t *testing.T) {
	parser, err := New()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"rule with declaration", `a { color: red; }`, true},
		{"nested rules", `.a { .b { color: red } }`, true},
		{"variable binding", `$primary: #336699 !default;`, true},
		{"mixin and include", "@mixin m($a, $b: 1px) { width: $a; }\n.x { @include m(2px); }", true},
		{"media query", `@media (min-width: $bp) { a { color: red } }`, true},
		{"plain import", `@import "foo.css";`, true},
		{"extend", `.a { @extend .b !optional; }`, true},
		{"comments", "/* loud */\n// silent\na { b: c }", true},
		{"unclosed block", `a { color: red;`, false},
		{"stray brace", `a { color: red; } }`, false},
		{"control directive", `@if $a { b: c }`, false},
		{"function directive", `@function f() { @return 1; }`, false},
		{"content block", `a { @include m { b: c } }`, false},
		{"missing colon", `a { color red; }`, false},
		{"unterminated string", `a { content: "abc; }`, false},
		{"bad value", `a { width: 1px ) ; }`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse("test.scss", tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				var se *scss.SyntaxError
				assert.ErrorAs(t, err, &se)
			}
		})
	}
}

func TestParseRuleStructure(t *testing.T) {
	doc := mustParse(t, "// header\n.card {\n  color: $fg;\n  .title { font-weight: bold; }\n}\n")
	require.Len(t, doc.Children, 2)

	comment := doc.Children[0].(*scss.Comment)
	assert.True(t, comment.Silent)
	assert.Equal(t, "// header", comment.Text)

	rule := doc.Children[1].(*scss.Rule)
	assert.Equal(t, 2, rule.Position.Line)
	assert.Equal(t, "test.scss", rule.Position.File)
	sel, ok := rule.Selector.Plain()
	require.True(t, ok)
	assert.Equal(t, ".card", sel)
	require.Len(t, rule.Children, 2)

	decl := rule.Children[0].(*scss.Declaration)
	assert.Equal(t, 3, decl.Position.Line)
	assert.Equal(t, &scss.Variable{Position: scss.Position{File: "test.scss", Line: 3}, Name: "fg"}, decl.Value)

	nested := rule.Children[1].(*scss.Rule)
	assert.Equal(t, 4, nested.Position.Line)
}

func TestParseVariableFlags(t *testing.T) {
	doc := mustParse(t, "$a: 1px !default;\n$b: red !global;\n$c: 1px solid $a;")
	require.Len(t, doc.Children, 3)

	a := doc.Children[0].(*scss.VariableBinding)
	assert.Equal(t, "a", a.Name)
	assert.True(t, a.Default)
	assert.False(t, a.Global)

	b := doc.Children[1].(*scss.VariableBinding)
	assert.True(t, b.Global)

	c := doc.Children[2].(*scss.VariableBinding)
	list, ok := c.Value.(*scss.List)
	require.True(t, ok)
	assert.Equal(t, scss.SpaceSeparator, list.Separator)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "a", list.Items[2].(*scss.Variable).Name)
}

func TestParseValues(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"red", "red"},
		{"1px solid #fff", "1px solid #fff"},
		{"Helvetica, Arial, sans-serif", "Helvetica, Arial, sans-serif"},
		{"$a + $b", "$a + $b"},
		{"12px/1.5", "12px/1.5"},
		{"$gutter * 2", "$gutter * 2"},
		{"-$x", "-$x"},
		{"darken($c, 10%)", "darken($c, 10%)"},
		{"rgba($color: red, $alpha: 0.5)", "rgba($color: red, $alpha: 0.5)"},
		{"(a: 1, b: 2)", "(a: 1, b: 2)"},
		{"(1px 2px)", "(1px 2px)"},
		{`"Open Sans"`, `"Open Sans"`},
		{`"icon-#{$name}"`, `"icon-#{$name}"`},
		{"url(images/bg.png)", "url(images/bg.png)"},
		{"url($path)", "url($path)"},
		{"#{$side}-width", "#{$side}-width"},
		{"red !important", "red !important"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := p.ParseValue(tt.input, scss.Position{File: "v.scss", Line: 1})
			require.NoError(t, err)
			assert.Equal(t, tt.want, scss.Inspect(e))
		})
	}
}

func TestParseValueKinds(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	pos := scss.Position{Line: 1}

	e, err := p.ParseValue("darken($c, 10%)", pos)
	require.NoError(t, err)
	call, ok := e.(*scss.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "darken", call.Name)
	require.Len(t, call.Args, 2)

	e, err = p.ParseValue("(a: 1)", pos)
	require.NoError(t, err)
	_, ok = e.(*scss.Map)
	assert.True(t, ok)

	e, err = p.ParseValue(`"plain"`, pos)
	require.NoError(t, err)
	lit, ok := e.(*scss.Literal)
	require.True(t, ok)
	assert.Equal(t, scss.StringLiteral, lit.Kind)
	assert.Equal(t, "plain", lit.Value)
	assert.Equal(t, byte('"'), lit.Quote)

	e, err = p.ParseValue(`"a#{$b}"`, pos)
	require.NoError(t, err)
	interp, ok := e.(*scss.Interp)
	require.True(t, ok)
	assert.Equal(t, byte('"'), interp.Quote)
	require.Len(t, interp.Exprs(), 1)

	e, err = p.ParseValue("$a - $b", pos)
	require.NoError(t, err)
	op, ok := e.(*scss.Operation)
	require.True(t, ok)
	assert.Equal(t, "-", op.Op)
	assert.False(t, op.Compact)
}

func TestParseMixinSignature(t *testing.T) {
	doc := mustParse(t, "@mixin button($bg, $fg: white, $args...) {\n  background: $bg;\n}")
	require.Len(t, doc.Children, 1)

	m := doc.Children[0].(*scss.MixinDefinition)
	assert.Equal(t, "button", m.Name)
	require.Len(t, m.Params, 2)
	assert.Equal(t, "bg", m.Params[0].Name)
	assert.Nil(t, m.Params[0].Default)
	assert.Equal(t, "fg", m.Params[1].Name)
	assert.Equal(t, "white", scss.Inspect(m.Params[1].Default))
	assert.Equal(t, "args", m.Rest)
	require.Len(t, m.Body, 1)
	assert.Equal(t, 2, m.Body[0].Pos().Line)
}

func TestParseMixinWithoutParams(t *testing.T) {
	doc := mustParse(t, "@mixin clearfix { clear: both; }")
	m := doc.Children[0].(*scss.MixinDefinition)
	assert.Equal(t, "clearfix", m.Name)
	assert.Empty(t, m.Params)
	assert.Empty(t, m.Rest)
}

func TestParseIncludeArguments(t *testing.T) {
	doc := mustParse(t, "a {\n  @include button(red, $fg: blue, $rest...);\n  @include clearfix;\n}")
	rule := doc.Children[0].(*scss.Rule)
	require.Len(t, rule.Children, 2)

	inc := rule.Children[0].(*scss.Include)
	assert.Equal(t, "button", inc.Name)
	require.Len(t, inc.Args, 1)
	assert.Equal(t, "red", scss.Inspect(inc.Args[0]))
	require.Len(t, inc.Keywords, 1)
	assert.Equal(t, "fg", inc.Keywords[0].Name)
	assert.Equal(t, "$rest", scss.Inspect(inc.Splat))
	assert.Equal(t, 2, inc.Position.Line)

	bare := rule.Children[1].(*scss.Include)
	assert.Equal(t, "clearfix", bare.Name)
	assert.Empty(t, bare.Args)
	assert.Nil(t, bare.Splat)
}

func TestParseIncludeRejectsMisplacedSpread(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	_, err = p.Parse("t.scss", "a { @include m($list..., 1); }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last argument")
}

func TestParseImports(t *testing.T) {
	doc := mustParse(t, `@import "base", "theme.css", url(fonts.css) screen;`)
	require.Len(t, doc.Children, 3)

	base := doc.Children[0].(*scss.Import)
	assert.Equal(t, "base", base.Path)
	assert.False(t, base.Plain)

	css := doc.Children[1].(*scss.Import)
	assert.Equal(t, "theme.css", css.Path)
	assert.True(t, css.Plain)

	font := doc.Children[2].(*scss.Import)
	assert.Equal(t, "url(fonts.css)", font.Path)
	assert.Equal(t, "screen", font.Media)
	assert.True(t, font.Plain)
}

func TestParseAtRules(t *testing.T) {
	doc := mustParse(t, "@charset \"UTF-8\";\n@media screen and (min-width: $bp) {\n  a { color: red; }\n}\n@font-face { font-family: x; }")
	require.Len(t, doc.Children, 3)

	charset := doc.Children[0].(*scss.AtRule)
	assert.Equal(t, "charset", charset.Name)
	assert.False(t, charset.HasBlock)

	media := doc.Children[1].(*scss.AtRule)
	assert.Equal(t, "media", media.Name)
	assert.True(t, media.HasBlock)
	require.NotNil(t, media.Query)
	require.Len(t, media.Query.Exprs(), 1)
	assert.Equal(t, "screen and (min-width: $bp)", media.Query.String())
	require.Len(t, media.Children, 1)

	face := doc.Children[2].(*scss.AtRule)
	assert.Nil(t, face.Query)
	require.Len(t, face.Children, 1)
}

func TestParseInterpolatedSelectorAndProperty(t *testing.T) {
	doc := mustParse(t, ".icon-#{$name} { #{$side}-margin: 0; --accent: #{$c}; }")
	rule := doc.Children[0].(*scss.Rule)
	_, plain := rule.Selector.Plain()
	assert.False(t, plain)
	require.Len(t, rule.Selector.Exprs(), 1)

	decl := rule.Children[0].(*scss.Declaration)
	assert.Equal(t, "#{$side}-margin", decl.Name.String())

	custom := rule.Children[1].(*scss.Declaration)
	assert.True(t, custom.Custom)
	assert.Equal(t, "#{$c}", scss.Inspect(custom.Value))
}

func TestParseExtend(t *testing.T) {
	doc := mustParse(t, ".a { @extend %message !optional; }")
	ext := doc.Children[0].(*scss.Rule).Children[0].(*scss.Extend)
	assert.True(t, ext.Optional)
	assert.Equal(t, "%message", ext.Selector.String())
}

func TestSyntaxErrorPosition(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.Parse("broken.scss", "a {\n  color: red;\n  width: 1px );\n}")
	require.Error(t, err)
	var se *scss.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "broken.scss", se.Position.File)
	assert.Equal(t, 3, se.Position.Line)
}

func TestLastDeclarationWithoutSemicolon(t *testing.T) {
	doc := mustParse(t, "a { color: red; width: 1px }")
	rule := doc.Children[0].(*scss.Rule)
	require.Len(t, rule.Children, 2)
	assert.Equal(t, "1px", scss.Inspect(rule.Children[1].(*scss.Declaration).Value))
}
