package split

import (
	"testing"

	"github.com/seuros/gopher-sass/src/scss"
	"github.com/stretchr/testify/assert"
)

func TestMaterialize(t *testing.T) {
	pos := scss.Position{File: "a.scss", Line: 1}
	decl := &scss.Declaration{
		Position:      pos,
		Name:          &scss.Interp{Parts: []scss.InterpPart{{Expr: &scss.Variable{Name: "p"}}}},
		Value:         &scss.Variable{Name: "v"},
		ResolvedName:  scss.NewText(pos, "color"),
		ResolvedValue: ident("red"),
	}
	media := &scss.AtRule{
		Position:      pos,
		Name:          "media",
		Query:         &scss.Interp{Parts: []scss.InterpPart{{Expr: &scss.Variable{Name: "q"}, Bare: true}}},
		ResolvedQuery: scss.NewText(pos, "print"),
		HasBlock:      true,
		Children:      []scss.Node{decl},
	}
	rule := &scss.Rule{
		Position:         pos,
		Selector:         &scss.Interp{Parts: []scss.InterpPart{{Text: ".a-"}, {Expr: &scss.Variable{Name: "s"}}}},
		ResolvedSelector: scss.NewText(pos, ".a-b"),
		Children:         []scss.Node{media},
	}
	ext := &scss.Extend{Position: pos, Selector: scss.NewText(pos, "%#{x}"), ResolvedSelector: scss.SelectorList{"%m", ".n"}}

	nodes := []scss.Node{rule, ext}
	Materialize(nodes, AllFields)

	assert.Same(t, rule, nodes[0])
	assert.Same(t, media, rule.Children[0])
	assert.Same(t, decl, media.Children[0])
	assert.Equal(t, ".a-b", rule.Selector.String())
	assert.Equal(t, "print", media.Query.String())
	assert.Equal(t, "color", decl.Name.String())
	assert.Equal(t, "red", scss.Inspect(decl.Value))
	assert.Equal(t, "%m, .n", ext.Selector.String())

	// a second run changes nothing
	selector, query, name, value, extSel := rule.Selector, media.Query, decl.Name, decl.Value, ext.Selector
	Materialize(nodes, AllFields)
	assert.Same(t, selector, rule.Selector)
	assert.Same(t, query, media.Query)
	assert.Same(t, name, decl.Name)
	assert.Equal(t, value, decl.Value)
	assert.Same(t, extSel, ext.Selector)
}

func TestMaterializeFieldSubset(t *testing.T) {
	pos := scss.Position{Line: 1}
	name := scss.NewText(pos, "width")
	decl := &scss.Declaration{
		Position:      pos,
		Name:          name,
		Value:         &scss.Variable{Name: "w"},
		ResolvedName:  scss.NewText(pos, "height"),
		ResolvedValue: ident("1px"),
	}
	Materialize([]scss.Node{decl}, FieldValue)
	assert.Same(t, name, decl.Name)
	assert.Equal(t, "1px", scss.Inspect(decl.Value))

	assert.True(t, AllFields.Has(FieldQuery))
	assert.False(t, FieldValue.Has(FieldName))
}

func TestMaterializeMixinBody(t *testing.T) {
	pos := scss.Position{Line: 2}
	decl := &scss.Declaration{Position: pos, Name: scss.NewText(pos, "a"), Value: ident("b"), ResolvedValue: ident("c")}
	def := &scss.MixinDefinition{Name: "m", Body: []scss.Node{decl}}
	Materialize([]scss.Node{def}, AllFields)
	assert.Equal(t, "c", scss.Inspect(decl.Value))
}
