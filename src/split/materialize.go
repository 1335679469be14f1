package split

import "github.com/seuros/gopher-sass/src/scss"

// FieldSet selects which deferred fields Materialize copies.
type FieldSet uint8

const (
	FieldSelector FieldSet = 1 << iota
	FieldName
	FieldValue
	FieldQuery

	AllFields = FieldSelector | FieldName | FieldValue | FieldQuery
)

// Has reports whether f includes every field of other.
func (f FieldSet) Has(other FieldSet) bool { return f&other == other }

// Materialize copies the deferred (resolved) fields of nodes and all their
// descendants into the visible ones, in place. Nodes keep their identity
// and shape, and running it twice changes nothing.
func Materialize(nodes []scss.Node, fields FieldSet) {
	for _, n := range nodes {
		materialize(n, fields)
	}
}

func materialize(n scss.Node, fields FieldSet) {
	switch n := n.(type) {
	case *scss.Rule:
		if fields.Has(FieldSelector) && n.ResolvedSelector != nil && n.ResolvedSelector != n.Selector {
			n.Selector = n.ResolvedSelector
		}
	case *scss.Declaration:
		if fields.Has(FieldName) && n.ResolvedName != nil && n.ResolvedName != n.Name {
			n.Name = n.ResolvedName
		}
		if fields.Has(FieldValue) && n.ResolvedValue != nil && n.ResolvedValue != n.Value {
			n.Value = n.ResolvedValue
		}
	case *scss.AtRule:
		if fields.Has(FieldQuery) && n.ResolvedQuery != nil && n.ResolvedQuery != n.Query {
			n.Query = n.ResolvedQuery
		}
	case *scss.Extend:
		if fields.Has(FieldSelector) && n.ResolvedSelector != nil {
			text := n.ResolvedSelector.String()
			if cur, ok := n.Selector.Plain(); !ok || cur != text {
				n.Selector = scss.NewText(n.Position, text)
			}
		}
	}
	for _, c := range scss.ChildrenOf(n) {
		materialize(c, fields)
	}
}
