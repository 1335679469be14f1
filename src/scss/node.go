// Package scss defines the closed node vocabulary shared by the parser, the
// splitter and the renderers.
//
// Nodes are statement-level constructs (rules, declarations, mixin
// invocations, ...). Expressions are the values embedded in them. Both sets
// are sealed: every kind lives in this package and consumers dispatch with
// exhaustive type switches.
package scss

import "fmt"

// Position identifies where a node was parsed from.
type Position struct {
	File string
	Line int
}

// IsZero reports whether the position carries no information.
func (p Position) IsZero() bool {
	return p.File == "" && p.Line == 0
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Node represents a single statement of a stylesheet. It participates in the
// visitor pattern used by the renderers.
type Node interface {
	// Pos returns the source position of the node.
	Pos() Position
	// Accept allows a visitor to process the node.
	Accept(v Visitor) error

	node()
}

// Visitor is implemented by types that can handle specific nodes. A visitor
// only needs the Visit methods for the kinds it cares about.
type Visitor interface{}

// ChildrenOf returns the structural children of a node in source order.
// Leaf kinds have no children. For a mixin definition the body is returned.
func ChildrenOf(n Node) []Node {
	switch n := n.(type) {
	case *Document:
		return n.Children
	case *Rule:
		return n.Children
	case *AtRule:
		return n.Children
	case *MixinDefinition:
		return n.Body
	case *Declaration, *Include, *VariableBinding, *Extend, *Import, *Comment:
		return nil
	default:
		return nil
	}
}

// Clone returns a shallow copy of n. Child slices are copied so the clone can
// be re-parented without touching the original; the children themselves are
// shared.
func Clone(n Node) Node {
	switch n := n.(type) {
	case *Document:
		c := *n
		c.Children = append([]Node(nil), n.Children...)
		return &c
	case *Rule:
		c := *n
		c.Children = append([]Node(nil), n.Children...)
		return &c
	case *AtRule:
		c := *n
		c.Children = append([]Node(nil), n.Children...)
		return &c
	case *MixinDefinition:
		c := *n
		c.Params = append([]Param(nil), n.Params...)
		c.Body = append([]Node(nil), n.Body...)
		return &c
	case *Declaration:
		c := *n
		return &c
	case *Include:
		c := *n
		c.Args = append([]Expr(nil), n.Args...)
		c.Keywords = append([]Keyword(nil), n.Keywords...)
		return &c
	case *VariableBinding:
		c := *n
		return &c
	case *Extend:
		c := *n
		c.ResolvedSelector = append(SelectorList(nil), n.ResolvedSelector...)
		return &c
	case *Import:
		c := *n
		return &c
	case *Comment:
		c := *n
		return &c
	default:
		return n
	}
}

// DeepClone copies n and, recursively, all of its children. Expressions are
// immutable and stay shared.
func DeepClone(n Node) Node {
	c := Clone(n)
	switch c := c.(type) {
	case *Document:
		c.Children = deepCloneAll(c.Children)
	case *Rule:
		c.Children = deepCloneAll(c.Children)
	case *AtRule:
		c.Children = deepCloneAll(c.Children)
	case *MixinDefinition:
		c.Body = deepCloneAll(c.Body)
	}
	return c
}

func deepCloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = DeepClone(n)
	}
	return out
}

// KindOf returns a short human readable name for the node kind.
func KindOf(n Node) string {
	switch n.(type) {
	case *Document:
		return "document"
	case *Rule:
		return "rule"
	case *Declaration:
		return "declaration"
	case *Include:
		return "include"
	case *MixinDefinition:
		return "mixin"
	case *VariableBinding:
		return "variable"
	case *Extend:
		return "extend"
	case *Import:
		return "import"
	case *AtRule:
		return "at-rule"
	case *Comment:
		return "comment"
	default:
		return fmt.Sprintf("%T", n)
	}
}
