package scss

// Param is a formal mixin parameter with an optional default.
type Param struct {
	Name    string
	Default Expr
}

// MixinDefinition declares a reusable block: `@mixin name($a, $b: 1, $rest...)`.
type MixinDefinition struct {
	Position Position
	Name     string
	Params   []Param
	// Rest names the variadic parameter, empty when there is none.
	Rest string
	Body []Node
}

func (n *MixinDefinition) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *MixinDefinition) Accept(v Visitor) error {
	if vv, ok := v.(interface {
		VisitMixinDefinition(*MixinDefinition) error
	}); ok {
		return vv.VisitMixinDefinition(n)
	}
	return nil
}

func (*MixinDefinition) node() {}
