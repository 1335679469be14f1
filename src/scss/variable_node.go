package scss

// VariableBinding assigns a value to a variable: `$name: value !default`.
type VariableBinding struct {
	Position Position
	Name     string
	Value    Expr
	Default  bool
	Global   bool
}

func (n *VariableBinding) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *VariableBinding) Accept(v Visitor) error {
	if vv, ok := v.(interface {
		VisitVariableBinding(*VariableBinding) error
	}); ok {
		return vv.VisitVariableBinding(n)
	}
	return nil
}

func (*VariableBinding) node() {}
