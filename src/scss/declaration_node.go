package scss

// Declaration is a property declaration such as `color: red`.
type Declaration struct {
	Position Position
	Name     *Interp
	Value    Expr
	// Custom is set for custom properties (`--name`), whose values are kept
	// as raw interpolated text.
	Custom bool

	ResolvedName  *Interp
	ResolvedValue Expr
}

func (n *Declaration) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *Declaration) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitDeclaration(*Declaration) error }); ok {
		return vv.VisitDeclaration(n)
	}
	return nil
}

func (*Declaration) node() {}
