package scss

// Include invokes a mixin: `@include name(args...)`.
type Include struct {
	Position Position
	Name     string
	Args     []Expr
	Keywords []Keyword
	// Splat is the trailing `$list...` argument, if any.
	Splat Expr
}

func (n *Include) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *Include) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitInclude(*Include) error }); ok {
		return vv.VisitInclude(n)
	}
	return nil
}

func (*Include) node() {}

// Exprs returns every argument expression of the invocation in call order.
func (n *Include) Exprs() []Expr {
	out := make([]Expr, 0, len(n.Args)+len(n.Keywords)+1)
	out = append(out, n.Args...)
	for _, kw := range n.Keywords {
		out = append(out, kw.Value)
	}
	if n.Splat != nil {
		out = append(out, n.Splat)
	}
	return out
}
