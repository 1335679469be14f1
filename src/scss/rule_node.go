package scss

// Rule is a style rule: a selector followed by a block of children.
type Rule struct {
	Position Position
	Selector *Interp
	Children []Node

	// ResolvedSelector holds the selector after interpolation was evaluated.
	// Materialize copies it into Selector.
	ResolvedSelector *Interp
}

func (n *Rule) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *Rule) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitRule(*Rule) error }); ok {
		return vv.VisitRule(n)
	}
	return nil
}

func (*Rule) node() {}
