package scss

// AtRule is any directive not modelled by a dedicated node: `@media`,
// `@supports`, `@font-face`, `@charset` and friends.
type AtRule struct {
	Position Position
	// Name is the directive name without the leading `@`.
	Name string
	// Query is the text between the name and the block, nil when empty.
	Query    *Interp
	Children []Node
	// HasBlock distinguishes `@x {}` from `@x;`.
	HasBlock bool

	ResolvedQuery *Interp
}

func (n *AtRule) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *AtRule) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitAtRule(*AtRule) error }); ok {
		return vv.VisitAtRule(n)
	}
	return nil
}

func (*AtRule) node() {}
