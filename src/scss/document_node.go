package scss

// Document is the root of a parsed stylesheet.
type Document struct {
	Position Position
	Children []Node
}

// Pos returns the position of the document, usually line 1 of its file.
func (n *Document) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *Document) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitDocument(*Document) error }); ok {
		return vv.VisitDocument(n)
	}
	return nil
}

func (*Document) node() {}
