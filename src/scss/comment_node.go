package scss

// Comment is either a loud `/* */` comment or a silent `//` comment.
type Comment struct {
	Position Position
	// Text is the comment including its delimiters.
	Text   string
	Silent bool
}

func (n *Comment) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *Comment) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitComment(*Comment) error }); ok {
		return vv.VisitComment(n)
	}
	return nil
}

func (*Comment) node() {}
