package scss

import "strings"

// SelectorList is a parsed comma separated selector group. Each entry is one
// complex selector in normalized form.
type SelectorList []string

func (l SelectorList) String() string {
	return strings.Join(l, ", ")
}

// Extend is an `@extend selector [!optional]` statement.
type Extend struct {
	Position Position
	Selector *Interp
	Optional bool

	// ResolvedSelector is the re-parsed target once interpolation resolved.
	ResolvedSelector SelectorList
}

func (n *Extend) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *Extend) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitExtend(*Extend) error }); ok {
		return vv.VisitExtend(n)
	}
	return nil
}

func (*Extend) node() {}
