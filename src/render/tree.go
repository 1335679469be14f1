package render

import (
	"fmt"
	"strings"

	"github.com/seuros/gopher-sass/src/scss"
	"github.com/xlab/treeprint"
)

// Tree dumps doc as an indented tree, one node per line with its source
// line.
func Tree(doc *scss.Document) string {
	t := treeprint.New()
	root := t.AddBranch(label(doc))
	addNodes(root, doc.Children)
	return t.String()
}

func addNodes(t treeprint.Tree, nodes []scss.Node) {
	for _, n := range nodes {
		children := scss.ChildrenOf(n)
		if len(children) == 0 {
			t.AddNode(label(n))
			continue
		}
		addNodes(t.AddBranch(label(n)), children)
	}
}

func label(n scss.Node) string {
	var detail string
	switch n := n.(type) {
	case *scss.Document:
		detail = n.Position.File
	case *scss.Rule:
		detail = n.Selector.String()
	case *scss.Declaration:
		detail = n.Name.String() + ": " + value(n.Value)
	case *scss.VariableBinding:
		detail = "$" + n.Name + ": " + value(n.Value)
	case *scss.MixinDefinition:
		detail = n.Name
		if len(n.Params) > 0 || n.Rest != "" {
			names := make([]string, 0, len(n.Params)+1)
			for _, p := range n.Params {
				names = append(names, "$"+p.Name)
			}
			if n.Rest != "" {
				names = append(names, "$"+n.Rest+"...")
			}
			detail += "(" + strings.Join(names, ", ") + ")"
		}
	case *scss.Include:
		detail = n.Name
	case *scss.Extend:
		detail = n.Selector.String()
	case *scss.Import:
		detail = importTarget(n)
	case *scss.AtRule:
		detail = strings.TrimSpace("@" + n.Name + " " + n.Query.String())
	case *scss.Comment:
		detail = firstLine(n.Text)
	}
	s := scss.KindOf(n)
	if detail != "" {
		s += " " + detail
	}
	if line := n.Pos().Line; line > 0 {
		s += fmt.Sprintf(" [%d]", line)
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
