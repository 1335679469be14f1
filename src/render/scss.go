// Package render turns partitioned stylesheet trees back into text: SCSS
// source, flat CSS, or an indented tree dump for debugging.
package render

import (
	"strconv"
	"strings"

	"github.com/seuros/gopher-sass/src/scss"
)

// Printer walks the tree and builds SCSS output.
type Printer struct {
	output strings.Builder
	depth  int
}

// NewPrinter creates a new printer instance.
func NewPrinter() *Printer {
	return &Printer{}
}

// Output returns the SCSS written so far.
func (p *Printer) Output() string { return p.output.String() }

// SCSS renders doc as SCSS source with two space indentation.
func SCSS(doc *scss.Document) (string, error) {
	p := NewPrinter()
	if err := p.Print(doc.Children...); err != nil {
		return "", err
	}
	return p.Output(), nil
}

// Print renders nodes at the current depth.
func (p *Printer) Print(nodes ...scss.Node) error {
	for _, n := range nodes {
		if err := n.Accept(p); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) line(s string) {
	p.output.WriteString(strings.Repeat("  ", p.depth))
	p.output.WriteString(s)
	p.output.WriteByte('\n')
}

func (p *Printer) block(header string, children []scss.Node) error {
	p.line(header + " {")
	p.depth++
	if err := p.Print(children...); err != nil {
		return err
	}
	p.depth--
	p.line("}")
	return nil
}

// VisitComment renders a comment as written.
func (p *Printer) VisitComment(n *scss.Comment) error {
	p.line(n.Text)
	return nil
}

// VisitDeclaration renders `name: value;`.
func (p *Printer) VisitDeclaration(n *scss.Declaration) error {
	p.line(n.Name.String() + ": " + value(n.Value) + ";")
	return nil
}

// VisitRule renders a rule and its block.
func (p *Printer) VisitRule(n *scss.Rule) error {
	return p.block(n.Selector.String(), n.Children)
}

// VisitAtRule renders a directive with or without a block.
func (p *Printer) VisitAtRule(n *scss.AtRule) error {
	header := "@" + n.Name
	if q := n.Query.String(); q != "" {
		header += " " + q
	}
	if !n.HasBlock {
		p.line(header + ";")
		return nil
	}
	return p.block(header, n.Children)
}

// VisitVariableBinding renders `$name: value [!default] [!global];`.
func (p *Printer) VisitVariableBinding(n *scss.VariableBinding) error {
	s := "$" + n.Name + ": " + value(n.Value)
	if n.Default {
		s += " !default"
	}
	if n.Global {
		s += " !global"
	}
	p.line(s + ";")
	return nil
}

// VisitMixinDefinition renders a mixin with its signature.
func (p *Printer) VisitMixinDefinition(n *scss.MixinDefinition) error {
	header := "@mixin " + n.Name
	if len(n.Params) > 0 || n.Rest != "" {
		params := make([]string, 0, len(n.Params)+1)
		for _, prm := range n.Params {
			s := "$" + prm.Name
			if prm.Default != nil {
				s += ": " + scss.Inspect(prm.Default)
			}
			params = append(params, s)
		}
		if n.Rest != "" {
			params = append(params, "$"+n.Rest+"...")
		}
		header += "(" + strings.Join(params, ", ") + ")"
	}
	return p.block(header, n.Body)
}

// VisitInclude renders an @include with its arguments.
func (p *Printer) VisitInclude(n *scss.Include) error {
	s := "@include " + n.Name
	args := make([]string, 0, len(n.Args)+len(n.Keywords)+1)
	for _, a := range n.Args {
		args = append(args, scss.Inspect(a))
	}
	for _, kw := range n.Keywords {
		args = append(args, "$"+kw.Name+": "+scss.Inspect(kw.Value))
	}
	if n.Splat != nil {
		args = append(args, scss.Inspect(n.Splat)+"...")
	}
	if len(args) > 0 {
		s += "(" + strings.Join(args, ", ") + ")"
	}
	p.line(s + ";")
	return nil
}

// VisitExtend renders an @extend.
func (p *Printer) VisitExtend(n *scss.Extend) error {
	s := "@extend " + n.Selector.String()
	if n.Optional {
		s += " !optional"
	}
	p.line(s + ";")
	return nil
}

// VisitImport renders one @import target.
func (p *Printer) VisitImport(n *scss.Import) error {
	p.line("@import " + importTarget(n) + ";")
	return nil
}

func importTarget(n *scss.Import) string {
	target := n.Path
	if !strings.HasPrefix(target, "url(") {
		target = strconv.Quote(target)
	}
	if n.Media != "" {
		target += " " + n.Media
	}
	return target
}

func value(e scss.Expr) string {
	if e == nil {
		return ""
	}
	return scss.Inspect(e)
}
