package scss

import (
	"fmt"
	"strings"
)

// Inspect renders an expression back to SCSS source.
func Inspect(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case nil:
	case *Literal:
		if e.Quote != 0 {
			b.WriteByte(e.Quote)
			b.WriteString(e.Value)
			b.WriteByte(e.Quote)
			return
		}
		b.WriteString(e.Value)
	case *Variable:
		b.WriteString("$" + e.Name)
	case *Operation:
		if e.Left == nil {
			b.WriteString(e.Op)
			if e.Op == "not" {
				b.WriteByte(' ')
			}
			writeExpr(b, e.Right)
			return
		}
		writeExpr(b, e.Left)
		if e.Compact {
			b.WriteString(e.Op)
		} else {
			b.WriteString(" " + e.Op + " ")
		}
		writeExpr(b, e.Right)
	case *FunctionCall:
		b.WriteString(e.Name)
		b.WriteByte('(')
		writeArgs(b, e.Args, e.Keywords, CommaSeparator)
		b.WriteByte(')')
	case *List:
		if e.Parens {
			b.WriteByte('(')
		}
		for i, item := range e.Items {
			if i > 0 {
				b.WriteString(e.Separator.String())
			}
			writeListItem(b, item, e.Separator)
		}
		if e.Parens {
			b.WriteByte(')')
		}
	case *Map:
		b.WriteByte('(')
		for i, p := range e.Pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, p.Key)
			b.WriteString(": ")
			writeExpr(b, p.Value)
		}
		b.WriteByte(')')
	case *ArgList:
		writeArgs(b, e.Items, e.Keywords, e.Separator)
	case *Interp:
		if e == nil {
			return
		}
		if e.Quote != 0 {
			b.WriteByte(e.Quote)
		}
		for _, p := range e.Parts {
			switch {
			case p.Expr == nil:
				b.WriteString(p.Text)
			case p.Bare:
				writeExpr(b, p.Expr)
			default:
				b.WriteString("#{")
				writeExpr(b, p.Expr)
				b.WriteByte('}')
			}
		}
		if e.Quote != 0 {
			b.WriteByte(e.Quote)
		}
	default:
		fmt.Fprintf(b, "%v", e)
	}
}

func writeArgs(b *strings.Builder, items []Expr, keywords []Keyword, sep Separator) {
	n := 0
	for _, item := range items {
		if n > 0 {
			b.WriteString(sep.String())
		}
		writeListItem(b, item, sep)
		n++
	}
	for _, kw := range keywords {
		if n > 0 {
			b.WriteString(sep.String())
		}
		b.WriteString("$" + kw.Name + ": ")
		writeExpr(b, kw.Value)
		n++
	}
}

// nested lists without their own parentheses need them to survive a re-parse
func writeListItem(b *strings.Builder, item Expr, outer Separator) {
	if l, ok := item.(*List); ok && !l.Parens && len(l.Items) > 1 && (outer == SpaceSeparator || l.Separator == CommaSeparator) {
		b.WriteByte('(')
		writeExpr(b, item)
		b.WriteByte(')')
		return
	}
	writeExpr(b, item)
}

// Text returns the text an expression contributes when interpolated with
// `#{}`. Quoted strings lose their quotes. It fails when the expression still
// references a variable.
func Text(e Expr) (string, bool) {
	switch e := e.(type) {
	case nil:
		return "", true
	case *Literal:
		return e.Value, true
	case *Variable:
		return "", false
	case *Interp:
		if e == nil {
			return "", true
		}
		var b strings.Builder
		for _, p := range e.Parts {
			if p.Expr == nil {
				b.WriteString(p.Text)
				continue
			}
			s, ok := Text(p.Expr)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	case *List:
		parts := make([]string, 0, len(e.Items))
		for _, item := range e.Items {
			s, ok := Text(item)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, e.Separator.String()), true
	case *Operation, *FunctionCall, *Map, *ArgList:
		if !isGround(e) {
			return "", false
		}
		return Inspect(e), true
	default:
		return "", false
	}
}

func isGround(e Expr) bool {
	switch e := e.(type) {
	case nil, *Literal:
		return true
	case *Variable:
		return false
	case *Operation:
		return isGround(e.Left) && isGround(e.Right)
	case *FunctionCall:
		for _, a := range e.Args {
			if !isGround(a) {
				return false
			}
		}
		for _, kw := range e.Keywords {
			if !isGround(kw.Value) {
				return false
			}
		}
		return true
	case *List:
		for _, item := range e.Items {
			if !isGround(item) {
				return false
			}
		}
		return true
	case *Map:
		for _, p := range e.Pairs {
			if !isGround(p.Key) || !isGround(p.Value) {
				return false
			}
		}
		return true
	case *ArgList:
		for _, item := range e.Items {
			if !isGround(item) {
				return false
			}
		}
		for _, kw := range e.Keywords {
			if !isGround(kw.Value) {
				return false
			}
		}
		return true
	case *Interp:
		for _, x := range e.Exprs() {
			if !isGround(x) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
