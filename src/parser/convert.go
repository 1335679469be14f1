package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/seuros/gopher-sass/src/scss"
)

// converter turns grammar structs into scss expressions. Token positions
// are relative to the parsed fragment and get rebased onto its line.
type converter struct {
	p    *Parser
	file string
	line int
}

func (c *converter) pos(p lexer.Position) scss.Position {
	return scss.Position{File: c.file, Line: c.line + p.Line - 1}
}

func (c *converter) valueList(v *ValueList) (scss.Expr, error) {
	if len(v.Items) == 1 && !v.Trailing {
		return c.spaceList(v.Items[0])
	}
	list := &scss.List{Position: c.pos(v.Pos), Separator: scss.CommaSeparator}
	for _, item := range v.Items {
		e, err := c.spaceList(item)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, e)
	}
	return list, nil
}

func (c *converter) spaceList(v *SpaceList) (scss.Expr, error) {
	if len(v.Items) == 1 {
		return c.sum(v.Items[0])
	}
	list := &scss.List{Position: c.pos(v.Pos), Separator: scss.SpaceSeparator}
	for _, item := range v.Items {
		e, err := c.sum(item)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, e)
	}
	return list, nil
}

func (c *converter) sum(v *Sum) (scss.Expr, error) {
	left, err := c.product(v.Left)
	if err != nil {
		return nil, err
	}
	end := v.Left.EndPos
	for _, op := range v.Ops {
		right, err := c.product(op.Right)
		if err != nil {
			return nil, err
		}
		left = &scss.Operation{
			Position: left.Pos(),
			Op:       op.Op,
			Left:     left,
			Right:    right,
			Compact:  end.Offset == op.Pos.Offset && op.Right.Pos.Offset == op.Pos.Offset+len(op.Op),
		}
		end = op.EndPos
	}
	return left, nil
}

func (c *converter) product(v *Product) (scss.Expr, error) {
	left, err := c.unary(v.Left)
	if err != nil {
		return nil, err
	}
	end := v.Left.EndPos
	for _, op := range v.Ops {
		right, err := c.unary(op.Right)
		if err != nil {
			return nil, err
		}
		left = &scss.Operation{
			Position: left.Pos(),
			Op:       op.Op,
			Left:     left,
			Right:    right,
			Compact:  end.Offset == op.Pos.Offset && op.Right.Pos.Offset == op.Pos.Offset+len(op.Op),
		}
		end = op.EndPos
	}
	return left, nil
}

func (c *converter) unary(v *Unary) (scss.Expr, error) {
	if v.Primary != nil {
		return c.primary(v.Primary)
	}
	operand, err := c.unary(v.Operand)
	if err != nil {
		return nil, err
	}
	return &scss.Operation{Position: c.pos(v.Pos), Op: v.Op, Right: operand}, nil
}

func (c *converter) primary(v *Primary) (scss.Expr, error) {
	pos := c.pos(v.Pos)
	switch {
	case v.Call != nil:
		args, keywords, splat, err := c.args(v.Call.Args)
		if err != nil {
			return nil, err
		}
		if splat != nil {
			return nil, &scss.SyntaxError{Position: pos, Message: "variable arguments are only supported by @include"}
		}
		return &scss.FunctionCall{
			Position: pos,
			Name:     strings.TrimSuffix(v.Call.Name, "("),
			Args:     args,
			Keywords: keywords,
		}, nil
	case v.Paren != nil:
		return c.paren(v.Paren)
	case v.Interp != nil:
		return c.p.interpolation(*v.Interp, pos, false)
	case v.Variable != nil:
		return &scss.Variable{Position: pos, Name: (*v.Variable)[1:]}, nil
	case v.Number != nil:
		return &scss.Literal{Position: pos, Kind: scss.NumberLiteral, Value: *v.Number}, nil
	case v.Color != nil:
		return &scss.Literal{Position: pos, Kind: scss.ColorLiteral, Value: *v.Color}, nil
	case v.String != nil:
		return c.quoted(*v.String, pos)
	case v.URL != nil:
		return &scss.Literal{Position: pos, Kind: scss.URLLiteral, Value: *v.URL}, nil
	case v.Flag != nil:
		return &scss.Literal{Position: pos, Kind: scss.FlagLiteral, Value: *v.Flag}, nil
	case v.Ident != nil:
		return &scss.Literal{Position: pos, Kind: scss.IdentLiteral, Value: *v.Ident}, nil
	}
	return nil, &scss.SyntaxError{Position: pos, Message: "expected expression"}
}

// quoted keeps the raw body of a string; strings containing `#{}` become a
// quoted interpolation.
func (c *converter) quoted(raw string, pos scss.Position) (scss.Expr, error) {
	q := raw[0]
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, "#{") {
		return &scss.Literal{Position: pos, Kind: scss.StringLiteral, Value: body, Quote: q}, nil
	}
	interp, err := c.p.interpolation(body, pos, false)
	if err != nil {
		return nil, err
	}
	interp.Quote = q
	return interp, nil
}

func (c *converter) paren(v *Paren) (scss.Expr, error) {
	pos := c.pos(v.Pos)
	switch {
	case v.Inner == nil:
		return &scss.List{Position: pos, Separator: scss.CommaSeparator, Parens: true}, nil
	case v.Inner.Pairs != nil:
		m := &scss.Map{Position: pos}
		for _, pair := range v.Inner.Pairs {
			k, err := c.spaceList(pair.Key)
			if err != nil {
				return nil, err
			}
			val, err := c.spaceList(pair.Value)
			if err != nil {
				return nil, err
			}
			m.Pairs = append(m.Pairs, scss.Pair{Key: k, Value: val})
		}
		return m, nil
	}
	inner, err := c.valueList(v.Inner.List)
	if err != nil {
		return nil, err
	}
	if l, ok := inner.(*scss.List); ok && !l.Parens {
		cp := *l
		cp.Position = pos
		cp.Parens = true
		return &cp, nil
	}
	return &scss.List{Position: pos, Items: []scss.Expr{inner}, Separator: scss.SpaceSeparator, Parens: true}, nil
}

// args converts call arguments. A spread must be the last argument and can
// not be named.
func (c *converter) args(in []*Arg) ([]scss.Expr, []scss.Keyword, scss.Expr, error) {
	var (
		args     []scss.Expr
		keywords []scss.Keyword
		splat    scss.Expr
	)
	for i, a := range in {
		val, err := c.spaceList(a.Value)
		if err != nil {
			return nil, nil, nil, err
		}
		switch {
		case a.Splat:
			if a.Name != "" {
				return nil, nil, nil, &scss.SyntaxError{Position: c.pos(a.Pos), Message: "a named argument can not be spread"}
			}
			if i != len(in)-1 {
				return nil, nil, nil, &scss.SyntaxError{Position: c.pos(a.Pos), Message: "only the last argument can be spread"}
			}
			splat = val
		case a.Name != "":
			keywords = append(keywords, scss.Keyword{Name: a.Name[1:], Value: val})
		default:
			if len(keywords) > 0 {
				return nil, nil, nil, &scss.SyntaxError{Position: c.pos(a.Pos), Message: "positional arguments must come before keyword arguments"}
			}
			args = append(args, val)
		}
	}
	return args, keywords, splat, nil
}

func (c *converter) signature(sig *Signature) ([]scss.Param, string, error) {
	var (
		params []scss.Param
		rest   string
	)
	for i, p := range sig.Params {
		name := p.Name[1:]
		if p.Rest {
			if p.Default != nil {
				return nil, "", &scss.SyntaxError{Position: c.pos(p.Pos), Message: "a variable argument can not have a default value"}
			}
			if i != len(sig.Params)-1 {
				return nil, "", &scss.SyntaxError{Position: c.pos(p.Pos), Message: "variable arguments must come last"}
			}
			rest = name
			continue
		}
		param := scss.Param{Name: name}
		if p.Default != nil {
			def, err := c.spaceList(p.Default)
			if err != nil {
				return nil, "", err
			}
			param.Default = def
		}
		params = append(params, param)
	}
	return params, rest, nil
}
