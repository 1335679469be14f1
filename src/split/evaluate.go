package split

import (
	"strings"

	"github.com/seuros/gopher-sass/src/scss"
)

// evaluator substitutes variables with the values bound in env and folds
// interpolation whose parts became constant. No arithmetic or function
// evaluation happens. A strict evaluator fails on unbound variables; a
// partial one leaves them in place.
type evaluator struct {
	env    *Env
	strict bool
}

// fold resolves interpolation without any variable substitution.
func fold(i *scss.Interp) *scss.Interp {
	if i == nil {
		return nil
	}
	out, _ := evaluator{}.interp(i)
	return out
}

func (ev evaluator) exprs(in []scss.Expr) ([]scss.Expr, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]scss.Expr, len(in))
	for i, e := range in {
		v, err := ev.expr(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ev evaluator) keywords(in []scss.Keyword) ([]scss.Keyword, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]scss.Keyword, len(in))
	for i, kw := range in {
		v, err := ev.expr(kw.Value)
		if err != nil {
			return nil, err
		}
		out[i] = scss.Keyword{Name: kw.Name, Value: v}
	}
	return out, nil
}

func (ev evaluator) expr(e scss.Expr) (scss.Expr, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil
	case *scss.Literal:
		return e, nil
	case *scss.Variable:
		if v, ok := ev.env.Lookup(e.Name); ok {
			return v, nil
		}
		if ev.strict {
			return nil, &LookupError{Location: Location{Position: e.Position}, Kind: "variable", Name: e.Name}
		}
		return e, nil
	case *scss.Operation:
		left, err := ev.expr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.expr(e.Right)
		if err != nil {
			return nil, err
		}
		return &scss.Operation{Position: e.Position, Op: e.Op, Left: left, Right: right, Compact: e.Compact}, nil
	case *scss.FunctionCall:
		args, err := ev.exprs(e.Args)
		if err != nil {
			return nil, err
		}
		kws, err := ev.keywords(e.Keywords)
		if err != nil {
			return nil, err
		}
		return &scss.FunctionCall{Position: e.Position, Name: e.Name, Args: args, Keywords: kws}, nil
	case *scss.List:
		items, err := ev.exprs(e.Items)
		if err != nil {
			return nil, err
		}
		return &scss.List{Position: e.Position, Items: items, Separator: e.Separator, Parens: e.Parens}, nil
	case *scss.Map:
		m := &scss.Map{Position: e.Position, Pairs: make([]scss.Pair, len(e.Pairs))}
		for i, p := range e.Pairs {
			k, err := ev.expr(p.Key)
			if err != nil {
				return nil, err
			}
			v, err := ev.expr(p.Value)
			if err != nil {
				return nil, err
			}
			m.Pairs[i] = scss.Pair{Key: k, Value: v}
		}
		return m, nil
	case *scss.ArgList:
		items, err := ev.exprs(e.Items)
		if err != nil {
			return nil, err
		}
		kws, err := ev.keywords(e.Keywords)
		if err != nil {
			return nil, err
		}
		return &scss.ArgList{Position: e.Position, Items: items, Keywords: kws, Separator: e.Separator}, nil
	case *scss.Interp:
		if e == nil {
			return nil, nil
		}
		out, err := ev.interp(e)
		if err != nil {
			return nil, err
		}
		if text, ok := out.Plain(); ok {
			kind := scss.IdentLiteral
			if out.Quote != 0 {
				kind = scss.StringLiteral
			}
			return &scss.Literal{Position: out.Position, Kind: kind, Value: text, Quote: out.Quote}, nil
		}
		return out, nil
	default:
		return e, nil
	}
}

// interp evaluates interpolated parts and merges the ones that became text.
func (ev evaluator) interp(i *scss.Interp) (*scss.Interp, error) {
	if i == nil {
		return nil, nil
	}
	out := &scss.Interp{Position: i.Position, Quote: i.Quote}
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out.Parts = append(out.Parts, scss.InterpPart{Text: text.String()})
			text.Reset()
		}
	}
	for _, p := range i.Parts {
		if p.Expr == nil {
			text.WriteString(p.Text)
			continue
		}
		v, err := ev.expr(p.Expr)
		if err != nil {
			return nil, err
		}
		if s, ok := scss.Text(v); ok {
			text.WriteString(s)
			continue
		}
		flush()
		out.Parts = append(out.Parts, scss.InterpPart{Expr: v, Bare: p.Bare})
	}
	flush()
	if len(out.Parts) == 0 {
		out.Parts = []scss.InterpPart{{Text: ""}}
	}
	return out, nil
}

// nodes returns evaluated deep copies of a mixin body. Deferred fields are
// set on the copies; visible fields are untouched until materialized.
func (ev evaluator) nodes(in []scss.Node) ([]scss.Node, error) {
	out := make([]scss.Node, 0, len(in))
	for _, n := range in {
		c, err := ev.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (ev evaluator) node(n scss.Node) (scss.Node, error) {
	switch n := n.(type) {
	case *scss.Rule:
		c := scss.Clone(n).(*scss.Rule)
		sel, err := ev.interp(n.Selector)
		if err != nil {
			return nil, err
		}
		c.ResolvedSelector = sel
		if c.Children, err = ev.nodes(n.Children); err != nil {
			return nil, err
		}
		return c, nil
	case *scss.Declaration:
		c := scss.Clone(n).(*scss.Declaration)
		name, err := ev.interp(n.Name)
		if err != nil {
			return nil, err
		}
		value, err := ev.expr(n.Value)
		if err != nil {
			return nil, err
		}
		c.ResolvedName, c.ResolvedValue = name, value
		return c, nil
	case *scss.AtRule:
		c := scss.Clone(n).(*scss.AtRule)
		q, err := ev.interp(n.Query)
		if err != nil {
			return nil, err
		}
		c.ResolvedQuery = q
		if c.Children, err = ev.nodes(n.Children); err != nil {
			return nil, err
		}
		return c, nil
	case *scss.Extend:
		c := scss.Clone(n).(*scss.Extend)
		sel, err := ev.interp(n.Selector)
		if err != nil {
			return nil, err
		}
		c.Selector = sel
		return c, nil
	case *scss.Include:
		c := scss.Clone(n).(*scss.Include)
		var err error
		if c.Args, err = ev.exprs(n.Args); err != nil {
			return nil, err
		}
		if c.Keywords, err = ev.keywords(n.Keywords); err != nil {
			return nil, err
		}
		if c.Splat, err = ev.expr(n.Splat); err != nil {
			return nil, err
		}
		return c, nil
	case *scss.VariableBinding:
		c := scss.Clone(n).(*scss.VariableBinding)
		v, err := ev.expr(n.Value)
		if err != nil {
			return nil, err
		}
		c.Value = v
		return c, nil
	default:
		// mixin definitions keep their own parameters unevaluated
		return scss.DeepClone(n), nil
	}
}
