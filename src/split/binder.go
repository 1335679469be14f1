package split

import (
	"errors"
	"strings"

	"github.com/seuros/gopher-sass/src/scss"
)

// CallSite is an invocation of a callable.
type CallSite struct {
	Name     string
	Position scss.Position
	Args     []scss.Expr
	Keywords []scss.Keyword
	// Splat is the spread argument (`$args...`), nil when absent.
	Splat scss.Expr
}

// CallSiteOf describes an @include as a call site.
func CallSiteOf(n *scss.Include) CallSite {
	return CallSite{Name: n.Name, Position: n.Position, Args: n.Args, Keywords: n.Keywords, Splat: n.Splat}
}

// Binding maps every parameter of a callable to its value. The variadic
// parameter, when declared, is bound to Rest.
type Binding struct {
	Values map[string]scss.Expr
	Rest   *scss.ArgList
}

// DefaultEvaluator computes a parameter default in scope, a fresh child of
// the definition scope that already holds the parameters bound before it.
type DefaultEvaluator func(def scss.Expr, scope *Env) (scss.Expr, error)

// namedArgs keeps keyword arguments in call order.
type namedArgs struct {
	names  []string
	values map[string]scss.Expr
}

func (a *namedArgs) add(name string, v scss.Expr) bool {
	if a.values == nil {
		a.values = make(map[string]scss.Expr)
	}
	if _, dup := a.values[name]; dup {
		return false
	}
	a.names = append(a.names, name)
	a.values[name] = v
	return true
}

// Bind resolves a call site against the parameters of c.
//
// Unknown keyword arguments are not reported right away: a spread argument
// carrying keywords replaces the call-site keywords, and the error is only
// raised when there was no spread or its keywords were never used. Any other
// binding error wins over that pending error, unless it is a KeywordError
// itself.
func Bind(c *Callable, call CallSite, evalDefault DefaultEvaluator) (*Binding, error) {
	var (
		pending  *KeywordError
		accessed bool
	)
	finish := func(err error) error {
		if pending == nil || (call.Splat != nil && accessed) {
			return err
		}
		if err == nil {
			return pending
		}
		var kw *KeywordError
		if errors.As(err, &kw) {
			return pending
		}
		return err
	}
	loc := Location{Position: call.Position}

	var named namedArgs
	for _, kw := range call.Keywords {
		if !named.add(kw.Name, kw.Value) {
			return nil, finish(&DuplicateArgumentError{Location: loc, Kind: c.Kind, Callee: c.Name, Name: kw.Name, Named: true})
		}
	}
	if c.Rest == "" {
		declared := c.paramNames()
		var unknown []string
		for _, name := range named.names {
			if _, ok := declared[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			pending = &KeywordError{Location: loc, Kind: c.Kind, Callee: c.Name, Names: unknown}
		}
	}

	if len(call.Args) > len(c.Params) && c.Rest == "" {
		return nil, finish(&ArityError{Location: loc, Kind: c.Kind, Callee: c.Name, Declared: len(c.Params), Supplied: len(call.Args)})
	}

	positional := append([]scss.Expr(nil), call.Args...)
	sep := scss.CommaSeparator
	if call.Splat != nil {
		var spreadKeywords *namedArgs
		switch s := call.Splat.(type) {
		case *scss.List:
			positional = append(positional, s.Items...)
			if len(s.Items) > 1 {
				sep = s.Separator
			}
		case *scss.ArgList:
			positional = append(positional, s.Items...)
			sep = s.Separator
			if len(s.Keywords) > 0 {
				spreadKeywords = &namedArgs{}
				for _, kw := range s.Keywords {
					if !spreadKeywords.add(kw.Name, kw.Value) {
						return nil, finish(&DuplicateArgumentError{Location: loc, Kind: c.Kind, Callee: c.Name, Name: kw.Name, Named: true})
					}
				}
			}
		case *scss.Map:
			spreadKeywords = &namedArgs{}
			for _, p := range s.Pairs {
				key, ok := scss.Text(p.Key)
				if !ok {
					key = scss.Inspect(p.Key)
				}
				key = strings.TrimPrefix(key, "$")
				if !spreadKeywords.add(key, p.Value) {
					return nil, finish(&DuplicateArgumentError{Location: loc, Kind: c.Kind, Callee: c.Name, Name: key, Named: true})
				}
			}
		default:
			positional = append(positional, s)
		}
		if spreadKeywords != nil {
			named = *spreadKeywords
			accessed = true
		}
	}

	values := make(map[string]scss.Expr, len(c.Params)+1)
	consumed := make(map[string]bool, len(named.names))
	for i, p := range c.Params {
		namedValue, hasNamed := named.values[p.Name]
		switch {
		case i < len(positional) && hasNamed:
			return nil, finish(&DuplicateArgumentError{Location: loc, Kind: c.Kind, Callee: c.Name, Name: p.Name})
		case i < len(positional):
			values[p.Name] = positional[i]
		case hasNamed:
			values[p.Name] = namedValue
			consumed[p.Name] = true
		case p.Default != nil:
			v := p.Default
			if evalDefault != nil {
				scope := c.Env.Child()
				for _, prev := range c.Params[:i] {
					scope.Set(prev.Name, values[prev.Name])
				}
				var err error
				if v, err = evalDefault(p.Default, scope); err != nil {
					return nil, finish(err)
				}
			}
			values[p.Name] = v
		default:
			return nil, finish(&MissingArgumentError{Location: loc, Kind: c.Kind, Callee: c.Name, Name: p.Name})
		}
	}

	var leftover []scss.Keyword
	for _, name := range named.names {
		if !consumed[name] {
			leftover = append(leftover, scss.Keyword{Name: name, Value: named.values[name]})
		}
	}

	b := &Binding{Values: values}
	if c.Rest == "" {
		if len(positional) > len(c.Params) {
			return nil, finish(&ArityError{Location: loc, Kind: c.Kind, Callee: c.Name, Declared: len(c.Params), Supplied: len(positional)})
		}
		if len(leftover) > 0 {
			names := make([]string, len(leftover))
			for i, kw := range leftover {
				names[i] = kw.Name
			}
			return nil, finish(&KeywordError{Location: loc, Kind: c.Kind, Callee: c.Name, Names: names})
		}
		return b, finish(nil)
	}

	// overflow positionals always form the variadic value; a keyword spelled
	// like the variadic parameter stays a keyword of it
	rest := &scss.ArgList{Position: call.Position, Separator: sep, Keywords: leftover}
	if len(positional) > len(c.Params) {
		rest.Items = append([]scss.Expr(nil), positional[len(c.Params):]...)
	}
	b.Rest = rest
	values[c.Rest] = rest
	if err := finish(nil); err != nil {
		return nil, err
	}
	return b, nil
}
