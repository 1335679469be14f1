package split

import "github.com/seuros/gopher-sass/src/scss"

// FreeVariables returns the name of every variable referenced anywhere in
// the given nodes: their own expressions, their children and nested mixin
// bodies. Callers subtract parameter names to get a block's free variables.
func FreeVariables(nodes ...scss.Node) map[string]struct{} {
	out := make(map[string]struct{})
	for _, n := range nodes {
		collectNode(n, out)
	}
	return out
}

func collectNode(n scss.Node, out map[string]struct{}) {
	for _, e := range exprsOf(n) {
		collectExpr(e, out)
	}
	for _, c := range scss.ChildrenOf(n) {
		collectNode(c, out)
	}
}

// exprsOf lists the expression-bearing fields of each node kind.
func exprsOf(n scss.Node) []scss.Expr {
	var out []scss.Expr
	add := func(e scss.Expr) {
		if e != nil {
			out = append(out, e)
		}
	}
	switch n := n.(type) {
	case *scss.Rule:
		if n.Selector != nil {
			add(n.Selector)
		}
	case *scss.Declaration:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Value)
	case *scss.Include:
		for _, e := range n.Exprs() {
			add(e)
		}
	case *scss.VariableBinding:
		add(n.Value)
	case *scss.Extend:
		if n.Selector != nil {
			add(n.Selector)
		}
	case *scss.AtRule:
		if n.Query != nil {
			add(n.Query)
		}
	case *scss.MixinDefinition:
		for _, p := range n.Params {
			add(p.Default)
		}
	case *scss.Document, *scss.Import, *scss.Comment:
	}
	return out
}

// variablesOf collects variable names referenced by expressions.
func variablesOf(exprs ...scss.Expr) map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range exprs {
		collectExpr(e, out)
	}
	return out
}

func collectExpr(e scss.Expr, out map[string]struct{}) {
	switch e := e.(type) {
	case nil, *scss.Literal:
	case *scss.Variable:
		out[e.Name] = struct{}{}
	case *scss.Operation:
		collectExpr(e.Left, out)
		collectExpr(e.Right, out)
	case *scss.FunctionCall:
		for _, a := range e.Args {
			collectExpr(a, out)
		}
		for _, kw := range e.Keywords {
			collectExpr(kw.Value, out)
		}
	case *scss.List:
		for _, item := range e.Items {
			collectExpr(item, out)
		}
	case *scss.Map:
		for _, p := range e.Pairs {
			collectExpr(p.Key, out)
			collectExpr(p.Value, out)
		}
	case *scss.ArgList:
		for _, item := range e.Items {
			collectExpr(item, out)
		}
		for _, kw := range e.Keywords {
			collectExpr(kw.Value, out)
		}
	case *scss.Interp:
		if e == nil {
			return
		}
		for _, p := range e.Parts {
			collectExpr(p.Expr, out)
		}
	}
}

// references returns the variables c depends on when included: those of its
// body plus those of every mixin the body includes, followed transitively.
func (c *Callable) references() map[string]struct{} {
	return c.collectReferences(make(map[*Callable]map[string]struct{}))
}

func (c *Callable) collectReferences(seen map[*Callable]map[string]struct{}) map[string]struct{} {
	if refs, ok := seen[c]; ok {
		// already collected, or still in progress on an include cycle
		return refs
	}
	refs := FreeVariables(c.Body...)
	seen[c] = refs
	eachInclude(c.Body, func(n *scss.Include) {
		callee, ok := c.Env.LookupMixin(n.Name)
		if !ok {
			return
		}
		for name := range callee.referencesFrom(n, seen) {
			refs[name] = struct{}{}
		}
	})
	return refs
}

// referencesFrom returns the variables c depends on when included by call.
// Parameters are local to c; those the call leaves out fall back to their
// defaults, whose variables are reported instead.
func (c *Callable) referencesFrom(call *scss.Include, seen map[*Callable]map[string]struct{}) map[string]struct{} {
	inner := c.collectReferences(seen)
	out := make(map[string]struct{}, len(inner))
	for name := range inner {
		out[name] = struct{}{}
	}

	supplied := make(map[string]bool, len(call.Args)+len(call.Keywords))
	for i, p := range c.Params {
		if i < len(call.Args) {
			supplied[p.Name] = true
		}
	}
	for _, kw := range call.Keywords {
		supplied[kw.Name] = true
	}
	for _, p := range c.Params {
		delete(out, p.Name)
		if !supplied[p.Name] && p.Default != nil {
			collectExpr(p.Default, out)
		}
	}
	if c.Rest != "" {
		delete(out, c.Rest)
	}
	return out
}

// eachInclude calls fn for every include reachable from nodes without
// entering nested mixin definitions.
func eachInclude(nodes []scss.Node, fn func(*scss.Include)) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *scss.Include:
			fn(n)
		case *scss.MixinDefinition:
		default:
			eachInclude(scss.ChildrenOf(n), fn)
		}
	}
}
