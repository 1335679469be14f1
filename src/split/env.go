package split

import "github.com/seuros/gopher-sass/src/scss"

// Env is a lexical scope. Lookups walk outward through the parent chain;
// writes only ever touch the receiver.
type Env struct {
	parent *Env
	vars   map[string]scss.Expr
	mixins map[string]*Callable
}

// NewEnv returns an empty scope whose lookups fall back to parent.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent}
}

// Child returns a fresh scope nested in e.
func (e *Env) Child() *Env { return NewEnv(e) }

// Parent returns the enclosing scope, nil for a root scope.
func (e *Env) Parent() *Env { return e.parent }

// Lookup finds the value bound to a variable in e or its ancestors.
func (e *Env) Lookup(name string) (scss.Expr, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds a variable in e itself.
func (e *Env) Set(name string, value scss.Expr) {
	if e.vars == nil {
		e.vars = make(map[string]scss.Expr)
	}
	e.vars[name] = value
}

// LookupMixin finds a mixin visible from e.
func (e *Env) LookupMixin(name string) (*Callable, bool) {
	for s := e; s != nil; s = s.parent {
		if c, ok := s.mixins[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// SetMixin registers a mixin in e itself.
func (e *Env) SetMixin(c *Callable) {
	if e.mixins == nil {
		e.mixins = make(map[string]*Callable)
	}
	e.mixins[c.Name] = c
}

// CallableKind distinguishes mixins from functions in diagnostics.
type CallableKind string

const (
	MixinKind    CallableKind = "mixin"
	FunctionKind CallableKind = "function"
)

// Callable is a reusable block definition together with the scope it was
// defined in. Parameter defaults are evaluated against that scope.
type Callable struct {
	Kind     CallableKind
	Name     string
	Params   []scss.Param
	Rest     string
	Body     []scss.Node
	Env      *Env
	Position scss.Position
}

// NewMixin captures a mixin definition in env.
func NewMixin(def *scss.MixinDefinition, env *Env) *Callable {
	return &Callable{
		Kind:     MixinKind,
		Name:     def.Name,
		Params:   def.Params,
		Rest:     def.Rest,
		Body:     def.Body,
		Env:      env,
		Position: def.Position,
	}
}

// paramNames returns the declared parameters including the variadic one.
func (c *Callable) paramNames() map[string]struct{} {
	names := make(map[string]struct{}, len(c.Params)+1)
	for _, p := range c.Params {
		names[p.Name] = struct{}{}
	}
	if c.Rest != "" {
		names[c.Rest] = struct{}{}
	}
	return names
}
