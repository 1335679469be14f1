package split

import "github.com/seuros/gopher-sass/src/scss"

// IsDynamic reports whether any of the expressions references a variable,
// directly or through operations, calls, lists, maps, argument lists and
// interpolation. Absent (nil) expressions are static. Expression kinds this
// function does not know are treated as dynamic so unresolved content never
// lands in static output.
func IsDynamic(exprs ...scss.Expr) bool {
	for _, e := range exprs {
		if isDynamic(e) {
			return true
		}
	}
	return false
}

func isDynamic(e scss.Expr) bool {
	switch e := e.(type) {
	case nil:
		return false
	case *scss.Variable:
		return true
	case *scss.Literal:
		return false
	case *scss.Operation:
		return isDynamic(e.Left) || isDynamic(e.Right)
	case *scss.FunctionCall:
		for _, a := range e.Args {
			if isDynamic(a) {
				return true
			}
		}
		for _, kw := range e.Keywords {
			if isDynamic(kw.Value) {
				return true
			}
		}
		return false
	case *scss.List:
		for _, item := range e.Items {
			if isDynamic(item) {
				return true
			}
		}
		return false
	case *scss.Map:
		for _, p := range e.Pairs {
			if isDynamic(p.Key) || isDynamic(p.Value) {
				return true
			}
		}
		return false
	case *scss.ArgList:
		for _, item := range e.Items {
			if isDynamic(item) {
				return true
			}
		}
		for _, kw := range e.Keywords {
			if isDynamic(kw.Value) {
				return true
			}
		}
		return false
	case *scss.Interp:
		if e == nil {
			return false
		}
		for _, p := range e.Parts {
			if isDynamic(p.Expr) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
