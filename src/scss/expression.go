package scss

import "strings"

// Expr is a value embedded in a node. Expressions are immutable once built
// and may be shared between trees.
type Expr interface {
	Pos() Position
	expr()
}

// LiteralKind tells the renderer how a literal was written.
type LiteralKind int

const (
	IdentLiteral LiteralKind = iota
	NumberLiteral
	ColorLiteral
	StringLiteral
	URLLiteral
	FlagLiteral
)

// Literal is a constant such as `red`, `10px`, `#fff` or `"Helvetica"`.
type Literal struct {
	Position Position
	Kind     LiteralKind
	Value    string
	// Quote is the quote character of a string literal, 0 when unquoted.
	Quote byte
}

// Variable references `$Name`.
type Variable struct {
	Position Position
	Name     string
}

// Operation is a binary or unary operation. Left is nil for unary operators.
type Operation struct {
	Position Position
	Op       string
	Left     Expr
	Right    Expr
	// Compact records that the operator was written without surrounding
	// whitespace, as in `12px/1.5`.
	Compact bool
}

// Keyword is a named argument `$name: value`.
type Keyword struct {
	Name  string
	Value Expr
}

// FunctionCall is a plain function invocation like `darken($c, 10%)`.
type FunctionCall struct {
	Position Position
	Name     string
	Args     []Expr
	Keywords []Keyword
}

// Separator of a list.
type Separator int

const (
	SpaceSeparator Separator = iota
	CommaSeparator
)

func (s Separator) String() string {
	if s == CommaSeparator {
		return ", "
	}
	return " "
}

// List is a space or comma separated list. A parenthesized expression is a
// List with Parens set, possibly holding a single item.
type List struct {
	Position  Position
	Items     []Expr
	Separator Separator
	Parens    bool
}

// Pair is one entry of a Map.
type Pair struct {
	Key   Expr
	Value Expr
}

// Map is an ordered map literal `(key: value, ...)`.
type Map struct {
	Position Position
	Pairs    []Pair
}

// ArgList is the value bound to a variadic parameter: overflow positional
// arguments plus unconsumed keyword arguments.
type ArgList struct {
	Position  Position
	Items     []Expr
	Keywords  []Keyword
	Separator Separator
}

// InterpPart is either raw text or an interpolated expression.
type InterpPart struct {
	Text string
	Expr Expr
	// Bare marks a `$var` written without `#{}` (allowed in queries).
	Bare bool
}

// Interp is text with `#{}` interpolation. It is used for selectors,
// property names, at-rule queries and quoted strings containing
// interpolation.
type Interp struct {
	Position Position
	Parts    []InterpPart
	// Quote is set when the interpolation is a quoted string.
	Quote byte
}

// NewText returns an interpolation holding only text.
func NewText(pos Position, text string) *Interp {
	return &Interp{Position: pos, Parts: []InterpPart{{Text: text}}}
}

// Plain returns the text of an interpolation without expressions.
func (i *Interp) Plain() (string, bool) {
	if i == nil {
		return "", true
	}
	var b strings.Builder
	for _, p := range i.Parts {
		if p.Expr != nil {
			return "", false
		}
		b.WriteString(p.Text)
	}
	return b.String(), true
}

// Exprs returns the interpolated expressions in order.
func (i *Interp) Exprs() []Expr {
	if i == nil {
		return nil
	}
	var out []Expr
	for _, p := range i.Parts {
		if p.Expr != nil {
			out = append(out, p.Expr)
		}
	}
	return out
}

func (i *Interp) String() string {
	if i == nil {
		return ""
	}
	return Inspect(i)
}

func (e *Literal) Pos() Position      { return e.Position }
func (e *Variable) Pos() Position     { return e.Position }
func (e *Operation) Pos() Position    { return e.Position }
func (e *FunctionCall) Pos() Position { return e.Position }
func (e *List) Pos() Position         { return e.Position }
func (e *Map) Pos() Position          { return e.Position }
func (e *ArgList) Pos() Position      { return e.Position }
func (e *Interp) Pos() Position       { return e.Position }

func (*Literal) expr()      {}
func (*Variable) expr()     {}
func (*Operation) expr()    {}
func (*FunctionCall) expr() {}
func (*List) expr()         {}
func (*Map) expr()          {}
func (*ArgList) expr()      {}
func (*Interp) expr()       {}
