package parser

import "github.com/alecthomas/participle/v2/lexer"

// ValueList is the root of a property value or variable binding.
type ValueList struct {
	Pos      lexer.Position
	Items    []*SpaceList `@@ ("," @@)*`
	Trailing bool         `@","?`
}

type SpaceList struct {
	Pos   lexer.Position
	Items []*Sum `@@+`
}

type Sum struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *Product `@@`
	Ops    []*SumOp `@@*`
}

type SumOp struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Op     string   `@("+" | "-")`
	Right  *Product `@@`
}

type Product struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *Unary       `@@`
	Ops    []*ProductOp `@@*`
}

type ProductOp struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Op     string `@("*" | "/")`
	Right  *Unary `@@`
}

type Unary struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Op      string   `( @("-" | "+")`
	Operand *Unary   `  @@ )`
	Primary *Primary `| @@`
}

type Primary struct {
	Pos      lexer.Position
	Call     *Call   `  @@`
	Paren    *Paren  `| @@`
	Interp   *string `| @Interp`
	Variable *string `| @Variable`
	Number   *string `| @Number`
	Color    *string `| @Color`
	String   *string `| @String`
	URL      *string `| @URL`
	Flag     *string `| @Flag`
	Ident    *string `| @Ident`
}

type Call struct {
	Pos  lexer.Position
	Name string `@Function`
	Args []*Arg `(@@ ("," @@)* ","?)? ")"`
}

// Arg is one call argument, shared by function calls and @include.
type Arg struct {
	Pos   lexer.Position
	Name  string     `(@Variable ":")?`
	Value *SpaceList `@@`
	Splat bool       `@"..."?`
}

type Paren struct {
	Pos   lexer.Position
	Inner *ParenInner `"(" @@? ")"`
}

type ParenInner struct {
	Pairs []*MapPair `  @@ ("," @@)* ","?`
	List  *ValueList `| @@`
}

type MapPair struct {
	Key   *SpaceList `@@ ":"`
	Value *SpaceList `@@`
}

// Signature is the parameter list of a @mixin, without the parentheses.
type Signature struct {
	Params []*ParamDecl `@@ ("," @@)* ","?`
}

type ParamDecl struct {
	Pos     lexer.Position
	Name    string     `@Variable`
	Default *SpaceList `(":" @@)?`
	Rest    bool       `@"..."?`
}

// Arguments is the argument list of an @include, without the parentheses.
type Arguments struct {
	Args []*Arg `@@ ("," @@)* ","?`
}
