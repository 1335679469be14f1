package parser

import "github.com/alecthomas/participle/v2/lexer"

// valueLexer tokenizes the expression sub-language found in property values,
// variable bindings and mixin arguments. Rule order matters: the first
// matching rule wins.
var valueLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`},
	{Name: "URL", Pattern: `url\((?:[^)"'#$]|#[^{])*\)`},
	{Name: "Interp", Pattern: `(?:[\w.%-]|#\{[^{}]*\})*#\{[^{}]*\}(?:[\w.%-]|#\{[^{}]*\})*`},
	{Name: "Color", Pattern: `#[0-9a-fA-F]{3,8}\b`},
	{Name: "Variable", Pattern: `\$[a-zA-Z_][\w-]*`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Number", Pattern: `-?(?:\d+(?:\.\d+)?|\.\d+)(?:%|[a-zA-Z]+)?`},
	{Name: "Flag", Pattern: `![a-zA-Z]+`},
	{Name: "Function", Pattern: `-{0,2}[a-zA-Z_][\w-]*\(`},
	{Name: "Ident", Pattern: `-{0,2}[a-zA-Z_][\w-]*`},
	{Name: "Operator", Pattern: `[-+*/]`},
	{Name: "Punct", Pattern: `[(),:\[\]]`},
	{Name: "whitespace", Pattern: `\s+`},
})
