package parser

import (
	"regexp"
	"strings"

	"github.com/seuros/gopher-sass/src/scss"
)

var bareVariable = regexp.MustCompile(`^\$[a-zA-Z_][\w-]*`)

// interpolation splits text containing `#{}` into text and expression parts.
// With bare set, `$name` outside interpolation is also an expression part;
// at-rule queries are written that way.
func (p *Parser) interpolation(text string, pos scss.Position, bare bool) (*scss.Interp, error) {
	out := &scss.Interp{Position: pos}
	var lit strings.Builder
	line := pos.Line
	flush := func() {
		if lit.Len() > 0 {
			out.Parts = append(out.Parts, scss.InterpPart{Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '#' && i+1 < len(text) && text[i+1] == '{':
			end := matchingBrace(text, i+2)
			if end < 0 {
				return nil, &scss.SyntaxError{Position: scss.Position{File: pos.File, Line: line}, Message: `expected "}" to close interpolation`}
			}
			inner := strings.TrimSpace(text[i+2 : end])
			if inner == "" {
				return nil, &scss.SyntaxError{Position: scss.Position{File: pos.File, Line: line}, Message: "expected expression inside #{}"}
			}
			expr, err := p.ParseValue(inner, scss.Position{File: pos.File, Line: line})
			if err != nil {
				return nil, err
			}
			flush()
			out.Parts = append(out.Parts, scss.InterpPart{Expr: expr})
			line += strings.Count(text[i:end+1], "\n")
			i = end + 1
			continue
		case c == '$' && bare:
			if m := bareVariable.FindString(text[i:]); m != "" {
				flush()
				out.Parts = append(out.Parts, scss.InterpPart{
					Expr: &scss.Variable{Position: scss.Position{File: pos.File, Line: line}, Name: m[1:]},
					Bare: true,
				})
				i += len(m)
				continue
			}
		case c == '\n':
			line++
		}
		lit.WriteByte(c)
		i++
	}
	flush()
	return out, nil
}

// skipQuoted returns the index just past the string starting at i.
func skipQuoted(text string, i int) int {
	q := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(text)
}

// matchingBrace returns the index of the `}` closing an interpolation whose
// body starts at i, or -1.
func matchingBrace(text string, i int) int {
	depth := 1
	for j := i; j < len(text); j++ {
		switch text[j] {
		case '"', '\'':
			j = skipQuoted(text, j) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitTopLevel splits text at sep when outside parentheses, brackets,
// strings and interpolation.
func splitTopLevel(text string, sep byte) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '"' || c == '\'':
			i = skipQuoted(text, i) - 1
		case c == '#' && i+1 < len(text) && text[i+1] == '{':
			if end := matchingBrace(text, i+2); end >= 0 {
				i = end
			}
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			out = append(out, text[start:i])
			start = i + 1
		}
	}
	return append(out, text[start:])
}
