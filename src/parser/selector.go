package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	gcss "github.com/gorilla/css/scanner"
	"github.com/seuros/gopher-sass/src/scss"
)

var placeholderPattern = regexp.MustCompile(`%([a-zA-Z_][\w-]*)`)

// ParseSelector parses a fully resolved selector group, as produced when the
// interpolation of an @extend target has been evaluated. pos is the position
// of the statement the selector came from so errors point at the source.
func ParseSelector(text string, pos scss.Position) (scss.SelectorList, error) {
	groups, err := splitSelectorGroups(text, pos)
	if err != nil {
		return nil, err
	}
	out := make(scss.SelectorList, 0, len(groups))
	for _, g := range groups {
		if g == "" {
			return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("expected selector in %q", text)}
		}
		// placeholders and parent references are Sass only; validate them
		// as classes
		check := placeholderPattern.ReplaceAllString(g, ".$1")
		check = strings.ReplaceAll(check, "&", ".parent")
		if _, err := cascadia.ParseGroupWithPseudoElements(check); err != nil {
			return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("invalid selector %q: %v", g, err)}
		}
		out = append(out, g)
	}
	return out, nil
}

// splitSelectorGroups tokenizes text and splits it at top level commas.
// Whitespace runs collapse to a single space.
func splitSelectorGroups(text string, pos scss.Position) ([]string, error) {
	var (
		groups []string
		cur    strings.Builder
		depth  int
	)
	s := gcss.New(text)
	for {
		tok := s.Next()
		switch tok.Type {
		case gcss.TokenEOF:
			return append(groups, strings.TrimSpace(cur.String())), nil
		case gcss.TokenError:
			return nil, &scss.SyntaxError{
				Position: scss.Position{File: pos.File, Line: pos.Line + tok.Line - 1},
				Message:  fmt.Sprintf("invalid selector %q", text),
			}
		case gcss.TokenComment:
			continue
		case gcss.TokenS:
			cur.WriteByte(' ')
			continue
		case gcss.TokenFunction:
			depth++
		case gcss.TokenChar:
			switch tok.Value {
			case "(", "[":
				depth++
			case ")", "]":
				depth--
			case ",":
				if depth == 0 {
					groups = append(groups, strings.TrimSpace(cur.String()))
					cur.Reset()
					continue
				}
			}
		}
		cur.WriteString(tok.Value)
	}
}
