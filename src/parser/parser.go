// Package parser reads the SCSS subset understood by the splitter.
//
// Statements are split by a small hand-written scanner; property values,
// variable bindings and mixin argument lists are parsed with participle.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/seuros/gopher-sass/src/scss"
)

// unsupported directives are rejected instead of being treated as plain
// at-rules, since they would change the meaning of the stylesheet.
var unsupported = map[string]bool{
	"if": true, "else": true, "each": true, "for": true, "while": true,
	"function": true, "return": true, "content": true,
	"debug": true, "warn": true, "error": true,
	"at-root": true, "use": true, "forward": true,
}

// queryDirectives accept bare variables in their prelude.
var queryDirectives = map[string]bool{"media": true, "supports": true}

var (
	directivePattern = regexp.MustCompile(`^@([a-zA-Z][\w-]*)\s*`)
	variablePattern  = regexp.MustCompile(`(?s)^\$([a-zA-Z_][\w-]*)\s*:(.*)$`)
	callablePattern  = regexp.MustCompile(`(?s)^(-{0,2}[a-zA-Z_][\w-]*)\s*(?:\((.*)\))?$`)
	flagPattern      = regexp.MustCompile(`\s*!(default|global)\s*$`)
	optionalPattern  = regexp.MustCompile(`\s*!optional\s*$`)
)

// Parser turns SCSS source into a scss.Document.
type Parser struct {
	values    *participle.Parser[ValueList]
	signature *participle.Parser[Signature]
	arguments *participle.Parser[Arguments]
}

// New builds the value, signature and argument grammars.
func New() (*Parser, error) {
	opts := []participle.Option{
		participle.Lexer(valueLexer),
		participle.UseLookahead(participle.MaxLookahead),
	}
	values, err := participle.Build[ValueList](opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build value parser: %w", err)
	}
	signature, err := participle.Build[Signature](opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build signature parser: %w", err)
	}
	arguments, err := participle.Build[Arguments](opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}
	return &Parser{values: values, signature: signature, arguments: arguments}, nil
}

// Parse reads a whole stylesheet. file is only used for positions.
func (p *Parser) Parse(file, src string) (*scss.Document, error) {
	stmts, err := newScanner(src).scanBlock(false, 1)
	if err != nil {
		var se *scanError
		if errors.As(err, &se) {
			return nil, &scss.SyntaxError{Position: scss.Position{File: file, Line: se.line}, Message: se.msg}
		}
		return nil, err
	}
	children, err := p.statements(file, stmts)
	if err != nil {
		return nil, err
	}
	return &scss.Document{Position: scss.Position{File: file, Line: 1}, Children: children}, nil
}

// ParseValue parses a single expression as found after a property colon.
func (p *Parser) ParseValue(text string, pos scss.Position) (scss.Expr, error) {
	v, err := p.values.ParseString(pos.File, text)
	if err != nil {
		return nil, syntaxError(pos, err)
	}
	c := &converter{p: p, file: pos.File, line: pos.Line}
	return c.valueList(v)
}

// syntaxError rebases a participle error onto the fragment position.
func syntaxError(pos scss.Position, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &scss.SyntaxError{
			Position: scss.Position{File: pos.File, Line: pos.Line + perr.Position().Line - 1},
			Message:  perr.Message(),
		}
	}
	return &scss.SyntaxError{Position: pos, Message: err.Error()}
}

func (p *Parser) statements(file string, stmts []statement) ([]scss.Node, error) {
	var out []scss.Node
	for _, st := range stmts {
		nodes, err := p.statement(file, st)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (p *Parser) statement(file string, st statement) ([]scss.Node, error) {
	pos := scss.Position{File: file, Line: st.line}
	switch {
	case st.comment:
		return []scss.Node{&scss.Comment{Position: pos, Text: st.prelude, Silent: st.silent}}, nil
	case strings.HasPrefix(st.prelude, "@"):
		return p.directive(file, st)
	case strings.HasPrefix(st.prelude, "$"):
		n, err := p.variable(pos, st)
		if err != nil {
			return nil, err
		}
		return []scss.Node{n}, nil
	case st.hasBlock:
		n, err := p.rule(file, pos, st)
		if err != nil {
			return nil, err
		}
		return []scss.Node{n}, nil
	}
	n, err := p.declaration(pos, st.prelude)
	if err != nil {
		return nil, err
	}
	return []scss.Node{n}, nil
}

func (p *Parser) rule(file string, pos scss.Position, st statement) (*scss.Rule, error) {
	if st.prelude == "" {
		return nil, &scss.SyntaxError{Position: pos, Message: "expected selector"}
	}
	sel, err := p.interpolation(st.prelude, pos, false)
	if err != nil {
		return nil, err
	}
	children, err := p.statements(file, st.block)
	if err != nil {
		return nil, err
	}
	return &scss.Rule{Position: pos, Selector: sel, Children: children}, nil
}

func (p *Parser) declaration(pos scss.Position, text string) (*scss.Declaration, error) {
	parts := splitTopLevel(text, ':')
	if len(parts) < 2 {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("invalid CSS after %q: expected \":\"", text)}
	}
	rawName := strings.TrimSpace(parts[0])
	rawValue := strings.TrimSpace(strings.Join(parts[1:], ":"))
	if rawName == "" {
		return nil, &scss.SyntaxError{Position: pos, Message: "expected property name"}
	}
	name, err := p.interpolation(rawName, pos, false)
	if err != nil {
		return nil, err
	}
	valuePos := scss.Position{File: pos.File, Line: pos.Line + strings.Count(parts[0], "\n")}
	decl := &scss.Declaration{Position: pos, Name: name, Custom: strings.HasPrefix(rawName, "--")}
	if decl.Custom {
		value, err := p.interpolation(rawValue, valuePos, false)
		if err != nil {
			return nil, err
		}
		decl.Value = value
		return decl, nil
	}
	if rawValue == "" {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("expected a value for property %q", rawName)}
	}
	value, err := p.ParseValue(rawValue, valuePos)
	if err != nil {
		return nil, err
	}
	decl.Value = value
	return decl, nil
}

func (p *Parser) variable(pos scss.Position, st statement) (*scss.VariableBinding, error) {
	if st.hasBlock {
		return nil, &scss.SyntaxError{Position: pos, Message: "variable declarations can not have a block"}
	}
	m := variablePattern.FindStringSubmatch(st.prelude)
	if m == nil {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("invalid variable declaration %q", st.prelude)}
	}
	n := &scss.VariableBinding{Position: pos, Name: m[1]}
	value := m[2]
	for {
		f := flagPattern.FindStringSubmatchIndex(value)
		if f == nil {
			break
		}
		switch value[f[2]:f[3]] {
		case "default":
			n.Default = true
		case "global":
			n.Global = true
		}
		value = value[:f[0]]
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("expected a value for $%s", n.Name)}
	}
	expr, err := p.ParseValue(value, pos)
	if err != nil {
		return nil, err
	}
	n.Value = expr
	return n, nil
}

func (p *Parser) directive(file string, st statement) ([]scss.Node, error) {
	pos := scss.Position{File: file, Line: st.line}
	m := directivePattern.FindStringSubmatch(st.prelude)
	if m == nil {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("invalid directive %q", st.prelude)}
	}
	name := strings.ToLower(m[1])
	rest := strings.TrimSpace(st.prelude[len(m[0]):])
	if unsupported[name] {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("@%s is not supported", name)}
	}

	switch name {
	case "import":
		if st.hasBlock {
			return nil, &scss.SyntaxError{Position: pos, Message: "@import can not have a block"}
		}
		return p.imports(pos, rest)
	case "mixin":
		n, err := p.mixin(file, pos, st, rest)
		if err != nil {
			return nil, err
		}
		return []scss.Node{n}, nil
	case "include":
		if st.hasBlock {
			return nil, &scss.SyntaxError{Position: pos, Message: "@include with a content block is not supported"}
		}
		n, err := p.include(pos, rest)
		if err != nil {
			return nil, err
		}
		return []scss.Node{n}, nil
	case "extend":
		if st.hasBlock {
			return nil, &scss.SyntaxError{Position: pos, Message: "@extend can not have a block"}
		}
		n := &scss.Extend{Position: pos}
		if loc := optionalPattern.FindStringIndex(rest); loc != nil {
			n.Optional = true
			rest = rest[:loc[0]]
		}
		if rest == "" {
			return nil, &scss.SyntaxError{Position: pos, Message: "expected selector after @extend"}
		}
		sel, err := p.interpolation(rest, pos, false)
		if err != nil {
			return nil, err
		}
		n.Selector = sel
		return []scss.Node{n}, nil
	}

	n := &scss.AtRule{Position: pos, Name: name, HasBlock: st.hasBlock}
	if rest != "" {
		q, err := p.interpolation(rest, pos, queryDirectives[name])
		if err != nil {
			return nil, err
		}
		n.Query = q
	}
	if st.hasBlock {
		children, err := p.statements(file, st.block)
		if err != nil {
			return nil, err
		}
		n.Children = children
	}
	return []scss.Node{n}, nil
}

// imports splits `@import "a", "b";` into one node per target.
func (p *Parser) imports(pos scss.Position, rest string) ([]scss.Node, error) {
	if rest == "" {
		return nil, &scss.SyntaxError{Position: pos, Message: "expected file to import"}
	}
	var out []scss.Node
	for _, target := range splitTopLevel(rest, ',') {
		target = strings.TrimSpace(target)
		n := &scss.Import{Position: pos}
		switch {
		case strings.HasPrefix(target, "url("):
			end := strings.LastIndex(target, ")")
			n.Path = target[:end+1]
			n.Media = strings.TrimSpace(target[end+1:])
			n.Plain = true
		case strings.HasPrefix(target, `"`), strings.HasPrefix(target, "'"):
			end := skipQuoted(target, 0)
			n.Path = target[1 : end-1]
			n.Media = strings.TrimSpace(target[end:])
			n.Plain = n.Media != "" || scss.IsPlainImport(n.Path)
		default:
			return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("expected quoted import path, got %q", target)}
		}
		if strings.Contains(n.Path, "#{") {
			return nil, &scss.SyntaxError{Position: pos, Message: "interpolation is not allowed in @import"}
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *Parser) mixin(file string, pos scss.Position, st statement, rest string) (*scss.MixinDefinition, error) {
	if !st.hasBlock {
		return nil, &scss.SyntaxError{Position: pos, Message: "@mixin requires a block"}
	}
	m := callablePattern.FindStringSubmatch(rest)
	if m == nil {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("invalid mixin signature %q", rest)}
	}
	n := &scss.MixinDefinition{Position: pos, Name: m[1]}
	if params := strings.TrimSpace(m[2]); params != "" {
		sig, err := p.signature.ParseString(file, params)
		if err != nil {
			return nil, syntaxError(pos, err)
		}
		c := &converter{p: p, file: file, line: pos.Line}
		n.Params, n.Rest, err = c.signature(sig)
		if err != nil {
			return nil, err
		}
	}
	body, err := p.statements(file, st.block)
	if err != nil {
		return nil, err
	}
	n.Body = body
	return n, nil
}

func (p *Parser) include(pos scss.Position, rest string) (*scss.Include, error) {
	m := callablePattern.FindStringSubmatch(rest)
	if m == nil {
		return nil, &scss.SyntaxError{Position: pos, Message: fmt.Sprintf("invalid @include %q", rest)}
	}
	n := &scss.Include{Position: pos, Name: m[1]}
	if args := strings.TrimSpace(m[2]); args != "" {
		parsed, err := p.arguments.ParseString(pos.File, args)
		if err != nil {
			return nil, syntaxError(pos, err)
		}
		c := &converter{p: p, file: pos.File, line: pos.Line}
		n.Args, n.Keywords, n.Splat, err = c.args(parsed.Args)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}
