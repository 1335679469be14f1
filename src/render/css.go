package render

import (
	"fmt"
	"slices"
	"strings"

	douceur "github.com/aymerick/douceur/parser"
	"github.com/seuros/gopher-sass/src/parser"
	"github.com/seuros/gopher-sass/src/scss"
)

// CSS flattens a fully resolved tree into CSS: nested selectors are
// combined, at-rules nested in rules are moved outside of them, variables
// are replaced by their values and @extend is applied. Mixin definitions
// and variable bindings produce no output. Any @include or reference to an
// unbound variable left in the tree is an error. The result is checked with
// a CSS parser before it is returned.
func CSS(doc *scss.Document) (string, error) {
	f := &flattener{}
	if err := f.nodes(doc.Children, frame{scope: newScope(nil)}); err != nil {
		return "", err
	}
	if err := f.applyExtends(); err != nil {
		return "", err
	}
	out := f.write()
	if _, err := douceur.Parse(out); err != nil {
		return "", fmt.Errorf("render: produced invalid css: %w", err)
	}
	return out, nil
}

// cssItem is one top level output statement with its enclosing at-rules.
type cssItem struct {
	at        []string
	selectors []string
	decls     []string
	// raw is a statement without block, such as @import or a comment.
	raw string
}

type extension struct {
	pos       scss.Position
	targets   scss.SelectorList
	extenders []string
	optional  bool
}

type flattener struct {
	items      []*cssItem
	extensions []extension
}

// frame is the nesting context of the node being flattened.
type frame struct {
	selectors []string
	at        []string
	block     *cssItem
	scope     *scope
}

type scope struct {
	parent *scope
	vars   map[string]scss.Expr
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]scss.Expr)}
}

func (s *scope) lookup(name string) (scss.Expr, bool) {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) root() *scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

func errorf(pos scss.Position, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
}

func (f *flattener) nodes(nodes []scss.Node, fr frame) error {
	for _, n := range nodes {
		if err := f.node(n, fr); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) node(n scss.Node, fr frame) error {
	switch n := n.(type) {
	case *scss.Comment:
		if n.Silent {
			return nil
		}
		if fr.block != nil {
			fr.block.decls = append(fr.block.decls, n.Text)
			return nil
		}
		f.items = append(f.items, &cssItem{at: fr.at, raw: n.Text})
	case *scss.Declaration:
		if fr.block == nil {
			return errorf(n.Position, "Declarations may only be used within style rules.")
		}
		name, err := text(n.Name, fr.scope)
		if err != nil {
			return err
		}
		v, err := resolveValue(n.Value, fr.scope)
		if err != nil {
			return err
		}
		fr.block.decls = append(fr.block.decls, name+": "+v+";")
	case *scss.VariableBinding:
		v, err := resolve(n.Value, fr.scope)
		if err != nil {
			return err
		}
		target := fr.scope
		if n.Global {
			target = target.root()
		}
		if _, bound := target.lookup(n.Name); n.Default && bound {
			return nil
		}
		target.vars[n.Name] = v
	case *scss.Rule:
		sel, err := text(n.Selector, fr.scope)
		if err != nil {
			return err
		}
		list, err := parser.ParseSelector(sel, n.Position)
		if err != nil {
			return err
		}
		block := &cssItem{at: fr.at, selectors: nest(fr.selectors, list)}
		f.items = append(f.items, block)
		return f.nodes(n.Children, frame{selectors: block.selectors, at: fr.at, block: block, scope: newScope(fr.scope)})
	case *scss.AtRule:
		header := "@" + n.Name
		if n.Query != nil {
			q, err := text(n.Query, fr.scope)
			if err != nil {
				return err
			}
			if q != "" {
				header += " " + q
			}
		}
		if !n.HasBlock {
			f.items = append(f.items, &cssItem{at: fr.at, raw: header + ";"})
			return nil
		}
		at := append(slices.Clip(fr.at), header)
		block := &cssItem{at: at, selectors: fr.selectors}
		f.items = append(f.items, block)
		return f.nodes(n.Children, frame{selectors: fr.selectors, at: at, block: block, scope: newScope(fr.scope)})
	case *scss.Import:
		if !n.Plain {
			return errorf(n.Position, "unresolved @import %q", n.Path)
		}
		f.items = append(f.items, &cssItem{at: fr.at, raw: "@import " + importTarget(n) + ";"})
	case *scss.Extend:
		if fr.selectors == nil {
			return errorf(n.Position, "@extend may only be used within style rules.")
		}
		targets := n.ResolvedSelector
		if targets == nil {
			sel, err := text(n.Selector, fr.scope)
			if err != nil {
				return err
			}
			if targets, err = parser.ParseSelector(sel, n.Position); err != nil {
				return err
			}
		}
		f.extensions = append(f.extensions, extension{pos: n.Position, targets: targets, extenders: fr.selectors, optional: n.Optional})
	case *scss.Include:
		return errorf(n.Position, "unresolved @include %s", n.Name)
	case *scss.MixinDefinition:
	default:
		return errorf(n.Pos(), "cannot render %s as css", scss.KindOf(n))
	}
	return nil
}

// nest combines parent and child selector groups. `&` stands for the
// parent; without it the child is a descendant.
func nest(parents, children []string) []string {
	if len(parents) == 0 {
		return children
	}
	out := make([]string, 0, len(parents)*len(children))
	for _, p := range parents {
		for _, c := range children {
			if strings.Contains(c, "&") {
				out = append(out, strings.ReplaceAll(c, "&", p))
			} else {
				out = append(out, p+" "+c)
			}
		}
	}
	return out
}

// applyExtends adds extending selectors next to every selector matching a
// target, then removes placeholder selectors.
func (f *flattener) applyExtends() error {
	for _, ext := range f.extensions {
		for _, target := range ext.targets {
			found := false
			for _, it := range f.items {
				var added []string
				for _, s := range it.selectors {
					var prefix string
					switch {
					case s == target:
					case strings.HasSuffix(s, " "+target):
						prefix = strings.TrimSuffix(s, target)
					default:
						continue
					}
					found = true
					for _, e := range ext.extenders {
						added = append(added, prefix+e)
					}
				}
				for _, s := range added {
					if !slices.Contains(it.selectors, s) {
						it.selectors = append(it.selectors, s)
					}
				}
			}
			if !found && !ext.optional {
				return errorf(ext.pos, "The target selector was not found. Use \"@extend %s !optional\" to avoid this error.", target)
			}
		}
	}
	for _, it := range f.items {
		if it.selectors == nil {
			continue
		}
		it.selectors = slices.DeleteFunc(it.selectors, func(s string) bool {
			return strings.Contains(s, "%")
		})
	}
	return nil
}

func (f *flattener) write() string {
	var b strings.Builder
	first := true
	for _, it := range f.items {
		if it.raw == "" && len(it.decls) == 0 {
			continue
		}
		if it.raw == "" && it.selectors != nil && len(it.selectors) == 0 {
			// only placeholders were left
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false
		depth := 0
		indent := func() { b.WriteString(strings.Repeat("  ", depth)) }
		for _, h := range it.at {
			indent()
			b.WriteString(h + " {\n")
			depth++
		}
		switch {
		case it.raw != "":
			indent()
			b.WriteString(it.raw + "\n")
		case it.selectors != nil:
			indent()
			b.WriteString(strings.Join(it.selectors, ", ") + " {\n")
			depth++
			for _, d := range it.decls {
				indent()
				b.WriteString(d + "\n")
			}
			depth--
			indent()
			b.WriteString("}\n")
		default:
			for _, d := range it.decls {
				indent()
				b.WriteString(d + "\n")
			}
		}
		for range it.at {
			depth--
			indent()
			b.WriteString("}\n")
		}
	}
	return b.String()
}

// resolve replaces variables with their values.
func resolve(e scss.Expr, s *scope) (scss.Expr, error) {
	switch e := e.(type) {
	case nil, *scss.Literal:
		return e, nil
	case *scss.Variable:
		v, ok := s.lookup(e.Name)
		if !ok {
			return nil, errorf(e.Position, "Undefined variable: \"$%s\".", e.Name)
		}
		return v, nil
	case *scss.Operation:
		left, err := resolve(e.Left, s)
		if err != nil {
			return nil, err
		}
		right, err := resolve(e.Right, s)
		if err != nil {
			return nil, err
		}
		return &scss.Operation{Position: e.Position, Op: e.Op, Left: left, Right: right, Compact: e.Compact}, nil
	case *scss.FunctionCall:
		args, err := resolveAll(e.Args, s)
		if err != nil {
			return nil, err
		}
		kws, err := resolveKeywords(e.Keywords, s)
		if err != nil {
			return nil, err
		}
		return &scss.FunctionCall{Position: e.Position, Name: e.Name, Args: args, Keywords: kws}, nil
	case *scss.List:
		items, err := resolveAll(e.Items, s)
		if err != nil {
			return nil, err
		}
		return &scss.List{Position: e.Position, Items: items, Separator: e.Separator, Parens: e.Parens}, nil
	case *scss.ArgList:
		items, err := resolveAll(e.Items, s)
		if err != nil {
			return nil, err
		}
		kws, err := resolveKeywords(e.Keywords, s)
		if err != nil {
			return nil, err
		}
		return &scss.ArgList{Position: e.Position, Items: items, Keywords: kws, Separator: e.Separator}, nil
	case *scss.Map:
		m := &scss.Map{Position: e.Position, Pairs: make([]scss.Pair, len(e.Pairs))}
		for i, p := range e.Pairs {
			k, err := resolve(p.Key, s)
			if err != nil {
				return nil, err
			}
			v, err := resolve(p.Value, s)
			if err != nil {
				return nil, err
			}
			m.Pairs[i] = scss.Pair{Key: k, Value: v}
		}
		return m, nil
	case *scss.Interp:
		if e == nil {
			return e, nil
		}
		out := &scss.Interp{Position: e.Position, Quote: e.Quote}
		for _, p := range e.Parts {
			if p.Expr == nil {
				out.Parts = append(out.Parts, p)
				continue
			}
			v, err := resolve(p.Expr, s)
			if err != nil {
				return nil, err
			}
			if t, ok := scss.Text(v); ok {
				out.Parts = append(out.Parts, scss.InterpPart{Text: t})
			} else {
				out.Parts = append(out.Parts, scss.InterpPart{Text: scss.Inspect(v)})
			}
		}
		return out, nil
	default:
		return e, nil
	}
}

func resolveAll(in []scss.Expr, s *scope) ([]scss.Expr, error) {
	out := make([]scss.Expr, len(in))
	for i, e := range in {
		v, err := resolve(e, s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func resolveKeywords(in []scss.Keyword, s *scope) ([]scss.Keyword, error) {
	out := make([]scss.Keyword, len(in))
	for i, kw := range in {
		v, err := resolve(kw.Value, s)
		if err != nil {
			return nil, err
		}
		out[i] = scss.Keyword{Name: kw.Name, Value: v}
	}
	return out, nil
}

func resolveValue(e scss.Expr, s *scope) (string, error) {
	v, err := resolve(e, s)
	if err != nil {
		return "", err
	}
	return value(v), nil
}

// text resolves interpolated text such as a selector or a media query.
func text(i *scss.Interp, s *scope) (string, error) {
	v, err := resolve(i, s)
	if err != nil {
		return "", err
	}
	out, _ := v.(*scss.Interp).Plain()
	return out, nil
}
