// Package split partitions a stylesheet tree into the part that can be
// resolved now (static) and the part that still depends on values only
// known later (dynamic).
package split

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/seuros/gopher-sass/src/parser"
	"github.com/seuros/gopher-sass/src/scss"
)

// Mode selects which half of the stylesheet a partition extracts.
type Mode int

const (
	// Static keeps content that references no variables.
	Static Mode = iota
	// Dynamic keeps content that still depends on variables.
	Dynamic
)

func (m Mode) String() string {
	switch m {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "static" or "dynamic".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static", "":
		return Static, nil
	case "dynamic":
		return Dynamic, nil
	}
	return Static, fmt.Errorf("unknown mode %q (want static or dynamic)", s)
}

// Partition extracts the static or dynamic half of root. The input tree is
// not modified. Every deferred field of the returned tree is materialized.
func Partition(root *scss.Document, mode Mode, opts ...Option) (*scss.Document, error) {
	return PartitionContext(context.Background(), root, mode, opts...)
}

// PartitionContext is Partition with a context used as the parent of the
// partition span.
func PartitionContext(ctx context.Context, root *scss.Document, mode Mode, opts ...Option) (doc *scss.Document, err error) {
	if root == nil {
		return nil, errors.New("split: nil document")
	}
	cfg := newConfig(opts)
	instruments := initObservability(cfg.Observability)
	stats := &partitionStats{}
	logger := cfg.Logging.Logger

	ctx, spanCtx := instruments.startPartitionSpan(ctx, mode, root.Position.File, cfg.Observability)
	defer func() {
		instruments.finishPartitionSpan(spanCtx, mode, stats, err, cfg.Observability)
		if err != nil {
			logger.Error("partition failed", "category", LogCategoryPartition, "mode", mode, "file", root.Position.File, "error", err)
		}
	}()

	var env *Env
	if cfg.Env != nil {
		env = cfg.Env.Child()
	} else {
		env = NewEnv(nil)
	}

	rootID := root.Position.File
	if c, ok := cfg.Importer.(canonicalizer); ok && rootID != "" {
		rootID = c.Canonical(rootID)
	}
	p := partitioner{
		ctx:         ctx,
		mode:        mode,
		cfg:         cfg,
		env:         env,
		file:        root.Position.File,
		stats:       stats,
		instruments: instruments,
		log:         logger,
	}
	if rootID != "" {
		p.imports = []string{rootID}
	}

	children, err := p.collect(root.Children)
	if err != nil {
		return nil, err
	}
	Materialize(children, AllFields)

	if logger.IsInfoEnabled() {
		logger.Info("partition complete",
			"category", LogCategoryPartition,
			"mode", mode,
			"file", root.Position.File,
			"kept", stats.kept,
			"dropped", stats.dropped,
			"expansions", stats.expansions,
		)
	}
	return &scss.Document{Position: root.Position, Children: children}, nil
}

// partitioner carries the state of one partition. Scoped changes copy the
// value; nothing is ever restored after a nested visit.
type partitioner struct {
	ctx  context.Context
	mode Mode
	cfg  *Config
	env  *Env
	file string

	// frames is the include/import stack, innermost first.
	frames []Frame
	// expanding lists the mixins being expanded, outermost first.
	expanding []*Callable
	// imports lists canonical ids of the documents being visited.
	imports []string

	stats       *partitionStats
	instruments *observabilityInstruments
	log         Logger

	out *[]scss.Node
}

// collect visits nodes in order and returns what they contributed.
func (p partitioner) collect(nodes []scss.Node) ([]scss.Node, error) {
	var out []scss.Node
	p.out = &out
	for _, n := range nodes {
		if err := n.Accept(&p); err != nil {
			var l locatable
			if errors.As(err, &l) {
				l.locate(n.Pos(), p.frames)
			}
			return nil, err
		}
	}
	return out, nil
}

func (p *partitioner) emit(n scss.Node) {
	p.stats.kept++
	*p.out = append(*p.out, n)
}

func (p *partitioner) drop(n scss.Node, reason string) {
	p.stats.dropped++
	if p.log.IsDebugEnabled() {
		p.log.Debug("node dropped",
			"category", LogCategoryPartition,
			"mode", p.mode,
			"kind", scss.KindOf(n),
			"pos", n.Pos(),
			"reason", reason,
		)
	}
}

// matches reports whether expressions belong to the current mode.
func (p *partitioner) matches(exprs ...scss.Expr) bool {
	return IsDynamic(exprs...) == (p.mode == Dynamic)
}

func (p *partitioner) withScope() partitioner {
	q := *p
	q.env = p.env.Child()
	return q
}

func (p *partitioner) withFrame(f Frame) partitioner {
	q := *p
	q.frames = append([]Frame{f}, p.frames...)
	return q
}

func (p *partitioner) withExpansion(c *Callable, env *Env, call *scss.Include) partitioner {
	q := p.withFrame(Frame{Kind: "mixin", Name: c.Name, Position: call.Position})
	q.env = env
	q.expanding = append(slices.Clip(p.expanding), c)
	return q
}

func (p *partitioner) withImport(ctx context.Context, canonical string, n *scss.Import) partitioner {
	q := p.withFrame(Frame{Kind: "import", Name: canonical, Position: n.Position})
	q.ctx = ctx
	q.file = canonical
	q.imports = append(slices.Clip(p.imports), canonical)
	return q
}

func (p *partitioner) VisitComment(n *scss.Comment) error {
	if p.mode == Dynamic {
		p.drop(n, "comment")
		return nil
	}
	p.emit(scss.Clone(n))
	return nil
}

func (p *partitioner) VisitDeclaration(n *scss.Declaration) error {
	if !p.matches(n.Name, n.Value) {
		p.drop(n, "classified")
		return nil
	}
	c := scss.Clone(n).(*scss.Declaration)
	if c.ResolvedName == nil {
		c.ResolvedName = fold(n.Name)
	}
	if c.ResolvedValue == nil {
		// only folds interpolation, no variable is looked up
		v, err := evaluator{}.expr(n.Value)
		if err != nil {
			return err
		}
		c.ResolvedValue = v
	}
	p.emit(c)
	return nil
}

func (p *partitioner) VisitRule(n *scss.Rule) error {
	children, err := p.withScope().collect(n.Children)
	if err != nil {
		return err
	}
	if onlyLocalBindings(children) {
		p.drop(n, "empty")
		return nil
	}
	c := scss.Clone(n).(*scss.Rule)
	c.Children = children
	if c.ResolvedSelector == nil && p.matches(n.Selector) {
		c.ResolvedSelector = fold(n.Selector)
	}
	*p.out = append(*p.out, c)
	return nil
}

// onlyLocalBindings reports whether nodes hold nothing but variable
// assignments scoped to their rule.
func onlyLocalBindings(nodes []scss.Node) bool {
	for _, n := range nodes {
		b, ok := n.(*scss.VariableBinding)
		if !ok || b.Global {
			return false
		}
	}
	return true
}

func (p *partitioner) VisitExtend(n *scss.Extend) error {
	if !p.matches(n.Selector) {
		p.drop(n, "classified")
		return nil
	}
	c := scss.Clone(n).(*scss.Extend)
	sel := fold(n.Selector)
	if text, ok := sel.Plain(); ok {
		list, err := parser.ParseSelector(text, n.Position)
		if err != nil {
			return err
		}
		c.ResolvedSelector = list
	} else {
		c.Selector = sel
	}
	p.emit(c)
	return nil
}

func (p *partitioner) VisitAtRule(n *scss.AtRule) error {
	c := scss.Clone(n).(*scss.AtRule)
	if c.ResolvedQuery == nil && n.Query != nil {
		q, err := evaluator{env: p.env}.interp(n.Query)
		if err != nil {
			return err
		}
		c.ResolvedQuery = q
	}
	if n.HasBlock {
		children, err := p.withScope().collect(n.Children)
		if err != nil {
			return err
		}
		c.Children = children
	}
	// kept even when every child was filtered out
	*p.out = append(*p.out, c)
	return nil
}

func (p *partitioner) VisitVariableBinding(n *scss.VariableBinding) error {
	v, err := evaluator{env: p.env}.expr(n.Value)
	if err != nil {
		return err
	}
	if _, bound := p.env.Lookup(n.Name); !n.Default || !bound {
		p.env.Set(n.Name, v)
	}
	*p.out = append(*p.out, scss.Clone(n))
	return nil
}

func (p *partitioner) VisitMixinDefinition(n *scss.MixinDefinition) error {
	p.env.SetMixin(NewMixin(n, p.env))
	if p.mode == Dynamic {
		*p.out = append(*p.out, scss.DeepClone(n))
	}
	return nil
}

func (p *partitioner) VisitImport(n *scss.Import) error {
	if n.Plain {
		if p.mode == Dynamic {
			p.drop(n, "plain import")
			return nil
		}
		p.emit(scss.Clone(n))
		return nil
	}
	if p.cfg.Importer == nil {
		return &ImportError{Location: Location{Position: n.Position}, Path: n.Path, Err: errors.New("no importer configured")}
	}
	if len(p.frames) >= p.cfg.MaxDepth {
		return &RecursionError{Location: Location{Position: n.Position}, Limit: p.cfg.MaxDepth}
	}

	canonical, doc, err := p.cfg.Importer.Import(n.Path, p.file)
	if err != nil {
		var syntaxErr *scss.SyntaxError
		if errors.As(err, &syntaxErr) {
			return err
		}
		return &ImportError{Location: Location{Position: n.Position}, Path: n.Path, Err: err}
	}
	if doc == nil {
		return &ImportError{Location: Location{Position: n.Position}, Path: n.Path, Err: errors.New("importer returned no document")}
	}
	if i := slices.Index(p.imports, canonical); i >= 0 {
		chain := append(slices.Clone(p.imports[i:]), canonical)
		return &ImportCycleError{Location: Location{Position: n.Position}, Chain: chain}
	}

	ctx, span := p.instruments.startImportSpan(p.ctx, canonical, p.cfg.Observability)
	p.stats.imports++
	p.log.Debug("import inlined", "category", LogCategoryImport, "path", n.Path, "canonical", canonical, "from", p.file)

	q := p.withImport(ctx, canonical, n)
	children, err := q.collect(doc.Children)
	finishImportSpan(span, err)
	if err != nil {
		return err
	}
	*p.out = append(*p.out, children...)
	return nil
}

func (p *partitioner) VisitInclude(n *scss.Include) error {
	c, ok := p.env.LookupMixin(n.Name)
	if !ok {
		return &LookupError{Location: Location{Position: n.Position}, Kind: "mixin", Name: n.Name}
	}

	unbound, binding, err := p.unboundVariables(c, n)
	if err != nil {
		return err
	}

	switch {
	case p.mode == Dynamic && len(unbound) > 0:
		p.log.Debug("include kept", "category", LogCategoryMixin, "mixin", n.Name, "unbound", sortedNames(unbound))
		p.emit(scss.Clone(n))
		return nil
	case p.mode == Dynamic:
		p.drop(n, "fully static")
		return nil
	case len(unbound) > 0:
		p.drop(n, "unbound "+strings.Join(sortedNames(unbound), ", "))
		return nil
	}
	return p.expand(c, n, binding)
}

// unboundVariables returns the variables the mixin body and the mixins it
// includes reference that the call does not bind to a static value.
func (p *partitioner) unboundVariables(c *Callable, n *scss.Include) (map[string]struct{}, *Binding, error) {
	unbound := c.references()

	if n.Splat != nil && IsDynamic(n.Splat) {
		// a dynamic spread cannot be bound before its value is known
		for name := range variablesOf(n.Splat) {
			unbound[name] = struct{}{}
		}
		return unbound, nil, nil
	}

	binding, err := Bind(c, CallSiteOf(n), p.evalDefault)
	if err != nil {
		return nil, nil, err
	}
	for name, v := range binding.Values {
		if !IsDynamic(v) {
			delete(unbound, name)
		}
	}
	return unbound, binding, nil
}

func (p *partitioner) evalDefault(def scss.Expr, scope *Env) (scss.Expr, error) {
	return evaluator{env: scope}.expr(def)
}

// expand splices the evaluated body of a fully bound include.
func (p *partitioner) expand(c *Callable, n *scss.Include, b *Binding) error {
	if i := slices.Index(p.expanding, c); i >= 0 {
		chain := make([]string, 0, len(p.expanding)-i+1)
		for _, e := range p.expanding[i:] {
			chain = append(chain, e.Name)
		}
		return &MixinCycleError{Location: Location{Position: n.Position}, Name: c.Name, Chain: append(chain, c.Name)}
	}
	if len(p.frames) >= p.cfg.MaxDepth {
		return &RecursionError{Location: Location{Position: n.Position}, Limit: p.cfg.MaxDepth}
	}

	env := c.Env.Child()
	for name, v := range b.Values {
		env.Set(name, v)
	}
	q := p.withExpansion(c, env, n)

	body, err := evaluator{env: env, strict: true}.nodes(c.Body)
	if err != nil {
		var l locatable
		if errors.As(err, &l) {
			l.locate(n.Position, q.frames)
		}
		return err
	}
	Materialize(body, AllFields)

	out, err := q.collect(body)
	if err != nil {
		return err
	}
	p.stats.expansions++
	p.log.Debug("include expanded", "category", LogCategoryMixin, "mixin", c.Name, "nodes", len(out), "depth", len(q.frames))
	*p.out = append(*p.out, out...)
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, "$"+name)
	}
	sort.Strings(names)
	return names
}
