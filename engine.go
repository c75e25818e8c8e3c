package docweaver

import (
	"fmt"
	"io"
	"maps"

	"go.uber.org/zap"

	"github.com/grahms/docweaver/document"
)

// NewEngine builds an engine around reg. A nil registry gets the built-in
// tags, configured with the engine's styles.
func NewEngine(reg *Registry, opts ...func(*Engine)) *Engine {
	e := &Engine{reg: reg, policy: UnknownDrop, styles: DefaultStyles()}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = Logger()
	}
	if e.reg == nil {
		r, err := NewDefaultRegistry(e.styles)
		if err != nil {
			panic(err)
		}
		e.reg = r
	}
	if e.plugins == nil {
		e.plugins = NewPlugins()
	}
	return e
}

func WithUnknownPolicy(p UnknownTagPolicy) func(*Engine) {
	return func(e *Engine) { e.policy = p }
}

func WithLogger(l *zap.Logger) func(*Engine) {
	return func(e *Engine) { e.log = l }
}

// WithHeadingDepth sets the heading depth at or above which item counters
// restart. 0 restarts them at every heading.
func WithHeadingDepth(depth int) func(*Engine) {
	return func(e *Engine) { e.headingDepth = depth }
}

func WithDataConfig(dc DataConfig) func(*Engine) {
	return func(e *Engine) { e.data = dc }
}

func WithPlugins(p *Plugins) func(*Engine) {
	return func(e *Engine) { e.plugins = p }
}

// WithKeywords sets the keywords every document starts with.
func WithKeywords(kw Keywords) func(*Engine) {
	return func(e *Engine) { e.keywords = kw }
}

func WithStyles(s Styles) func(*Engine) {
	return func(e *Engine) { e.styles = s.merge(DefaultStyles()) }
}

// Registry returns the engine's tag registry.
func (e *Engine) Registry() *Registry { return e.reg }

// Resolve runs the reference pass over src.
func (e *Engine) Resolve(src []byte) (*References, error) {
	b := NewRefBuilder(e.log)
	p := newRefPass(e.reg, b, e.headingDepth, e.log)
	if err := walk(src, p); err != nil {
		return nil, fmt.Errorf("resolve references: %w", attachContext(err, src))
	}
	refs := b.Lock()
	e.log.Debug("references resolved", zap.Int("count", refs.Len()))
	return refs, nil
}

// Assemble runs the assembly pass over src into doc. Keywords defined by the
// template are scoped to this call.
func (e *Engine) Assemble(src []byte, refs *References, doc document.Document) error {
	kw := maps.Clone(e.keywords)
	if kw == nil {
		kw = Keywords{}
	}
	a := newAssembler(e, refs, doc, kw)
	if err := walk(src, a); err != nil {
		return fmt.Errorf("assemble document: %w", attachContext(err, src))
	}
	return nil
}

// Process runs both passes over src.
func (e *Engine) Process(src []byte, doc document.Document) (*References, error) {
	refs, err := e.Resolve(src)
	if err != nil {
		return nil, err
	}
	if err := e.Assemble(src, refs, doc); err != nil {
		return refs, err
	}
	return refs, nil
}

// ProcessStream reads the whole template from r and processes it.
func (e *Engine) ProcessStream(r io.Reader, doc document.Document) (*References, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return e.Process(src, doc)
}
