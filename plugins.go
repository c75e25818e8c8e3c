package docweaver

import (
	"fmt"
	"sort"

	"github.com/grahms/docweaver/document"
)

// TextFunc generates the text of a <string> tag.
type TextFunc func(rec Record, kw Keywords) (string, error)

// FigureFunc generates the image of a <figure> tag. logName is non-empty when
// generated artifacts should also be written to disk under that name.
type FigureFunc func(rec Record, kw Keywords, logName string) (document.Image, error)

// TableFunc builds a <table> directly in doc.
type TableFunc func(rec Record, kw Keywords, doc document.Document, style, logName string) error

// Plugins maps handler names to content generators.
type Plugins struct {
	text   map[string]TextFunc
	figure map[string]FigureFunc
	table  map[string]TableFunc
}

func NewPlugins() *Plugins {
	return &Plugins{
		text:   map[string]TextFunc{},
		figure: map[string]FigureFunc{},
		table:  map[string]TableFunc{},
	}
}

func (p *Plugins) RegisterText(name string, fn TextFunc) error {
	return register(p.text, "text", name, fn)
}

func (p *Plugins) RegisterFigure(name string, fn FigureFunc) error {
	return register(p.figure, "figure", name, fn)
}

func (p *Plugins) RegisterTable(name string, fn TableFunc) error {
	return register(p.table, "table", name, fn)
}

func register[F any](m map[string]F, kind, name string, fn F) error {
	if _, ok := m[name]; ok {
		return fmt.Errorf("%w: %s handler %q", ErrDuplicateHandler, kind, name)
	}
	m[name] = fn
	return nil
}

// Text returns the text generator registered under name. A missing
// generator is a recoverable error.
func (p *Plugins) Text(name string) (TextFunc, error) {
	if p == nil {
		return nil, errNoPlugins
	}
	return lookup(p.text, "text", name)
}

func (p *Plugins) Figure(name string) (FigureFunc, error) {
	if p == nil {
		return nil, errNoPlugins
	}
	return lookup(p.figure, "figure", name)
}

func (p *Plugins) Table(name string) (TableFunc, error) {
	if p == nil {
		return nil, errNoPlugins
	}
	return lookup(p.table, "table", name)
}

var errNoPlugins = Recoverable("no content generators registered", nil)

func lookup[F any](m map[string]F, kind, name string) (F, error) {
	fn, ok := m[name]
	if !ok {
		var zero F
		return zero, Recoverablef("missing %s handler %q", kind, name)
	}
	return fn, nil
}

// Names lists the registered handler names per kind.
func (p *Plugins) Names() map[string][]string {
	out := map[string][]string{}
	add := func(kind string, names []string) {
		sort.Strings(names)
		out[kind] = names
	}
	add("text", keys(p.text))
	add("figure", keys(p.figure))
	add("table", keys(p.table))
	return out
}

func keys[F any](m map[string]F) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
