package docweaver

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ContentMode says whether a tag may carry text.
type ContentMode int

const (
	// ContentForbidden makes any non-blank text a fatal error.
	ContentForbidden ContentMode = iota
	// ContentDiscouraged warns once per tag instance.
	ContentDiscouraged
	// ContentExpected accepts text silently.
	ContentExpected
)

func (m ContentMode) String() string {
	switch m {
	case ContentForbidden:
		return "forbidden"
	case ContentDiscouraged:
		return "discouraged"
	case ContentExpected:
		return "expected"
	}
	return fmt.Sprintf("ContentMode(%d)", int(m))
}

// Tag is one tag instance as seen by a Handler. The same value is passed to
// Start and End.
type Tag struct {
	Name     string
	Attrs    Attrs
	Pos      Position
	Config   Record // data configuration record, nil unless the tag declares one
	ConfigID string // key Config was looked up by
}

// Handler implements the behavior of a tag during template assembly.
type Handler interface {
	Start(st *State, t *Tag) error
	End(st *State, t *Tag) error
}

// HandlerFuncs adapts plain functions to Handler. Nil funcs do nothing.
type HandlerFuncs struct {
	OnStart func(st *State, t *Tag) error
	OnEnd   func(st *State, t *Tag) error
}

func (h HandlerFuncs) Start(st *State, t *Tag) error {
	if h.OnStart == nil {
		return nil
	}
	return h.OnStart(st, t)
}

func (h HandlerFuncs) End(st *State, t *Tag) error {
	if h.OnEnd == nil {
		return nil
	}
	return h.OnEnd(st, t)
}

// Delegate is anything the registry can turn into a Descriptor.
type Delegate interface {
	Descriptor() (*Descriptor, error)
}

// Spec is a partial tag contract. Unset fields take defaults: nested tags
// allowed, content forbidden, no attributes.
type Spec struct {
	Nested     *bool
	Content    *ContentMode
	Required   []string
	Optional   map[string]string
	DataConfig string // attribute holding the data configuration key
	Reference  Referencer
	Handler    Handler
}

// Flag returns a pointer to b, for Spec.Nested.
func Flag(b bool) *bool { return &b }

// Mode returns a pointer to m, for Spec.Content.
func Mode(m ContentMode) *ContentMode { return &m }

// Descriptor normalizes the spec.
func (s Spec) Descriptor() (*Descriptor, error) { return NewDescriptor(s) }

// Descriptor is the normalized, immutable contract of a tag.
type Descriptor struct {
	nested     bool
	content    ContentMode
	required   []string
	optional   map[string]string
	dataConfig string
	reference  Referencer
	handler    Handler
}

// Descriptor returns d itself, so descriptors can be registered again under
// another name.
func (d *Descriptor) Descriptor() (*Descriptor, error) { return d, nil }

// NewDescriptor builds a Descriptor from a partial spec.
func NewDescriptor(s Spec) (*Descriptor, error) {
	d := &Descriptor{
		nested:     true,
		content:    ContentForbidden,
		optional:   map[string]string{},
		dataConfig: s.DataConfig,
		reference:  s.Reference,
		handler:    s.Handler,
	}
	if s.Nested != nil {
		d.nested = *s.Nested
	}
	if s.Content != nil {
		if *s.Content < ContentForbidden || *s.Content > ContentExpected {
			return nil, fmt.Errorf("%w: content mode %d", ErrInvalidDescriptor, *s.Content)
		}
		d.content = *s.Content
	}

	for _, name := range s.Required {
		if name == "" {
			return nil, fmt.Errorf("%w: empty required attribute name", ErrInvalidDescriptor)
		}
		if slices.Contains(d.required, name) {
			return nil, fmt.Errorf("%w: required attribute %q listed twice", ErrInvalidDescriptor, name)
		}
		d.required = append(d.required, name)
	}
	for name, def := range s.Optional {
		if name == "" {
			return nil, fmt.Errorf("%w: empty optional attribute name", ErrInvalidDescriptor)
		}
		if slices.Contains(d.required, name) {
			return nil, fmt.Errorf("%w: attribute %q is both required and optional", ErrInvalidDescriptor, name)
		}
		d.optional[name] = def
	}

	if d.dataConfig != "" {
		if _, ok := d.optional[d.dataConfig]; ok {
			delete(d.optional, d.dataConfig)
			Logger().Debug("data configuration attribute promoted to required",
				zap.String("attribute", d.dataConfig))
		}
		if !slices.Contains(d.required, d.dataConfig) {
			d.required = append(d.required, d.dataConfig)
		}
	}

	if d.reference != nil {
		for _, id := range d.reference.Identifiers() {
			if !d.hasAttribute(id) {
				return nil, fmt.Errorf("%w: reference identifier %q is not a declared attribute",
					ErrInvalidDescriptor, id)
			}
		}
	}
	return d, nil
}

func (d *Descriptor) hasAttribute(name string) bool {
	if slices.Contains(d.required, name) {
		return true
	}
	_, ok := d.optional[name]
	return ok
}

func (d *Descriptor) isRequired(name string) bool { return slices.Contains(d.required, name) }

func (d *Descriptor) AllowsNested() bool    { return d.nested }
func (d *Descriptor) Content() ContentMode  { return d.content }
func (d *Descriptor) Required() []string    { return slices.Clone(d.required) }
func (d *Descriptor) DataConfig() string    { return d.dataConfig }
func (d *Descriptor) Reference() Referencer { return d.reference }
func (d *Descriptor) Handler() Handler      { return d.handler }

// Optional returns the optional attributes and their defaults.
func (d *Descriptor) Optional() map[string]string { return maps.Clone(d.optional) }

// rootDescriptor backs the document root when it is not registered.
var rootDescriptor = &Descriptor{nested: true, content: ContentDiscouraged, optional: map[string]string{}}

// unknownDescriptor backs frames of unregistered tags.
var unknownDescriptor = &Descriptor{nested: true, content: ContentExpected, optional: map[string]string{}}
