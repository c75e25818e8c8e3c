package docweaver

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Registry maps tag names to descriptors. Entries are never removed or
// replaced.
type Registry struct {
	byName map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Descriptor{}}
}

// Register normalizes d and binds it to name. Registering a reference
// capable tag also registers the tags that resolve its references.
func (r *Registry) Register(name string, d Delegate) error {
	if name == "" {
		return fmt.Errorf("%w: empty tag name", ErrInvalidDescriptor)
	}
	if _, ok := r.byName[name]; ok {
		return &DuplicateTagError{Name: name}
	}
	desc, err := d.Descriptor()
	if err != nil {
		return fmt.Errorf("register <%s>: %w", name, err)
	}
	r.byName[name] = desc
	Logger().Debug("registered tag", zap.String("tag", name))

	if ref := desc.Reference(); ref != nil {
		if err := ref.Register(r, name); err != nil {
			return fmt.Errorf("register reference tags for <%s>: %w", name, err)
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, d Delegate) {
	if err := r.Register(name, d); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered tag names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Referenceable returns the names of reference capable tags, sorted.
func (r *Registry) Referenceable() []string {
	var names []string
	for n, d := range r.byName {
		if d.Reference() != nil {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
