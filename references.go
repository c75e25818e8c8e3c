package docweaver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type refKey struct {
	role, attr, key string
}

// RefEntry is one resolved reference.
type RefEntry struct {
	Role      string
	Attribute string
	Key       string
	Text      string
}

// RefBuilder collects references during the reference pass. Lock freezes it
// and hands out the read-only view used by the assembly pass.
type RefBuilder struct {
	entries map[refKey]string
	order   []refKey
	locked  *References
	log     *zap.Logger
}

func NewRefBuilder(log *zap.Logger) *RefBuilder {
	if log == nil {
		log = Logger()
	}
	return &RefBuilder{entries: map[refKey]string{}, log: log}
}

// Set stores text under (role, attr, key). An existing key is an error unless
// duplicates is true, in which case the new text replaces the old one.
func (b *RefBuilder) Set(role, attr, key, text string, duplicates bool) error {
	if b.locked != nil {
		return fmt.Errorf("set %s[%s=%q]: %w", role, attr, key, ErrLocked)
	}
	k := refKey{role, attr, key}
	if old, ok := b.entries[k]; ok {
		if !duplicates {
			return &DuplicateReferenceError{Role: role, Attribute: attr, Key: key, Existing: old, Text: text}
		}
		b.log.Warn("overwriting reference",
			zap.String("role", role), zap.String("attribute", attr), zap.String("key", key),
			zap.String("old", old), zap.String("new", text))
		b.entries[k] = text
		return nil
	}
	b.entries[k] = text
	b.order = append(b.order, k)
	b.log.Debug("reference set",
		zap.String("role", role), zap.String("attribute", attr), zap.String("key", key), zap.String("text", text))
	return nil
}

// Locked reports whether Lock has been called.
func (b *RefBuilder) Locked() bool { return b.locked != nil }

// Lock freezes the builder. Later calls return the same view.
func (b *RefBuilder) Lock() *References {
	if b.locked == nil {
		b.locked = &References{entries: b.entries, order: b.order}
	}
	return b.locked
}

// References is the frozen reference model.
type References struct {
	entries map[refKey]string
	order   []refKey
}

// Lookup returns the reference text for (role, attr, key).
func (r *References) Lookup(role, attr, key string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.entries[refKey{role, attr, key}]
	return v, ok
}

// Get is like Lookup but reports a missing reference as an error.
func (r *References) Get(role, attr, key string) (string, error) {
	v, ok := r.Lookup(role, attr, key)
	if !ok {
		return "", fmt.Errorf("%w: %s[%s=%q]", ErrUnresolvedReference, role, attr, key)
	}
	return v, nil
}

func (r *References) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Entries returns all references in insertion order.
func (r *References) Entries() []RefEntry {
	if r == nil {
		return nil
	}
	out := make([]RefEntry, len(r.order))
	for i, k := range r.order {
		out[i] = RefEntry{Role: k.role, Attribute: k.attr, Key: k.key, Text: r.entries[k]}
	}
	return out
}

func (r *References) String() string {
	var b strings.Builder
	for _, e := range r.Entries() {
		fmt.Fprintf(&b, "%s[%s=%q] = %q\n", e.Role, e.Attribute, e.Key, e.Text)
	}
	return b.String()
}
