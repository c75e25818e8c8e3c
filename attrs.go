package docweaver

import (
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// Attr is a raw attribute as delivered by the event source.
type Attr struct {
	Name, Value string
}

// Attrs holds the resolved attributes of a tag. Optional attributes are
// always present, holding their default when absent from the markup.
type Attrs map[string]string

// Get returns the attribute value or "".
func (a Attrs) Get(name string) string { return a[name] }

// Lookup reports whether the attribute is set to a non-empty value.
func (a Attrs) Lookup(name string) (string, bool) {
	v, ok := a[name]
	return v, ok && v != ""
}

// Int parses an integer attribute. Empty values yield def.
func (a Attrs) Int(name string, def int) (int, error) {
	v := a[name]
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// resolveAttributes applies desc's attribute contract to the raw attributes
// of one tag instance.
func resolveAttributes(reg *Registry, log *zap.Logger, name string, raw []Attr, desc *Descriptor, pos Position) (Attrs, error) {
	pending := make(map[string]string, len(raw))
	for _, a := range raw {
		pending[a.Name] = a.Value
	}
	take := func(k string) (string, bool) {
		v, ok := pending[k]
		delete(pending, k)
		return v, ok
	}

	out := make(Attrs, len(desc.required)+len(desc.optional)+1)
	for _, k := range desc.required {
		v, ok := take(k)
		if !ok {
			return nil, NewAttributeError(pos, name, k, "", "")
		}
		out[k] = v
	}
	for k, def := range desc.optional {
		if v, ok := take(k); ok {
			out[k] = v
			continue
		}
		out[k] = def
		log.Debug("optional attribute defaulted",
			zap.String("tag", name), zap.String("attribute", k), zap.String("default", def))
	}

	if role, ok := take("role"); ok {
		out["role"] = role
		if rd, ok := reg.Lookup(role); ok && rd.Reference() != nil {
			for _, id := range rd.Reference().Identifiers() {
				if desc.hasAttribute(id) {
					continue
				}
				if v, ok := take(id); ok {
					out[id] = v
					continue
				}
				if rd.isRequired(id) {
					return nil, NewAttributeError(pos, name, id, role, "")
				}
				out[id] = rd.optional[id]
			}
		}
	}

	if len(pending) > 0 {
		extra := make([]string, 0, len(pending))
		for k := range pending {
			extra = append(extra, k)
		}
		sort.Strings(extra)
		log.Warn("unknown attributes ignored",
			zap.String("tag", name), zap.Strings("attributes", extra), zap.Int("line", pos.Line))
	}
	return out, nil
}
