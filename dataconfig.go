package docweaver

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Record is one data configuration entry: a flat mapping handed to content
// generators.
type Record map[string]any

// String returns the value under key formatted as text.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// DataConfig resolves data configuration records by key.
type DataConfig interface {
	Lookup(key string) (Record, bool)
}

// MapConfig is a DataConfig backed by a map.
type MapConfig map[string]Record

func (m MapConfig) Lookup(key string) (Record, bool) {
	r, ok := m[key]
	return r, ok
}

// LoadDataConfig reads a YAML mapping of keys to records.
func LoadDataConfig(r io.Reader) (MapConfig, error) {
	var raw map[string]map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return MapConfig{}, nil
		}
		return nil, fmt.Errorf("decode data configuration: %w", err)
	}
	out := make(MapConfig, len(raw))
	for k, v := range raw {
		if v == nil {
			v = map[string]any{}
		}
		out[k] = Record(v)
	}
	return out, nil
}

// Keywords are the global values visible to every tag of a document.
type Keywords map[string]any

// Bool reports whether the keyword is set to a truthy value.
func (k Keywords) Bool(name string) bool {
	switch v := k[name].(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	case int:
		return v != 0
	case nil:
		return false
	}
	return true
}

// LoadKeywords reads a YAML mapping of keyword values.
func LoadKeywords(r io.Reader) (Keywords, error) {
	var kw Keywords
	if err := yaml.NewDecoder(r).Decode(&kw); err != nil {
		if err == io.EOF {
			return Keywords{}, nil
		}
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	if kw == nil {
		kw = Keywords{}
	}
	return kw, nil
}

// configValue returns the record value for key, falling back to the
// attribute. Records override attributes.
func configValue(key string, attrs Attrs, rec Record) string {
	if v, ok := rec.String(key); ok {
		return v
	}
	return attrs.Get(key)
}
