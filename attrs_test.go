package docweaver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_ResolveAttributes(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("figure", Spec{
		Required:  []string{"id"},
		Reference: NewReferenceTarget("Figure"),
	}))
	desc, err := NewDescriptor(Spec{
		Required: []string{"name"},
		Optional: map[string]string{"style": "Normal"},
	})
	require.NoError(t, err)
	log := zap.NewNop()

	t.Run("should fill optional defaults", func(t *testing.T) {
		attrs, err := resolveAttributes(reg, log, "note", []Attr{{"name", "n"}}, desc, Position{})
		require.NoError(t, err)
		assert.Equal(t, Attrs{"name": "n", "style": "Normal"}, attrs)
	})

	t.Run("should fail on a missing required attribute", func(t *testing.T) {
		_, err := resolveAttributes(reg, log, "note", nil, desc, Position{Line: 2})
		var ae *AttributeError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "name", ae.AttributeName)
		assert.Empty(t, ae.Role)
	})

	t.Run("should ignore unknown attributes", func(t *testing.T) {
		attrs, err := resolveAttributes(reg, log, "note", []Attr{{"name", "n"}, {"color", "red"}}, desc, Position{})
		require.NoError(t, err)
		_, ok := attrs["color"]
		assert.False(t, ok)
	})

	t.Run("should take identifiers from the role", func(t *testing.T) {
		attrs, err := resolveAttributes(reg, log, "note",
			[]Attr{{"name", "n"}, {"role", "figure"}, {"id", "f9"}}, desc, Position{})
		require.NoError(t, err)
		assert.Equal(t, "figure", attrs.Get("role"))
		assert.Equal(t, "f9", attrs.Get("id"))
	})

	t.Run("should require identifiers demanded by the role", func(t *testing.T) {
		_, err := resolveAttributes(reg, log, "note",
			[]Attr{{"name", "n"}, {"role", "figure"}}, desc, Position{})
		var ae *AttributeError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "id", ae.AttributeName)
		assert.Equal(t, "figure", ae.Role)
		assert.ErrorIs(t, err, ErrMissingRequiredAttribute)
	})

	t.Run("should parse integer attributes", func(t *testing.T) {
		a := Attrs{"n": "4", "bad": "x", "empty": ""}
		n, err := a.Int("n", 1)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		n, err = a.Int("empty", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		_, err = a.Int("bad", 1)
		assert.Error(t, err)
	})

	t.Run("should treat empty values as unset in Lookup", func(t *testing.T) {
		_, ok := Attrs{"id": ""}.Lookup("id")
		assert.False(t, ok)
	})
}
