package docweaver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EvalExpr(t *testing.T) {
	kw := Keywords{"a": 2, "b": 3, "rate": 0.5, "name": "q3", "on": true, "tags": []string{"x", "y"}}

	cases := []struct {
		src  string
		want any
	}{
		{"a + b", 5},
		{"a * rate", 1.0},
		{"a / 4.0", 0.5},
		{`name + "-report"`, "q3-report"},
		{"a < b && on", true},
		{"len(tags)", 2},
	}
	for _, c := range cases {
		t.Run("should evaluate "+c.src, func(t *testing.T) {
			got, err := EvalExpr(c.src, kw)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	t.Run("should reject an empty expression", func(t *testing.T) {
		_, err := EvalExpr("  ", kw)
		assert.Error(t, err)
	})

	t.Run("should reject undefined names", func(t *testing.T) {
		_, err := EvalExpr("missing + 1", kw)
		assert.Error(t, err)
	})

	t.Run("should skip keywords that are not identifiers", func(t *testing.T) {
		got, err := EvalExpr("a", Keywords{"a": 1, "log-file": "x.docx", "nothing": nil})
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})
}

func Test_RenderText(t *testing.T) {
	t.Run("should render keywords", func(t *testing.T) {
		s, err := RenderText("{{ n }} items, {{ n * 2 }} halves", Keywords{"n": 3})
		require.NoError(t, err)
		assert.Equal(t, "3 items, 6 halves", s)
	})

	t.Run("should fail on undefined keywords", func(t *testing.T) {
		_, err := RenderText("{{ missing }}", Keywords{})
		assert.Error(t, err)
	})
}
