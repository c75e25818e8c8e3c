package docweaver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahms/docweaver/document"
)

func Test_LoadDataConfig(t *testing.T) {
	t.Run("should decode records keyed by id", func(t *testing.T) {
		dc, err := LoadDataConfig(strings.NewReader(`
fig1:
  handler: plot
  width: 3in
  bins: 20
empty:
`))
		require.NoError(t, err)

		rec, ok := dc.Lookup("fig1")
		require.True(t, ok)
		v, _ := rec.String("handler")
		assert.Equal(t, "plot", v)
		v, _ = rec.String("bins")
		assert.Equal(t, "20", v)
		_, ok = rec.String("missing")
		assert.False(t, ok)

		rec, ok = dc.Lookup("empty")
		require.True(t, ok)
		assert.Empty(t, rec)
	})

	t.Run("should accept an empty document", func(t *testing.T) {
		dc, err := LoadDataConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, dc)
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		_, err := LoadDataConfig(strings.NewReader("a: [b"))
		assert.Error(t, err)
	})

	t.Run("should prefer record values over attributes", func(t *testing.T) {
		attrs := Attrs{"style": "A", "width": "1in"}
		rec := Record{"style": "B"}
		assert.Equal(t, "B", configValue("style", attrs, rec))
		assert.Equal(t, "1in", configValue("width", attrs, rec))
		assert.Equal(t, "1in", configValue("width", attrs, nil))
	})
}

func Test_LoadKeywords(t *testing.T) {
	kw, err := LoadKeywords(strings.NewReader("title: Report\nlog_images: true\nyear: 2024\nflag: \"0\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "Report", kw["title"])
	assert.Equal(t, 2024, kw["year"])
	assert.True(t, kw.Bool("log_images"))
	assert.False(t, kw.Bool("flag"))
	assert.False(t, kw.Bool("absent"))

	kw, err = LoadKeywords(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, kw)
}

func Test_Plugins(t *testing.T) {
	t.Run("should reject duplicate handler names per kind", func(t *testing.T) {
		p := NewPlugins()
		text := func(Record, Keywords) (string, error) { return "", nil }
		require.NoError(t, p.RegisterText("a", text))
		assert.ErrorIs(t, p.RegisterText("a", text), ErrDuplicateHandler)
		require.NoError(t, p.RegisterFigure("a", func(Record, Keywords, string) (document.Image, error) {
			return document.Image{}, nil
		}))
		assert.Equal(t, []string{"a"}, p.Names()["figure"])
		assert.Empty(t, p.Names()["table"])
	})

	t.Run("should report missing handlers as recoverable", func(t *testing.T) {
		_, err := NewPlugins().Table("nope")
		assert.Equal(t, OutcomeRecoverable, Classify(err))

		var p *Plugins
		_, err = p.Text("x")
		assert.Equal(t, OutcomeRecoverable, Classify(err))
	})
}

func Test_Styles(t *testing.T) {
	s := Styles{Paragraph: "Body", TOCMax: 5}.merge(DefaultStyles())
	assert.Equal(t, "Body", s.Paragraph)
	assert.Equal(t, "List Number", s.NumberedList)
	assert.Equal(t, 5, s.TOCMax)
	assert.Equal(t, 1, s.TOCMin)
	assert.Equal(t, 6*document.Inch, s.FigureWidth)
}
