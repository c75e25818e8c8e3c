package docweaver

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_RefBuilder(t *testing.T) {
	t.Run("should reject duplicate keys unless tolerated", func(t *testing.T) {
		b := NewRefBuilder(nil)
		require.NoError(t, b.Set("par", "id", "a", "Section 1", false))
		err := b.Set("par", "id", "a", "Section 2", false)

		var de *DuplicateReferenceError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "Section 1", de.Existing)
		assert.ErrorIs(t, err, ErrDuplicateReference)

		require.NoError(t, b.Set("par", "title", "Intro", "Section 1: Intro", true))
		require.NoError(t, b.Set("par", "title", "Intro", "Section 3: Intro", true))
		refs := b.Lock()
		v, ok := refs.Lookup("par", "title", "Intro")
		require.True(t, ok)
		assert.Equal(t, "Section 3: Intro", v)
		assert.Equal(t, 2, refs.Len())
	})

	t.Run("should refuse writes after locking", func(t *testing.T) {
		b := NewRefBuilder(nil)
		require.NoError(t, b.Set("figure", "id", "f1", "Figure 1", false))
		refs := b.Lock()
		assert.True(t, b.Locked())
		assert.Same(t, refs, b.Lock())

		err := b.Set("figure", "id", "f2", "Figure 2", false)
		assert.ErrorIs(t, err, ErrLocked)
		_, ok := refs.Lookup("figure", "id", "f2")
		assert.False(t, ok)
	})

	t.Run("should report unresolved references", func(t *testing.T) {
		refs := NewRefBuilder(nil).Lock()
		_, err := refs.Get("figure", "id", "nope")
		assert.ErrorIs(t, err, ErrUnresolvedReference)

		var empty *References
		assert.Equal(t, 0, empty.Len())
		assert.Nil(t, empty.Entries())
	})
}

func Test_ReferenceState(t *testing.T) {
	newState := func(depth int) *ReferenceState {
		reg, err := NewDefaultRegistry(Styles{})
		require.NoError(t, err)
		return newReferenceState(reg, NewRefBuilder(nil), depth, zap.NewNop())
	}

	t.Run("should number headings and restart counters at the counting depth", func(t *testing.T) {
		rs := newState(1)
		var (
			got   []string
			paths [][]int
		)
		for _, level := range []int{1, 2, 2, 3, 1} {
			rs.IncrementHeading(level)
			paths = append(paths, rs.Heading())
			n := rs.NextItem("figure")
			got = append(got, rs.FormatHeading("Figure", strconv.Itoa(n)))
		}
		assert.Equal(t, [][]int{{1}, {1, 1}, {1, 2}, {1, 2, 1}, {2}}, paths)
		assert.Equal(t, []string{
			"Figure 1-1",
			"Figure 1-2",
			"Figure 1-3",
			"Figure 1-4",
			"Figure 2-1",
		}, got)
	})

	t.Run("should restart counters at every heading with depth zero", func(t *testing.T) {
		rs := newState(0)
		rs.IncrementHeading(1)
		rs.NextItem("table")
		rs.IncrementHeading(2)
		assert.Equal(t, 0, rs.Counter("table"))
		assert.Equal(t, "Table 1.1-1", rs.FormatHeading("Table", strconv.Itoa(rs.NextItem("table"))))
	})

	t.Run("should pad skipped heading levels", func(t *testing.T) {
		rs := newState(0)
		rs.IncrementHeading(3)
		assert.Equal(t, []int{1, 1, 1}, rs.Heading())
		assert.Equal(t, "Section 1.1.1", rs.FormatHeading("Section", ""))
	})

	t.Run("should ignore levels below one", func(t *testing.T) {
		rs := newState(0)
		rs.IncrementHeading(0)
		assert.Empty(t, rs.Heading())
		assert.Equal(t, "Figure 1", rs.FormatHeading("Figure", "1"))
	})

	t.Run("should collapse accumulated content", func(t *testing.T) {
		rs := newState(0)
		rs.AddContent("ignored")
		rs.BeginContent()
		rs.AddContent("  Getting\n   started ")
		assert.Equal(t, "Getting started", rs.EndContent())
		assert.Empty(t, rs.EndContent())
	})
}

func Test_Resolve(t *testing.T) {
	const src = `<template>
  <par style="Heading 1" id="intro">Intro</par>
  <figure id="f1" handler="plot"/>
  <par style="Heading 2">Details <run>here</run></par>
  <table id="t1" handler="grid"/>
  <par>Body</par>
</template>`

	t.Run("should number sections, figures and tables", func(t *testing.T) {
		e := NewEngine(nil, WithHeadingDepth(1))
		refs, err := e.Resolve([]byte(src))
		require.NoError(t, err)

		lookup := func(role, attr, key string) string {
			v, err := refs.Get(role, attr, key)
			require.NoError(t, err)
			return v
		}
		assert.Equal(t, "Section 1: Intro", lookup("par", "id", "intro"))
		assert.Equal(t, "Section 1: Intro", lookup("par", "title", "Intro"))
		assert.Equal(t, "Section 1.1: Details here", lookup("par", "title", "Details here"))
		assert.Equal(t, "Figure 1-1", lookup("figure", "id", "f1"))
		assert.Equal(t, "Table 1-1", lookup("table", "id", "t1"))
		_, ok := refs.Lookup("par", "title", "Body")
		assert.False(t, ok)
	})

	t.Run("should produce the same model on every run", func(t *testing.T) {
		e := NewEngine(nil)
		a, err := e.Resolve([]byte(src))
		require.NoError(t, err)
		b, err := e.Resolve([]byte(src))
		require.NoError(t, err)
		assert.Equal(t, a.Entries(), b.Entries())
		assert.Equal(t, a.String(), b.String())
	})

	t.Run("should fail on duplicate heading ids", func(t *testing.T) {
		e := NewEngine(nil)
		_, err := e.Resolve([]byte(`<template>
  <par style="Heading 1" id="x">A</par>
  <par style="Heading 1" id="x">B</par>
</template>`))
		assert.ErrorIs(t, err, ErrDuplicateReference)
	})

	t.Run("should keep the last of duplicate titles", func(t *testing.T) {
		e := NewEngine(nil)
		refs, err := e.Resolve([]byte(`<template>
  <par style="Heading 1">Notes</par>
  <par style="Heading 1">Notes</par>
</template>`))
		require.NoError(t, err)
		v, _ := refs.Lookup("par", "title", "Notes")
		assert.Equal(t, "Section 2: Notes", v)
	})

	t.Run("should number tags that borrow a role", func(t *testing.T) {
		e := NewEngine(nil)
		require.NoError(t, e.Registry().Register("chart", Spec{Content: Mode(ContentExpected)}))
		refs, err := e.Resolve([]byte(`<template>
  <figure id="f1" handler="plot"/>
  <chart role="figure" id="c1">data</chart>
</template>`))
		require.NoError(t, err)
		v, _ := refs.Lookup("figure", "id", "c1")
		assert.Equal(t, "Figure 2", v)
	})

	t.Run("should number unregistered tags that borrow a role", func(t *testing.T) {
		e := NewEngine(nil)
		src := `<template>
  <widget role="figure" id="w1"/>
  <par>See <figure-ref id="w1"/>.</par>
</template>`
		refs, err := e.Resolve([]byte(src))
		require.NoError(t, err)
		v, ok := refs.Lookup("figure", "id", "w1")
		require.True(t, ok)
		assert.Equal(t, "Figure 1", v)

		doc, err := process(t, e, src)
		require.NoError(t, err)
		assert.Equal(t, []string{"See Figure 1."}, texts(doc))
	})

	t.Run("should number targets inside branches the assembly drops", func(t *testing.T) {
		refs, err := NewEngine(nil).Resolve([]byte(`<template>
  <bogus><figure id="f1" handler="plot"/></bogus>
  <figure id="f2" handler="plot"/>
</template>`))
		require.NoError(t, err)
		v, _ := refs.Lookup("figure", "id", "f2")
		assert.Equal(t, "Figure 2", v)
	})

	t.Run("should treat paragraphs with a role as segments", func(t *testing.T) {
		e := NewEngine(nil)
		refs, err := e.Resolve([]byte(`<template>
  <par style="Heading 1">Top</par>
  <par role="par" id="p1">Callout</par>
</template>`))
		require.NoError(t, err)
		v, _ := refs.Lookup("par", "id", "p1")
		assert.Equal(t, "Section 1: Callout", v)
	})
}
