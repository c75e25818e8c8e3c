package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahms/docweaver"
	"github.com/grahms/docweaver/memdoc"
)

func Test_Generators(t *testing.T) {
	t.Run("should render text records with keywords", func(t *testing.T) {
		s, err := textGenerator(docweaver.Record{"text": "{{ n }} items"}, docweaver.Keywords{"n": 3})
		require.NoError(t, err)
		assert.Equal(t, "3 items", s)

		_, err = textGenerator(docweaver.Record{"text": "{{ missing }}"}, docweaver.Keywords{})
		assert.Equal(t, docweaver.OutcomeRecoverable, docweaver.Classify(err))
	})

	t.Run("should report a missing image as recoverable", func(t *testing.T) {
		_, err := imageGenerator(docweaver.Record{"path": filepath.Join(t.TempDir(), "none.png")}, nil, "")
		assert.Equal(t, docweaver.OutcomeRecoverable, docweaver.Classify(err))
	})

	t.Run("should copy images to the log name", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "plot.png")
		require.NoError(t, os.WriteFile(src, []byte("png"), 0o644))
		img, err := imageGenerator(docweaver.Record{"path": src}, nil, filepath.Join(dir, "out_f1"))
		require.NoError(t, err)
		assert.Equal(t, "png", img.Format)
		assert.FileExists(t, filepath.Join(dir, "out_f1.png"))
	})

	t.Run("should build tables from csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "t.csv")
		require.NoError(t, os.WriteFile(path, []byte("a;b\n1;2\n3\n"), 0o644))
		doc := memdoc.New()
		err := csvGenerator(docweaver.Record{"path": path, "separator": ";"}, nil, doc, "Grid", "")
		require.NoError(t, err)

		tables := doc.Tables()
		require.Len(t, tables, 1)
		assert.Equal(t, 3, tables[0].Rows())
		assert.Equal(t, 2, tables[0].Cols())
		assert.Equal(t, "2", tables[0].Cell(1, 1))
		assert.Empty(t, tables[0].Cell(2, 1))
		assert.Equal(t, "Grid", tables[0].Style())
	})

	t.Run("should register every builtin", func(t *testing.T) {
		p, err := builtinPlugins()
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"text":   {"text"},
			"figure": {"image"},
			"table":  {"csv"},
		}, p.Names())
	})
}
