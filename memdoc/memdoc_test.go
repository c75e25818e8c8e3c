package memdoc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahms/docweaver/document"
)

func TestParagraphLifecycle(t *testing.T) {
	d := New()
	p := d.AddParagraph("", "")
	assert.Equal(t, DefaultStyle, p.Style())

	r := p.AddRun("Hello", "Strong")
	r.AddText(" world")
	r.AddBreak(document.LineBreak)
	r.AddText("again")
	assert.Equal(t, "Hello world\nagain", p.Text())
	require.Len(t, p.Runs(), 1)
	assert.Equal(t, "Strong", p.Runs()[0].Style())

	other := d.AddParagraph("second", "Body")
	require.Len(t, d.Paragraphs(), 2)

	d.RemoveParagraph(p)
	require.Len(t, d.Paragraphs(), 1)
	assert.Same(t, other.(*Paragraph), d.Paragraphs()[0])
}

func TestRunPicture(t *testing.T) {
	d := New()
	r := d.AddParagraph("", "").AddRun("", "")
	require.NoError(t, r.AddPicture(document.Image{Path: "fig.png"}, document.Inch, 0))
	assert.Error(t, r.AddPicture(document.Image{}, 0, 0))

	pics := r.(*Run).Pictures()
	require.Len(t, pics, 1)
	assert.Equal(t, "fig.png", pics[0].Image.Path)
	assert.Equal(t, document.Inch, pics[0].Width)
}

func TestTableCells(t *testing.T) {
	d := New()
	tbl := d.AddTable(1, 2, "Grid")
	require.NoError(t, tbl.SetCell(0, 1, "b"))
	assert.Error(t, tbl.SetCell(1, 0, "x"))

	row := tbl.AddRow()
	require.NoError(t, tbl.SetCell(row, 0, "c"))
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, "b", tbl.Cell(0, 1))
	assert.Equal(t, "", tbl.Cell(5, 5))
	assert.Len(t, d.Tables(), 1)
}

func TestHeadingLevel(t *testing.T) {
	n, ok := HeadingLevel("Heading 2")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = HeadingLevel("heading 10")
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok = HeadingLevel("Normal")
	assert.False(t, ok)
}

func TestWriteMarkdown(t *testing.T) {
	d := New()
	d.AddParagraph("Intro", "Heading 1")
	p := d.AddParagraph("", "")
	p.AddRun("plain ", "")
	p.AddRun("bold", "Strong")

	list := d.StartList(document.Numbered)
	for _, s := range []string{"one", "two"} {
		d.AddParagraph(s, "List Paragraph").SetList(list, 0)
	}

	tbl := d.AddTable(2, 2, "")
	tbl.SetCell(0, 0, "k")
	tbl.SetCell(0, 1, "v")
	tbl.SetCell(1, 0, "a|b")
	tbl.SetCell(1, 1, "1")
	d.AddTOC(1, 3)

	var out bytes.Buffer
	require.NoError(t, d.WriteMarkdown(&out))
	md := out.String()

	assert.Contains(t, md, "# Intro\n")
	assert.Contains(t, md, "plain **bold**\n")
	assert.Contains(t, md, "1. one\n2. two\n")
	assert.Contains(t, md, "| k | v |\n| --- | --- |\n| a\\|b | 1 |\n")
	assert.Contains(t, md, "- Intro\n")
}

func TestWriteHTML(t *testing.T) {
	d := New()
	d.AddParagraph("Results", "Heading 2")
	tbl := d.AddTable(2, 1, "")
	tbl.SetCell(0, 0, "name")
	tbl.SetCell(1, 0, "x")

	var out bytes.Buffer
	require.NoError(t, d.WriteHTML(&out))
	assert.Contains(t, out.String(), "<h2>Results</h2>")
	assert.Contains(t, out.String(), "<table>")
	assert.Contains(t, out.String(), "<td>x</td>")
}
