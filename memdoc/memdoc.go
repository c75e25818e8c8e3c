// Package memdoc is an in-memory document.Document. Assembled documents can
// be inspected directly or rendered as Markdown and HTML.
package memdoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/grahms/docweaver/document"
)

// DefaultStyle is the paragraph style used when none is requested.
const DefaultStyle = "Normal"

// Block is a top-level element of a Doc.
type Block interface{ isBlock() }

// Doc is an in-memory document.
type Doc struct {
	blocks []Block
	lists  []document.ListKind
}

var _ document.Document = (*Doc)(nil)

// New returns an empty document.
func New() *Doc { return &Doc{} }

func (d *Doc) AddParagraph(text, style string) document.Paragraph {
	if style == "" {
		style = DefaultStyle
	}
	p := &Paragraph{style: style}
	if text != "" {
		p.AddRun(text, "")
	}
	d.blocks = append(d.blocks, p)
	return p
}

func (d *Doc) RemoveParagraph(p document.Paragraph) {
	d.blocks = slices.DeleteFunc(d.blocks, func(b Block) bool {
		bp, ok := b.(*Paragraph)
		return ok && document.Paragraph(bp) == p
	})
}

func (d *Doc) AddPageBreak() { d.blocks = append(d.blocks, PageBreak{}) }

func (d *Doc) AddSection(o document.Orientation) {
	d.blocks = append(d.blocks, Section{Orientation: o})
}

func (d *Doc) AddTable(rows, cols int, style string) document.Table {
	t := &Table{style: style, cols: cols}
	for i := 0; i < rows; i++ {
		t.AddRow()
	}
	d.blocks = append(d.blocks, t)
	return t
}

func (d *Doc) AddTOC(min, max int) {
	d.blocks = append(d.blocks, TOC{Min: min, Max: max})
}

func (d *Doc) StartList(kind document.ListKind) document.ListID {
	d.lists = append(d.lists, kind)
	return document.ListID(len(d.lists) - 1)
}

// ListKind reports the kind of a numbering instance.
func (d *Doc) ListKind(id document.ListID) document.ListKind {
	if int(id) < 0 || int(id) >= len(d.lists) {
		return document.Numbered
	}
	return d.lists[id]
}

// Blocks returns the top-level elements in document order.
func (d *Doc) Blocks() []Block { return slices.Clone(d.blocks) }

// Paragraphs returns the top-level paragraphs in document order.
func (d *Doc) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the tables in document order.
func (d *Doc) Tables() []*Table {
	var out []*Table
	for _, b := range d.blocks {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Paragraph is a styled sequence of runs.
type Paragraph struct {
	style string
	runs  []*Run
	list  *listMark
}

type listMark struct {
	id    document.ListID
	level int
}

func (*Paragraph) isBlock() {}

func (p *Paragraph) Style() string { return p.style }

func (p *Paragraph) AddRun(text, style string) document.Run {
	r := &Run{style: style}
	if text != "" {
		r.AddText(text)
	}
	p.runs = append(p.runs, r)
	return r
}

func (p *Paragraph) Runs() []document.Run {
	out := make([]document.Run, len(p.runs))
	for i, r := range p.runs {
		out[i] = r
	}
	return out
}

// RunList returns the concrete runs.
func (p *Paragraph) RunList() []*Run { return slices.Clone(p.runs) }

func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.Text())
	}
	return b.String()
}

func (p *Paragraph) IsEmpty() bool {
	for _, r := range p.runs {
		for _, part := range r.parts {
			if part.Text != "" || part.Break != nil || part.Picture != nil {
				return false
			}
		}
	}
	return true
}

func (p *Paragraph) SetList(id document.ListID, level int) {
	p.list = &listMark{id: id, level: level}
}

func (p *Paragraph) List() (document.ListID, int, bool) {
	if p.list == nil {
		return 0, 0, false
	}
	return p.list.id, p.list.level, true
}

// Run is a styled span of text, breaks and pictures.
type Run struct {
	style string
	parts []Part
}

// Part is one piece of run content. Exactly one field is set.
type Part struct {
	Text    string
	Break   *document.BreakKind
	Picture *Picture
}

// Picture is an embedded image with its requested size.
type Picture struct {
	Image  document.Image
	Width  document.Length
	Height document.Length
}

func (r *Run) Style() string { return r.style }

func (r *Run) Text() string {
	var b strings.Builder
	for _, p := range r.parts {
		switch {
		case p.Break != nil && *p.Break == document.LineBreak:
			b.WriteByte('\n')
		default:
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func (r *Run) AddText(s string) {
	if n := len(r.parts); n > 0 && r.parts[n-1].Break == nil && r.parts[n-1].Picture == nil {
		r.parts[n-1].Text += s
		return
	}
	r.parts = append(r.parts, Part{Text: s})
}

func (r *Run) AddBreak(kind document.BreakKind) {
	r.parts = append(r.parts, Part{Break: &kind})
}

func (r *Run) AddPicture(img document.Image, width, height document.Length) error {
	if img.Data == nil && img.Path == "" {
		return fmt.Errorf("memdoc: empty picture")
	}
	r.parts = append(r.parts, Part{Picture: &Picture{Image: img, Width: width, Height: height}})
	return nil
}

// Parts returns the run content in order.
func (r *Run) Parts() []Part { return slices.Clone(r.parts) }

// Pictures returns the pictures embedded in the run.
func (r *Run) Pictures() []*Picture {
	var out []*Picture
	for _, p := range r.parts {
		if p.Picture != nil {
			out = append(out, p.Picture)
		}
	}
	return out
}

// Table is a grid of text cells; row 0 renders as the header.
type Table struct {
	style string
	cols  int
	cells [][]string
}

func (*Table) isBlock() {}

func (t *Table) Style() string { return t.style }
func (t *Table) Rows() int     { return len(t.cells) }
func (t *Table) Cols() int     { return t.cols }

func (t *Table) AddRow() int {
	t.cells = append(t.cells, make([]string, t.cols))
	return len(t.cells) - 1
}

func (t *Table) SetCell(row, col int, text string) error {
	if row < 0 || row >= len(t.cells) || col < 0 || col >= t.cols {
		return fmt.Errorf("memdoc: cell (%d,%d) outside %dx%d table", row, col, len(t.cells), t.cols)
	}
	t.cells[row][col] = text
	return nil
}

func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.cells) || col < 0 || col >= t.cols {
		return ""
	}
	return t.cells[row][col]
}

// PageBreak is a hard page break between blocks.
type PageBreak struct{}

func (PageBreak) isBlock() {}

// Section starts a new document section.
type Section struct {
	Orientation document.Orientation
}

func (Section) isBlock() {}

// TOC is a table-of-contents stub.
type TOC struct {
	Min, Max int
}

func (TOC) isBlock() {}
