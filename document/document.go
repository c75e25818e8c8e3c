// Package document declares the output-document contract the assembly pass
// writes into. Implementations decide how paragraphs, runs, pictures and
// tables are stored and rendered; see package memdoc for an in-memory one.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// BreakKind selects the kind of break inserted into a run.
type BreakKind int

const (
	LineBreak BreakKind = iota
	PageBreak
)

// Orientation of a document section.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// ParseOrientation accepts "portrait" or "landscape".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "portrait", "":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	}
	return Portrait, fmt.Errorf("unknown orientation %q", s)
}

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ListKind selects the marker style of a fresh numbering instance.
type ListKind int

const (
	Numbered ListKind = iota
	Bulleted
)

// ListID identifies a numbering instance inside one document.
type ListID int

// Image is a picture source: a file on disk or an in-memory byte stream.
type Image struct {
	Path   string
	Data   []byte
	Format string // "png", "svg", ...
}

// Open returns a reader over the picture bytes.
func (i Image) Open() (io.ReadCloser, error) {
	if i.Data != nil {
		return io.NopCloser(bytes.NewReader(i.Data)), nil
	}
	if i.Path == "" {
		return nil, errors.New("image has neither data nor path")
	}
	return os.Open(i.Path)
}

// Document is the root of an output document.
type Document interface {
	// AddParagraph appends a paragraph with the given text and style.
	// An empty style selects the document default.
	AddParagraph(text, style string) Paragraph
	// RemoveParagraph deletes a paragraph previously returned by AddParagraph.
	RemoveParagraph(p Paragraph)
	AddPageBreak()
	AddSection(o Orientation)
	AddTable(rows, cols int, style string) Table
	// AddTOC appends a table-of-contents stub covering heading levels min..max.
	AddTOC(min, max int)
	// StartList begins a new numbering instance.
	StartList(kind ListKind) ListID
}

// Paragraph is a block of runs sharing one paragraph style.
type Paragraph interface {
	Style() string
	AddRun(text, style string) Run
	Runs() []Run
	Text() string
	// IsEmpty reports whether the paragraph has no visible content.
	IsEmpty() bool
	// SetList attaches the paragraph to a numbering instance at level.
	SetList(id ListID, level int)
	// List reports the numbering the paragraph carries, if any.
	List() (id ListID, level int, ok bool)
}

// Run is a span of inline content sharing one character style.
type Run interface {
	Style() string
	Text() string
	AddText(s string)
	AddBreak(kind BreakKind)
	// AddPicture embeds an image. Zero sizes keep the natural size.
	AddPicture(img Image, width, height Length) error
}

// Table is a grid of text cells.
type Table interface {
	Style() string
	Rows() int
	Cols() int
	AddRow() int
	SetCell(row, col int, text string) error
	Cell(row, col int) string
}
