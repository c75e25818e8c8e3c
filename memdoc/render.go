package memdoc

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/grahms/docweaver/document"
)

var headingStyle = regexp.MustCompile(`(?i)^heading\s+(\d+)$`)

// HeadingLevel reports the outline level of a paragraph style such as
// "Heading 2". "Title" counts as level 0.
func HeadingLevel(style string) (int, bool) {
	if strings.EqualFold(style, "title") {
		return 0, true
	}
	m := headingStyle.FindStringSubmatch(strings.TrimSpace(style))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// WriteMarkdown renders the document as CommonMark with pipe tables.
func (d *Doc) WriteMarkdown(w io.Writer) error {
	bw := bufio.NewWriter(w)
	counters := map[document.ListID]int{}
	prevList := false
	for i, b := range d.blocks {
		isList := false
		if p, ok := b.(*Paragraph); ok && p.list != nil {
			isList = true
		}
		if i > 0 && !(isList && prevList) {
			bw.WriteString("\n")
		}
		prevList = isList

		switch b := b.(type) {
		case *Paragraph:
			d.writeParagraph(bw, b, counters)
		case *Table:
			writeTable(bw, b)
		case PageBreak:
			bw.WriteString("---\n")
		case Section:
			fmt.Fprintf(bw, "<!-- section: %s -->\n", b.Orientation)
		case TOC:
			d.writeTOC(bw, b)
		}
	}
	return bw.Flush()
}

// WriteHTML renders the Markdown form through goldmark.
func (d *Doc) WriteHTML(w io.Writer) error {
	var src bytes.Buffer
	if err := d.WriteMarkdown(&src); err != nil {
		return err
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return md.Convert(src.Bytes(), w)
}

func (d *Doc) writeParagraph(w *bufio.Writer, p *Paragraph, counters map[document.ListID]int) {
	text := renderRuns(p.runs)
	if level, ok := HeadingLevel(p.style); ok {
		w.WriteString(strings.Repeat("#", max(level, 1)) + " " + text + "\n")
		return
	}
	if p.list != nil {
		indent := strings.Repeat("   ", p.list.level)
		if d.ListKind(p.list.id) == document.Bulleted {
			w.WriteString(indent + "- " + text + "\n")
			return
		}
		counters[p.list.id]++
		fmt.Fprintf(w, "%s%d. %s\n", indent, counters[p.list.id], text)
		return
	}
	w.WriteString(text + "\n")
}

func renderRuns(runs []*Run) string {
	var b strings.Builder
	for _, r := range runs {
		var span strings.Builder
		for _, part := range r.parts {
			switch {
			case part.Break != nil && *part.Break == document.LineBreak:
				span.WriteString("  \n")
			case part.Break != nil:
				span.WriteString("\n\n---\n\n")
			case part.Picture != nil:
				span.WriteString(pictureMarkdown(part.Picture))
			default:
				span.WriteString(part.Text)
			}
		}
		b.WriteString(decorate(span.String(), r.style))
	}
	return b.String()
}

func decorate(s, style string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	switch strings.ToLower(style) {
	case "strong", "bold":
		return "**" + s + "**"
	case "emphasis", "italic":
		return "*" + s + "*"
	case "code", "verbatim":
		return "`" + s + "`"
	}
	return s
}

func pictureMarkdown(p *Picture) string {
	src := p.Image.Path
	if p.Image.Data != nil {
		format := p.Image.Format
		if format == "" {
			format = "png"
		}
		mime := "image/" + format
		if format == "svg" {
			mime = "image/svg+xml"
		}
		src = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Image.Data)
	}
	return "![image](" + src + ")"
}

func writeTable(w *bufio.Writer, t *Table) {
	if t.Rows() == 0 || t.cols == 0 {
		return
	}
	row := func(cells []string) {
		w.WriteString("|")
		for _, c := range cells {
			w.WriteString(" " + strings.ReplaceAll(c, "|", `\|`) + " |")
		}
		w.WriteString("\n")
	}
	row(t.cells[0])
	w.WriteString("|" + strings.Repeat(" --- |", t.cols) + "\n")
	for _, r := range t.cells[1:] {
		row(r)
	}
}

func (d *Doc) writeTOC(w *bufio.Writer, toc TOC) {
	for _, b := range d.blocks {
		p, ok := b.(*Paragraph)
		if !ok {
			continue
		}
		level, ok := HeadingLevel(p.style)
		if !ok || level < toc.Min || level > toc.Max {
			continue
		}
		indent := strings.Repeat("  ", max(level-toc.Min, 0))
		w.WriteString(indent + "- " + p.Text() + "\n")
	}
}
