package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grahms/docweaver"
	"github.com/grahms/docweaver/document"
)

// builtinPlugins returns the generators available to templates rendered by
// the command: "text" for strings, "image" for figures and "csv" for tables.
func builtinPlugins() (*docweaver.Plugins, error) {
	p := docweaver.NewPlugins()
	if err := p.RegisterText("text", textGenerator); err != nil {
		return nil, err
	}
	if err := p.RegisterFigure("image", imageGenerator); err != nil {
		return nil, err
	}
	if err := p.RegisterTable("csv", csvGenerator); err != nil {
		return nil, err
	}
	return p, nil
}

// textGenerator renders the record's "text" field as a template over the
// keywords.
func textGenerator(rec docweaver.Record, kw docweaver.Keywords) (string, error) {
	src, ok := rec.String("text")
	if !ok {
		return "", docweaver.Recoverable("record has no text", nil)
	}
	text, err := docweaver.RenderText(src, kw)
	if err != nil {
		return "", docweaver.Recoverable("text template failed", err)
	}
	return text, nil
}

// imageGenerator embeds the file named by the record's "path" field.
func imageGenerator(rec docweaver.Record, _ docweaver.Keywords, logName string) (document.Image, error) {
	path, ok := rec.String("path")
	if !ok {
		return document.Image{}, docweaver.Recoverable("record has no path", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return document.Image{}, err
	}
	ext := filepath.Ext(path)
	if logName != "" {
		if err := copyFile(path, logName+ext); err != nil {
			return document.Image{}, err
		}
	}
	return document.Image{Path: path, Format: strings.TrimPrefix(ext, ".")}, nil
}

// csvGenerator builds a table from the CSV file named by the record's "path"
// field. The first row is the header.
func csvGenerator(rec docweaver.Record, _ docweaver.Keywords, doc document.Document, style, logName string) error {
	path, ok := rec.String("path")
	if !ok {
		return docweaver.Recoverable("record has no path", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if sep, ok := rec.String("separator"); ok && sep != "" {
		r.Comma = []rune(sep)[0]
	}
	rows, err := r.ReadAll()
	if err != nil {
		return docweaver.Recoverable("bad csv", err)
	}
	if len(rows) == 0 {
		return docweaver.Recoverablef("%s is empty", path)
	}
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}

	tbl := doc.AddTable(len(rows), cols, style)
	for i, row := range rows {
		for j, cell := range row {
			if err := tbl.SetCell(i, j, strings.TrimSpace(cell)); err != nil {
				return err
			}
		}
	}
	if logName != "" {
		return copyFile(path, logName+".csv")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
