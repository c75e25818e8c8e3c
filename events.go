package docweaver

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

// visitor receives the events of one traversal in document order.
type visitor interface {
	startTag(name string, attrs []Attr, pos Position) error
	endTag(name string, pos Position) error
	text(s string, pos Position) error
	endDocument() error
}

// walk tokenizes src and feeds v. Comments, processing instructions and
// directives are dropped.
func walk(src []byte, v visitor) error {
	dec := xml.NewDecoder(bytes.NewReader(src))
	for {
		line, col := dec.InputPos()
		pos := Position{Line: line, Column: col}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return v.endDocument()
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				return NewParseError(Position{Line: se.Line}, "malformed markup: "+se.Msg, "")
			}
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make([]Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			err = v.startTag(t.Name.Local, attrs, pos)
		case xml.EndElement:
			err = v.endTag(t.Name.Local, pos)
		case xml.CharData:
			err = v.text(string(t), pos)
		}
		if err != nil {
			return err
		}
	}
}
