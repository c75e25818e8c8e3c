package docweaver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/grahms/docweaver/document"
)

// assembler is the second traversal. It can only be built from a locked
// reference model.
type assembler struct {
	reg    *Registry
	st     *State
	stack  tagStack
	data   DataConfig
	policy UnknownTagPolicy
	log    *zap.Logger
}

func newAssembler(e *Engine, refs *References, doc document.Document, kw Keywords) *assembler {
	return &assembler{
		reg:    e.reg,
		st:     newState(doc, refs, kw, e.styles, e.plugins, e.log),
		data:   e.data,
		policy: e.policy,
		log:    e.log,
	}
}

func (a *assembler) startTag(name string, raw []Attr, pos Position) error {
	parent := a.stack.peek()
	if parent != nil && !parent.descriptor().AllowsNested() {
		a.log.Error("illegal nesting", zap.String("tag", name), zap.String("parent", parent.name), zap.Int("line", pos.Line))
		return &NestingError{
			ParseError: ParseError{Pos: pos, Message: "illegal nesting"},
			TagName:    name,
			Parent:     parent.name,
		}
	}
	if parent != nil && (parent.skip || parent.openErr) {
		a.log.Debug("skipping tag in abandoned branch", zap.String("tag", name), zap.Int("line", pos.Line))
		a.stack.push(&frame{name: name, pos: pos, skip: true, openErr: true})
		return nil
	}

	desc, ok := a.reg.Lookup(name)
	if !ok && parent == nil {
		desc, ok = rootDescriptor, true
	}
	if !ok {
		return a.unknownTag(name, pos)
	}

	attrs, err := resolveAttributes(a.reg, a.log, name, raw, desc, pos)
	if err != nil {
		return err
	}
	t := &Tag{Name: name, Attrs: attrs, Pos: pos}
	f := &frame{name: name, attrs: attrs, desc: desc, pos: pos, tag: t}

	if key := desc.DataConfig(); key != "" {
		id := attrs.Get(key)
		if a.data == nil {
			return &ConfigurationError{TagName: name, Key: id}
		}
		t.ConfigID = id
		rec, ok := a.data.Lookup(id)
		if !ok {
			a.insertAltText(name, id, "missing data configuration")
			f.openErr = true
			a.stack.push(f)
			return nil
		}
		t.Config = rec
	}

	if h := desc.Handler(); h != nil {
		err := h.Start(a.st, t)
		switch Classify(err) {
		case OutcomeRecoverable:
			a.log.Error("non-fatal error in opening tag",
				zap.String("tag", name), zap.String("id", t.ConfigID), zap.Int("line", pos.Line), zap.Error(err))
			if id := altID(t, err); id != "" {
				a.insertAltText(name, id, reason(err))
			}
			f.openErr = true
		case OutcomeFatal:
			a.log.Error("fatal error in opening tag", zap.String("tag", name), zap.Int("line", pos.Line), zap.Error(err))
			if t.ConfigID != "" {
				a.insertAltText(name, t.ConfigID, "error in opening tag")
			}
			return &TagError{ParseError: ParseError{Pos: pos, Message: "start failed"}, TagName: name, ID: t.ConfigID, Err: err}
		}
	}
	a.stack.push(f)
	return nil
}

func (a *assembler) unknownTag(name string, pos Position) error {
	switch a.policy {
	case UnknownStrict:
		return &TagError{ParseError: ParseError{Pos: pos, Message: "not registered"}, TagName: name, Err: ErrUnknownTag}
	case UnknownAudit:
		a.insertAltText(name, "", "unknown tag")
	}
	a.log.Warn("unrecognized tag will be ignored", zap.String("tag", name), zap.Int("line", pos.Line))
	a.stack.push(&frame{name: name, pos: pos, skip: true, openErr: true})
	return nil
}

func (a *assembler) endTag(name string, pos Position) error {
	f, err := a.stack.pop(name, pos)
	if err != nil {
		return err
	}
	if f.openErr {
		if !f.skip {
			a.log.Info("error in opening tag, ignoring closing tag", zap.String("tag", name))
		}
		return nil
	}
	h := f.descriptor().Handler()
	if h == nil {
		return nil
	}

	t := f.tag
	err = h.End(a.st, t)
	switch Classify(err) {
	case OutcomeOK:
		return nil
	case OutcomeRecoverable:
		a.log.Error("non-fatal error in closing tag",
			zap.String("tag", name), zap.String("id", t.ConfigID), zap.Int("line", pos.Line), zap.Error(err))
		if id := altID(t, err); id != "" {
			a.insertAltText(name, id, reason(err))
		}
		return nil
	}
	a.log.Error("fatal error in closing tag", zap.String("tag", name), zap.Int("line", pos.Line), zap.Error(err))
	if t.ConfigID != "" {
		a.insertAltText(name, t.ConfigID, "error in closing tag")
	}
	return &TagError{ParseError: ParseError{Pos: pos, Message: "end failed"}, TagName: name, ID: t.ConfigID, Err: err}
}

func (a *assembler) text(s string, pos Position) error {
	f := a.stack.peek()
	if f == nil {
		return nil
	}
	if f.skip || f.openErr {
		return nil
	}
	stripped := strings.TrimSpace(s)
	if stripped != "" {
		switch f.descriptor().Content() {
		case ContentForbidden:
			a.log.Error("tag must be empty", zap.String("tag", f.name), zap.String("text", stripped))
			return &ContentError{ParseError: ParseError{Pos: pos, Message: "content not allowed"}, TagName: f.name, Text: stripped}
		case ContentDiscouraged:
			if !f.warned {
				a.log.Warn("unexpected content", zap.String("tag", f.name), zap.Int("line", pos.Line))
				f.warned = true
			}
			if a.stack.depth() == 1 {
				if err := a.st.OpenRun(f.name, a.st.styles.Run, a.st.styles.Paragraph, false, true); err != nil {
					return err
				}
			}
		}
	}
	a.st.Write(s)
	return nil
}

func (a *assembler) endDocument() error {
	if f := a.stack.peek(); f != nil {
		return NewUnmatchedTagError(f.pos, f.name, f.name, "")
	}
	a.st.checkContentTail()
	a.st.par = nil
	a.st.run = nil
	return nil
}

// insertAltText leaves a visible placeholder where content could not be
// generated.
func (a *assembler) insertAltText(tag, id, why string) {
	a.log.Error("replacing tag with alt-text", zap.String("tag", tag), zap.String("id", id), zap.String("reason", why))
	text := fmt.Sprintf("{ Insert %s [%s] here: %s }", tag, id, why)
	err := a.st.TempRun(a.st.styles.AltRun, a.st.styles.AltParagraph, false, func() error {
		a.st.run.AddText(text)
		return nil
	})
	if err != nil {
		a.log.Error("unable to insert alt-text", zap.String("tag", tag), zap.Error(err))
	}
}
