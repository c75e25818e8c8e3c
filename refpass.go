package docweaver

import (
	"go.uber.org/zap"
)

// refPass is the first traversal. It numbers headings and reference targets
// and fills a RefBuilder.
type refPass struct {
	reg   *Registry
	rs    *ReferenceState
	stack tagStack
	log   *zap.Logger
}

func newRefPass(reg *Registry, refs *RefBuilder, depth int, log *zap.Logger) *refPass {
	return &refPass{
		reg: reg,
		rs:  newReferenceState(reg, refs, depth, log),
		log: log,
	}
}

func (p *refPass) startTag(name string, raw []Attr, pos Position) error {
	desc, ok := p.reg.Lookup(name)
	if !ok {
		if !hasRole(raw) {
			p.log.Debug("unknown tag is not a reference target", zap.String("tag", name), zap.Int("line", pos.Line))
			p.stack.push(&frame{name: name, pos: pos, openErr: true})
			return nil
		}
		desc = unknownDescriptor
	}
	attrs, err := resolveAttributes(p.reg, p.log, name, raw, desc, pos)
	if err != nil {
		return err
	}

	f := &frame{name: name, attrs: attrs, desc: desc, pos: pos, role: name, ref: desc.Reference()}
	if role, ok := attrs.Lookup("role"); ok {
		if rd, ok := p.reg.Lookup(role); ok && rd.Reference() != nil {
			f.role, f.ref = role, rd.Reference()
		} else {
			p.log.Warn("role does not name a reference capable tag",
				zap.String("tag", name), zap.String("role", role), zap.Int("line", pos.Line))
		}
	}

	if f.ref == nil {
		f.openErr = true
	} else {
		qualifies, err := f.ref.Start(p.rs, name, f.role, attrs)
		if err != nil {
			return err
		}
		f.openErr = !qualifies
	}
	p.stack.push(f)
	return nil
}

func (p *refPass) endTag(name string, pos Position) error {
	f, err := p.stack.pop(name, pos)
	if err != nil {
		return err
	}
	if f.openErr {
		return nil
	}
	return f.ref.End(p.rs, name, f.role, f.attrs)
}

func (p *refPass) text(s string, _ Position) error {
	p.rs.AddContent(s)
	return nil
}

func (p *refPass) endDocument() error { return nil }

func hasRole(raw []Attr) bool {
	for _, a := range raw {
		if a.Name == "role" && a.Value != "" {
			return true
		}
	}
	return false
}
