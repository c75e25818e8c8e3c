package docweaver

// frame is one open tag during a traversal.
type frame struct {
	name  string
	attrs Attrs
	desc  *Descriptor
	pos   Position

	// reference pass
	role string
	ref  Referencer

	// assembly pass
	tag    *Tag
	warned bool // content violation already reported
	skip   bool // inside an abandoned branch

	// openErr is set when the start of the tag failed without aborting the
	// document; the end handler is then skipped.
	openErr bool
}

func (f *frame) descriptor() *Descriptor {
	if f.desc == nil {
		return unknownDescriptor
	}
	return f.desc
}

// tagStack is shared by both passes.
type tagStack struct {
	frames []*frame
}

func (s *tagStack) push(f *frame) { s.frames = append(s.frames, f) }

// pop removes the top frame if it was opened by name. On mismatch the stack is
// left untouched.
func (s *tagStack) pop(name string, pos Position) (*frame, error) {
	n := len(s.frames)
	if n == 0 {
		return nil, NewUnmatchedTagError(pos, name, "", "")
	}
	top := s.frames[n-1]
	if top.name != name {
		return nil, NewUnmatchedTagError(pos, name, top.name, "")
	}
	s.frames[n-1] = nil
	s.frames = s.frames[:n-1]
	return top, nil
}

// peek returns the top frame or nil.
func (s *tagStack) peek() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *tagStack) depth() int { return len(s.frames) }
