package docweaver

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/grahms/docweaver/document"
)

// Lead selects the leading separator of a new content buffer.
type Lead int

const (
	// LeadInherit copies the flag of the outgoing buffer.
	LeadInherit Lead = iota
	LeadSpace
	LeadNone
)

// ListMode is the list behavior requested by a paragraph.
type ListMode int

const (
	ListNone ListMode = iota
	ListNumbered
	ListBulleted
	ListContinue
)

// ParseListMode accepts "", "numbered", "bulleted" and "continued".
func ParseListMode(s string) (ListMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ListNone, nil
	case "numbered", "number", "ordered":
		return ListNumbered, nil
	case "bulleted", "bullet", "unordered":
		return ListBulleted, nil
	case "continued", "continue":
		return ListContinue, nil
	}
	return ListNone, fmt.Errorf("unknown list type %q", s)
}

type buffer struct {
	sb   strings.Builder
	lead bool
}

// State is the output state of the assembly pass: the content buffer stack,
// the open paragraph and run, and the last list item.
type State struct {
	doc     document.Document
	refs    *References
	kw      Keywords
	styles  Styles
	plugins *Plugins
	log     *zap.Logger

	buf  *buffer
	bufs []*buffer

	par      document.Paragraph
	run      document.Run
	lastList document.Paragraph
}

func newState(doc document.Document, refs *References, kw Keywords, styles Styles, plugins *Plugins, log *zap.Logger) *State {
	return &State{
		doc:     doc,
		refs:    refs,
		kw:      kw,
		styles:  styles,
		plugins: plugins,
		log:     log,
		buf:     &buffer{},
	}
}

func (s *State) Doc() document.Document        { return s.doc }
func (s *State) Refs() *References             { return s.refs }
func (s *State) Keywords() Keywords            { return s.kw }
func (s *State) Styles() Styles                { return s.styles }
func (s *State) Plugins() *Plugins             { return s.plugins }
func (s *State) Logger() *zap.Logger           { return s.log }
func (s *State) Paragraph() document.Paragraph { return s.par }
func (s *State) Run() document.Run             { return s.run }
func (s *State) Depth() int                    { return len(s.bufs) }

// Write appends raw text to the current buffer.
func (s *State) Write(text string) { s.buf.sb.WriteString(text) }

// RawText returns the current buffer unmodified.
func (s *State) RawText() string { return s.buf.sb.String() }

// Text returns the normalized content of the current buffer: each line
// trimmed and collapsed, lines joined by single spaces, prefixed with a space
// when the buffer asks for one.
func (s *State) Text() string {
	text := collapse(s.buf.sb.String())
	if text != "" && s.buf.lead {
		text = " " + text
	}
	return text
}

func collapse(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			parts = append(parts, strings.Join(f, " "))
		}
	}
	return strings.Join(parts, " ")
}

// NewBuffer replaces the current buffer with an empty one.
func (s *State) NewBuffer(lead Lead) {
	nb := &buffer{}
	switch lead {
	case LeadInherit:
		nb.lead = s.buf != nil && s.buf.lead
	case LeadSpace:
		nb.lead = true
	}
	s.buf = nb
}

// FlushRun writes the buffer into the open run. With renew, a fresh buffer is
// installed that leads with a space when the run already has text.
func (s *State) FlushRun(renew bool) {
	if s.run == nil {
		return
	}
	if text := s.Text(); text != "" {
		s.run.AddText(text)
	}
	if renew {
		lead := LeadInherit
		if s.run.Text() != "" {
			lead = LeadSpace
		}
		s.NewBuffer(lead)
	}
}

// PushBuffer suspends the current buffer, optionally flushing it first, and
// installs an empty one.
func (s *State) PushBuffer(flush bool, lead Lead) {
	if flush {
		s.FlushRun(true)
	}
	s.bufs = append(s.bufs, s.buf)
	s.NewBuffer(lead)
	s.log.Debug("pushed content buffer", zap.Int("depth", len(s.bufs)))
}

// PopBuffer discards the current buffer and reinstates the last pushed one.
func (s *State) PopBuffer() error {
	n := len(s.bufs)
	if n == 0 {
		return ErrBufferUnderflow
	}
	s.buf = s.bufs[n-1]
	s.bufs[n-1] = nil
	s.bufs = s.bufs[:n-1]
	s.log.Debug("popped content buffer", zap.Int("depth", n-1))
	return nil
}

// checkContentTail moves stray buffered text into the document and resets
// the buffer.
func (s *State) checkContentTail() {
	if tail := s.Text(); tail != "" {
		s.log.Warn("spurious content outside of run", zap.String("text", tail))
		switch {
		case s.run != nil:
			s.run.AddText(tail)
		case s.par != nil:
			s.par.AddRun(tail, s.styles.Run)
		default:
			s.doc.AddParagraph("", s.styles.Paragraph).AddRun(tail, s.styles.Run)
		}
	}
	s.NewBuffer(LeadNone)
}

// StartParagraph opens a paragraph, ending any open one.
func (s *State) StartParagraph(tag, style string) document.Paragraph {
	if s.par != nil {
		s.log.Warn("nested paragraphs are forbidden, previous paragraph terminated", zap.String("tag", tag))
		s.EndParagraph(tag)
	} else {
		s.checkContentTail()
	}
	s.par = s.doc.AddParagraph("", style)
	s.log.Debug("paragraph started", zap.String("style", style))
	return s.par
}

// OpenRun opens a run for tag. A run inside a run is fatal when tag is "run";
// any other tag injects a run after flushing the open one. Without a
// paragraph one is synthesized with pstyle.
func (s *State) OpenRun(tag, style, pstyle string, warnOutsidePar, keepPar bool) error {
	if s.run != nil {
		if strings.EqualFold(tag, "run") {
			return ErrNestedRun
		}
		s.log.Debug("run injection", zap.String("tag", tag))
		s.FlushRun(true)
	} else {
		if s.Text() != "" {
			s.checkContentTail()
		}
		lead := LeadNone
		if s.par != nil && !s.par.IsEmpty() {
			lead = LeadSpace
		}
		s.NewBuffer(lead)
	}

	par := s.par
	if par == nil {
		if warnOutsidePar {
			s.log.Warn("run outside of paragraph", zap.String("tag", tag))
		}
		par = s.doc.AddParagraph("", pstyle)
		if keepPar {
			s.par = par
		}
	}
	run := par.AddRun("", style)
	if par == s.par {
		s.run = run
	}
	return nil
}

// CloseRun flushes and forgets the open run.
func (s *State) CloseRun() {
	s.FlushRun(true)
	s.run = nil
}

// EndParagraph flushes trailing text and closes the paragraph. Empty
// paragraphs are removed from the document. interrupting names the tag that
// forced the close, if any.
func (s *State) EndParagraph(interrupting string) {
	s.checkContentTail()
	if s.par != nil {
		if s.par.IsEmpty() {
			s.log.Debug("removing empty paragraph")
			s.doc.RemoveParagraph(s.par)
		}
		s.par = nil
		if interrupting != "" {
			s.log.Warn("paragraph terminated", zap.String("tag", interrupting))
		}
	}
	if s.run != nil {
		s.log.Warn("unterminated run closed with paragraph")
		s.run = nil
	}
}

// InterruptParagraph closes the open paragraph and run, runs fn, and then
// reopens a paragraph and run with the same styles. warn names the tag doing
// the interrupting; empty means no warning.
func (s *State) InterruptParagraph(warn string, fn func() error) error {
	var (
		parStyle, runStyle string
		hadPar, hadRun     bool
	)
	if s.par != nil {
		hadPar, parStyle = true, s.par.Style()
		if s.run != nil {
			hadRun, runStyle = true, s.run.Style()
		}
		fields := []zap.Field{zap.String("pstyle", parStyle), zap.String("rstyle", runStyle)}
		if warn != "" {
			s.log.Warn("interrupting paragraph", append(fields, zap.String("tag", warn))...)
		} else {
			s.log.Debug("interrupting paragraph", fields...)
		}
		s.FlushRun(true)
		s.run = nil
		s.EndParagraph("")
	}

	err := fn()

	if hadPar {
		s.par = s.doc.AddParagraph("", parStyle)
		if hadRun {
			s.run = s.par.AddRun("", runStyle)
		}
	}
	return err
}

// TempRun runs fn inside a run of the given style and restores the previous
// paragraph and run styles afterwards. With keepSame an open run of the same
// style is reused.
func (s *State) TempRun(style, pstyle string, keepSame bool, fn func() error) error {
	oldPar, oldRun := s.par, s.run
	var oldParStyle, oldRunStyle string
	if oldPar != nil {
		oldParStyle = oldPar.Style()
	}
	if oldRun != nil {
		oldRunStyle = oldRun.Style()
	}

	if keepSame && oldRun != nil && oldRunStyle == style {
		s.FlushRun(true)
	} else if err := s.OpenRun("", style, pstyle, false, true); err != nil {
		return err
	}

	err := fn()

	s.FlushRun(true)
	if s.par != oldPar {
		s.run = nil
		s.EndParagraph("")
		if oldPar != nil {
			s.par = s.doc.AddParagraph("", oldParStyle)
			if oldRun != nil {
				s.run = s.par.AddRun("", oldRunStyle)
				s.NewBuffer(LeadNone)
			}
		}
	} else if oldRun == nil {
		s.run = nil
	} else if s.run != oldRun {
		s.run = s.par.AddRun("", oldRunStyle)
	}
	return err
}

// NumberParagraph turns the open paragraph into a list item. level < 0 keeps
// the level of the previous list item, or 0.
func (s *State) NumberParagraph(mode ListMode, level int) {
	if mode == ListNone || s.par == nil {
		return
	}
	prevLevel := 0
	if s.lastList != nil {
		_, prevLevel, _ = s.lastList.List()
	}
	if level < 0 {
		level = prevLevel
	}

	var id document.ListID
	switch mode {
	case ListContinue:
		if s.lastList == nil {
			s.log.Warn("continuing a list when no list exists")
			id = s.doc.StartList(document.Numbered)
		} else {
			id, _, _ = s.lastList.List()
		}
	case ListBulleted:
		id = s.doc.StartList(document.Bulleted)
	default:
		id = s.doc.StartList(document.Numbered)
	}
	s.par.SetList(id, level)
	s.lastList = s.par
}

// LastListItem returns the most recent paragraph carrying list numbering.
func (s *State) LastListItem() document.Paragraph { return s.lastList }

// InsertPicture adds img in a run of the given style.
func (s *State) InsertPicture(img document.Image, width, height document.Length, style, pstyle string) error {
	return s.TempRun(style, pstyle, true, func() error {
		if err := s.run.AddPicture(img, width, height); err != nil {
			return err
		}
		s.log.Debug("inserted picture",
			zap.Float64("width", width.Inches()), zap.Float64("height", height.Inches()))
		return nil
	})
}

// InjectParagraph inserts a standalone paragraph, interrupting and resuming
// the open one.
func (s *State) InjectParagraph(style, pstyle, text string) (document.Paragraph, error) {
	var par document.Paragraph
	err := s.InterruptParagraph("", func() error {
		par = s.doc.AddParagraph("", pstyle)
		par.AddRun(text, style)
		return nil
	})
	return par, err
}

// ImageLogName returns the file name artifacts of id are logged under. It is
// derived from the "log_file" or "output" keyword.
func (s *State) ImageLogName(id, ext string) string {
	base, _ := s.kw["log_file"].(string)
	if base == "" {
		base, _ = s.kw["output"].(string)
	}
	if base == "" {
		return id + ext
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_" + id + ext
}
