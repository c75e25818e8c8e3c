package docweaver

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Referencer is the reference capability of a tag. Start and End run during
// the reference pass; Register adds the tags that resolve the references.
type Referencer interface {
	Prefix() string
	// Identifiers names the attributes a reference is keyed by.
	Identifiers() []string
	// Start reports whether this tag instance is a reference target.
	Start(rs *ReferenceState, name, role string, attrs Attrs) (bool, error)
	End(rs *ReferenceState, name, role string, attrs Attrs) error
	Register(reg *Registry, name string) error
}

// ReferenceTarget numbers items such as figures and tables within the
// current heading: "Figure 2.1-3".
type ReferenceTarget struct {
	prefix string
}

func NewReferenceTarget(prefix string) *ReferenceTarget {
	return &ReferenceTarget{prefix: prefix}
}

func (t *ReferenceTarget) Prefix() string        { return t.prefix }
func (t *ReferenceTarget) Identifiers() []string { return []string{"id"} }

func (t *ReferenceTarget) Start(rs *ReferenceState, name, role string, attrs Attrs) (bool, error) {
	rs.log.Debug("reference target", zap.String("tag", name), zap.String("role", role))
	return true, nil
}

func (t *ReferenceTarget) End(rs *ReferenceState, name, role string, attrs Attrs) error {
	n := rs.NextItem(role)
	text := rs.FormatHeading(t.prefix, strconv.Itoa(n))
	id, ok := attrs.Lookup("id")
	if !ok {
		rs.log.Warn("reference target without id", zap.String("tag", name), zap.String("text", text))
		return nil
	}
	return rs.Set(role, "id", id, text, false)
}

func (t *ReferenceTarget) Register(reg *Registry, name string) error {
	return reg.Register(name+"-ref", refTagSpec(name))
}

var headingRe = regexp.MustCompile(`^heading\s*(\d+)$`)

// headingLevel extracts N from paragraph styles named "Heading N".
func headingLevel(style string) (int, bool) {
	m := headingRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(style)))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SegmentTarget numbers headings: "Section 1.2: Title". Segments are
// addressable by id and by title.
type SegmentTarget struct {
	prefix       string
	defaultStyle string
}

// NewSegmentTarget returns a heading target. defaultStyle is the paragraph
// style assumed when a tag has none.
func NewSegmentTarget(prefix, defaultStyle string) *SegmentTarget {
	return &SegmentTarget{prefix: prefix, defaultStyle: defaultStyle}
}

func (t *SegmentTarget) Prefix() string        { return t.prefix }
func (t *SegmentTarget) Identifiers() []string { return []string{"id"} }

func (t *SegmentTarget) Start(rs *ReferenceState, name, role string, attrs Attrs) (bool, error) {
	style := attrs.Get("style")
	if style == "" {
		style = t.defaultStyle
	}
	if level, ok := headingLevel(style); ok {
		rs.IncrementHeading(level)
	} else if _, ok := attrs.Lookup("role"); !ok {
		return false, nil
	}
	rs.BeginContent()
	return true, nil
}

func (t *SegmentTarget) End(rs *ReferenceState, name, role string, attrs Attrs) error {
	title := rs.EndContent()
	text := rs.FormatHeading(t.prefix, "")
	if title != "" {
		text += ": " + title
	}
	if id, ok := attrs.Lookup("id"); ok {
		if err := rs.Set(role, "id", id, text, false); err != nil {
			return err
		}
	}
	if title != "" {
		return rs.Set(role, "title", title, text, true)
	}
	return nil
}

func (t *SegmentTarget) Register(reg *Registry, name string) error {
	if err := reg.Register(name+"-ref", refTagSpec(name)); err != nil {
		return err
	}
	return reg.Register("segment-ref", segmentRefSpec(name))
}

func refTagSpec(target string) Spec {
	return Spec{
		Nested:   Flag(false),
		Required: []string{"id"},
		Handler:  refTag{target: target},
	}
}

func segmentRefSpec(target string) Spec {
	return Spec{
		Nested:   Flag(false),
		Optional: map[string]string{"id": "", "title": ""},
		Handler:  segmentRefTag{target: target},
	}
}

// refTag writes the reference text of a target looked up by id.
type refTag struct {
	target string
}

func (h refTag) Start(st *State, t *Tag) error {
	id := t.Attrs.Get("id")
	text, err := st.Refs().Get(h.target, "id", id)
	if err != nil {
		return err
	}
	st.log.Info("resolved reference", zap.String("tag", t.Name), zap.String("id", id), zap.String("text", text))
	st.Write(text)
	return nil
}

func (refTag) End(*State, *Tag) error { return nil }

// segmentRefTag resolves a segment by id, title, or both.
type segmentRefTag struct {
	target string
}

func (h segmentRefTag) Start(st *State, t *Tag) error {
	id, hasID := t.Attrs.Lookup("id")
	title, hasTitle := t.Attrs.Lookup("title")
	var text string
	switch {
	case hasID:
		byID, err := st.Refs().Get(h.target, "id", id)
		if err != nil {
			return err
		}
		text = byID
		if hasTitle {
			byTitle, err := st.Refs().Get(h.target, "title", title)
			if err != nil {
				return err
			}
			if byTitle != byID {
				return &RefMismatchError{ID: id, Title: title, ByID: byID, ByTitle: byTitle}
			}
		}
	case hasTitle:
		byTitle, err := st.Refs().Get(h.target, "title", title)
		if err != nil {
			return err
		}
		text = byTitle
	default:
		return NewAttributeError(t.Pos, t.Name, "id", "", "")
	}
	st.log.Info("resolved segment reference",
		zap.String("id", id), zap.String("title", title), zap.String("text", text))
	st.Write(text)
	return nil
}

func (segmentRefTag) End(*State, *Tag) error { return nil }

// RefMismatchError is returned when the id and title of a segment reference
// resolve to different segments.
type RefMismatchError struct {
	ID, Title     string
	ByID, ByTitle string
}

func (e *RefMismatchError) Error() string {
	return "mismatch between title " + strconv.Quote(e.Title) + " (" + e.ByTitle +
		") and id " + strconv.Quote(e.ID) + " (" + e.ByID + ")"
}

func (e *RefMismatchError) Is(target error) bool { return target == ErrReferenceMismatch }
