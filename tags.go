package docweaver

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/grahms/docweaver/document"
)

// RootTag is the name of the built-in document root.
const RootTag = "template"

// NewDefaultRegistry returns a registry holding the built-in tags, with
// defaults taken from styles.
func NewDefaultRegistry(styles Styles) (*Registry, error) {
	styles = styles.merge(DefaultStyles())
	r := NewRegistry()
	builtins := []struct {
		name string
		spec Spec
	}{
		{RootTag, Spec{Content: Mode(ContentDiscouraged)}},
		{"par", Spec{
			Content:   Mode(ContentDiscouraged),
			Optional:  map[string]string{"style": "", "id": "", "list": "", "list-level": ""},
			Reference: NewSegmentTarget("Section", styles.Paragraph),
			Handler:   parTag{},
		}},
		{"run", Spec{
			Content:  Mode(ContentExpected),
			Optional: map[string]string{"style": styles.Run},
			Handler:  runTag{},
		}},
		{"n", Spec{Nested: Flag(false), Handler: HandlerFuncs{OnStart: lineBreak}}},
		{"break", Spec{Nested: Flag(false), Handler: HandlerFuncs{OnEnd: pageBreak}}},
		{"section", Spec{
			Nested:   Flag(false),
			Optional: map[string]string{"orientation": "portrait"},
			Handler:  HandlerFuncs{OnStart: section},
		}},
		{"skip", Spec{Content: Mode(ContentExpected)}},
		{"kwd", Spec{
			Nested:   Flag(false),
			Content:  Mode(ContentDiscouraged),
			Required: []string{"name"},
			Optional: map[string]string{"format": ""},
			Handler:  HandlerFuncs{OnStart: keyword},
		}},
		{"expr", Spec{
			Nested:   Flag(false),
			Content:  Mode(ContentExpected),
			Required: []string{"name"},
			Handler:  exprTag{},
		}},
		{"string", Spec{
			Nested:     Flag(false),
			Content:    Mode(ContentDiscouraged),
			Required:   []string{"id", "handler"},
			DataConfig: "id",
			Handler:    stringTag{},
		}},
		{"figure", Spec{
			Nested:     Flag(false),
			Content:    Mode(ContentDiscouraged),
			Required:   []string{"id", "handler"},
			Optional:   map[string]string{"style": "", "pstyle": "", "width": "", "height": ""},
			DataConfig: "id",
			Reference:  NewReferenceTarget("Figure"),
			Handler:    figureTag{},
		}},
		{"table", Spec{
			Nested:     Flag(false),
			Content:    Mode(ContentDiscouraged),
			Required:   []string{"id", "handler"},
			Optional:   map[string]string{"style": ""},
			DataConfig: "id",
			Reference:  NewReferenceTarget("Table"),
			Handler:    tableTag{},
		}},
		{"toc", Spec{
			Nested:  Flag(false),
			Content: Mode(ContentExpected),
			Optional: map[string]string{
				"min":   strconv.Itoa(styles.TOCMin),
				"max":   strconv.Itoa(styles.TOCMax),
				"style": styles.TOCTitle,
			},
			Handler: tocTag{},
		}},
	}
	for _, b := range builtins {
		if err := r.Register(b.name, b.spec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type parTag struct{}

func (parTag) Start(st *State, t *Tag) error {
	mode, err := ParseListMode(t.Attrs.Get("list"))
	if err != nil {
		st.log.Error("ignoring list attribute", zap.Error(err), zap.Int("line", t.Pos.Line))
		mode = ListNone
	}
	level, err := t.Attrs.Int("list-level", -1)
	if err != nil {
		return fmt.Errorf("list-level: %w", err)
	}
	st.StartParagraph(t.Name, paragraphStyle(st, t.Attrs.Get("style"), mode))
	st.NumberParagraph(mode, level)
	return nil
}

func (parTag) End(st *State, _ *Tag) error {
	st.EndParagraph("")
	return nil
}

// paragraphStyle picks an explicit style, else the style matching the list
// mode.
func paragraphStyle(st *State, style string, mode ListMode) string {
	if style != "" {
		return style
	}
	switch mode {
	case ListNumbered:
		return st.styles.NumberedList
	case ListBulleted:
		return st.styles.BulletedList
	case ListContinue:
		if st.lastList != nil {
			return st.lastList.Style()
		}
		return st.styles.NumberedList
	}
	return st.styles.Paragraph
}

type runTag struct{}

func (runTag) Start(st *State, t *Tag) error {
	return st.OpenRun(t.Name, t.Attrs.Get("style"), st.styles.Paragraph, true, true)
}

func (runTag) End(st *State, _ *Tag) error {
	st.CloseRun()
	return nil
}

// lineBreak adds a line break to the open run, the last run of the open
// paragraph, or a new run at the start of the paragraph.
func lineBreak(st *State, t *Tag) error {
	if st.par == nil {
		st.log.Warn("line break outside of paragraph ignored", zap.Int("line", t.Pos.Line))
		return nil
	}
	var run document.Run
	switch runs := st.par.Runs(); {
	case st.run != nil:
		st.FlushRun(true)
		st.buf.lead = false
		run = st.run
	case len(runs) > 0:
		st.checkContentTail()
		run = st.par.Runs()[len(st.par.Runs())-1]
	default:
		run = st.par.AddRun("", st.styles.Run)
	}
	run.AddBreak(document.LineBreak)
	return nil
}

func pageBreak(st *State, _ *Tag) error {
	if st.run != nil {
		st.FlushRun(true)
		st.run.AddBreak(document.PageBreak)
		return nil
	}
	st.doc.AddPageBreak()
	return nil
}

func section(st *State, t *Tag) error {
	o, err := document.ParseOrientation(t.Attrs.Get("orientation"))
	if err != nil {
		return err
	}
	err = st.InterruptParagraph(t.Name, func() error {
		st.doc.AddSection(o)
		return nil
	})
	st.log.Info("section started", zap.Stringer("orientation", o))
	return err
}

func keyword(st *State, t *Tag) error {
	name := t.Attrs.Get("name")
	v, ok := st.kw[name]
	if !ok {
		return fmt.Errorf("keyword %q is not defined", name)
	}
	st.Write(formatValue(v, t.Attrs.Get("format")))
	return nil
}

// formatValue applies a fmt verb such as "%.2f" or ".2f" to v.
func formatValue(v any, format string) string {
	switch {
	case format == "":
		return fmt.Sprint(v)
	case strings.Contains(format, "%"):
		return fmt.Sprintf(format, v)
	}
	return fmt.Sprintf("%"+format, v)
}

// exprTag evaluates its content as an expression over the keywords and
// stores the typed result as a new keyword.
type exprTag struct{}

func (exprTag) Start(st *State, _ *Tag) error {
	st.PushBuffer(false, LeadNone)
	return nil
}

func (exprTag) End(st *State, t *Tag) error {
	raw := st.RawText()
	if err := st.PopBuffer(); err != nil {
		return err
	}
	name := t.Attrs.Get("name")
	value, err := EvalExpr(raw, st.kw)
	if err != nil {
		return fmt.Errorf("evaluate expression %q: %w", name, err)
	}
	if old, ok := st.kw[name]; ok {
		st.log.Warn("keyword redefined", zap.String("name", name), zap.Any("old", old), zap.Any("new", value))
	}
	st.kw[name] = value
	return nil
}

type stringTag struct{}

func (stringTag) Start(st *State, _ *Tag) error {
	st.PushBuffer(true, LeadNone)
	return nil
}

func (stringTag) End(st *State, t *Tag) error {
	if err := st.PopBuffer(); err != nil {
		return err
	}
	fn, err := st.plugins.Text(configValue("handler", t.Attrs, t.Config))
	if err != nil {
		return err
	}
	text, err := fn(t.Config, st.kw)
	if err != nil {
		return Recoverable("text handler failed", err)
	}
	if text == "" {
		return Recoverablef("no text generated for %q", t.ConfigID)
	}
	if st.kw.Bool("log_images") {
		name := st.ImageLogName(t.ConfigID, ".txt")
		if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
			return err
		}
		st.log.Debug("logged string", zap.String("id", t.ConfigID), zap.String("file", name))
	}
	st.Write(text)
	st.log.Info("inserted string", zap.String("id", t.ConfigID))
	return nil
}

type figureTag struct{}

func (figureTag) Start(st *State, _ *Tag) error {
	st.PushBuffer(true, LeadNone)
	return nil
}

func (figureTag) End(st *State, t *Tag) error {
	if err := st.PopBuffer(); err != nil {
		return err
	}
	style := orDefault(configValue("style", t.Attrs, t.Config), st.styles.Figure)
	pstyle := orDefault(configValue("pstyle", t.Attrs, t.Config), st.styles.FigureParagraph)
	width, height, err := figureSize(st, t)
	if err != nil {
		return err
	}

	fn, err := st.plugins.Figure(configValue("handler", t.Attrs, t.Config))
	if err != nil {
		return err
	}
	var logName string
	if st.kw.Bool("log_images") {
		logName = st.ImageLogName(t.ConfigID, "")
	}
	img, err := fn(t.Config, st.kw, logName)
	if err != nil {
		return Recoverable("figure handler failed", err)
	}
	if img.Data == nil && img.Path == "" {
		return Recoverablef("no image generated for %q", t.ConfigID)
	}
	if err := st.InsertPicture(img, width, height, style, pstyle); err != nil {
		return err
	}
	st.log.Info("inserted figure", zap.String("id", t.ConfigID))
	return nil
}

// figureSize reads width and height. With neither set the default figure
// width applies.
func figureSize(st *State, t *Tag) (document.Length, document.Length, error) {
	w, err := document.ParseLength(configValue("width", t.Attrs, t.Config))
	if err != nil {
		return 0, 0, Recoverable("bad width", err)
	}
	h, err := document.ParseLength(configValue("height", t.Attrs, t.Config))
	if err != nil {
		return 0, 0, Recoverable("bad height", err)
	}
	if w == 0 && h == 0 {
		w = st.styles.FigureWidth
	}
	return w, h, nil
}

type tableTag struct{}

func (tableTag) Start(st *State, _ *Tag) error {
	st.PushBuffer(true, LeadNone)
	return nil
}

func (tableTag) End(st *State, t *Tag) error {
	if err := st.PopBuffer(); err != nil {
		return err
	}
	style := orDefault(configValue("style", t.Attrs, t.Config), st.styles.Table)
	fn, err := st.plugins.Table(configValue("handler", t.Attrs, t.Config))
	if err != nil {
		return err
	}
	var logName string
	if st.kw.Bool("log_images") {
		logName = st.ImageLogName(t.ConfigID, "")
	}
	return st.InterruptParagraph(t.Name, func() error {
		if err := fn(t.Config, st.kw, st.doc, style, logName); err != nil {
			return Recoverable("table handler failed", err)
		}
		return nil
	})
}

type tocTag struct{}

func (tocTag) Start(st *State, _ *Tag) error {
	st.PushBuffer(true, LeadNone)
	return nil
}

func (tocTag) End(st *State, t *Tag) error {
	title := st.Text()
	if err := st.PopBuffer(); err != nil {
		return err
	}
	lo, err := t.Attrs.Int("min", st.styles.TOCMin)
	if err != nil {
		return fmt.Errorf("toc min: %w", err)
	}
	hi, err := t.Attrs.Int("max", st.styles.TOCMax)
	if err != nil {
		return fmt.Errorf("toc max: %w", err)
	}
	return st.InterruptParagraph(t.Name, func() error {
		if title != "" {
			st.doc.AddParagraph(title, t.Attrs.Get("style"))
		}
		st.doc.AddTOC(lo, hi)
		return nil
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
