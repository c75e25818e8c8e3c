package docweaver

import "github.com/grahms/docweaver/document"

// Styles holds the default style names used when markup does not name one.
type Styles struct {
	Paragraph       string `yaml:"paragraph"`
	Run             string `yaml:"run"`
	NumberedList    string `yaml:"numbered_list"`
	BulletedList    string `yaml:"bulleted_list"`
	Figure          string `yaml:"figure"`
	FigureParagraph string `yaml:"figure_paragraph"`
	Table           string `yaml:"table"`
	TOCTitle        string `yaml:"toc_title"`
	AltRun          string `yaml:"alt_run"`
	AltParagraph    string `yaml:"alt_paragraph"`

	FigureWidth document.Length `yaml:"-"`
	TOCMin      int             `yaml:"toc_min"`
	TOCMax      int             `yaml:"toc_max"`
}

// DefaultStyles returns the built-in style names.
func DefaultStyles() Styles {
	return Styles{
		Paragraph:       "Normal",
		Run:             "",
		NumberedList:    "List Number",
		BulletedList:    "List Bullet",
		Figure:          "",
		FigureParagraph: "Caption",
		Table:           "Table Grid",
		TOCTitle:        "TOC Heading",
		AltRun:          "Emphasis",
		AltParagraph:    "Normal",
		FigureWidth:     6 * document.Inch,
		TOCMin:          1,
		TOCMax:          3,
	}
}

// merge fills empty fields of s from def.
func (s Styles) merge(def Styles) Styles {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	s.Paragraph = pick(s.Paragraph, def.Paragraph)
	s.Run = pick(s.Run, def.Run)
	s.NumberedList = pick(s.NumberedList, def.NumberedList)
	s.BulletedList = pick(s.BulletedList, def.BulletedList)
	s.Figure = pick(s.Figure, def.Figure)
	s.FigureParagraph = pick(s.FigureParagraph, def.FigureParagraph)
	s.Table = pick(s.Table, def.Table)
	s.TOCTitle = pick(s.TOCTitle, def.TOCTitle)
	s.AltRun = pick(s.AltRun, def.AltRun)
	s.AltParagraph = pick(s.AltParagraph, def.AltParagraph)
	if s.FigureWidth == 0 {
		s.FigureWidth = def.FigureWidth
	}
	if s.TOCMin == 0 {
		s.TOCMin = def.TOCMin
	}
	if s.TOCMax == 0 {
		s.TOCMax = def.TOCMax
	}
	return s
}
