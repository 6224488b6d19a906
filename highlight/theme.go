package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// Theme is the style of each span kind. It is fixed once a Highlighter is
// built.
type Theme struct {
	Keyword  tcell.Style
	Function tcell.Style
	Class    tcell.Style
	String   tcell.Style
	Comment  tcell.Style
}

func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Keyword:  base.Foreground(tcell.NewRGBColor(28, 76, 189)).Bold(true),
		Function: base.Foreground(tcell.NewRGBColor(145, 20, 47)).Bold(true),
		Class:    base.Foreground(tcell.NewRGBColor(186, 194, 31)).Bold(true),
		String:   base.Foreground(tcell.NewRGBColor(120, 88, 13)),
		Comment:  base.Foreground(tcell.NewRGBColor(22, 120, 13)),
	}
}

// Style returns the style for kind.
func (t Theme) Style(kind Kind) tcell.Style {
	switch kind {
	case Keyword:
		return t.Keyword
	case Function:
		return t.Function
	case Class:
		return t.Class
	case String:
		return t.String
	case Comment:
		return t.Comment
	}
	return tcell.StyleDefault
}

// ThemeFromChroma builds a theme from a registered chroma style such as
// "monokai" or "dracula".
func ThemeFromChroma(name string) (Theme, error) {
	sty, ok := styles.Registry[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown syntax theme %q", name)
	}
	return Theme{
		Keyword:  entryStyle(sty.Get(chroma.Keyword)),
		Function: entryStyle(sty.Get(chroma.NameFunction)),
		Class:    entryStyle(sty.Get(chroma.NameClass)),
		String:   entryStyle(sty.Get(chroma.LiteralString)),
		Comment:  entryStyle(sty.Get(chroma.Comment)),
	}, nil
}

// ChromaThemes lists the style names accepted by ThemeFromChroma.
func ChromaThemes() []string {
	return styles.Names()
}

func entryStyle(entry chroma.StyleEntry) tcell.Style {
	style := tcell.StyleDefault.Foreground(chromaToTcell(entry.Colour))
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	return style
}

func chromaToTcell(c chroma.Colour) tcell.Color {
	if !c.IsSet() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}
