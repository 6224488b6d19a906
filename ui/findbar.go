package ui

import (
	"notepad/config"

	"github.com/gdamore/tcell/v2"
)

// FindBar is the two-row search and replace panel under the editor. It
// only edits its own inputs; everything else goes through the callbacks.
type FindBar struct {
	query   field
	replace field

	ReplaceActive bool // cursor is in the replace field
	CaseSensitive bool
	WholeWord     bool

	// Counter is the "current / total" text shown after the query.
	Counter string
	Theme   *config.ColorScheme

	OnSearch     func(query string, caseSensitive, wholeWord bool)
	OnNext       func()
	OnPrevious   func()
	OnReplaceAll func(replacement string)
	OnClose      func()
}

func NewFindBar() *FindBar {
	return &FindBar{Counter: "0 / 0"}
}

// Height is the number of rows the bar occupies.
func (f *FindBar) Height() int { return 2 }

func (f *FindBar) Query() string       { return f.query.String() }
func (f *FindBar) Replacement() string { return f.replace.String() }

// SetQuery fills the query field, e.g. with the word under the cursor, and
// runs the search.
func (f *FindBar) SetQuery(q string) {
	f.query.Set(q)
	f.ReplaceActive = false
	f.search()
}

func (f *FindBar) search() {
	if f.OnSearch != nil {
		f.OnSearch(f.query.String(), f.CaseSensitive, f.WholeWord)
	}
}

func (f *FindBar) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		if f.OnClose != nil {
			f.OnClose()
		}
		return true
	case tcell.KeyTab, tcell.KeyBacktab:
		f.ReplaceActive = !f.ReplaceActive
		return true
	case tcell.KeyF3:
		if ev.Modifiers()&tcell.ModShift != 0 {
			f.previous()
		} else {
			f.next()
		}
		return true
	case tcell.KeyUp:
		f.previous()
		return true
	case tcell.KeyDown:
		f.next()
		return true
	case tcell.KeyEnter:
		if f.ReplaceActive {
			if f.OnReplaceAll != nil {
				f.OnReplaceAll(f.replace.String())
			}
			return true
		}
		if ev.Modifiers()&tcell.ModShift != 0 {
			f.previous()
		} else {
			f.next()
		}
		return true
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			switch ev.Rune() {
			case 'c', 'C':
				f.CaseSensitive = !f.CaseSensitive
				f.search()
				return true
			case 'w', 'W':
				f.WholeWord = !f.WholeWord
				f.search()
				return true
			}
			return false
		}
	}

	if f.ReplaceActive {
		_, handled := f.replace.handleKey(ev)
		return handled
	}
	changed, handled := f.query.handleKey(ev)
	if changed {
		f.search()
	}
	return handled
}

func (f *FindBar) next() {
	if f.OnNext != nil {
		f.OnNext()
	}
}

func (f *FindBar) previous() {
	if f.OnPrevious != nil {
		f.OnPrevious()
	}
}

func (f *FindBar) Render(screen tcell.Screen, x, y, width, height int) {
	theme := f.Theme
	if theme == nil {
		theme = config.Themes["dark"]
	}
	style := tcell.StyleDefault.Background(theme.FindBarBg).Foreground(theme.FindBarFg)
	inputStyle := tcell.StyleDefault.Background(theme.FindInputBg).Foreground(theme.FindBarFg)
	active := style.Foreground(tcell.ColorYellow).Bold(true)
	inactive := style.Foreground(tcell.ColorOlive)
	hint := style.Foreground(tcell.ColorGray)
	maxX := x + width

	findLabel, replaceLabel := active, inactive
	if f.ReplaceActive {
		findLabel, replaceLabel = inactive, active
	}

	fillRow(screen, x, y, width, style)
	col := drawText(screen, x, y, maxX, " Find: ", findLabel)
	f.query.render(screen, col, y, maxX, inputStyle, !f.ReplaceActive)

	info := " " + f.Counter + " "
	if f.CaseSensitive {
		info = " [Aa]" + info
	}
	if f.WholeWord {
		info = " [W]" + info
	}
	drawText(screen, maxX-textWidth(info), y, maxX, info, hint)

	if height < 2 {
		return
	}
	fillRow(screen, x, y+1, width, style)
	col = drawText(screen, x, y+1, maxX, " Replace: ", replaceLabel)
	f.replace.render(screen, col, y+1, maxX, inputStyle, f.ReplaceActive)
	keys := " Enter=All  Alt+C=Case  Alt+W=Word "
	drawText(screen, maxX-textWidth(keys), y+1, maxX, keys, hint)
}
