package ui

import "github.com/gdamore/tcell/v2"

// field is a single-line text input with a rune cursor.
type field struct {
	text   []rune
	cursor int
}

func (f *field) String() string { return string(f.text) }

func (f *field) Set(s string) {
	f.text = []rune(s)
	f.cursor = len(f.text)
}

// handleKey applies an editing key and reports whether the text changed.
// The second result is false when the key is not an editing key.
func (f *field) handleKey(ev *tcell.EventKey) (changed, handled bool) {
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if f.cursor > 0 {
			f.text = append(f.text[:f.cursor-1], f.text[f.cursor:]...)
			f.cursor--
			return true, true
		}
		return false, true
	case tcell.KeyDelete:
		if f.cursor < len(f.text) {
			f.text = append(f.text[:f.cursor], f.text[f.cursor+1:]...)
			return true, true
		}
		return false, true
	case tcell.KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
		return false, true
	case tcell.KeyRight:
		if f.cursor < len(f.text) {
			f.cursor++
		}
		return false, true
	case tcell.KeyHome:
		f.cursor = 0
		return false, true
	case tcell.KeyEnd:
		f.cursor = len(f.text)
		return false, true
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return false, false
		}
		f.text = append(f.text[:f.cursor], append([]rune{ev.Rune()}, f.text[f.cursor:]...)...)
		f.cursor++
		return true, true
	}
	return false, false
}

// render draws the text and, when active, a reverse-video cursor cell.
func (f *field) render(screen tcell.Screen, x, y, maxX int, style tcell.Style, active bool) int {
	col := x
	for i, ch := range f.text {
		if col >= maxX {
			break
		}
		st := style
		if active && i == f.cursor {
			st = style.Reverse(true)
		}
		col = drawText(screen, col, y, maxX, string(ch), st)
	}
	if active && f.cursor >= len(f.text) && col < maxX {
		screen.SetContent(col, y, ' ', nil, style.Reverse(true))
		col++
	}
	return col
}
