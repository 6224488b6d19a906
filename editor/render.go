package editor

import (
	"fmt"

	"notepad/buffer"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// bufferColToDisplayCol converts a buffer column (rune index) to display column (with tabs expanded and wide chars)
func bufferColToDisplayCol(line string, bufCol int, tabSize int) int {
	displayCol := 0
	for i, r := range []rune(line) {
		if i >= bufCol {
			break
		}
		if r == '\t' {
			displayCol += tabSize - (displayCol % tabSize)
		} else {
			displayCol += runewidth.RuneWidth(r)
		}
	}
	return displayCol
}

// displayColToBufferCol converts a display column (visual position) to buffer column (rune index)
func (e *Editor) displayColToBufferCol(line string, targetDisplayCol int) int {
	if targetDisplayCol <= 0 {
		return 0
	}
	tabSize := e.buf.TabSize
	displayCol := 0
	for i, r := range []rune(line) {
		if displayCol >= targetDisplayCol {
			return i
		}
		if r == '\t' {
			displayCol += tabSize - (displayCol % tabSize)
		} else {
			displayCol += runewidth.RuneWidth(r)
		}
		// If this character spans the target position, return its buffer position
		if displayCol > targetDisplayCol {
			return i
		}
	}
	return buffer.RuneLen(line)
}

func (e *Editor) render() {
	theme := e.theme
	defaultStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Foreground)
	e.screen.SetStyle(defaultStyle)
	e.screen.Clear()

	screenW, screenH := e.screen.Size()
	e.updateStatus()

	ex, ey, ew, eh := e.editorLayout()
	e.renderEditor(ex, ey, ew, eh)

	if e.outputOpen {
		ox, oy, ow, oh := e.outputLayout()
		e.output.Render(e.screen, ox, oy, ow, oh)
	}

	if e.findOpen {
		e.findBar.Render(e.screen, 0, screenH-1-e.findBar.Height(), screenW, e.findBar.Height())
	}

	if e.prompt != nil {
		e.prompt.Render(e.screen, 0, screenH-1, screenW, 1)
	} else {
		e.statusBar.Render(e.screen, 0, screenH-1, screenW, 1)
	}

	if e.findOpen && e.findFocused || e.prompt != nil {
		// The bars draw their own cursor.
		e.screen.HideCursor()
	}
	e.screen.Show()
}

// gutterWidth is the label width plus one column of padding.
func (e *Editor) gutterWidth() int {
	return e.labels.Width(2) + 1
}

func (e *Editor) renderEditor(x, y, w, h int) {
	buf := e.buf
	gutterW := e.gutterWidth()
	textW := w - gutterW
	if textW <= 0 {
		return
	}
	// Skip while the user scrolls with the mouse wheel
	if !e.mouseScrolling {
		e.ensureCursorVisible(textW, h)
	}

	theme := e.theme
	gutterStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.LineNumber)
	activeGutterStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.LineNumberActive)
	lineStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Foreground)
	selStyle := tcell.StyleDefault.Background(theme.Selection).Foreground(theme.Foreground)

	for row := 0; row < h; row++ {
		lineIdx := e.view.scrollY + row
		sy := y + row
		for cx := x; cx < x+w; cx++ {
			e.screen.SetContent(cx, sy, ' ', nil, lineStyle)
		}
		if lineIdx >= buf.LineCount() {
			continue
		}

		gs := gutterStyle
		if lineIdx == buf.Cursor.Line {
			gs = activeGutterStyle
		}
		label := fmt.Sprintf("%*s ", gutterW-1, e.labels.Label(lineIdx))
		for i, ch := range label {
			e.screen.SetContent(x+i, sy, ch, nil, gs)
		}

		styles := e.lineCellStyles(lineIdx, lineStyle, selStyle)
		dcol := 0
		for i, r := range []rune(buf.Lines[lineIdx]) {
			st := styles[i]
			width := runewidth.RuneWidth(r)
			ch := r
			if r == '\t' {
				width = buf.TabSize - (dcol % buf.TabSize)
				ch = ' '
			}
			for k := 0; k < width; k++ {
				sx := x + gutterW + dcol + k - e.view.scrollX
				if dcol+k >= e.view.scrollX && sx < x+w {
					if k == 0 {
						e.screen.SetContent(sx, sy, ch, nil, st)
					} else if r == '\t' {
						e.screen.SetContent(sx, sy, ' ', nil, st)
					}
				}
			}
			dcol += width
		}
	}

	if e.findOpen && e.findFocused || e.prompt != nil {
		return
	}
	cdcol := bufferColToDisplayCol(buf.Lines[buf.Cursor.Line], buf.Cursor.Col, buf.TabSize)
	cx := x + gutterW + cdcol - e.view.scrollX
	cy := y + buf.Cursor.Line - e.view.scrollY
	if cx >= x+gutterW && cx < x+w && cy >= y && cy < y+h {
		e.screen.ShowCursor(cx, cy)
	} else {
		e.screen.HideCursor()
	}
}

// lineCellStyles resolves the style of every rune on a line. Syntax spans
// only recolor the foreground; search marks and the selection replace the
// whole style, in that order.
func (e *Editor) lineCellStyles(lineIdx int, base, selStyle tcell.Style) []tcell.Style {
	buf := e.buf
	n := buffer.RuneLen(buf.Lines[lineIdx])
	out := make([]tcell.Style, n)
	for i := range out {
		out[i] = base
	}

	for _, sp := range e.spans.Line(lineIdx) {
		fg, _, attr := e.hl.Theme().Style(sp.Kind).Decompose()
		for c := sp.Start; c < sp.End && c < n; c++ {
			st := out[c]
			if fg != tcell.ColorDefault {
				st = st.Foreground(fg)
			}
			out[c] = st.Bold(attr&tcell.AttrBold != 0).Italic(attr&tcell.AttrItalic != 0)
		}
	}

	for _, sp := range buf.LineStyles(lineIdx) {
		for c := sp.Start; c < sp.End && c < n; c++ {
			out[c] = sp.Style
		}
	}

	if buf.HasSelection() {
		for c := 0; c < n; c++ {
			if buf.Selection.Contains(buffer.Cursor{Line: lineIdx, Col: c}) {
				out[c] = selStyle
			}
		}
	}
	return out
}

func (e *Editor) ensureCursorVisible(textW, textH int) {
	const scrollMargin = 5 // keep cursor this many lines from edge

	buf := e.buf
	view := &e.view
	if buf.Cursor.Line >= buf.LineCount() {
		buf.Cursor.Line = buf.LineCount() - 1
	}
	if buf.Cursor.Line < 0 {
		buf.Cursor.Line = 0
	}

	// Calculate effective margin (can't be more than half the screen)
	margin := scrollMargin
	if margin > textH/2 {
		margin = textH / 2
	}
	if buf.Cursor.Line-view.scrollY < margin {
		view.scrollY = buf.Cursor.Line - margin
	}
	if buf.Cursor.Line-view.scrollY >= textH-margin {
		view.scrollY = buf.Cursor.Line - textH + margin + 1
	}
	if view.scrollY < 0 {
		view.scrollY = 0
	}

	// Horizontal, scrollX is in display columns
	cursorDisplayCol := bufferColToDisplayCol(buf.Lines[buf.Cursor.Line], buf.Cursor.Col, buf.TabSize)
	if cursorDisplayCol < view.scrollX {
		view.scrollX = cursorDisplayCol
	}
	rightLimit := (textW * 7) / 10
	if rightLimit < 1 {
		rightLimit = 1
	}
	if rightLimit >= textW {
		rightLimit = textW - 1
	}
	if cursorDisplayCol > view.scrollX+rightLimit {
		view.scrollX = cursorDisplayCol - rightLimit
	}
}
