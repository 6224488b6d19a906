package editor

import (
	"strings"

	"notepad/buffer"
	"notepad/clipboardx"

	"github.com/gdamore/tcell/v2"
)

func (e *Editor) handleKey(ev *tcell.EventKey) {
	e.mouseScrolling = false
	if e.prompt != nil {
		e.prompt.HandleKey(ev)
		return
	}

	// Global shortcuts work in every focus.
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.requestQuit()
		return
	case tcell.KeyCtrlS:
		e.saveCurrentFile()
		return
	case tcell.KeyCtrlF:
		e.openFind(false)
		return
	case tcell.KeyCtrlR:
		e.openFind(true)
		return
	case tcell.KeyF5:
		e.runFile()
		return
	case tcell.KeyF6:
		e.outputOpen = !e.outputOpen
		return
	}
	e.quitPending = false

	if e.findOpen && e.findFocused {
		if e.findBar.HandleKey(ev) {
			return
		}
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		if e.findOpen {
			e.closeFind()
			return
		}
		e.buf.Selection = nil
		e.selectionAnchor = nil
		return
	case tcell.KeyF3:
		if ev.Modifiers()&tcell.ModShift != 0 {
			e.findPrevious()
		} else {
			e.findNext()
		}
		return
	case tcell.KeyCtrlUnderscore:
		// Terminals report Ctrl+/ as Ctrl+_.
		e.toggleComment()
		return
	case tcell.KeyCtrlZ:
		if !e.buf.ApplyUndo() {
			e.setTemporaryMessage("Nothing to undo")
		}
		e.selectionAnchor = nil
		return
	case tcell.KeyCtrlY:
		if !e.buf.ApplyRedo() {
			e.setTemporaryMessage("Nothing to redo")
		}
		e.selectionAnchor = nil
		return
	case tcell.KeyCtrlA:
		e.buf.SelectAll()
		e.selectionAnchor = nil
		return
	case tcell.KeyCtrlC:
		e.copySelection()
		return
	case tcell.KeyCtrlX:
		e.cutSelection()
		return
	case tcell.KeyCtrlV:
		e.paste()
		return
	}

	if e.findOpen {
		// Any editing key returns focus to the text.
		e.findFocused = false
	}
	e.handleEditorKey(ev)
}

func (e *Editor) handleEditorKey(ev *tcell.EventKey) {
	buf := e.buf
	shift := ev.Modifiers()&tcell.ModShift != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight,
		tcell.KeyHome, tcell.KeyEnd, tcell.KeyPgUp, tcell.KeyPgDn:
		e.moveCursor(ev.Key(), shift, ctrl)
	case tcell.KeyEnter:
		buf.InsertNewline()
		e.selectionAnchor = nil
	case tcell.KeyTab:
		buf.InsertTab()
		e.selectionAnchor = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		buf.Backspace()
		e.selectionAnchor = nil
	case tcell.KeyDelete:
		buf.Delete()
		e.selectionAnchor = nil
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return
		}
		if ev.Rune() == '/' && ctrl {
			e.toggleComment()
			return
		}
		buf.InsertChar(ev.Rune())
		e.selectionAnchor = nil
	}
}

// moveCursor moves the cursor for a navigation key, extending the selection
// from its anchor when shift is held.
func (e *Editor) moveCursor(key tcell.Key, shift, ctrl bool) {
	buf := e.buf
	if shift {
		if e.selectionAnchor == nil {
			anchor := buf.Cursor
			if buf.HasSelection() {
				anchor = buf.Selection.Start
				if buf.Cursor.Equal(buf.Selection.Start) {
					anchor = buf.Selection.End
				}
			}
			e.selectionAnchor = &anchor
		}
	} else {
		if buf.HasSelection() && (key == tcell.KeyLeft || key == tcell.KeyRight) {
			// Collapse to the matching edge of the selection.
			if key == tcell.KeyLeft {
				buf.Cursor = buf.Selection.Start
			} else {
				buf.Cursor = buf.Selection.End
			}
			buf.Selection = nil
			e.selectionAnchor = nil
			return
		}
		buf.Selection = nil
		e.selectionAnchor = nil
	}

	c := buf.Cursor
	_, _, _, pageH := e.editorLayout()
	switch key {
	case tcell.KeyUp:
		if c.Line > 0 {
			c.Line--
		}
	case tcell.KeyDown:
		if c.Line < buf.LineCount()-1 {
			c.Line++
		}
	case tcell.KeyLeft:
		if ctrl {
			c = buf.PosAt(e.wordBoundary(buf.OffsetOf(c), -1))
		} else if off := buf.OffsetOf(c); off > 0 {
			c = buf.PosAt(off - 1)
		}
	case tcell.KeyRight:
		if ctrl {
			c = buf.PosAt(e.wordBoundary(buf.OffsetOf(c), 1))
		} else if off := buf.OffsetOf(c); off < buf.Len() {
			c = buf.PosAt(off + 1)
		}
	case tcell.KeyHome:
		if ctrl {
			c = buffer.Cursor{}
		} else {
			// Toggle between first non-blank and column 0.
			line := buf.Lines[c.Line]
			indent := buffer.RuneLen(line) - buffer.RuneLen(strings.TrimLeft(line, " \t"))
			if c.Col == indent {
				c.Col = 0
			} else {
				c.Col = indent
			}
		}
	case tcell.KeyEnd:
		if ctrl {
			c = buf.PosAt(buf.Len())
		} else {
			c.Col = buffer.RuneLen(buf.Lines[c.Line])
		}
	case tcell.KeyPgUp:
		c.Line -= pageH
		if c.Line < 0 {
			c.Line = 0
		}
	case tcell.KeyPgDn:
		c.Line += pageH
		if c.Line >= buf.LineCount() {
			c.Line = buf.LineCount() - 1
		}
	}
	if n := buffer.RuneLen(buf.Lines[c.Line]); c.Col > n {
		c.Col = n
	}
	buf.Cursor = c

	if shift && e.selectionAnchor != nil {
		sel := buffer.NewSelection(*e.selectionAnchor, c)
		buf.Selection = &sel
	}
}

// wordBoundary scans from off in direction dir past non-word runes and then
// past word runes.
func (e *Editor) wordBoundary(off, dir int) int {
	text := []rune(e.buf.Text())
	if dir < 0 {
		for off > 0 && !buffer.IsWordRune(text[off-1]) {
			off--
		}
		for off > 0 && buffer.IsWordRune(text[off-1]) {
			off--
		}
		return off
	}
	for off < len(text) && !buffer.IsWordRune(text[off]) {
		off++
	}
	for off < len(text) && buffer.IsWordRune(text[off]) {
		off++
	}
	return off
}

func (e *Editor) requestQuit() {
	if e.buf.Dirty && !e.quitPending {
		e.quitPending = true
		e.setTemporaryError("Unsaved changes! Press Ctrl+Q again to quit")
		return
	}
	e.quit = true
}

func (e *Editor) copySelection() {
	text := e.buf.GetSelectedText()
	if text == "" {
		// Copy the whole line when nothing is selected.
		_, line := e.buf.CursorLine()
		text = line + "\n"
	}
	clipboardx.Write(text)
	e.setTemporaryMessage("Copied")
}

func (e *Editor) cutSelection() {
	if !e.buf.HasSelection() {
		start, line := e.buf.CursorLine()
		end := start + buffer.RuneLen(line)
		if end < e.buf.Len() {
			end++
		}
		e.buf.SetSelection(start, end)
	}
	clipboardx.Write(e.buf.GetSelectedText())
	e.buf.DeleteSelection()
	e.selectionAnchor = nil
}

func (e *Editor) paste() {
	text := clipboardx.Read()
	if text == "" {
		return
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	e.buf.InsertText(text)
	e.selectionAnchor = nil
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	mx, my := ev.Position()
	btn := ev.Buttons()
	_, ey, _, eh := e.editorLayout()

	if btn&tcell.WheelUp != 0 || btn&tcell.WheelDown != 0 {
		delta := 3
		if btn&tcell.WheelUp != 0 {
			delta = -3
		}
		if ox, oy, ow, oh := e.outputLayout(); oh > 0 && mx >= ox && mx < ox+ow && my >= oy && my < oy+oh {
			e.output.Scroll(-delta)
			return
		}
		e.mouseScrolling = true
		e.view.scrollY += delta
		if max := e.buf.LineCount() - 1; e.view.scrollY > max {
			e.view.scrollY = max
		}
		if e.view.scrollY < 0 {
			e.view.scrollY = 0
		}
		return
	}

	if btn&tcell.Button1 == 0 {
		e.mouseDown = false
		return
	}
	if my < ey || my >= ey+eh {
		return
	}
	e.findFocused = false
	e.mouseScrolling = false
	line := e.view.scrollY + my - ey
	if line >= e.buf.LineCount() {
		line = e.buf.LineCount() - 1
	}
	gw := e.gutterWidth()
	dcol := mx - gw + e.view.scrollX
	if dcol < 0 {
		dcol = 0
	}
	pos := buffer.Cursor{Line: line, Col: e.displayColToBufferCol(e.buf.Lines[line], dcol)}

	if e.mouseDown && e.selectionAnchor != nil {
		sel := buffer.NewSelection(*e.selectionAnchor, pos)
		e.buf.Selection = &sel
		e.buf.Cursor = pos
		return
	}
	e.mouseDown = true
	e.buf.Selection = nil
	e.buf.Cursor = pos
	anchor := pos
	e.selectionAnchor = &anchor
}
