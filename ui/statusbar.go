package ui

import (
	"fmt"

	"notepad/config"

	"github.com/gdamore/tcell/v2"
)

type StatusBar struct {
	Mode     string // "EDIT", "FIND" or "RUN"
	Filename string
	Modified bool
	Line     int // zero-based
	Col      int // zero-based
	Language string
	LineEnd  string
	TabInfo  string // "Tabs" or "Spaces: 4"
	Message  string // temporary status message
	IsError  bool
	Theme    *config.ColorScheme
}

func NewStatusBar() *StatusBar {
	return &StatusBar{
		Mode:    "EDIT",
		LineEnd: "LF",
	}
}

// Position is the cursor text shown on the right, 1-based.
func (s *StatusBar) Position() string {
	return fmt.Sprintf("LN: %d, COL: %d", s.Line+1, s.Col+1)
}

func (s *StatusBar) Render(screen tcell.Screen, x, y, width, height int) {
	theme := s.Theme
	if theme == nil {
		theme = config.Themes["dark"]
	}
	style := tcell.StyleDefault.Background(theme.StatusBarBg).Foreground(theme.StatusBarFg)
	modeStyle := style.Reverse(true).Bold(true)
	maxX := x + width

	fillRow(screen, x, y, width, style)
	col := drawText(screen, x, y, maxX, " "+s.Mode+" ", modeStyle)
	col++

	if s.Message != "" {
		msgStyle := style
		if s.IsError {
			msgStyle = style.Foreground(tcell.ColorRed).Bold(true)
		}
		drawText(screen, col, y, maxX, s.Message, msgStyle)
		return
	}

	name := s.Filename
	if name == "" {
		name = "untitled"
	}
	if s.Modified {
		name += " [+]"
	}
	col = drawText(screen, col, y, maxX, name, style)

	tabInfo := s.TabInfo
	if tabInfo == "" {
		tabInfo = "Spaces: 4"
	}
	lang := s.Language
	if lang == "" {
		lang = "Plain Text"
	}
	right := fmt.Sprintf("%s │ %s │ %s │ %s ", s.Position(), lang, s.LineEnd, tabInfo)
	if start := maxX - textWidth(right); start > col+2 {
		drawText(screen, start, y, maxX, right, style)
	}
}
