package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawText writes s from column x, stopping before maxX, and returns the
// column after the last cell written. Wide runes take two cells.
func drawText(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) int {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			w = 1
		}
		if x+w > maxX {
			break
		}
		screen.SetContent(x, y, ch, nil, style)
		for i := 1; i < w; i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		x += w
	}
	return x
}

func fillRow(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for cx := x; cx < x+width; cx++ {
		screen.SetContent(cx, y, ' ', nil, style)
	}
}

// textWidth is the display width of s.
func textWidth(s string) int {
	return runewidth.StringWidth(s)
}
