package ui

import (
	"notepad/config"

	"github.com/gdamore/tcell/v2"
)

// Prompt is a one-line input shown over the status bar, used for the
// save-as file name.
type Prompt struct {
	Label string
	input field
	Theme *config.ColorScheme

	OnSubmit func(value string)
	OnCancel func()
}

func NewPrompt(label, initial string) *Prompt {
	p := &Prompt{Label: label}
	p.input.Set(initial)
	return p
}

func (p *Prompt) Value() string { return p.input.String() }

func (p *Prompt) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		if p.OnCancel != nil {
			p.OnCancel()
		}
		return true
	case tcell.KeyEnter:
		if p.OnSubmit != nil {
			p.OnSubmit(p.input.String())
		}
		return true
	}
	_, handled := p.input.handleKey(ev)
	return handled
}

func (p *Prompt) Render(screen tcell.Screen, x, y, width, height int) {
	theme := p.Theme
	if theme == nil {
		theme = config.Themes["dark"]
	}
	style := tcell.StyleDefault.Background(theme.FindBarBg).Foreground(theme.FindBarFg)
	fillRow(screen, x, y, width, style)
	col := drawText(screen, x, y, x+width, " "+p.Label, style.Foreground(tcell.ColorYellow).Bold(true))
	p.input.render(screen, col, y, x+width, style, true)
}
