package ui

import (
	"strings"

	"notepad/config"

	"github.com/gdamore/tcell/v2"
)

const maxOutputLines = 2000

// OutputPane shows the output of the last run. It keeps plain text only:
// carriage returns and terminal escape sequences are dropped.
type OutputPane struct {
	Title   string
	Running bool
	Theme   *config.ColorScheme

	lines   []string
	partial strings.Builder
	escape  int // 0 outside a sequence, 1 after ESC, 2 inside CSI
	scroll  int // lines scrolled up from the bottom
}

func NewOutputPane() *OutputPane {
	return &OutputPane{}
}

// Reset clears the pane for a new run.
func (o *OutputPane) Reset(title string) {
	o.Title = title
	o.lines = nil
	o.partial.Reset()
	o.escape = 0
	o.scroll = 0
}

// Append adds raw process output.
func (o *OutputPane) Append(data []byte) {
	for _, ch := range string(data) {
		switch o.escape {
		case 1:
			if ch == '[' {
				o.escape = 2
			} else {
				o.escape = 0
			}
			continue
		case 2:
			if ch >= 0x40 && ch <= 0x7e {
				o.escape = 0
			}
			continue
		}
		switch ch {
		case 0x1b:
			o.escape = 1
		case '\r':
		case '\n':
			o.pushLine(o.partial.String())
			o.partial.Reset()
		case '\t':
			o.partial.WriteString("    ")
		default:
			if ch >= ' ' {
				o.partial.WriteRune(ch)
			}
		}
	}
}

// Finish flushes a trailing unterminated line and appends a status line.
func (o *OutputPane) Finish(status string) {
	if o.partial.Len() > 0 {
		o.pushLine(o.partial.String())
		o.partial.Reset()
	}
	if status != "" {
		o.pushLine(status)
	}
	o.Running = false
}

func (o *OutputPane) pushLine(s string) {
	o.lines = append(o.lines, s)
	if over := len(o.lines) - maxOutputLines; over > 0 {
		o.lines = o.lines[over:]
	}
}

// Lines returns the completed lines plus the partial one, if any.
func (o *OutputPane) Lines() []string {
	out := make([]string, len(o.lines), len(o.lines)+1)
	copy(out, o.lines)
	if o.partial.Len() > 0 {
		out = append(out, o.partial.String())
	}
	return out
}

// Scroll moves the view by delta lines; positive scrolls back in history.
func (o *OutputPane) Scroll(delta int) {
	o.scroll += delta
	if o.scroll < 0 {
		o.scroll = 0
	}
	if max := len(o.lines); o.scroll > max {
		o.scroll = max
	}
}

func (o *OutputPane) Render(screen tcell.Screen, x, y, width, height int) {
	if height <= 0 {
		return
	}
	theme := o.Theme
	if theme == nil {
		theme = config.Themes["dark"]
	}
	style := tcell.StyleDefault.Background(theme.OutputBg).Foreground(theme.OutputFg)
	header := tcell.StyleDefault.Background(theme.StatusBarBg).Foreground(theme.StatusBarFg).Bold(true)
	maxX := x + width

	title := " Output"
	if o.Title != "" {
		title += ": " + o.Title
	}
	if o.Running {
		title += " [running]"
	}
	fillRow(screen, x, y, width, header)
	drawText(screen, x, y, maxX, title, header)

	lines := o.Lines()
	rows := height - 1
	end := len(lines) - o.scroll
	start := end - rows
	if start < 0 {
		start = 0
	}
	for r := 0; r < rows; r++ {
		fillRow(screen, x, y+1+r, width, style)
		if i := start + r; i < end {
			drawText(screen, x+1, y+1+r, maxX, lines[i], style)
		}
	}
}
