package buffer

import "github.com/gdamore/tcell/v2"

// StyleSpan is a presentation-only style over a document range. Later spans
// win where they overlap.
type StyleSpan struct {
	Range
	Style tcell.Style
}

// ApplyStyle paints [start, end) without changing the text. Text edits drop
// all spans; their owner repaints what is still valid.
func (b *Buffer) ApplyStyle(start, end int, style tcell.Style) {
	start, end = b.clampRange(start, end)
	if start == end {
		return
	}
	b.styles = append(b.styles, StyleSpan{Range: Range{Start: start, End: end}, Style: style})
}

// ClearStyles resets the presentation layer of the whole document.
func (b *Buffer) ClearStyles() {
	b.styles = nil
}

func (b *Buffer) StyleSpans() []StyleSpan {
	out := make([]StyleSpan, len(b.styles))
	copy(out, b.styles)
	return out
}

// LineStyles returns the spans touching line with columns relative to the
// line start, in paint order.
func (b *Buffer) LineStyles(line int) []StyleSpan {
	if len(b.styles) == 0 || line < 0 || line >= len(b.Lines) {
		return nil
	}
	ls := b.LineStart(line)
	le := ls + RuneLen(b.Lines[line])
	var out []StyleSpan
	for _, s := range b.styles {
		if s.End <= ls || s.Start > le {
			continue
		}
		start := s.Start - ls
		if start < 0 {
			start = 0
		}
		end := s.End - ls
		if end > le-ls {
			end = le - ls
		}
		if start >= end {
			continue
		}
		out = append(out, StyleSpan{Range: Range{Start: start, End: end}, Style: s.Style})
	}
	return out
}
