// Package search finds every occurrence of a query in a document, walks
// through them with wraparound and replaces them all in one edit.
package search

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"notepad/buffer"
)

// Document is the part of the buffer the engine reads, edits and paints.
type Document interface {
	FindNext(query string, from int, opts buffer.FindOptions) (buffer.Range, bool)
	ReplaceRange(start, end int, text string)
	BeginAtomicEdit()
	EndAtomicEdit()
	ApplyStyle(start, end int, style tcell.Style)
	ClearStyles()
	SetCursorOffset(offset int)
}

type Options struct {
	CaseSensitive bool
	WholeWord     bool
}

// Tag is the highlight state of one occurrence.
type Tag int

const (
	Unselected Tag = iota
	Previous       // current, reached with GoToPrevious
	Current        // current, reached with GoToNext
)

type State int

const (
	Idle State = iota
	Searching
	HasResults
	Navigating
	ReplacingAll
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case HasResults:
		return "has-results"
	case Navigating:
		return "navigating"
	case ReplacingAll:
		return "replacing-all"
	}
	return "unknown"
}

// Occurrence is one match, in offsets taken when the search ran.
type Occurrence struct {
	buffer.Range
	Tag Tag
}

// Palette holds the styles painted over occurrences.
type Palette struct {
	Match    tcell.Style
	Next     tcell.Style
	Previous tcell.Style
}

func DefaultPalette() Palette {
	return Palette{
		Match:    tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite),
		Next:     tcell.StyleDefault.Background(tcell.ColorDarkCyan).Foreground(tcell.ColorBlack),
		Previous: tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
	}
}

// Engine owns the occurrence list of one document. selected is 1-based and
// zero when there are no occurrences.
type Engine struct {
	doc     Document
	palette Palette

	query       string
	opts        Options
	occurrences []Occurrence
	selected    int
	state       State

	replacing bool
}

func New(doc Document, palette Palette) *Engine {
	return &Engine{doc: doc, palette: palette}
}

// Search drops the previous results and scans the whole document for
// query. The last match becomes current and the cursor moves to it.
func (e *Engine) Search(query string, opts Options) int {
	e.Clear()
	e.query = query
	e.opts = opts
	if query == "" {
		return 0
	}

	e.state = Searching
	fo := buffer.FindOptions{CaseSensitive: opts.CaseSensitive, WholeWord: opts.WholeWord}
	for from := 0; ; {
		r, ok := e.doc.FindNext(query, from, fo)
		if !ok {
			break
		}
		e.occurrences = append(e.occurrences, Occurrence{Range: r})
		e.doc.ApplyStyle(r.Start, r.End, e.palette.Match)
		from = r.End
	}
	if len(e.occurrences) == 0 {
		e.state = Idle
		return 0
	}

	e.state = HasResults
	e.selected = len(e.occurrences)
	e.doc.SetCursorOffset(e.occurrences[e.selected-1].Start)
	return len(e.occurrences)
}

// SetCaseSensitive reruns the current query with the new flag.
func (e *Engine) SetCaseSensitive(on bool) {
	opts := e.opts
	opts.CaseSensitive = on
	e.Search(e.query, opts)
}

func (e *Engine) SetWholeWord(on bool) {
	opts := e.opts
	opts.WholeWord = on
	e.Search(e.query, opts)
}

func (e *Engine) GoToNext() {
	if len(e.occurrences) == 0 {
		return
	}
	next := e.selected + 1
	if next > len(e.occurrences) {
		next = 1
	}
	e.moveTo(next, Current)
}

func (e *Engine) GoToPrevious() {
	if len(e.occurrences) == 0 {
		return
	}
	prev := e.selected - 1
	if prev < 1 {
		prev = len(e.occurrences)
	}
	e.moveTo(prev, Previous)
}

func (e *Engine) moveTo(idx int, tag Tag) {
	if e.selected > 0 {
		e.occurrences[e.selected-1].Tag = Unselected
	}
	e.selected = idx
	e.occurrences[idx-1].Tag = tag
	e.state = Navigating
	e.repaint()
	e.doc.SetCursorOffset(e.occurrences[idx-1].Start)
}

// repaint redraws every occurrence so the style layer holds one span each.
func (e *Engine) repaint() {
	e.doc.ClearStyles()
	for _, o := range e.occurrences {
		e.doc.ApplyStyle(o.Start, o.End, e.styleFor(o.Tag))
	}
}

func (e *Engine) styleFor(tag Tag) tcell.Style {
	switch tag {
	case Current:
		return e.palette.Next
	case Previous:
		return e.palette.Previous
	}
	return e.palette.Match
}

// ReplaceAll replaces every occurrence with text as one undoable edit and
// returns how many were replaced. Occurrences are rewritten from the last
// to the first so earlier offsets stay valid.
func (e *Engine) ReplaceAll(text string) int {
	if text == "" || len(e.occurrences) == 0 {
		return 0
	}
	e.state = ReplacingAll
	e.replacing = true
	e.doc.BeginAtomicEdit()
	for i := len(e.occurrences) - 1; i >= 0; i-- {
		o := e.occurrences[i]
		e.doc.ReplaceRange(o.Start, o.End, text)
	}
	e.doc.EndAtomicEdit()
	e.replacing = false

	n := len(e.occurrences)
	e.Clear()
	return n
}

// RemoveHighlights resets the document's presentation styling.
func (e *Engine) RemoveHighlights() {
	e.doc.ClearStyles()
}

// Clear removes highlights and forgets the occurrences. The query is kept
// so the flag setters can rerun it.
func (e *Engine) Clear() {
	e.RemoveHighlights()
	e.occurrences = nil
	e.selected = 0
	e.state = Idle
}

// DocumentChanged is the buffer change observer. Occurrence offsets are
// stale after any edit the engine did not make itself.
func (e *Engine) DocumentChanged() {
	if e.replacing || len(e.occurrences) == 0 {
		return
	}
	e.occurrences = nil
	e.selected = 0
	e.state = Idle
}

// Counter is the "current / total" text shown next to the query.
func (e *Engine) Counter() string {
	return fmt.Sprintf("%d / %d", e.selected, len(e.occurrences))
}

func (e *Engine) Selected() int { return e.selected }

func (e *Engine) Occurrences() []Occurrence {
	out := make([]Occurrence, len(e.occurrences))
	copy(out, e.occurrences)
	return out
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Query() string { return e.query }

func (e *Engine) Options() Options { return e.opts }
