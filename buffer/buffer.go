package buffer

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrBinaryFile   = errors.New("binary file")
)

const maxFileSize = 100 * 1024 * 1024

// Change describes one settled edit in line coordinates: lines
// [StartLine, OldEndLine] of the previous content became lines
// [StartLine, NewEndLine] of the current content.
type Change struct {
	StartLine  int
	OldEndLine int
	NewEndLine int
}

// Buffer is the document: an ordered slice of lines plus cursor, selection,
// undo history and a presentation layer of styled spans. Offsets used by
// the public API count runes across the whole document, with one rune per
// line break.
type Buffer struct {
	Lines        []string
	Path         string
	Cursor       Cursor
	Selection    *Selection
	Dirty        bool
	Undo         *UndoStack
	Language     string
	TabSize      int
	UseTabs      bool
	LineEnding   string // "LF" or "CRLF", preserved on save
	LastSaveTime time.Time
	// File changed on disk while the buffer had unsaved changes.
	ExternallyModified bool

	styles []StyleSpan

	changeObservers []func(Change)
	countObservers  []func(int)

	// atomic edit state
	holdDepth     int
	holdCount     int
	atomicGroup   int
	pending       bool
	pendingStart  int
	pendingSuffix int

	lineStarts []int  // rune offset of every line start, nil when stale
	flat       []rune // whole text, nil when stale

	savedSnapshot string
}

func NewBuffer(tabSize int) *Buffer {
	return &Buffer{
		Lines:      []string{""},
		Undo:       NewUndoStack(),
		TabSize:    tabSize,
		LineEnding: "LF",
	}
}

func NewBufferFromFile(path string, tabSize int) (*Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// New file: empty buffer bound to the path.
			b := NewBuffer(tabSize)
			b.Path = path
			return b, nil
		}
		return nil, err
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%w (%d MB), max supported is %d MB", ErrFileTooLarge, info.Size()/(1024*1024), maxFileSize/(1024*1024))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Binary file detection: check first 8KB for null bytes
	checkLen := len(data)
	if checkLen > 8192 {
		checkLen = 8192
	}
	for i := 0; i < checkLen; i++ {
		if data[i] == 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrBinaryFile)
		}
	}

	b := NewBuffer(tabSize)
	b.Path = path
	if strings.Contains(string(data), "\r\n") {
		b.LineEnding = "CRLF"
	}
	b.SetText(strings.TrimRight(string(data), "\r\n"))
	b.TabSize, b.UseTabs = DetectIndentation(b.Lines, tabSize)
	b.MarkSaved()
	b.LastSaveTime = info.ModTime()
	return b, nil
}

// DetectIndentation guesses the indent unit from leading whitespace.
// It returns fallback spaces when nothing is indented.
func DetectIndentation(lines []string, fallback int) (int, bool) {
	tabLines, spaceLines := 0, 0
	counts := map[int]int{}
	for _, line := range lines {
		if line == "" {
			continue
		}
		if line[0] == '\t' {
			tabLines++
			continue
		}
		n := 0
		for n < len(line) && line[n] == ' ' {
			n++
		}
		if n >= 2 && n < len(line) {
			spaceLines++
			for _, w := range []int{8, 4, 2} {
				if n%w == 0 {
					counts[w]++
					break
				}
			}
		}
	}
	if tabLines > spaceLines {
		return fallback, true
	}
	if spaceLines == 0 {
		return fallback, false
	}
	best, bestCount := fallback, 0
	for _, w := range []int{2, 4, 8} {
		if counts[w] > bestCount {
			best, bestCount = w, counts[w]
		}
	}
	return best, false
}

// OnChange registers fn to run after every settled edit.
func (b *Buffer) OnChange(fn func(Change)) {
	b.changeObservers = append(b.changeObservers, fn)
}

// OnLineCountChanged registers fn to run after every settled edit that
// changed the number of lines. fn receives the new total.
func (b *Buffer) OnLineCountChanged(fn func(int)) {
	b.countObservers = append(b.countObservers, fn)
}

func (b *Buffer) LineCount() int { return len(b.Lines) }

func (b *Buffer) Text() string {
	return strings.Join(b.Lines, "\n")
}

// SetText replaces the whole document and resets history, cursor and styles.
func (b *Buffer) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	oldCount := len(b.Lines)
	oldEnd := oldCount - 1
	b.Lines = strings.Split(text, "\n")
	b.Cursor = Cursor{}
	b.Selection = nil
	b.Undo = NewUndoStack()
	b.invalidate()
	b.notify(Change{StartLine: 0, OldEndLine: oldEnd, NewEndLine: len(b.Lines) - 1}, oldCount)
}

// Len returns the document length in runes.
func (b *Buffer) Len() int {
	starts := b.starts()
	last := len(b.Lines) - 1
	return starts[last] + RuneLen(b.Lines[last])
}

func (b *Buffer) starts() []int {
	if b.lineStarts == nil {
		b.lineStarts = make([]int, len(b.Lines))
		off := 0
		for i, line := range b.Lines {
			b.lineStarts[i] = off
			off += RuneLen(line) + 1
		}
	}
	return b.lineStarts
}

func (b *Buffer) runes() []rune {
	if b.flat == nil {
		b.flat = []rune(b.Text())
	}
	return b.flat
}

func (b *Buffer) invalidate() {
	b.lineStarts = nil
	b.flat = nil
	b.styles = nil
}

// LineStart returns the offset of the first rune of line.
func (b *Buffer) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(b.Lines) {
		return b.Len()
	}
	return b.starts()[line]
}

// OffsetOf converts a position to a document offset, clamping it first.
func (b *Buffer) OffsetOf(c Cursor) int {
	c = b.clamp(c)
	return b.starts()[c.Line] + c.Col
}

// PosAt converts a document offset to a position.
func (b *Buffer) PosAt(offset int) Cursor {
	if offset <= 0 {
		return Cursor{}
	}
	starts := b.starts()
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	col := offset - starts[line]
	if n := RuneLen(b.Lines[line]); col > n {
		col = n
	}
	return Cursor{Line: line, Col: col}
}

func (b *Buffer) clamp(c Cursor) Cursor {
	if c.Line < 0 {
		return Cursor{}
	}
	if c.Line >= len(b.Lines) {
		last := len(b.Lines) - 1
		return Cursor{Line: last, Col: RuneLen(b.Lines[last])}
	}
	if c.Col < 0 {
		c.Col = 0
	}
	if n := RuneLen(b.Lines[c.Line]); c.Col > n {
		c.Col = n
	}
	return c
}

func (b *Buffer) clampCursor() {
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
		b.invalidate()
	}
	b.Cursor = b.clamp(b.Cursor)
}

func (b *Buffer) clampRange(start, end int) (int, int) {
	if start > end {
		start, end = end, start
	}
	n := b.Len()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}
	return start, end
}

// TextRange returns the text between two offsets.
func (b *Buffer) TextRange(start, end int) string {
	start, end = b.clampRange(start, end)
	return string(b.runes()[start:end])
}

// BeginAtomicEdit opens an edit transaction. Every mutation until the
// matching EndAtomicEdit is undone as one step and observers see a single
// change once the outermost transaction ends. Transactions nest.
func (b *Buffer) BeginAtomicEdit() {
	if b.holdDepth == 0 {
		b.atomicGroup = b.Undo.NewGroup()
	}
	b.hold()
}

func (b *Buffer) EndAtomicEdit() {
	if b.holdDepth == 1 {
		b.atomicGroup = 0
	}
	b.release()
}

func (b *Buffer) hold() {
	if b.holdDepth == 0 {
		b.holdCount = len(b.Lines)
		b.pending = false
	}
	b.holdDepth++
}

func (b *Buffer) release() {
	if b.holdDepth == 0 {
		return
	}
	b.holdDepth--
	if b.holdDepth > 0 || !b.pending {
		return
	}
	b.pending = false
	c := Change{
		StartLine:  b.pendingStart,
		OldEndLine: b.holdCount - b.pendingSuffix - 1,
		NewEndLine: len(b.Lines) - b.pendingSuffix - 1,
	}
	b.notify(c, b.holdCount)
}

// notify delivers c, or folds it into the pending change while a
// transaction is open. Lines before StartLine and after the end lines are
// untouched, so the folded change keeps the smallest prefix and suffix.
func (b *Buffer) notify(c Change, oldCount int) {
	if b.holdDepth > 0 {
		suffix := len(b.Lines) - c.NewEndLine - 1
		if !b.pending {
			b.pending = true
			b.pendingStart = c.StartLine
			b.pendingSuffix = suffix
			return
		}
		if c.StartLine < b.pendingStart {
			b.pendingStart = c.StartLine
		}
		if suffix < b.pendingSuffix {
			b.pendingSuffix = suffix
		}
		return
	}
	for _, fn := range b.changeObservers {
		fn(c)
	}
	if len(b.Lines) != oldCount {
		for _, fn := range b.countObservers {
			fn(len(b.Lines))
		}
	}
}

// ReplaceRange replaces the text between two offsets, recording undo and
// keeping the cursor anchored to the text it was on. The selection is
// dropped.
func (b *Buffer) ReplaceRange(start, end int, text string) {
	start, end = b.clampRange(start, end)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	removed := b.TextRange(start, end)
	if removed == "" && text == "" {
		return
	}

	before := b.Cursor
	group := b.atomicGroup
	if group == 0 && removed != "" && text != "" {
		group = b.Undo.NewGroup()
	}
	if removed != "" {
		b.record(Operation{Type: OpDelete, Offset: start, Text: removed, Before: before}, group)
	}
	if text != "" {
		b.record(Operation{Type: OpInsert, Offset: start, Text: text, Before: before}, group)
	}

	cur := b.OffsetOf(b.Cursor)
	inserted := RuneLen(text)
	switch {
	case cur >= end:
		cur += inserted - (end - start)
	case cur > start:
		cur = start + inserted
	}
	b.splice(start, end, text)
	b.Selection = nil
	b.Cursor = b.PosAt(cur)
	b.Dirty = true
}

func (b *Buffer) record(op Operation, group int) {
	if group != 0 {
		b.Undo.PushGrouped(op, group)
		return
	}
	b.Undo.Push(op)
}

// splice rewrites the lines covering [start, end) without touching history.
func (b *Buffer) splice(start, end int, text string) {
	sp := b.PosAt(start)
	ep := b.PosAt(end)
	first := b.Lines[sp.Line]
	last := b.Lines[ep.Line]
	merged := first[:byteIndex(first, sp.Col)] + text + last[byteIndex(last, ep.Col):]
	repl := strings.Split(merged, "\n")

	oldCount := len(b.Lines)
	if len(repl) == ep.Line-sp.Line+1 {
		copy(b.Lines[sp.Line:], repl)
	} else {
		lines := make([]string, 0, oldCount-(ep.Line-sp.Line+1)+len(repl))
		lines = append(lines, b.Lines[:sp.Line]...)
		lines = append(lines, repl...)
		lines = append(lines, b.Lines[ep.Line+1:]...)
		b.Lines = lines
	}
	b.invalidate()
	b.notify(Change{StartLine: sp.Line, OldEndLine: ep.Line, NewEndLine: sp.Line + len(repl) - 1}, oldCount)
}

// ApplyUndo reverts the newest undo group.
func (b *Buffer) ApplyUndo() bool {
	ops := b.Undo.PopUndo()
	if len(ops) == 0 {
		return false
	}
	b.hold()
	for _, op := range ops {
		switch op.Type {
		case OpInsert:
			b.splice(op.Offset, op.Offset+RuneLen(op.Text), "")
		case OpDelete:
			b.splice(op.Offset, op.Offset, op.Text)
		}
	}
	b.Cursor = b.clamp(ops[len(ops)-1].Before)
	b.Selection = nil
	b.Dirty = true
	b.release()
	return true
}

// ApplyRedo replays the next redo group.
func (b *Buffer) ApplyRedo() bool {
	ops := b.Undo.PopRedo()
	if len(ops) == 0 {
		return false
	}
	b.hold()
	cur := 0
	for _, op := range ops {
		switch op.Type {
		case OpInsert:
			b.splice(op.Offset, op.Offset, op.Text)
			cur = op.Offset + RuneLen(op.Text)
		case OpDelete:
			b.splice(op.Offset, op.Offset+RuneLen(op.Text), "")
			cur = op.Offset
		}
	}
	b.Cursor = b.PosAt(cur)
	b.Selection = nil
	b.Dirty = true
	b.release()
	return true
}

// CursorOffset returns the cursor as a document offset.
func (b *Buffer) CursorOffset() int {
	return b.OffsetOf(b.Cursor)
}

// SetCursorOffset moves the cursor and clears the selection.
func (b *Buffer) SetCursorOffset(offset int) {
	b.Selection = nil
	b.Cursor = b.PosAt(offset)
}

func (b *Buffer) HasSelection() bool {
	return b.Selection != nil && !b.Selection.Empty()
}

// CurrentSelection returns the selected span and its text. Without a
// selection both offsets are the cursor offset and text is empty.
func (b *Buffer) CurrentSelection() (start, end int, text string) {
	if !b.HasSelection() {
		off := b.CursorOffset()
		return off, off, ""
	}
	start = b.OffsetOf(b.Selection.Start)
	end = b.OffsetOf(b.Selection.End)
	return start, end, b.TextRange(start, end)
}

// SetSelection selects [start, end) and leaves the cursor at end.
func (b *Buffer) SetSelection(start, end int) {
	start, end = b.clampRange(start, end)
	if start == end {
		b.SetCursorOffset(start)
		return
	}
	sel := NewSelection(b.PosAt(start), b.PosAt(end))
	b.Selection = &sel
	b.Cursor = sel.End
}

// CursorLine returns the offset where the cursor's line starts and its text.
func (b *Buffer) CursorLine() (start int, text string) {
	b.clampCursor()
	return b.LineStart(b.Cursor.Line), b.Lines[b.Cursor.Line]
}

func (b *Buffer) GetSelectedText() string {
	_, _, text := b.CurrentSelection()
	return text
}

func (b *Buffer) SelectAll() {
	b.SetSelection(0, b.Len())
}

// InsertText replaces the selection, if any, with text at the cursor.
func (b *Buffer) InsertText(text string) {
	start, end, _ := b.CurrentSelection()
	b.ReplaceRange(start, end, text)
}

func (b *Buffer) InsertChar(ch rune) {
	b.InsertText(string(ch))
}

func (b *Buffer) InsertTab() {
	if b.UseTabs {
		b.InsertText("\t")
		return
	}
	b.InsertText(strings.Repeat(" ", b.TabSize))
}

// InsertNewline breaks the line, carrying its indentation and adding one
// level after a trailing ':'.
func (b *Buffer) InsertNewline() {
	b.clampCursor()
	line := b.Lines[b.Cursor.Line]
	indent := ""
	for _, ch := range line {
		if ch != ' ' && ch != '\t' {
			break
		}
		indent += string(ch)
	}
	head := line[:byteIndex(line, b.Cursor.Col)]
	if strings.HasSuffix(strings.TrimSpace(head), ":") {
		if b.UseTabs {
			indent += "\t"
		} else {
			indent += strings.Repeat(" ", b.TabSize)
		}
	}
	b.InsertText("\n" + indent)
}

func (b *Buffer) Backspace() {
	if b.DeleteSelection() {
		return
	}
	if off := b.CursorOffset(); off > 0 {
		b.ReplaceRange(off-1, off, "")
	}
}

func (b *Buffer) Delete() {
	if b.DeleteSelection() {
		return
	}
	if off := b.CursorOffset(); off < b.Len() {
		b.ReplaceRange(off, off+1, "")
	}
}

// DeleteSelection removes the selected text and reports whether there was any.
func (b *Buffer) DeleteSelection() bool {
	if !b.HasSelection() {
		b.Selection = nil
		return false
	}
	start, end, _ := b.CurrentSelection()
	b.ReplaceRange(start, end, "")
	return true
}

func (b *Buffer) Save() error {
	return b.SaveAs(b.Path)
}

// SaveAs writes the buffer with its original line endings and exactly one
// trailing newline, then binds the buffer to path.
func (b *Buffer) SaveAs(path string) error {
	if path == "" {
		return errors.New("no file name")
	}
	eol := "\n"
	if b.LineEnding == "CRLF" {
		eol = "\r\n"
	}
	content := strings.Join(b.Lines, eol)
	if content != "" {
		content += eol
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	b.Path = path
	b.MarkSaved()
	b.LastSaveTime = time.Now()
	return nil
}

func (b *Buffer) currentSnapshot() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Buffer) MarkSaved() {
	b.savedSnapshot = b.currentSnapshot()
	b.Dirty = false
	b.ExternallyModified = false
}

func (b *Buffer) RecomputeDirty() {
	b.Dirty = b.currentSnapshot() != b.savedSnapshot
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// byteIndex returns the byte offset of rune column col in s.
func byteIndex(s string, col int) int {
	if col <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == col {
			return i
		}
		n++
	}
	return len(s)
}
