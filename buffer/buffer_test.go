package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestOffsetRoundTrip(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("héllo\n\nwörld")

	tests := []struct {
		offset int
		pos    Cursor
	}{
		{0, Cursor{0, 0}},
		{5, Cursor{0, 5}},
		{6, Cursor{1, 0}},
		{7, Cursor{2, 0}},
		{12, Cursor{2, 5}},
	}
	for _, tt := range tests {
		if got := b.PosAt(tt.offset); got != tt.pos {
			t.Fatalf("PosAt(%d) = %+v, want %+v", tt.offset, got, tt.pos)
		}
		if got := b.OffsetOf(tt.pos); got != tt.offset {
			t.Fatalf("OffsetOf(%+v) = %d, want %d", tt.pos, got, tt.offset)
		}
	}
	if b.Len() != 12 {
		t.Fatalf("expected length 12, got %d", b.Len())
	}
	if got := b.TextRange(1, 9); got != "éllo\n\nwö" {
		t.Fatalf("unexpected range text %q", got)
	}
}

func TestReplaceRangeMovesCursorWithText(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("abc def")
	b.SetCursorOffset(5)

	b.ReplaceRange(0, 3, "xxxxx")
	if got := b.CursorOffset(); got != 7 {
		t.Fatalf("cursor after growth at front: got %d, want 7", got)
	}

	b.ReplaceRange(6, 9, "")
	if got := b.CursorOffset(); got != 6 {
		t.Fatalf("cursor inside removed range: got %d, want 6", got)
	}
	if got := b.Text(); got != "xxxxx " {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestChangeNotifications(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("a\nb\nc")

	var changes []Change
	var counts []int
	b.OnChange(func(c Change) { changes = append(changes, c) })
	b.OnLineCountChanged(func(n int) { counts = append(counts, n) })

	b.ReplaceRange(2, 2, "x") // a\nxb\nc
	b.ReplaceRange(3, 3, "\n\n")

	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0] != (Change{StartLine: 1, OldEndLine: 1, NewEndLine: 1}) {
		t.Fatalf("unexpected first change %+v", changes[0])
	}
	if changes[1] != (Change{StartLine: 1, OldEndLine: 1, NewEndLine: 3}) {
		t.Fatalf("unexpected second change %+v", changes[1])
	}
	if len(counts) != 1 || counts[0] != 5 {
		t.Fatalf("expected a single count notification of 5, got %v", counts)
	}
}

func TestAtomicEditNotifiesOnce(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("l0\nl1\nl2\nl3\nl4\nl5")

	var changes []Change
	var counts []int
	b.OnChange(func(c Change) { changes = append(changes, c) })
	b.OnLineCountChanged(func(n int) { counts = append(counts, n) })

	b.BeginAtomicEdit()
	b.ReplaceRange(b.LineStart(4), b.LineStart(4), "new\n") // insert before l4
	b.ReplaceRange(b.LineStart(1), b.LineStart(2), "")      // remove l1
	if len(changes) != 0 {
		t.Fatalf("observers must not see intermediate state")
	}
	b.EndAtomicEdit()

	if len(changes) != 1 {
		t.Fatalf("expected one folded change, got %d", len(changes))
	}
	want := Change{StartLine: 1, OldEndLine: 4, NewEndLine: 4}
	if changes[0] != want {
		t.Fatalf("folded change = %+v, want %+v", changes[0], want)
	}
	if len(counts) != 0 {
		t.Fatalf("line count unchanged overall, got notifications %v", counts)
	}
	if got := b.Text(); got != "l0\nl2\nl3\nnew\nl4\nl5" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestFindNext(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("Cat cat CAT concat")

	var starts []int
	for from := 0; ; {
		r, ok := b.FindNext("cat", from, FindOptions{})
		if !ok {
			break
		}
		starts = append(starts, r.Start)
		from = r.End
	}
	if len(starts) != 4 || starts[0] != 0 || starts[1] != 4 || starts[2] != 8 || starts[3] != 15 {
		t.Fatalf("case-insensitive starts = %v", starts)
	}

	r, ok := b.FindNext("cat", 0, FindOptions{CaseSensitive: true})
	if !ok || r.Start != 4 {
		t.Fatalf("case-sensitive match = %+v %v", r, ok)
	}

	r, ok = b.FindNext("cat", 9, FindOptions{WholeWord: true})
	if ok {
		t.Fatalf("whole word must skip 'concat', got %+v", r)
	}

	if _, ok := b.FindNext("", 0, FindOptions{}); ok {
		t.Fatalf("empty query must not match")
	}
}

func TestStylesArePresentationOnly(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("one\ntwo")
	style := tcell.StyleDefault.Background(tcell.ColorBlue)

	b.ApplyStyle(2, 6, style)
	if b.Text() != "one\ntwo" {
		t.Fatalf("styling changed the text")
	}
	first := b.LineStyles(0)
	if len(first) != 1 || first[0].Start != 2 || first[0].End != 3 {
		t.Fatalf("unexpected styles on line 0: %+v", first)
	}
	second := b.LineStyles(1)
	if len(second) != 1 || second[0].Start != 0 || second[0].End != 2 {
		t.Fatalf("unexpected styles on line 1: %+v", second)
	}

	b.ClearStyles()
	if len(b.StyleSpans()) != 0 {
		t.Fatalf("expected no styles after clear")
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("first\nsecond")
	b.SetSelection(2, 9)

	start, end, text := b.CurrentSelection()
	if start != 2 || end != 9 || text != "rst\nsec" {
		t.Fatalf("selection = %d %d %q", start, end, text)
	}
	if b.Cursor != (Cursor{Line: 1, Col: 3}) {
		t.Fatalf("cursor should sit at selection end, got %+v", b.Cursor)
	}

	b.SetCursorOffset(8)
	ls, line := b.CursorLine()
	if ls != 6 || line != "second" {
		t.Fatalf("cursor line = %d %q", ls, line)
	}
}

func TestNewlineCarriesIndent(t *testing.T) {
	b := NewBuffer(4)
	b.SetText("    if x:")
	b.SetCursorOffset(b.Len())
	b.InsertNewline()
	if got := b.Lines[1]; got != "        " {
		t.Fatalf("expected 8 spaces of indent, got %q", got)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	if err := os.WriteFile(path, []byte("x = 1\r\ny = 2\r\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	b, err := NewBufferFromFile(path, 4)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.LineCount() != 2 || b.LineEnding != "CRLF" || b.Dirty {
		t.Fatalf("unexpected buffer state: lines=%d eol=%s dirty=%v", b.LineCount(), b.LineEnding, b.Dirty)
	}

	b.InsertText("# ")
	if !b.Dirty {
		t.Fatalf("expected dirty after edit")
	}
	if err := b.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "# x = 1\r\ny = 2\r\n" {
		t.Fatalf("unexpected file content %q", data)
	}

	bin := filepath.Join(dir, "blob")
	os.WriteFile(bin, []byte{'a', 0, 'b'}, 0o644)
	if _, err := NewBufferFromFile(bin, 4); !errors.Is(err, ErrBinaryFile) {
		t.Fatalf("expected ErrBinaryFile, got %v", err)
	}
}
