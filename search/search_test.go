package search

import (
	"testing"

	"notepad/buffer"
)

func setup(text string) (*buffer.Buffer, *Engine) {
	b := buffer.NewBuffer(4)
	b.SetText(text)
	e := New(b, DefaultPalette())
	b.OnChange(func(buffer.Change) { e.DocumentChanged() })
	return b, e
}

func starts(e *Engine) []int {
	var out []int
	for _, o := range e.Occurrences() {
		out = append(out, o.Start)
	}
	return out
}

func TestSearchDeterminism(t *testing.T) {
	_, e := setup("Cat cat CAT")

	if n := e.Search("cat", Options{}); n != 3 {
		t.Fatalf("expected 3 matches, got %d", n)
	}
	got := starts(e)
	if len(got) != 3 || got[0] != 0 || got[1] != 4 || got[2] != 8 {
		t.Fatalf("unexpected starts %v", got)
	}

	e.SetCaseSensitive(true)
	got = starts(e)
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("case-sensitive starts %v", got)
	}
}

func TestInitialCurrentIsLastMatch(t *testing.T) {
	b, e := setup("ab ab ab")
	e.Search("ab", Options{})
	if e.Selected() != 3 || e.Counter() != "3 / 3" {
		t.Fatalf("selected=%d counter=%q", e.Selected(), e.Counter())
	}
	if b.CursorOffset() != 6 {
		t.Fatalf("cursor should be at last match, got %d", b.CursorOffset())
	}
	if e.State() != HasResults {
		t.Fatalf("unexpected state %v", e.State())
	}
	if len(b.StyleSpans()) != 3 {
		t.Fatalf("expected every match highlighted, got %d spans", len(b.StyleSpans()))
	}
}

func TestNavigationWraps(t *testing.T) {
	b, e := setup("x x x")
	e.Search("x", Options{})

	e.GoToNext()
	if e.Selected() != 1 || b.CursorOffset() != 0 {
		t.Fatalf("next from 3 should wrap to 1, got %d (cursor %d)", e.Selected(), b.CursorOffset())
	}
	if e.Occurrences()[0].Tag != Current {
		t.Fatalf("expected next-current tag")
	}

	e.GoToPrevious()
	if e.Selected() != 3 {
		t.Fatalf("previous from 1 should wrap to 3, got %d", e.Selected())
	}
	occ := e.Occurrences()
	if occ[0].Tag != Unselected || occ[2].Tag != Previous {
		t.Fatalf("unexpected tags %+v", occ)
	}
	if len(b.StyleSpans()) != 3 {
		t.Fatalf("repaint should keep one span per match, got %d", len(b.StyleSpans()))
	}
}

func TestSingleMatchWrapsToItself(t *testing.T) {
	_, e := setup("only one")
	e.Search("one", Options{})
	e.GoToNext()
	e.GoToPrevious()
	if e.Selected() != 1 || e.Counter() != "1 / 1" {
		t.Fatalf("unexpected counter %q", e.Counter())
	}
}

func TestNavigateWithoutResultsIsNoop(t *testing.T) {
	_, e := setup("abc")
	e.GoToNext()
	e.GoToPrevious()
	if e.Search("zzz", Options{}) != 0 || e.Counter() != "0 / 0" || e.State() != Idle {
		t.Fatalf("unexpected state after empty search: %q %v", e.Counter(), e.State())
	}
	if e.Search("", Options{}) != 0 {
		t.Fatalf("empty query must not match")
	}
}

func TestReplaceAllWithGrowth(t *testing.T) {
	b, e := setup("aa aa aa")
	e.Search("aa", Options{})

	if n := e.ReplaceAll("bbbb"); n != 3 {
		t.Fatalf("expected 3 replacements, got %d", n)
	}
	if got := b.Text(); got != "bbbb bbbb bbbb" {
		t.Fatalf("unexpected text %q", got)
	}
	if len(e.Occurrences()) != 0 || e.State() != Idle || len(b.StyleSpans()) != 0 {
		t.Fatalf("replace-all should leave no results or highlights")
	}

	b.ApplyUndo()
	if got := b.Text(); got != "aa aa aa" {
		t.Fatalf("replace-all should undo in one step, got %q", got)
	}
}

func TestReplaceAllNoops(t *testing.T) {
	b, e := setup("aa")
	if e.ReplaceAll("x") != 0 {
		t.Fatalf("replace without results must be a no-op")
	}
	e.Search("aa", Options{})
	if e.ReplaceAll("") != 0 || b.Text() != "aa" {
		t.Fatalf("empty replacement must be a no-op")
	}
}

func TestWholeWord(t *testing.T) {
	_, e := setup("cat concat cat_x cat")
	e.Search("cat", Options{WholeWord: true})
	got := starts(e)
	if len(got) != 2 || got[0] != 0 || got[1] != 17 {
		t.Fatalf("unexpected whole-word starts %v", got)
	}
}

func TestForeignEditInvalidates(t *testing.T) {
	b, e := setup("foo bar foo")
	e.Search("foo", Options{})
	b.SetCursorOffset(0)
	b.InsertText("x")

	if len(e.Occurrences()) != 0 || e.Selected() != 0 || e.State() != Idle {
		t.Fatalf("edit should invalidate occurrences")
	}
	if e.Query() != "foo" {
		t.Fatalf("query should survive invalidation")
	}
}

func TestRemoveHighlightsKeepsText(t *testing.T) {
	b, e := setup("foo foo")
	e.Search("foo", Options{})
	e.RemoveHighlights()
	if len(b.StyleSpans()) != 0 || b.Text() != "foo foo" {
		t.Fatalf("remove highlights must only touch styles")
	}
}
