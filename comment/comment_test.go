package comment

import (
	"testing"

	"notepad/buffer"
)

func newDoc(text string) *buffer.Buffer {
	b := buffer.NewBuffer(4)
	b.SetText(text)
	return b
}

func TestMixedSelectionGetsPrefixEverywhere(t *testing.T) {
	b := newDoc("# a\nb")
	b.SelectAll()

	if commented := New("#").Toggle(b); !commented {
		t.Fatalf("expected mixed selection to be commented")
	}
	if got := b.Lines; len(got) != 2 || got[0] != "## a" || got[1] != "# b" {
		t.Fatalf("unexpected lines %q", got)
	}
	start, end, text := b.CurrentSelection()
	if start != 0 || end != 8 || text != "## a\n# b" {
		t.Fatalf("selection not restored: %d %d %q", start, end, text)
	}
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	for _, text := range []string{"a\nb\nc", "#a\n#b\n#c", "x = 1\n    y = 2"} {
		b := newDoc(text)
		tg := New("#")
		b.SelectAll()
		tg.Toggle(b)
		tg.Toggle(b)
		if got := b.Text(); got != text {
			t.Fatalf("toggle twice on %q produced %q", text, got)
		}
	}
}

func TestCursorLineToggle(t *testing.T) {
	b := newDoc("one\ntwo\nthree")
	b.SetCursorOffset(6) // inside "two"
	tg := New("#")

	tg.Toggle(b)
	if got := b.Text(); got != "one\n#two\nthree" {
		t.Fatalf("unexpected text after add %q", got)
	}
	tg.Toggle(b)
	if got := b.Text(); got != "one\ntwo\nthree" {
		t.Fatalf("unexpected text after remove %q", got)
	}

	// Removing from an uncommented line does nothing.
	tg.RemoveComments(b)
	if got := b.Text(); got != "one\ntwo\nthree" {
		t.Fatalf("remove on plain line changed text: %q", got)
	}
}

func TestIndentedPrefixIsNotAComment(t *testing.T) {
	b := newDoc("  # x")
	tg := New("#")
	tg.Toggle(b)
	if got := b.Text(); got != "#  # x" {
		t.Fatalf("expected raw prefix test, got %q", got)
	}
}

func TestToggleIsOneUndoStep(t *testing.T) {
	b := newDoc("a\nb\nc")
	b.SelectAll()
	New("//").Toggle(b)
	if got := b.Text(); got != "//a\n//b\n//c" {
		t.Fatalf("unexpected text %q", got)
	}
	b.ApplyUndo()
	if got := b.Text(); got != "a\nb\nc" {
		t.Fatalf("expected single undo to restore, got %q", got)
	}
}

func TestPrefixFor(t *testing.T) {
	tests := map[string]string{
		"Python": "#",
		"Go":     "//",
		"Lua":    "--",
		"":       "#",
	}
	for lang, want := range tests {
		if got := PrefixFor(lang); got != want {
			t.Fatalf("PrefixFor(%q) = %q, want %q", lang, got, want)
		}
	}
}
