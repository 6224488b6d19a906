package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notepad/config"
	"notepad/highlight"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

func newTestEditor(t *testing.T, name, content string) (*Editor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := config.Default()
	cfg.WatchFile = false
	e := New(cfg)
	e.backupDir = filepath.Join(t.TempDir(), "backups")

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	e.attachScreen(screen)

	if err := e.open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	return e, path
}

func press(e *Editor, k tcell.Key, mod tcell.ModMask) {
	e.handleKey(tcell.NewEventKey(k, 0, mod))
}

func typeText(e *Editor, s string) {
	for _, r := range s {
		e.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func screenRow(e *Editor, y int) string {
	w, _ := e.screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := e.screen.GetContent(x, y)
		sb.WriteRune(ch)
	}
	return sb.String()
}

func TestOpenBuildsGutterAndHighlights(t *testing.T) {
	e, _ := newTestEditor(t, "main.py", "def f():\n    return 1\n")

	if e.buf.Language != "Python" {
		t.Fatalf("expected Python, got %q", e.buf.Language)
	}
	if e.labels.Len() != e.buf.LineCount() {
		t.Fatalf("labels=%d lines=%d", e.labels.Len(), e.buf.LineCount())
	}
	spans := e.spans.Line(0)
	if len(spans) == 0 || spans[0].Kind != highlight.Keyword || spans[0].Start != 0 || spans[0].End != 3 {
		t.Fatalf("expected keyword span for def, got %+v", spans)
	}
}

func TestGutterFollowsEdits(t *testing.T) {
	e, _ := newTestEditor(t, "notes.txt", "a\nb")

	press(e, tcell.KeyEnd, tcell.ModCtrl)
	press(e, tcell.KeyEnter, tcell.ModNone)
	press(e, tcell.KeyEnter, tcell.ModNone)
	if e.labels.Len() != 4 || e.labels.Label(3) != "4" {
		t.Fatalf("expected 4 labels, got %v", e.labels.Labels())
	}

	press(e, tcell.KeyBackspace2, tcell.ModNone)
	press(e, tcell.KeyBackspace2, tcell.ModNone)
	if e.labels.Len() != 2 {
		t.Fatalf("expected 2 labels, got %v", e.labels.Labels())
	}
	if e.spans.Len() != e.buf.LineCount() {
		t.Fatalf("highlight cache out of step: %d vs %d", e.spans.Len(), e.buf.LineCount())
	}
}

func TestToggleCommentShortcut(t *testing.T) {
	e, _ := newTestEditor(t, "main.py", "x = 1\ny = 2")

	press(e, tcell.KeyCtrlA, tcell.ModCtrl)
	press(e, tcell.KeyCtrlUnderscore, tcell.ModCtrl)
	if e.buf.Lines[0] != "#x = 1" || e.buf.Lines[1] != "#y = 2" {
		t.Fatalf("expected commented lines, got %q", e.buf.Lines)
	}
	if spans := e.spans.Line(1); len(spans) != 1 || spans[0].Kind != highlight.Comment {
		t.Fatalf("expected one comment span, got %+v", spans)
	}

	press(e, tcell.KeyCtrlUnderscore, tcell.ModCtrl)
	if e.buf.Text() != "x = 1\ny = 2" {
		t.Fatalf("second toggle should restore text, got %q", e.buf.Text())
	}

	press(e, tcell.KeyCtrlUnderscore, tcell.ModCtrl)
	press(e, tcell.KeyCtrlZ, tcell.ModCtrl)
	if e.buf.Text() != "x = 1\ny = 2" {
		t.Fatalf("toggle should undo in one step, got %q", e.buf.Text())
	}
}

func TestFindAndReplaceAll(t *testing.T) {
	e, _ := newTestEditor(t, "notes.txt", "aa aa aa")

	press(e, tcell.KeyCtrlF, tcell.ModCtrl)
	if !e.findOpen || e.findBar.Query() != "aa" {
		t.Fatalf("find should open with the word at the cursor, got %q", e.findBar.Query())
	}
	if e.findBar.Counter != "3 / 3" {
		t.Fatalf("expected 3 / 3, got %q", e.findBar.Counter)
	}

	press(e, tcell.KeyF3, tcell.ModNone)
	if e.findBar.Counter != "1 / 3" || e.buf.CursorOffset() != 0 {
		t.Fatalf("next should wrap to the first match, counter %q cursor %d", e.findBar.Counter, e.buf.CursorOffset())
	}

	press(e, tcell.KeyCtrlR, tcell.ModCtrl)
	typeText(e, "bbbb")
	press(e, tcell.KeyEnter, tcell.ModNone)
	if e.buf.Text() != "bbbb bbbb bbbb" {
		t.Fatalf("unexpected text after replace all %q", e.buf.Text())
	}
	if e.findBar.Counter != "0 / 0" || len(e.buf.StyleSpans()) != 0 {
		t.Fatalf("replace all should clear results, counter %q", e.findBar.Counter)
	}

	press(e, tcell.KeyEscape, tcell.ModNone)
	if e.findOpen {
		t.Fatalf("escape should close the find bar")
	}
	press(e, tcell.KeyCtrlZ, tcell.ModCtrl)
	if e.buf.Text() != "aa aa aa" {
		t.Fatalf("replace all should undo in one step, got %q", e.buf.Text())
	}
}

func TestEditInvalidatesSearch(t *testing.T) {
	e, _ := newTestEditor(t, "notes.txt", "cat cat")

	press(e, tcell.KeyCtrlF, tcell.ModCtrl)
	if len(e.search.Occurrences()) != 2 {
		t.Fatalf("expected 2 matches")
	}
	e.buf.SetCursorOffset(0)
	e.findFocused = false
	typeText(e, "x")
	if len(e.search.Occurrences()) != 0 || e.findBar.Counter != "0 / 0" {
		t.Fatalf("edit should drop stale matches, counter %q", e.findBar.Counter)
	}
}

func TestCloseFindRemovesHighlights(t *testing.T) {
	e, _ := newTestEditor(t, "notes.txt", "cat cat")

	press(e, tcell.KeyCtrlF, tcell.ModCtrl)
	if len(e.buf.StyleSpans()) != 2 {
		t.Fatalf("expected 2 highlighted matches, got %d", len(e.buf.StyleSpans()))
	}
	press(e, tcell.KeyEscape, tcell.ModNone)
	if len(e.buf.StyleSpans()) != 0 {
		t.Fatalf("closing find should remove highlights")
	}
}

func TestRenderDrawsGutterTextAndStatus(t *testing.T) {
	e, _ := newTestEditor(t, "main.py", "def f():\n    pass")
	e.render()

	if row := screenRow(e, 0); !strings.HasPrefix(row, " 1 def f():") {
		t.Fatalf("unexpected first row %q", row)
	}
	if row := screenRow(e, 1); !strings.HasPrefix(row, " 2     pass") {
		t.Fatalf("unexpected second row %q", row)
	}

	_, _, style, _ := e.screen.GetContent(3, 0)
	fg, bg, attr := style.Decompose()
	if fg != tcell.NewRGBColor(28, 76, 189) || attr&tcell.AttrBold == 0 {
		t.Fatalf("def should be drawn as a keyword, fg=%v attr=%v", fg, attr)
	}
	if bg != e.theme.Background {
		t.Fatalf("syntax colors must keep the editor background")
	}

	_, h := e.screen.Size()
	if row := screenRow(e, h-1); !strings.Contains(row, "LN: 1, COL: 1") || !strings.Contains(row, "main.py") {
		t.Fatalf("unexpected status row %q", row)
	}
}

func TestRenderFindBar(t *testing.T) {
	e, _ := newTestEditor(t, "notes.txt", "cat cat")
	press(e, tcell.KeyCtrlF, tcell.ModCtrl)
	e.render()

	_, h := e.screen.Size()
	if row := screenRow(e, h-3); !strings.Contains(row, "Find: cat") || !strings.Contains(row, "2 / 2") {
		t.Fatalf("unexpected find row %q", row)
	}
}

func TestSaveWritesFile(t *testing.T) {
	e, path := newTestEditor(t, "notes.txt", "x = 1\ny")

	typeText(e, "z")
	if !e.buf.Dirty {
		t.Fatalf("typing should mark the buffer dirty")
	}
	press(e, tcell.KeyCtrlS, tcell.ModCtrl)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "zx = 1\ny\n" {
		t.Fatalf("unexpected file content %q", data)
	}
	if e.buf.Dirty {
		t.Fatalf("save should clear dirty")
	}
}

func TestSaveUntitledPrompts(t *testing.T) {
	cfg := config.Default()
	cfg.WatchFile = false
	e := New(cfg)
	e.backupDir = ""
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	defer screen.Fini()
	e.attachScreen(screen)

	typeText(e, "hi")
	press(e, tcell.KeyCtrlS, tcell.ModCtrl)
	if e.prompt == nil {
		t.Fatalf("expected save-as prompt")
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	typeText(e, path)
	press(e, tcell.KeyEnter, tcell.ModNone)
	if e.prompt != nil || e.buf.Path != path {
		t.Fatalf("prompt should save to %s, got %q", path, e.buf.Path)
	}
	if data, _ := os.ReadFile(path); !strings.HasPrefix(string(data), "hi") {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestQuitNeedsConfirmationWhenDirty(t *testing.T) {
	e, _ := newTestEditor(t, "notes.txt", "a")
	typeText(e, "b")

	press(e, tcell.KeyCtrlQ, tcell.ModCtrl)
	if e.quit || !e.statusBar.IsError {
		t.Fatalf("first Ctrl+Q should only warn")
	}
	press(e, tcell.KeyCtrlQ, tcell.ModCtrl)
	if !e.quit {
		t.Fatalf("second Ctrl+Q should quit")
	}
}

func TestFileWatchReloadsCleanBuffer(t *testing.T) {
	e, path := newTestEditor(t, "notes.txt", "one")

	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	later := time.Now().Add(5 * time.Second)
	os.Chtimes(path, later, later)

	e.handleFileWatchEvent(&FileWatchEvent{Path: path, Op: fsnotify.Write})
	if e.buf.LineCount() != 3 || e.buf.Lines[2] != "three" {
		t.Fatalf("expected reloaded content, got %q", e.buf.Lines)
	}
	if e.labels.Len() != 3 {
		t.Fatalf("gutter should be rebuilt on reload, got %v", e.labels.Labels())
	}
}

func TestFileWatchKeepsDirtyBuffer(t *testing.T) {
	e, path := newTestEditor(t, "notes.txt", "one")
	typeText(e, "x")

	os.WriteFile(path, []byte("other\n"), 0644)
	later := time.Now().Add(5 * time.Second)
	os.Chtimes(path, later, later)

	e.handleFileWatchEvent(&FileWatchEvent{Path: path, Op: fsnotify.Write})
	if e.buf.Text() != "xone" || !e.buf.ExternallyModified {
		t.Fatalf("dirty buffer must not be reloaded, got %q", e.buf.Text())
	}
}

func TestRunNeedsSavedFile(t *testing.T) {
	cfg := config.Default()
	e := New(cfg)
	e.backupDir = ""
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	defer screen.Fini()
	e.attachScreen(screen)

	press(e, tcell.KeyF5, tcell.ModNone)
	if e.runner.Running() || !e.statusBar.IsError {
		t.Fatalf("running an untitled buffer should report an error")
	}
}

func TestBackupRecoversUnsavedChanges(t *testing.T) {
	e, path := newTestEditor(t, "notes.txt", "one")
	typeText(e, "x")
	press(e, tcell.KeyEnter, tcell.ModNone)
	e.saveBackup()

	// Reopening the file discards the edits but leaves the backup.
	if err := e.open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if e.buf.Text() != "one" {
		t.Fatalf("file on disk should be untouched, got %q", e.buf.Text())
	}
	if !e.recoverBackup() {
		t.Fatalf("expected a backup to recover")
	}
	if e.buf.Text() != "x\none" || !e.buf.Dirty {
		t.Fatalf("unexpected recovered text %q dirty=%v", e.buf.Text(), e.buf.Dirty)
	}
	if e.labels.Len() != 2 {
		t.Fatalf("gutter should follow the recovered text, got %v", e.labels.Labels())
	}

	press(e, tcell.KeyCtrlZ, tcell.ModCtrl)
	if e.buf.Text() != "one" {
		t.Fatalf("recovery should undo in one step, got %q", e.buf.Text())
	}

	press(e, tcell.KeyCtrlS, tcell.ModCtrl)
	if _, err := os.Stat(e.backupPathForFile(path)); !os.IsNotExist(err) {
		t.Fatalf("save should remove the backup")
	}
}
