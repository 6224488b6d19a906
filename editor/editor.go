package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"notepad/buffer"
	"notepad/comment"
	"notepad/config"
	"notepad/gutter"
	"notepad/highlight"
	"notepad/runner"
	"notepad/search"
	"notepad/ui"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

type Editor struct {
	screen tcell.Screen
	cfg    *config.Config
	theme  *config.ColorScheme

	buf     *buffer.Buffer
	view    EditorView
	labels  *gutter.Tracker
	hl      *highlight.Highlighter
	spans   *highlight.Cache
	search  *search.Engine
	toggler *comment.Toggler

	statusBar   *ui.StatusBar
	findBar     *ui.FindBar
	findOpen    bool
	findFocused bool
	prompt      *ui.Prompt
	output      *ui.OutputPane
	outputOpen  bool
	runner      *runner.Runner

	// File watching
	fileWatcher *fsnotify.Watcher
	watchedPath string

	backupDir string // empty disables crash backups

	quit        bool
	quitPending bool // true after first Ctrl+Q with unsaved changes

	selectionAnchor *buffer.Cursor
	mouseDown       bool
	mouseScrolling  bool

	// Temporary status messages
	statusMessageTime time.Time
}

type EditorView struct {
	scrollY int
	scrollX int
}

// FileWatchEvent carries file system change notifications to the main event loop.
type FileWatchEvent struct {
	tcell.EventTime
	Path string
	Op   fsnotify.Op
}

func New(cfg *config.Config) *Editor {
	e := &Editor{
		cfg:       cfg,
		theme:     cfg.GetTheme(),
		labels:    gutter.New(),
		statusBar: ui.NewStatusBar(),
		findBar:   ui.NewFindBar(),
		output:    ui.NewOutputPane(),
		backupDir: defaultBackupDir(),
	}
	e.statusBar.Theme = e.theme
	e.findBar.Theme = e.theme
	e.output.Theme = e.theme

	e.findBar.OnSearch = func(q string, caseSensitive, wholeWord bool) {
		e.search.Search(q, search.Options{CaseSensitive: caseSensitive, WholeWord: wholeWord})
		e.findBar.Counter = e.search.Counter()
	}
	e.findBar.OnNext = e.findNext
	e.findBar.OnPrevious = e.findPrevious
	e.findBar.OnReplaceAll = e.replaceAll
	e.findBar.OnClose = e.closeFind

	e.setBuffer(buffer.NewBuffer(cfg.TabSize))
	return e
}

// Run opens path (or an empty buffer) and runs the event loop until quit.
func (e *Editor) Run(path string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	e.attachScreen(screen)

	if path != "" {
		abs, _ := filepath.Abs(path)
		if err := e.open(abs); err != nil {
			screen.Fini()
			return err
		}
		e.recoverBackup()
	}
	e.setupFileWatcher()
	e.startBackupTimer()

	for !e.quit {
		e.clearExpiredMessages()
		e.render()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			e.handleKey(ev)
		case *tcell.EventMouse:
			e.handleMouse(ev)
		case *FileWatchEvent:
			e.handleFileWatchEvent(ev)
		case *runner.OutputEvent:
			e.output.Append(ev.Data)
		case *runner.ExitEvent:
			e.handleRunExit(ev)
		case *backupTickEvent:
			e.saveBackup()
		}
	}

	// Clean up backups on exit
	e.cleanBackup(e.buf.Path)

	if e.fileWatcher != nil {
		e.fileWatcher.Close()
	}
	e.runner.Stop()
	screen.Clear()
	screen.Fini()
	return nil
}

func (e *Editor) attachScreen(screen tcell.Screen) {
	e.screen = screen
	e.runner = runner.New(screen)
}

// open loads path into the editor. A missing file gives an empty buffer
// bound to the path.
func (e *Editor) open(path string) error {
	buf, err := buffer.NewBufferFromFile(path, e.cfg.TabSize)
	if err != nil {
		return err
	}
	buf.Language = highlight.DetectLanguage(path)
	if buf.Language != "" && !fileHasIndent(buf) {
		buf.TabSize = e.cfg.LanguageTabSize(buf.Language)
	}
	e.setBuffer(buf)
	return nil
}

func fileHasIndent(buf *buffer.Buffer) bool {
	for _, l := range buf.Lines {
		if strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t") {
			return true
		}
	}
	return false
}

// setBuffer makes buf the document and rebuilds every derived view of it:
// gutter labels, highlight spans and the search engine.
func (e *Editor) setBuffer(buf *buffer.Buffer) {
	e.buf = buf
	e.view = EditorView{}
	e.selectionAnchor = nil

	prefix := e.cfg.CommentPrefix
	if prefix == "" {
		prefix = comment.PrefixFor(buf.Language)
	}
	e.toggler = comment.New(prefix)
	e.hl = highlight.New(e.syntaxTheme(), prefix)
	e.spans = highlight.NewCache(e.hl)
	e.search = search.New(buf, search.Palette{
		Match:    tcell.StyleDefault.Background(e.theme.MatchBg).Foreground(e.theme.Foreground),
		Next:     tcell.StyleDefault.Background(e.theme.NextMatchBg).Foreground(tcell.ColorBlack),
		Previous: tcell.StyleDefault.Background(e.theme.PrevMatchBg).Foreground(tcell.ColorBlack),
	})
	e.findBar.Counter = e.search.Counter()

	buf.OnLineCountChanged(e.labels.OnLineCountChanged)
	buf.OnChange(func(c buffer.Change) {
		e.spans.Apply(c.StartLine, c.OldEndLine, c.NewEndLine, buf.Lines)
		e.search.DocumentChanged()
		e.findBar.Counter = e.search.Counter()
	})

	e.labels.LoadLabels(buf.LineCount())
	e.spans.Reset(buf.Lines)
}

func (e *Editor) syntaxTheme() highlight.Theme {
	if e.cfg.SyntaxTheme == "" {
		return highlight.DefaultTheme()
	}
	th, err := highlight.ThemeFromChroma(e.cfg.SyntaxTheme)
	if err != nil {
		e.setTemporaryError(err.Error())
		return highlight.DefaultTheme()
	}
	return th
}

// Commands

func (e *Editor) toggleComment() {
	if e.toggler.Toggle(e.buf) {
		e.setTemporaryMessage("Commented")
	} else {
		e.setTemporaryMessage("Uncommented")
	}
}

func (e *Editor) openFind(replace bool) {
	if !e.findOpen {
		e.findOpen = true
		seed := ""
		if start, end, text := e.buf.CurrentSelection(); start != end && !strings.Contains(text, "\n") {
			seed = text
		} else {
			seed = e.buf.WordAtCursor()
		}
		e.findBar.ReplaceActive = false
		if seed != "" {
			e.findBar.SetQuery(seed)
		} else if q := e.findBar.Query(); q != "" {
			e.findBar.SetQuery(q)
		}
	}
	e.findFocused = true
	e.findBar.ReplaceActive = replace
}

// closeFind hides the find bar and drops every search highlight.
func (e *Editor) closeFind() {
	e.findOpen = false
	e.findFocused = false
	e.search.Clear()
	e.findBar.Counter = e.search.Counter()
}

func (e *Editor) findNext() {
	e.search.GoToNext()
	e.findBar.Counter = e.search.Counter()
}

func (e *Editor) findPrevious() {
	e.search.GoToPrevious()
	e.findBar.Counter = e.search.Counter()
}

func (e *Editor) replaceAll(text string) {
	if text == "" {
		e.setTemporaryError("Replacement text is empty")
		return
	}
	n := e.search.ReplaceAll(text)
	e.findBar.Counter = e.search.Counter()
	if n == 0 {
		e.setTemporaryMessage("Nothing to replace")
		return
	}
	e.setTemporaryMessage(fmt.Sprintf("Replaced %d occurrence(s)", n))
}

func (e *Editor) saveCurrentFile() {
	if e.buf.Path == "" {
		e.openSaveAsPrompt()
		return
	}
	if err := e.buf.Save(); err != nil {
		e.setTemporaryError("Error: " + err.Error())
		return
	}
	e.cleanBackup(e.buf.Path)
	e.setTemporaryMessage("Saved " + filepath.Base(e.buf.Path))
}

func (e *Editor) openSaveAsPrompt() {
	p := ui.NewPrompt("Save as: ", "")
	p.Theme = e.theme
	p.OnSubmit = func(name string) {
		e.prompt = nil
		if name == "" {
			return
		}
		abs, _ := filepath.Abs(name)
		if err := e.buf.SaveAs(abs); err != nil {
			e.setTemporaryError("Error: " + err.Error())
			return
		}
		e.buf.Language = highlight.DetectLanguage(abs)
		e.cleanBackup(abs)
		e.setTemporaryMessage("Saved " + filepath.Base(abs))
		e.watchFile(abs)
	}
	p.OnCancel = func() { e.prompt = nil }
	e.prompt = p
}

// runFile saves the document and runs it with the configured interpreter.
// Running again while a program is alive stops it instead.
func (e *Editor) runFile() {
	if e.runner.Running() {
		e.runner.Stop()
		return
	}
	if e.buf.Path == "" {
		e.setTemporaryError("Save the file before running it")
		return
	}
	if e.buf.Dirty {
		if err := e.buf.Save(); err != nil {
			e.setTemporaryError("Error: " + err.Error())
			return
		}
	}
	argv := append(append([]string{}, e.cfg.RunCommand...), e.buf.Path)
	e.output.Reset(strings.Join(argv, " "))
	e.output.Running = true
	e.outputOpen = true
	_, _, w, h := e.outputLayout()
	if err := e.runner.Start(argv, filepath.Dir(e.buf.Path), h-1, w); err != nil {
		e.output.Finish(err.Error())
		e.setTemporaryError("Error: " + err.Error())
	}
}

func (e *Editor) handleRunExit(ev *runner.ExitEvent) {
	status := "[finished]"
	if ev.Err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(ev.Err, &exitErr) {
			status = fmt.Sprintf("[exit %d]", exitErr.ExitCode())
		} else {
			status = "[" + ev.Err.Error() + "]"
		}
	}
	e.output.Finish(status)
}

// File watching

func (e *Editor) setupFileWatcher() {
	if !e.cfg.WatchFile {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Graceful degradation - continue without watching
		return
	}
	e.fileWatcher = watcher
	e.watchFile(e.buf.Path)

	screen := e.screen
	go func() {
		// Debounce: collect events and send after quiet period
		debounceTimer := time.NewTimer(100 * time.Millisecond)
		debounceTimer.Stop()
		pending := map[string]fsnotify.Op{}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				pending[event.Name] |= event.Op
				debounceTimer.Reset(100 * time.Millisecond)

			case <-debounceTimer.C:
				for name, op := range pending {
					ev := &FileWatchEvent{Path: name, Op: op}
					ev.SetEventNow()
					screen.PostEvent(ev)
				}
				pending = map[string]fsnotify.Op{}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// watchFile watches the directory holding path; editors that save by
// renaming would otherwise drop a watch on the file itself.
func (e *Editor) watchFile(path string) {
	if e.fileWatcher == nil || path == "" {
		return
	}
	dir := filepath.Dir(path)
	if e.watchedPath != "" && filepath.Dir(e.watchedPath) != dir {
		e.fileWatcher.Remove(filepath.Dir(e.watchedPath))
	}
	e.watchedPath = path
	e.fileWatcher.Add(dir)
}

func (e *Editor) handleFileWatchEvent(ev *FileWatchEvent) {
	if e.buf.Path == "" || ev.Path != e.buf.Path {
		return
	}
	name := filepath.Base(ev.Path)
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if _, err := os.Stat(ev.Path); err != nil {
			e.setTemporaryError("Warning: " + name + " was deleted externally")
			return
		}
		fallthrough
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		info, err := os.Stat(ev.Path)
		if err != nil {
			return
		}
		// Allow 1 second grace period after our last save
		if !e.buf.LastSaveTime.IsZero() && info.ModTime().Sub(e.buf.LastSaveTime) <= time.Second {
			return
		}
		if e.buf.Dirty {
			e.buf.ExternallyModified = true
			e.setTemporaryError(name + " was modified externally (unsaved changes)")
			return
		}
		e.reload()
	}
}

// reload rereads the file from disk and keeps the cursor where it was.
func (e *Editor) reload() {
	old := e.buf
	cursor := old.Cursor
	if err := e.open(old.Path); err != nil {
		e.setTemporaryError("Reload failed: " + err.Error())
		return
	}
	e.buf.SetCursorOffset(e.buf.OffsetOf(cursor))
	e.setTemporaryMessage(filepath.Base(old.Path) + " (reloaded)")
}

func (e *Editor) updateStatus() {
	buf := e.buf
	e.statusBar.Filename = filepath.Base(buf.Path)
	if buf.Path == "" {
		e.statusBar.Filename = "untitled"
	}
	e.statusBar.Modified = buf.Dirty
	e.statusBar.Line = buf.Cursor.Line
	e.statusBar.Col = buf.Cursor.Col
	e.statusBar.Language = buf.Language
	e.statusBar.LineEnd = buf.LineEnding
	switch {
	case e.prompt != nil:
		e.statusBar.Mode = "SAVE"
	case e.findOpen && e.findFocused:
		e.statusBar.Mode = "FIND"
	case e.runner != nil && e.runner.Running():
		e.statusBar.Mode = "RUN"
	default:
		e.statusBar.Mode = "EDIT"
	}
	if buf.UseTabs {
		e.statusBar.TabInfo = "Tabs"
	} else {
		e.statusBar.TabInfo = fmt.Sprintf("Spaces: %d", buf.TabSize)
	}
}

// Layout helpers

func (e *Editor) outputLayout() (x, y, w, h int) {
	screenW, screenH := 80, 24
	if e.screen != nil {
		screenW, screenH = e.screen.Size()
	}
	if !e.outputOpen {
		return 0, screenH - 1, screenW, 0
	}
	h = (screenH - 1) * 3 / 10
	if h < 4 {
		h = 4
	}
	return 0, screenH - 1 - e.findHeight() - h, screenW, h
}

func (e *Editor) findHeight() int {
	if !e.findOpen {
		return 0
	}
	return e.findBar.Height()
}

func (e *Editor) editorLayout() (x, y, w, h int) {
	screenW, screenH := e.screen.Size()
	_, _, _, outH := e.outputLayout()
	h = screenH - 1 - e.findHeight() - outH
	if h < 1 {
		h = 1
	}
	return 0, 0, screenW, h
}

// setTemporaryMessage sets a message that will auto-clear after 5 seconds
func (e *Editor) setTemporaryMessage(msg string) {
	e.statusBar.Message = msg
	e.statusBar.IsError = false
	e.statusMessageTime = time.Now()
}

func (e *Editor) setTemporaryError(msg string) {
	e.statusBar.Message = msg
	e.statusBar.IsError = true
	e.statusMessageTime = time.Now()
}

func (e *Editor) clearExpiredMessages() {
	if !e.statusMessageTime.IsZero() && time.Since(e.statusMessageTime) > 5*time.Second {
		e.statusBar.Message = ""
		e.statusBar.IsError = false
		e.statusMessageTime = time.Time{}
	}
}
