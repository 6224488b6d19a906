// Package comment adds and removes line-comment prefixes on the selected
// lines of a document.
package comment

import "strings"

// DefaultPrefix is used when no language-specific prefix is known.
const DefaultPrefix = "#"

// Document is the part of the buffer the toggler edits.
type Document interface {
	CurrentSelection() (start, end int, text string)
	SetSelection(start, end int)
	CursorLine() (start int, text string)
	ReplaceRange(start, end int, text string)
	BeginAtomicEdit()
	EndAtomicEdit()
}

// Toggler classifies lines by a raw prefix test: a line is commented when
// its first characters equal Prefix. Leading whitespace is not skipped.
type Toggler struct {
	Prefix string
}

func New(prefix string) *Toggler {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Toggler{Prefix: prefix}
}

// Toggle removes the prefix when every selected line has it and adds it to
// every line otherwise. Without a selection only the cursor line decides.
// It reports whether the lines ended up commented.
func (t *Toggler) Toggle(doc Document) bool {
	if t.allCommented(doc) {
		t.RemoveComments(doc)
		return false
	}
	t.AddComments(doc)
	return true
}

func (t *Toggler) allCommented(doc Document) bool {
	start, end, text := doc.CurrentSelection()
	if start == end {
		_, line := doc.CursorLine()
		return strings.HasPrefix(line, t.Prefix)
	}
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, t.Prefix) {
			return false
		}
	}
	return true
}

// AddComments prefixes every selected line, already commented ones
// included, and reselects the rewritten text. Without a selection it
// prefixes the cursor line.
func (t *Toggler) AddComments(doc Document) {
	doc.BeginAtomicEdit()
	defer doc.EndAtomicEdit()

	start, end, text := doc.CurrentSelection()
	if start == end {
		ls, _ := doc.CursorLine()
		doc.ReplaceRange(ls, ls, t.Prefix)
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = t.Prefix + line
	}
	out := strings.Join(lines, "\n")
	doc.ReplaceRange(start, end, out)
	doc.SetSelection(start, start+runeLen(out))
}

// RemoveComments drops one prefix from each selected line that starts with
// it and reselects the rewritten text. Without a selection it strips the
// cursor line's prefix if present.
func (t *Toggler) RemoveComments(doc Document) {
	start, end, text := doc.CurrentSelection()
	if start == end {
		ls, line := doc.CursorLine()
		if !strings.HasPrefix(line, t.Prefix) {
			return
		}
		doc.BeginAtomicEdit()
		doc.ReplaceRange(ls, ls+runeLen(t.Prefix), "")
		doc.EndAtomicEdit()
		return
	}

	doc.BeginAtomicEdit()
	defer doc.EndAtomicEdit()
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, t.Prefix)
	}
	out := strings.Join(lines, "\n")
	if out != text {
		doc.ReplaceRange(start, end, out)
	}
	doc.SetSelection(start, start+runeLen(out))
}

func runeLen(s string) int {
	return len([]rune(s))
}

// PrefixFor returns the line-comment prefix for a chroma language name.
// Unknown languages get DefaultPrefix.
func PrefixFor(language string) string {
	switch strings.ToLower(language) {
	case "go", "c", "c++", "c#", "java", "javascript", "typescript", "tsx", "rust",
		"swift", "kotlin", "scala", "dart", "php", "protocol buffer", "zig":
		return "//"
	case "lua", "haskell", "sql", "ada", "applescript", "vhdl":
		return "--"
	case "common lisp", "scheme", "clojure", "racket", "emacslisp":
		return ";"
	case "viml":
		return "\""
	default:
		return DefaultPrefix
	}
}
