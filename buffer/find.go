package buffer

import "unicode"

// FindOptions are the matching rules for FindNext.
type FindOptions struct {
	CaseSensitive bool
	WholeWord     bool
}

// FindNext returns the first match of query that starts at or after from.
func (b *Buffer) FindNext(query string, from int, opts FindOptions) (Range, bool) {
	q := []rune(query)
	if len(q) == 0 {
		return Range{}, false
	}
	text := b.runes()
	if from < 0 {
		from = 0
	}
	for i := from; i+len(q) <= len(text); i++ {
		if !matchAt(text, i, q, opts.CaseSensitive) {
			continue
		}
		if opts.WholeWord && !isWholeWord(text, i, i+len(q)) {
			continue
		}
		return Range{Start: i, End: i + len(q)}, true
	}
	return Range{}, false
}

func matchAt(text []rune, at int, q []rune, caseSensitive bool) bool {
	for j, r := range q {
		t := text[at+j]
		if t == r {
			continue
		}
		if caseSensitive || !equalFold(t, r) {
			return false
		}
	}
	return true
}

func equalFold(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
}

// isWholeWord reports whether [start, end) is not glued to a word rune on
// either side.
func isWholeWord(text []rune, start, end int) bool {
	if start > 0 && IsWordRune(text[start-1]) {
		return false
	}
	if end < len(text) && IsWordRune(text[end]) {
		return false
	}
	return true
}

// IsWordRune reports whether r belongs to a word (letter, digit or '_').
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// WordAt returns the rune columns [start, end) of the word under col.
func (b *Buffer) WordAt(line, col int) (start, end int) {
	if line < 0 || line >= len(b.Lines) {
		return col, col
	}
	l := []rune(b.Lines[line])
	if col >= len(l) {
		return len(l), len(l)
	}
	if !IsWordRune(l[col]) {
		return col, col + 1
	}
	start, end = col, col
	for start > 0 && IsWordRune(l[start-1]) {
		start--
	}
	for end < len(l) && IsWordRune(l[end]) {
		end++
	}
	return start, end
}

// WordAtCursor returns the word under the cursor.
func (b *Buffer) WordAtCursor() string {
	b.clampCursor()
	start, end := b.WordAt(b.Cursor.Line, b.Cursor.Col)
	if start == end {
		return ""
	}
	l := []rune(b.Lines[b.Cursor.Line])
	if !IsWordRune(l[start]) {
		return ""
	}
	return string(l[start:end])
}
