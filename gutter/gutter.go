// Package gutter keeps the line-number labels shown next to the text in step
// with the document's line count.
package gutter

import "strconv"

// Tracker holds one label per document line. Labels are rebuilt only by
// LoadLabels; line-count changes patch the tail.
type Tracker struct {
	labels []string
	prev   int
	loaded bool
}

func New() *Tracker {
	return &Tracker{}
}

// LoadLabels discards all labels and regenerates "1".."lineCount". It sets
// the baseline used by OnLineCountChanged.
func (t *Tracker) LoadLabels(lineCount int) {
	if lineCount < 0 {
		lineCount = 0
	}
	t.labels = make([]string, 0, lineCount)
	for i := 1; i <= lineCount; i++ {
		t.labels = append(t.labels, strconv.Itoa(i))
	}
	t.prev = lineCount
	t.loaded = true
}

// OnLineCountChanged patches the tail of the label list after the document
// grew or shrank to newCount lines. Before the first LoadLabels it does
// nothing.
func (t *Tracker) OnLineCountChanged(newCount int) {
	if !t.loaded || newCount == t.prev {
		return
	}
	if newCount < 0 {
		newCount = 0
	}
	if newCount < t.prev {
		drop := t.prev - newCount
		if drop > len(t.labels) {
			drop = len(t.labels)
		}
		t.labels = t.labels[:len(t.labels)-drop]
	} else {
		for i := t.prev + 1; i <= newCount; i++ {
			t.labels = append(t.labels, strconv.Itoa(i))
		}
	}
	t.prev = newCount
}

// Labels returns a copy of the current labels.
func (t *Tracker) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

func (t *Tracker) Len() int { return len(t.labels) }

// Label returns the label for zero-based line i, or "" past the end.
func (t *Tracker) Label(i int) string {
	if i < 0 || i >= len(t.labels) {
		return ""
	}
	return t.labels[i]
}

// Width is the number of columns needed for the widest label, at least min.
func (t *Tracker) Width(min int) int {
	w := 1
	if n := len(t.labels); n > 0 {
		w = len(t.labels[n-1])
	}
	if w < min {
		return min
	}
	return w
}
