package highlight

// Cache holds the spans of every line of one document. Edits splice in
// freshly highlighted lines for the changed range only.
type Cache struct {
	h     *Highlighter
	lines [][]Span
}

func NewCache(h *Highlighter) *Cache {
	return &Cache{h: h}
}

// Reset highlights all lines from scratch.
func (c *Cache) Reset(lines []string) {
	c.lines = make([][]Span, len(lines))
	for i, text := range lines {
		c.lines[i] = c.h.HighlightLine(i, text)
	}
}

// Apply replaces the cached lines [start, oldEnd] with highlights for the
// current lines [start, newEnd]. Lines after the range only get their
// index shifted.
func (c *Cache) Apply(start, oldEnd, newEnd int, lines []string) {
	if start < 0 || start > len(c.lines) || oldEnd >= len(c.lines) || newEnd >= len(lines) {
		c.Reset(lines)
		return
	}
	fresh := make([][]Span, 0, newEnd-start+1)
	for i := start; i <= newEnd; i++ {
		fresh = append(fresh, c.h.HighlightLine(i, lines[i]))
	}
	tail := c.lines[oldEnd+1:]
	out := make([][]Span, 0, start+len(fresh)+len(tail))
	out = append(out, c.lines[:start]...)
	out = append(out, fresh...)
	if shift := newEnd - oldEnd; shift != 0 {
		for _, spans := range tail {
			for j := range spans {
				spans[j].Line += shift
			}
		}
	}
	out = append(out, tail...)
	c.lines = out
	if len(c.lines) != len(lines) {
		c.Reset(lines)
	}
}

// Line returns the spans of line i.
func (c *Cache) Line(i int) []Span {
	if i < 0 || i >= len(c.lines) {
		return nil
	}
	return c.lines[i]
}

func (c *Cache) Len() int { return len(c.lines) }
