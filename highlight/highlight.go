package highlight

import (
	"regexp"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Kind is the syntactic class of a styled span.
type Kind int

const (
	Keyword Kind = iota
	Function
	Class
	String
	Comment
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Function:
		return "function"
	case Class:
		return "class"
	case String:
		return "string"
	case Comment:
		return "comment"
	}
	return "unknown"
}

// Span is a styled run on one line. Start and End are rune columns.
type Span struct {
	Line       int
	Start, End int
	Kind       Kind
}

// Rule styles every match of Pattern, or of its capture group Group when
// Group is non-zero.
type Rule struct {
	Pattern *regexp.Regexp
	Kind    Kind
	Group   int
}

var defaultRules = []Rule{
	{Pattern: regexp.MustCompile(`\b(def|class|if|else|elif|return|import|from|while|for|in|try|except|with|as|pass|yield|async|await|None|True|False)\b`), Kind: Keyword},
	{Pattern: regexp.MustCompile(`\bdef\s+([a-zA-Z_][a-zA-Z0-9_]*)\b`), Kind: Function, Group: 1},
	{Pattern: regexp.MustCompile(`\bclass\s+([a-zA-Z_][a-zA-Z0-9_]*)\b`), Kind: Class, Group: 1},
	{Pattern: regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`), Kind: String},
}

// Highlighter produces spans for one line at a time. It keeps no state
// between lines, so strings and comments never continue onto the next one.
type Highlighter struct {
	theme  Theme
	prefix []rune
	rules  []Rule
}

// New returns a highlighter that treats prefix as the start of a line
// comment. An empty prefix means "#".
func New(theme Theme, prefix string) *Highlighter {
	if prefix == "" {
		prefix = "#"
	}
	return &Highlighter{theme: theme, prefix: []rune(prefix), rules: defaultRules}
}

func (h *Highlighter) Theme() Theme { return h.theme }

func (h *Highlighter) Prefix() string { return string(h.prefix) }

// HighlightLine returns the spans of text in paint order: the comment
// first, then rule matches outside it.
func (h *Highlighter) HighlightLine(lineIndex int, text string) []Span {
	runes := []rune(text)
	commentStart, strs := h.scan(runes)

	var spans []Span
	var comment []span
	if commentStart >= 0 {
		spans = append(spans, Span{Line: lineIndex, Start: commentStart, End: len(runes), Kind: Comment})
		comment = []span{{commentStart, len(runes)}}
	}
	// string literals are off limits to the word rules as well
	words := append(strs, comment...)

	for _, r := range h.rules {
		block := words
		if r.Kind == String {
			block = comment
		}
		for _, m := range r.Pattern.FindAllStringSubmatchIndex(text, -1) {
			bs, be := m[2*r.Group], m[2*r.Group+1]
			if bs < 0 {
				continue
			}
			s := utf8.RuneCountInString(text[:bs])
			e := s + utf8.RuneCountInString(text[bs:be])
			if overlapsAny(s, e, block) {
				continue
			}
			spans = append(spans, Span{Line: lineIndex, Start: s, End: e, Kind: r.Kind})
		}
	}
	return spans
}

type span struct{ start, end int }

func overlapsAny(s, e int, ranges []span) bool {
	for _, r := range ranges {
		if s < r.end && e > r.start {
			return true
		}
	}
	return false
}

// scan walks the line once, tracking string state, and returns the column
// where a comment starts (or -1) and the string literals seen before it.
// An unterminated string runs to the end of the line.
func (h *Highlighter) scan(runes []rune) (int, []span) {
	var strs []span
	inString := false
	escape := false
	var delim rune
	open := 0
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == delim:
				inString = false
				strs = append(strs, span{open, i + 1})
			}
			continue
		}
		switch {
		case ch == '"' || ch == '\'':
			inString = true
			delim = ch
			open = i
		case h.prefixAt(runes, i):
			return i, strs
		}
	}
	if inString {
		strs = append(strs, span{open, len(runes)})
	}
	return -1, strs
}

func (h *Highlighter) prefixAt(runes []rune, i int) bool {
	if i+len(h.prefix) > len(runes) {
		return false
	}
	for j, r := range h.prefix {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}

// DetectLanguage names the language of filename using chroma's lexer
// registry, or "" when nothing matches.
func DetectLanguage(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return ""
	}
	config := lexer.Config()
	if config == nil {
		return ""
	}
	return config.Name
}
