package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonwraymond/studysearch/textnorm"
)

// Field scoring bonuses.
const (
	ExactBonus       = 10.0
	PrefixBonus      = 5.0
	BoundaryBonus    = 3.0
	ShortFieldBonus  = 2.0
	MediumFieldBonus = 1.0

	// ShortFieldLen and MediumFieldLen are exclusive upper bounds, in
	// characters, for the length bonuses.
	ShortFieldLen  = 60
	MediumFieldLen = 200
)

// MinQueryLen is the shortest query, in characters, that is searched.
const MinQueryLen = 2

// Field is text prepared for repeated scoring.
type Field struct {
	text   string
	folded string
	n      int
}

// NewField folds text and records its length.
func NewField(text string) Field {
	return Field{text: text, folded: textnorm.Fold(text), n: textnorm.Len(text)}
}

// Text returns the original text.
func (f Field) Text() string { return f.text }

// Folded returns the lower-cased text.
func (f Field) Folded() string { return f.folded }

// Len returns the length of the text in characters.
func (f Field) Len() int { return f.n }

// Score scores the field against an already folded query.
func (f Field) Score(queryLower string) float64 {
	return scoreFolded(f.folded, f.n, queryLower)
}

// ScoreField scores fieldText against queryLower, which must already be
// lower-cased with textnorm.Fold. An empty query scores 0.
func ScoreField(fieldText, queryLower string) float64 {
	return scoreFolded(textnorm.Fold(fieldText), textnorm.Len(fieldText), queryLower)
}

func scoreFolded(folded string, n int, q string) float64 {
	if q == "" || !strings.Contains(folded, q) {
		return 0
	}

	score := 1.0
	if folded == q {
		score += ExactBonus
	}
	if strings.HasPrefix(folded, q) {
		score += PrefixBonus
	}
	if atWordBoundary(folded, q) {
		score += BoundaryBonus
	}
	switch {
	case n < ShortFieldLen:
		score += ShortFieldBonus
	case n < MediumFieldLen:
		score += MediumFieldBonus
	}
	return score
}

// atWordBoundary reports whether any occurrence of q in s starts the string or
// follows whitespace or a separator character.
func atWordBoundary(s, q string) bool {
	_, step := utf8.DecodeRuneInString(q)
	for from := 0; from <= len(s)-len(q); {
		i := strings.Index(s[from:], q)
		if i < 0 {
			return false
		}
		at := from + i
		if at == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:at])
		if isSeparator(prev) {
			return true
		}
		from = at + step
	}
	return false
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', ';', '.', '!', '?', '(', ')', '[', ']', '{', '}', '"', '\'', '/', '-':
		return true
	}
	return false
}

// Query is a folded search query and its words.
type Query struct {
	// Lower is the whole query, folded. Surrounding whitespace is kept and
	// must match.
	Lower string
	// Words are the whitespace-separated words of at least MinQueryLen
	// characters.
	Words []string
}

// ParseQuery folds raw without trimming it. It reports false when raw is
// shorter than MinQueryLen characters. Callers that take keyboard input trim
// it first.
func ParseQuery(raw string) (Query, bool) {
	if textnorm.Len(raw) < MinQueryLen {
		return Query{}, false
	}
	lower := textnorm.Fold(raw)
	return Query{Lower: lower, Words: textnorm.Words(lower)}, true
}

// MultiWord reports whether the query has more than one word.
func (q Query) MultiWord() bool {
	return len(q.Words) > 1
}
