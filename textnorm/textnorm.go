// Package textnorm prepares content text for searching and display.
//
// All lengths are measured in characters (runes), never bytes. Cuts are
// moved to grapheme-cluster boundaries so a truncated string never ends in
// half of a combined character or emoji sequence.
package textnorm

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis marks text that continues beyond a cut.
const Ellipsis = "…"

// Snippet window defaults.
const (
	// DefaultSnippetLen is the fallback truncation length when a snippet
	// query does not occur in the text.
	DefaultSnippetLen = 140
	// SnippetLead is the number of characters kept before a match.
	SnippetLead = 50
	// SnippetTrail is the number of characters kept after the match start,
	// in addition to the query length.
	SnippetTrail = 90
)

// Fold lower-cases s rune by rune. The result has the same number of runes
// as s, so a rune offset found in Fold(s) is valid in s.
func Fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// Clean NFC-normalizes s and collapses every whitespace run to one space.
func Clean(s string) string {
	return collapseSpace(norm.NFC.String(s))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Clip cuts s to at most maxLen characters without adding an ellipsis.
func Clip(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if Len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:floorBoundary(runes, maxLen)])
}

// TruncateAtWordBoundary shortens text to about maxLen characters. Text that
// fits is returned unchanged. Otherwise the cut goes at the last space at or
// before maxLen, unless that space sits in the first half of the window, in
// which case the text is cut hard at maxLen. An ellipsis is appended.
func TruncateAtWordBoundary(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if Len(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	cut := -1
	for i := maxLen; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	if float64(cut) <= float64(maxLen)*0.5 {
		cut = floorBoundary(runes, maxLen)
	}
	return string(runes[:cut]) + Ellipsis
}

// CenteredSnippet returns a window of text around the first case-insensitive
// occurrence of query: SnippetLead characters before it through
// len(query)+SnippetTrail characters after its start. The window is marked
// with an ellipsis on each side that does not reach the end of text. When
// query does not occur, the result is TruncateAtWordBoundary(text, windowLen).
func CenteredSnippet(text, query string, windowLen int) string {
	q := Fold(query)
	if q == "" {
		return TruncateAtWordBoundary(text, windowLen)
	}
	folded := Fold(text)
	at := strings.Index(folded, q)
	if at < 0 {
		return TruncateAtWordBoundary(text, windowLen)
	}

	runes := []rune(text)
	idx := utf8.RuneCountInString(folded[:at])
	start := max(0, idx-SnippetLead)
	end := min(len(runes), idx+Len(q)+SnippetTrail)

	bounds := boundaries(runes)
	start = floorIn(bounds, start)
	end = ceilIn(bounds, end)

	var b strings.Builder
	if start > 0 {
		b.WriteString(Ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(Ellipsis)
	}
	return b.String()
}

// HighlightTerms wraps every case-insensitive occurrence of each query word
// of two or more characters in open and shut. Overlapping occurrences are
// merged into one marked run.
func HighlightTerms(text, query, open, shut string) string {
	words := Words(Fold(query))
	if len(words) == 0 || text == "" {
		return text
	}

	runes := []rune(text)
	folded := []rune(Fold(text))
	marked := make([]bool, len(runes))
	found := false
	for _, w := range words {
		wr := []rune(w)
		for i := 0; i+len(wr) <= len(folded); i++ {
			if runesEqual(folded[i:i+len(wr)], wr) {
				for j := i; j < i+len(wr); j++ {
					marked[j] = true
				}
				found = true
			}
		}
	}
	if !found {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(runes); {
		if !marked[i] {
			b.WriteRune(runes[i])
			i++
			continue
		}
		b.WriteString(open)
		for i < len(runes) && marked[i] {
			b.WriteRune(runes[i])
			i++
		}
		b.WriteString(shut)
	}
	return b.String()
}

// Words splits s on whitespace and keeps words of at least two characters.
func Words(s string) []string {
	fields := strings.Fields(s)
	words := fields[:0]
	for _, f := range fields {
		if Len(f) >= 2 {
			words = append(words, f)
		}
	}
	return words
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// boundaries returns the rune offsets of every grapheme cluster boundary in
// runes, including 0 and len(runes).
func boundaries(runes []rune) []int {
	bounds := make([]int, 1, len(runes)+1)
	pos := 0
	g := uniseg.NewGraphemes(string(runes))
	for g.Next() {
		pos += len(g.Runes())
		bounds = append(bounds, pos)
	}
	return bounds
}

// floorBoundary returns the last grapheme boundary at or before p. Only the
// prefix needed to decide boundaries up to p is segmented.
func floorBoundary(runes []rune, p int) int {
	if p >= len(runes) {
		return len(runes)
	}
	if p <= 0 {
		return 0
	}
	return floorIn(boundaries(runes[:p+1]), p)
}

func floorIn(bounds []int, p int) int {
	i := sort.SearchInts(bounds, p)
	if i < len(bounds) && bounds[i] == p {
		return p
	}
	if i == 0 {
		return 0
	}
	return bounds[i-1]
}

func ceilIn(bounds []int, p int) int {
	i := sort.SearchInts(bounds, p)
	if i == len(bounds) {
		return bounds[len(bounds)-1]
	}
	return bounds[i]
}
