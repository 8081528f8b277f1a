package textnorm

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Angle brackets that survive entity decoding are replaced with these look-alikes
// so stripped text can never be re-read as a tag.
const (
	SafeLess    = '‹'
	SafeGreater = '›'
)

// blockTags separate their text from neighbouring text with a space.
var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// StripMarkup returns the visible text of an HTML fragment. Tags and comments
// are removed, the contents of script and style elements are dropped, entities
// are decoded, and whitespace runs collapse to one space. The result contains
// no '<' or '>' characters.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return collapseSpace(s)
	}

	var (
		b       strings.Builder
		z       = html.NewTokenizer(strings.NewReader(s))
		skipped int
	)
	b.Grow(len(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return collapseSpace(strings.Map(safeBrackets, b.String()))
		case html.TextToken:
			if skipped == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if tag == atom.Script || tag == atom.Style {
				switch tt {
				case html.StartTagToken:
					skipped++
				case html.EndTagToken:
					if skipped > 0 {
						skipped--
					}
				}
				continue
			}
			if blockTags[tag] {
				b.WriteByte(' ')
			}
		}
	}
}

func safeBrackets(r rune) rune {
	switch r {
	case '<':
		return SafeLess
	case '>':
		return SafeGreater
	}
	return r
}
