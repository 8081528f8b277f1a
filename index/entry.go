package index

import (
	"net/url"

	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/search"
	"github.com/jonwraymond/studysearch/textnorm"
)

// DedupTitleLen is how many leading title characters identify a hit.
const DedupTitleLen = 40

// Entry is one searchable, normalized record.
type Entry struct {
	Kind       content.Kind `json:"kind"`
	GroupKey   string       `json:"groupKey"`
	SubKey     string       `json:"subKey,omitempty"`
	Title      string       `json:"title"`
	Body       string       `json:"body"`
	Provenance string       `json:"provenance"`

	title    search.Field
	body     search.Field
	titleKey string
}

func newEntry(r content.Record, maxBodyLen int) Entry {
	title := textnorm.Clean(r.Title)
	body := textnorm.Clip(textnorm.Clean(textnorm.StripMarkup(r.Body)), maxBodyLen)

	key := []rune(title)
	if len(key) > DedupTitleLen {
		key = key[:DedupTitleLen]
	}

	return Entry{
		Kind:       r.Kind,
		GroupKey:   r.GroupKey,
		SubKey:     r.SubKey,
		Title:      title,
		Body:       body,
		Provenance: r.Provenance,
		title:      search.NewField(title),
		body:       search.NewField(body),
		titleKey:   string(key),
	}
}

type dedupKey struct {
	group, sub string
	kind       content.Kind
	title      string
}

func (e *Entry) key() dedupKey {
	return dedupKey{group: e.GroupKey, sub: e.SubKey, kind: e.Kind, title: e.titleKey}
}

// Hit is one ranked search result.
type Hit struct {
	Kind       content.Kind `json:"kind"`
	GroupKey   string       `json:"groupKey"`
	SubKey     string       `json:"subKey,omitempty"`
	Title      string       `json:"title"`
	Snippet    string       `json:"snippet"`
	Score      float64      `json:"score"`
	Provenance string       `json:"provenance"`
}

// Target returns the site path the hit links to: /topic/<group>, with a
// #section-<sub> fragment when the hit belongs to a section.
func (h Hit) Target() string {
	p := "/topic/" + url.PathEscape(h.GroupKey)
	if h.SubKey != "" {
		p += "#section-" + url.PathEscape(h.SubKey)
	}
	return p
}
