package index

import (
	"cmp"
	"slices"
	"time"

	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/search"
	"github.com/jonwraymond/studysearch/textnorm"
)

// SnippetLen is the snippet window used for hits.
const SnippetLen = textnorm.DefaultSnippetLen

type candidate struct {
	entry   *Entry
	score   search.Score
	removed bool
}

// Search ranks entries against query and returns at most limit hits; limit
// <= 0 means DefaultLimit. It returns an empty slice before the index is
// ready and for queries shorter than two characters.
func (idx *Index) Search(query string, limit int) []Hit {
	return idx.search(query, limit, nil)
}

// SearchKinds is Search restricted to entries of the given kinds. With no
// kinds it behaves like Search.
func (idx *Index) SearchKinds(query string, limit int, kinds ...content.Kind) []Hit {
	if len(kinds) == 0 {
		return idx.search(query, limit, nil)
	}
	allow := make(map[content.Kind]bool, len(kinds))
	for _, k := range kinds {
		allow[k] = true
	}
	return idx.search(query, limit, allow)
}

func (idx *Index) search(query string, limit int, allow map[content.Kind]bool) []Hit {
	snap := idx.snap.Load()
	if snap == nil {
		return []Hit{}
	}
	q, ok := search.ParseQuery(query)
	if !ok {
		return []Hit{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	began := time.Now()

	// A later duplicate with a strictly higher score replaces the kept one
	// and moves to the end of the candidate list.
	var (
		kept  []candidate
		byKey = make(map[dedupKey]int)
	)
	for i := range snap.entries {
		e := &snap.entries[i]
		if allow != nil && !allow[e.Kind] {
			continue
		}
		s := idx.opts.Weights.Score(e.title, e.body, e.Kind, q)
		if !s.Matched() {
			continue
		}
		k := e.key()
		if j, dup := byKey[k]; dup {
			if s.Total <= kept[j].score.Total {
				continue
			}
			kept[j].removed = true
		}
		byKey[k] = len(kept)
		kept = append(kept, candidate{entry: e, score: s})
	}

	ranked := make([]candidate, 0, len(kept))
	for _, c := range kept {
		if !c.removed {
			ranked = append(ranked, c)
		}
	}
	slices.SortStableFunc(ranked, func(a, b candidate) int {
		return cmp.Compare(b.score.Total, a.score.Total)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	hits := make([]Hit, len(ranked))
	for i, c := range ranked {
		hits[i] = newHit(c, q)
	}
	idx.opts.Observer.ObserveSearch(len(hits), time.Since(began))
	return hits
}

func newHit(c candidate, q search.Query) Hit {
	e := c.entry
	var snippet string
	if c.score.TitleDominant() {
		snippet = textnorm.TruncateAtWordBoundary(e.Body, SnippetLen)
	} else {
		snippet = textnorm.CenteredSnippet(e.Body, q.Lower, SnippetLen)
	}
	return Hit{
		Kind:       e.Kind,
		GroupKey:   e.GroupKey,
		SubKey:     e.SubKey,
		Title:      e.Title,
		Snippet:    snippet,
		Score:      c.score.Total,
		Provenance: e.Provenance,
	}
}
