package index

import (
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jonwraymond/studysearch/content"
)

// Stats summarizes an index.
type Stats struct {
	State         State                `json:"state"`
	Entries       int                  `json:"entries"`
	ByKind        map[content.Kind]int `json:"byKind,omitempty"`
	Groups        int                  `json:"groups"`
	GroupsLoaded  int                  `json:"groupsLoaded"`
	GroupsFailed  []string             `json:"groupsFailed,omitempty"`
	DroppedItems  int                  `json:"droppedItems"`
	Fingerprint   string               `json:"fingerprint,omitempty"`
	BuildDuration time.Duration        `json:"buildDuration"`
	BuiltAt       time.Time            `json:"builtAt,omitzero"`
}

func (s Stats) clone() Stats {
	s.ByKind = maps.Clone(s.ByKind)
	s.GroupsFailed = slices.Clone(s.GroupsFailed)
	return s
}

// Stats returns a snapshot of the index statistics. Before the index is ready
// only State and Groups are set.
func (idx *Index) Stats() Stats {
	if s := idx.snap.Load(); s != nil {
		return s.stats.clone()
	}
	return Stats{State: idx.State(), Groups: len(idx.groups)}
}

// Fingerprint returns a hash of the indexed content, or "" before the index is
// ready. Two indexes built from identical content have equal fingerprints.
func (idx *Index) Fingerprint() string {
	if s := idx.snap.Load(); s != nil {
		return s.stats.Fingerprint
	}
	return ""
}

// fingerprint hashes entries in order. Field order and separators are part of
// the format.
func fingerprint(entries []Entry) string {
	h := xxhash.New()
	for i := range entries {
		e := &entries[i]
		for _, s := range [...]string{string(e.Kind), e.GroupKey, e.SubKey, e.Title, e.Body, e.Provenance} {
			_, _ = h.WriteString(s)
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte{1})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
