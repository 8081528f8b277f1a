package query

import (
	"slices"

	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/index"
)

// Results is a ranked list of hits with helper methods.
type Results []index.Hit

// Titles returns the hit titles in rank order.
func (r Results) Titles() []string {
	titles := make([]string, len(r))
	for i, h := range r {
		titles[i] = h.Title
	}
	return titles
}

// Targets returns the hit link targets in rank order.
func (r Results) Targets() []string {
	targets := make([]string, len(r))
	for i, h := range r {
		targets[i] = h.Target()
	}
	return targets
}

// Groups returns the distinct group keys in order of first appearance.
func (r Results) Groups() []string {
	var groups []string
	for _, h := range r {
		if !slices.Contains(groups, h.GroupKey) {
			groups = append(groups, h.GroupKey)
		}
	}
	return groups
}

// FilterByKind returns results of any of the given kinds.
func (r Results) FilterByKind(kinds ...content.Kind) Results {
	var filtered Results
	for _, h := range r {
		if slices.Contains(kinds, h.Kind) {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// FilterByGroup returns results from the given group.
func (r Results) FilterByGroup(group string) Results {
	var filtered Results
	for _, h := range r {
		if h.GroupKey == group {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// FilterByMinScore returns results with score >= minScore.
func (r Results) FilterByMinScore(minScore float64) Results {
	var filtered Results
	for _, h := range r {
		if h.Score >= minScore {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
