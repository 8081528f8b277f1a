package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/studysearch/content"
)

// ErrSourcePanic reports a content source that panicked while fetching.
var ErrSourcePanic = errors.New("content source panicked")

type groupResult struct {
	entries []Entry
	dropped int
	err     error
}

func (idx *Index) build(ctx context.Context) {
	began := time.Now()
	logger := idx.opts.Logger
	logger.Debug("index build started", "groups", len(idx.groups))

	results := make([]groupResult, len(idx.groups))
	var g errgroup.Group
	g.SetLimit(idx.opts.FetchConcurrency)
	for i, id := range idx.groups {
		g.Go(func() error {
			results[i] = idx.loadGroup(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	var (
		n       int
		entries []Entry
		stats   = Stats{Groups: len(idx.groups), ByKind: make(map[content.Kind]int)}
	)
	for _, r := range results {
		n += len(r.entries)
	}
	entries = make([]Entry, 0, n)
	for i, r := range results {
		if r.err != nil {
			stats.GroupsFailed = append(stats.GroupsFailed, idx.groups[i])
			continue
		}
		stats.GroupsLoaded++
		stats.DroppedItems += r.dropped
		for _, e := range r.entries {
			stats.ByKind[e.Kind]++
		}
		entries = append(entries, r.entries...)
	}

	stats.State = StateReady
	stats.Entries = len(entries)
	stats.Fingerprint = fingerprint(entries)
	stats.BuildDuration = time.Since(began)
	stats.BuiltAt = time.Now()

	idx.snap.Store(&snapshot{entries: entries, stats: stats})
	idx.state.Store(int32(StateReady))

	logger.Info("index built",
		"entries", stats.Entries,
		"groups", stats.Groups,
		"failed", len(stats.GroupsFailed),
		"dropped", stats.DroppedItems,
		"duration", stats.BuildDuration,
		"fingerprint", stats.Fingerprint,
	)
	idx.opts.Observer.ObserveBuild(stats.clone())
	idx.notify(ChangeEvent{Type: ChangeBuildCompleted, State: StateReady, Entries: stats.Entries})
	close(idx.done)
}

// loadGroup fetches and flattens one group. Failures are reported in the
// result, never propagated.
func (idx *Index) loadGroup(ctx context.Context, id string) (res groupResult) {
	began := time.Now()
	logger := idx.opts.Logger.With("group", id)

	defer func() {
		if r := recover(); r != nil {
			res = groupResult{err: fmt.Errorf("%w: %s: %v", ErrSourcePanic, id, r)}
		}
		if res.err != nil {
			logger.Warn("content group unavailable", "error", res.err)
		}
		idx.opts.Observer.ObserveGroup(id, len(res.entries), time.Since(began), res.err)
	}()

	if idx.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, idx.opts.FetchTimeout)
		defer cancel()
	}

	group, err := idx.src.Fetch(ctx, id)
	if err != nil {
		return groupResult{err: err}
	}

	records, err := group.Records(id)
	if err != nil {
		res.dropped = countErrors(err)
		logger.Warn("dropped invalid content items", "count", res.dropped, "error", err)
	}

	res.entries = make([]Entry, 0, len(records))
	for _, r := range records {
		res.entries = append(res.entries, newEntry(r, idx.opts.MaxBodyLen))
	}
	logger.Debug("content group loaded", "entries", len(res.entries))
	return res
}

func countErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
