// Package index builds an in-memory search index over study content and ranks
// entries against free-text queries.
//
// # Lifecycle
//
// An [Index] moves through three states:
//
//	unbuilt → building → ready
//
// The first call to [Index.Build] or [Index.Start] fetches every content
// group concurrently, flattens the groups into entries in declared order and
// publishes them atomically. Concurrent and later callers share that single
// build. Entries are immutable once published.
//
//	idx := index.NewIndex(src, []string{"sequencing", "editing"})
//	if err := idx.Build(ctx); err != nil {
//	    // ctx ended before the build finished; the build keeps running.
//	}
//	hits := idx.Search("plasmid", 10)
//
// A group that cannot be fetched is logged and contributes no entries. The
// build itself never fails.
//
// # Search
//
// [Index.Search] returns an empty slice until the index is ready, and for
// queries shorter than two characters. Hits are scored by the search package,
// scaled by kind weight, deduplicated by (group, sub-key, kind, title prefix)
// keeping the higher score, and stably sorted by descending score so equal
// scores keep build order.
//
// # Change Notifications
//
// Listeners registered with [Index.OnChange] are told when a build starts and
// when the index becomes ready:
//
//	unsub := idx.OnChange(func(ev index.ChangeEvent) {
//	    log.Println(ev.Type, ev.Entries)
//	})
//	defer unsub()
//
// # Thread Safety
//
// All methods are safe for concurrent use. Search takes no locks.
package index
