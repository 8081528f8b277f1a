// Package query drives interactive, search-as-you-type lookups against an
// index.
//
// A [Controller] receives raw input on every keystroke. It waits for a quiet
// interval ([DefaultDebounce]) before searching, shows a loading view while
// the index is still building and re-runs the query once it is ready, and
// drops results that belong to input that has since been replaced.
//
//	c := query.NewController(idx, query.Options{
//	    Render: func(v query.View) { draw(v) },
//	})
//	c.Open()
//	c.OnInput("plas")
//	c.OnInput("plasmid")   // replaces the pending search
//
// Keyboard selection is clamped to [-1, len-1], where -1 means nothing is
// selected:
//
//	c.MoveSelection(+1)
//	if hit, ok := c.Activate(); ok {
//	    navigate(hit.Target())
//	}
//
// [Results] wraps a hit list with filtering helpers, and [Debouncer] is
// usable on its own for coalescing bursts of events such as file-system
// notifications.
package query
