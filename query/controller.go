package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/studysearch/index"
	"github.com/jonwraymond/studysearch/search"
	"github.com/jonwraymond/studysearch/textnorm"
)

// Engine is the search backend a Controller drives. *index.Index satisfies it.
type Engine interface {
	Build(ctx context.Context) error
	Ready() bool
	Search(query string, limit int) []index.Hit
}

// Status describes what a View shows.
type Status int

const (
	// StatusIdle is the prompt shown for an empty or too-short query.
	StatusIdle Status = iota
	// StatusLoading is shown while the index is still building.
	StatusLoading
	// StatusResults lists at least one hit.
	StatusResults
	// StatusEmpty reports a searched query with no hits.
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusResults:
		return "results"
	case StatusEmpty:
		return "empty"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// View is a snapshot of the controller for presentation.
type View struct {
	Open     bool
	Status   Status
	Query    string
	Results  Results
	Selected int
	// Version increases with every rendered change.
	Version uint64
}

// Options configures a Controller.
type Options struct {
	// Debounce is the quiet interval after the last input. Defaults to
	// DefaultDebounce.
	Debounce time.Duration
	// Limit caps results per query. Defaults to index.DefaultLimit.
	Limit int
	// Scheduler drives debouncing. Defaults to RealScheduler.
	Scheduler Scheduler
	// Render receives every view change, in version order. It is never
	// called concurrently with itself. It may call View and IsOpen but no
	// method that changes the view.
	Render func(View)
	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Controller turns raw keystrokes into rendered search views. It debounces
// input, shows a loading state until the engine is ready, and never renders
// results for a query that has since been replaced.
type Controller struct {
	engine   Engine
	limit    int
	render   func(View)
	logger   *slog.Logger
	debounce *Debouncer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	open     bool
	input    string
	seq      uint64
	status   Status
	query    string
	results  Results
	selected int
	version  uint64
	waiting  bool

	renderMu sync.Mutex
	rendered uint64
}

// NewController returns a closed controller driving engine.
func NewController(engine Engine, opts Options) *Controller {
	if opts.Limit <= 0 {
		opts.Limit = index.DefaultLimit
	}
	if opts.Render == nil {
		opts.Render = func(View) {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		engine:   engine,
		limit:    opts.Limit,
		render:   opts.Render,
		logger:   opts.Logger,
		debounce: NewDebouncer(opts.Debounce, opts.Scheduler),
		ctx:      ctx,
		cancel:   cancel,
		selected: -1,
	}
}

// OnInput records raw input and schedules a search after the quiet interval.
// Input received while closed is ignored.
func (c *Controller) OnInput(raw string) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.input = raw
	c.mu.Unlock()

	c.debounce.Trigger(func() { c.run(seq) })
}

// Flush runs a pending search immediately.
func (c *Controller) Flush() {
	if !c.debounce.Cancel() {
		return
	}
	c.mu.Lock()
	seq := c.seq
	c.mu.Unlock()
	c.run(seq)
}

func (c *Controller) run(seq uint64) {
	c.mu.Lock()
	if seq != c.seq || !c.open {
		c.mu.Unlock()
		return
	}
	q := strings.TrimSpace(c.input)

	if textnorm.Len(q) < search.MinQueryLen {
		c.setLocked(StatusIdle, q, nil)
		c.flushLocked()
		return
	}
	if !c.engine.Ready() {
		c.setLocked(StatusLoading, q, nil)
		c.awaitBuildLocked()
		c.flushLocked()
		return
	}
	c.mu.Unlock()

	hits := c.engine.Search(q, c.limit)

	c.mu.Lock()
	if seq != c.seq || !c.open {
		c.mu.Unlock()
		c.logger.Debug("discarding stale results", "query", q)
		return
	}
	status := StatusResults
	if len(hits) == 0 {
		status = StatusEmpty
	}
	c.setLocked(status, q, Results(hits))
	c.flushLocked()
}

// awaitBuildLocked starts at most one goroutine that waits for the engine
// and re-runs the latest query if it is still waiting on the build.
func (c *Controller) awaitBuildLocked() {
	if c.waiting {
		return
	}
	c.waiting = true
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := c.engine.Build(c.ctx)

		c.mu.Lock()
		c.waiting = false
		rerun := err == nil && c.open && c.status == StatusLoading
		seq := c.seq
		c.mu.Unlock()

		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.logger.Warn("index build wait failed", "error", err)
			}
			return
		}
		if rerun {
			c.run(seq)
		}
	}()
}

func (c *Controller) setLocked(status Status, q string, results Results) {
	c.status = status
	c.query = q
	c.results = results
	c.selected = -1
	c.version++
}

// flushLocked releases c.mu and renders the current view unless a newer
// view has already been rendered.
func (c *Controller) flushLocked() {
	v := c.viewLocked()
	c.mu.Unlock()

	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if v.Version <= c.rendered {
		return
	}
	c.rendered = v.Version
	c.render(v)
}

func (c *Controller) viewLocked() View {
	return View{
		Open:     c.open,
		Status:   c.status,
		Query:    c.query,
		Results:  c.results,
		Selected: c.selected,
		Version:  c.version,
	}
}

// View returns the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Open shows the search, clears the query and selection, and makes sure the
// index is building.
func (c *Controller) Open() {
	c.debounce.Cancel()
	c.mu.Lock()
	c.open = true
	c.seq++
	c.input = ""
	c.setLocked(StatusIdle, "", nil)
	c.awaitBuildLocked()
	c.flushLocked()
}

// Close hides the search and clears its state. A pending search is dropped.
func (c *Controller) Close() {
	c.debounce.Cancel()
	c.mu.Lock()
	c.open = false
	c.seq++
	c.input = ""
	c.setLocked(StatusIdle, "", nil)
	c.flushLocked()
}

// Toggle opens a closed controller and closes an open one.
func (c *Controller) Toggle() {
	if c.IsOpen() {
		c.Close()
	} else {
		c.Open()
	}
}

// IsOpen reports whether the search is shown.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// MoveSelection moves the selection by delta, clamped to [-1, len-1] where
// -1 means nothing is selected. It returns the new selection.
func (c *Controller) MoveSelection(delta int) int {
	c.mu.Lock()
	if len(c.results) == 0 {
		c.mu.Unlock()
		return -1
	}
	next := min(max(c.selected+delta, -1), len(c.results)-1)
	if next == c.selected {
		c.mu.Unlock()
		return next
	}
	c.selected = next
	c.version++
	c.flushLocked()
	return next
}

// Selected returns the selected hit.
func (c *Controller) Selected() (index.Hit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 || c.selected >= len(c.results) {
		return index.Hit{}, false
	}
	return c.results[c.selected], true
}

// Activate returns the selected hit and closes the search. With nothing
// selected it does nothing and reports false.
func (c *Controller) Activate() (index.Hit, bool) {
	hit, ok := c.Selected()
	if !ok {
		return index.Hit{}, false
	}
	c.Close()
	return hit, true
}

// Shutdown cancels pending work and waits for background goroutines. The
// engine's build is not cancelled.
func (c *Controller) Shutdown() {
	c.debounce.Cancel()
	c.cancel()
	c.wg.Wait()
}
