package index

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/search"
)

// Defaults for IndexOptions and Search.
const (
	DefaultLimit            = 25
	MaxBodyLen              = 2000
	DefaultFetchConcurrency = 8
)

// State is the lifecycle state of an Index.
type State int32

const (
	StateUnbuilt State = iota
	StateBuilding
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{StateUnbuilt, StateBuilding, StateReady} {
		if string(b) == st.String() {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown index state %q", b)
}

// ChangeType identifies the kind of index change.
type ChangeType int

const (
	ChangeBuildStarted ChangeType = iota + 1
	ChangeBuildCompleted
)

func (t ChangeType) String() string {
	switch t {
	case ChangeBuildStarted:
		return "build_started"
	case ChangeBuildCompleted:
		return "build_completed"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
}

// ChangeEvent describes a lifecycle change.
type ChangeEvent struct {
	Type    ChangeType
	State   State
	Entries int
	Version uint64
}

// ChangeListener receives change events. Listeners are called synchronously
// from the goroutine that made the change, before Build returns to waiting
// callers. A listener must not block or wait on the build.
type ChangeListener func(ChangeEvent)

// ChangeNotifier is implemented by indexes that report lifecycle changes.
type ChangeNotifier interface {
	OnChange(listener ChangeListener) func()
}

// IndexOptions configures an Index. The zero value is usable.
type IndexOptions struct {
	// Weights tune scoring. Zero weights take their defaults.
	Weights search.Weights
	// Logger receives build diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
	// Observer receives build and search measurements.
	Observer Observer
	// MaxBodyLen caps stored body text, in characters. Defaults to MaxBodyLen.
	MaxBodyLen int
	// FetchConcurrency bounds concurrent group fetches.
	// Defaults to DefaultFetchConcurrency.
	FetchConcurrency int
	// FetchTimeout bounds each group fetch. Zero means no timeout.
	FetchTimeout time.Duration
}

func (o IndexOptions) withDefaults() IndexOptions {
	o.Weights = o.Weights.WithDefaults()
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	if o.MaxBodyLen <= 0 {
		o.MaxBodyLen = MaxBodyLen
	}
	if o.FetchConcurrency <= 0 {
		o.FetchConcurrency = DefaultFetchConcurrency
	}
	if o.FetchTimeout < 0 {
		o.FetchTimeout = 0
	}
	return o
}

// Index is a lazily built, immutable-once-ready search index.
type Index struct {
	src    content.Source
	groups []string
	opts   IndexOptions

	start sync.Once
	done  chan struct{}
	state atomic.Int32
	snap  atomic.Pointer[snapshot]

	mu           sync.Mutex
	listeners    map[uint64]ChangeListener
	nextListener uint64
	version      uint64
}

type snapshot struct {
	entries []Entry
	stats   Stats
}

// NewIndex returns an unbuilt index over the given groups, fetched from src in
// the order listed. Blank and repeated group IDs are ignored.
func NewIndex(src content.Source, groups []string, opts ...IndexOptions) *Index {
	var o IndexOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if src == nil {
		src = content.SourceFunc(func(_ context.Context, id string) (*content.Group, error) {
			return nil, fmt.Errorf("%w: %s: no content source", content.ErrGroupNotFound, id)
		})
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" || slices.Contains(ids, g) {
			continue
		}
		ids = append(ids, g)
	}

	return &Index{
		src:       src,
		groups:    ids,
		opts:      o.withDefaults(),
		done:      make(chan struct{}),
		listeners: make(map[uint64]ChangeListener),
	}
}

// Build starts the build if needed and waits for it to finish. It returns
// ctx.Err() if ctx ends first; the build continues in the background.
func (idx *Index) Build(ctx context.Context) error {
	idx.startBuild(context.WithoutCancel(ctx))

	select {
	case <-idx.done:
		return nil
	default:
	}
	select {
	case <-idx.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start begins the build without waiting for it.
func (idx *Index) Start() {
	idx.startBuild(context.Background())
}

func (idx *Index) startBuild(ctx context.Context) {
	idx.start.Do(func() {
		idx.state.Store(int32(StateBuilding))
		idx.notify(ChangeEvent{Type: ChangeBuildStarted, State: StateBuilding})
		go idx.build(ctx)
	})
}

// Done returns a channel that is closed once the index is ready.
func (idx *Index) Done() <-chan struct{} {
	return idx.done
}

// State returns the current lifecycle state.
func (idx *Index) State() State {
	return State(idx.state.Load())
}

// Ready reports whether the index has been built.
func (idx *Index) Ready() bool {
	return idx.State() == StateReady
}

// Len returns the number of entries, or 0 before the index is ready.
func (idx *Index) Len() int {
	if s := idx.snap.Load(); s != nil {
		return len(s.entries)
	}
	return 0
}

// Groups returns the group IDs the index is built from, in build order.
func (idx *Index) Groups() []string {
	return slices.Clone(idx.groups)
}

// Entries returns a copy of the entries, or nil before the index is ready.
func (idx *Index) Entries() []Entry {
	if s := idx.snap.Load(); s != nil {
		return slices.Clone(s.entries)
	}
	return nil
}

// OnChange registers a listener and returns a function that removes it.
func (idx *Index) OnChange(listener ChangeListener) func() {
	if listener == nil {
		return func() {}
	}
	idx.mu.Lock()
	id := idx.nextListener
	idx.nextListener++
	idx.listeners[id] = listener
	idx.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			idx.mu.Lock()
			delete(idx.listeners, id)
			idx.mu.Unlock()
		})
	}
}

func (idx *Index) notify(ev ChangeEvent) {
	idx.mu.Lock()
	idx.version++
	ev.Version = idx.version
	listeners := make([]ChangeListener, 0, len(idx.listeners))
	for _, l := range idx.listeners {
		listeners = append(listeners, l)
	}
	idx.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}
