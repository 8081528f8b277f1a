package index

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/studysearch/content"
)

// ============================================================
// Helpers
// ============================================================

func editingGroup() *content.Group {
	return &content.Group{
		Sections: []content.Section{
			{ID: "s1", Title: "Cloning Vectors", Content: "<p>A plasmid is used as a cloning vector.</p>"},
		},
		Vocabulary: []content.Term{
			{Term: "Plasmid", Definition: "A small circular DNA molecule"},
		},
	}
}

func newSource(t *testing.T, groups map[string]*content.Group) *content.InMemorySource {
	t.Helper()
	src := content.NewInMemorySource()
	for id, g := range groups {
		if err := src.Put(id, g); err != nil {
			t.Fatalf("Put(%s) failed: %v", id, err)
		}
	}
	return src
}

func mustBuild(t *testing.T, idx *Index) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := idx.Build(ctx); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
}

func builtIndex(t *testing.T, groups map[string]*content.Group, order ...string) *Index {
	t.Helper()
	idx := NewIndex(newSource(t, groups), order)
	mustBuild(t, idx)
	return idx
}

// gateSource blocks every fetch until gate is closed.
type gateSource struct {
	content.Source
	gate    chan struct{}
	fetches atomic.Int32
}

func (s *gateSource) Fetch(ctx context.Context, id string) (*content.Group, error) {
	s.fetches.Add(1)
	select {
	case <-s.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.Source.Fetch(ctx, id)
}

// ============================================================
// Search scenarios
// ============================================================

func TestSearch_PlasmidScenario(t *testing.T) {
	idx := builtIndex(t, map[string]*content.Group{"editing": editingGroup()}, "editing")

	hits := idx.Search("plasmid", 10)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d: %+v", len(hits), hits)
	}

	vocab, section := hits[0], hits[1]
	if vocab.Kind != content.KindVocabulary || vocab.Title != "Plasmid" {
		t.Errorf("expected vocabulary hit first, got %+v", vocab)
	}
	if section.Kind != content.KindSection || section.SubKey != "s1" {
		t.Errorf("expected section hit second, got %+v", section)
	}
	if vocab.Score <= section.Score {
		t.Errorf("vocabulary score %v should exceed section score %v", vocab.Score, section.Score)
	}
	if vocab.Score != 168 || section.Score != 9 {
		t.Errorf("scores = %v, %v; want 168, 9", vocab.Score, section.Score)
	}
	if !strings.Contains(section.Snippet, "plasmid") {
		t.Errorf("section snippet missing match: %q", section.Snippet)
	}
	if strings.ContainsAny(section.Snippet, "<>") {
		t.Errorf("section snippet contains markup: %q", section.Snippet)
	}
	if section.Snippet != "A plasmid is used as a cloning vector." {
		t.Errorf("section snippet = %q", section.Snippet)
	}
	if vocab.Snippet != "A small circular DNA molecule" {
		t.Errorf("vocabulary snippet = %q", vocab.Snippet)
	}
	if vocab.Provenance != content.ProvenanceVocabulary {
		t.Errorf("provenance = %q", vocab.Provenance)
	}
}

func TestSearch_ShortQueryReturnsEmpty(t *testing.T) {
	idx := builtIndex(t, map[string]*content.Group{"editing": editingGroup()}, "editing")

	for _, q := range []string{"", "a", " ", "\t"} {
		hits := idx.Search(q, 10)
		if hits == nil {
			t.Errorf("Search(%q) returned nil, want empty slice", q)
		}
		if len(hits) != 0 {
			t.Errorf("Search(%q) returned %d hits", q, len(hits))
		}
	}
}

func TestSearch_QueryIsNotTrimmed(t *testing.T) {
	idx := builtIndex(t, map[string]*content.Group{
		"cloning": {Vocabulary: []content.Term{
			{Term: "Vector: A p plasmid"},
			{Term: "Ori", Definition: "Origin of replication"},
		}},
	}, "cloning")

	hits := idx.Search(" p ", 10)
	if len(hits) != 1 || hits[0].Title != "Vector: A p plasmid" {
		t.Fatalf("Search(%q) = %+v, want the vector term only", " p ", hits)
	}

	if hits := idx.Search("ori ", 10); len(hits) != 0 {
		t.Errorf("Search(%q) = %+v, want no hits: no field contains the trailing space", "ori ", hits)
	}
	if hits := idx.Search("ori", 10); len(hits) != 1 || hits[0].Title != "Ori" {
		t.Errorf("Search(%q) = %+v, want Ori", "ori", hits)
	}
	if hits := idx.Search("a ", 10); len(hits) != 1 || hits[0].Title != "Vector: A p plasmid" {
		t.Errorf("Search(%q) = %+v, want the vector term only", "a ", hits)
	}
}

func TestSearch_BeforeBuildReturnsEmpty(t *testing.T) {
	src := &gateSource{
		Source: newSource(t, map[string]*content.Group{"editing": editingGroup()}),
		gate:   make(chan struct{}),
	}
	idx := NewIndex(src, []string{"editing"})

	if hits := idx.Search("plasmid", 10); hits == nil || len(hits) != 0 {
		t.Fatalf("unbuilt Search = %v, want empty", hits)
	}

	idx.Start()
	if idx.State() != StateBuilding {
		t.Fatalf("State = %v, want building", idx.State())
	}
	if hits := idx.Search("plasmid", 10); len(hits) != 0 {
		t.Fatalf("building Search returned %d hits", len(hits))
	}

	close(src.gate)
	mustBuild(t, idx)

	if !idx.Ready() {
		t.Fatal("expected index to be ready")
	}
	if hits := idx.Search("plasmid", 10); len(hits) == 0 {
		t.Fatal("expected hits after build")
	}
}

func TestSearch_LimitRespected(t *testing.T) {
	g := &content.Group{}
	for i := range 30 {
		g.Vocabulary = append(g.Vocabulary, content.Term{
			Term:       fmt.Sprintf("Enzyme %02d", i),
			Definition: "A protein catalyst",
		})
	}
	idx := builtIndex(t, map[string]*content.Group{"g": g}, "g")

	if hits := idx.Search("enzyme", 3); len(hits) != 3 {
		t.Errorf("limit 3 returned %d hits", len(hits))
	}
	if hits := idx.Search("enzyme", 0); len(hits) != DefaultLimit {
		t.Errorf("default limit returned %d hits, want %d", len(hits), DefaultLimit)
	}
	if hits := idx.Search("enzyme", 100); len(hits) != 30 {
		t.Errorf("limit 100 returned %d hits, want 30", len(hits))
	}
}

func TestSearch_StableUnderTies(t *testing.T) {
	g := &content.Group{
		Vocabulary: []content.Term{
			{Term: "Ligase B", Definition: "Joins fragments"},
			{Term: "Ligase A", Definition: "Joins fragments"},
		},
	}
	idx := builtIndex(t, map[string]*content.Group{"g": g}, "g")

	hits := idx.Search("ligase", 10)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Score != hits[1].Score {
		t.Fatalf("expected tied scores, got %v and %v", hits[0].Score, hits[1].Score)
	}
	if hits[0].Title != "Ligase B" || hits[1].Title != "Ligase A" {
		t.Errorf("tie order = [%s %s], want build order [Ligase B, Ligase A]", hits[0].Title, hits[1].Title)
	}
}

func TestSearch_GroupOrderBreaksTies(t *testing.T) {
	same := func() *content.Group {
		return &content.Group{Vocabulary: []content.Term{{Term: "Codon", Definition: "Three bases"}}}
	}
	idx := builtIndex(t, map[string]*content.Group{"b": same(), "a": same()}, "b", "a")

	hits := idx.Search("codon", 10)
	if len(hits) != 2 || hits[0].GroupKey != "b" || hits[1].GroupKey != "a" {
		t.Errorf("hits = %+v, want group b before a", hits)
	}
}

func TestSearch_DedupKeepsHigherScore(t *testing.T) {
	g := &content.Group{
		Sections: []content.Section{
			{ID: "s1", Title: "Enzyme", Content: "x"},
			{ID: "s2", Title: "Enzyme", Content: "enzyme"},
			{ID: "s1", Title: "Enzyme", Content: "enzyme"},
		},
	}
	idx := builtIndex(t, map[string]*content.Group{"g": g}, "g")

	hits := idx.Search("enzyme", 10)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits after dedup, got %d: %+v", len(hits), hits)
	}
	// The replacing s1 hit moves behind s2 and ties with it.
	if hits[0].SubKey != "s2" || hits[1].SubKey != "s1" {
		t.Errorf("order = [%s %s], want [s2 s1]", hits[0].SubKey, hits[1].SubKey)
	}
	if hits[1].Score != 157.5 {
		t.Errorf("kept s1 score = %v, want the higher 157.5", hits[1].Score)
	}
}

func TestSearch_DedupDropsLowerLaterHit(t *testing.T) {
	g := &content.Group{
		Sections: []content.Section{
			{ID: "s1", Title: "Enzyme", Content: "enzyme"},
			{ID: "s1", Title: "Enzyme", Content: "x"},
		},
	}
	idx := builtIndex(t, map[string]*content.Group{"g": g}, "g")

	hits := idx.Search("enzyme", 10)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Score != 157.5 {
		t.Errorf("score = %v, want 157.5", hits[0].Score)
	}
}

func TestSearch_DedupUsesTitlePrefix(t *testing.T) {
	prefix := strings.Repeat("Restriction ", 4)
	g := &content.Group{
		Vocabulary: []content.Term{
			{Term: prefix + "alpha", Definition: "one"},
			{Term: prefix + "beta", Definition: "two"},
		},
	}
	idx := builtIndex(t, map[string]*content.Group{"g": g}, "g")

	if hits := idx.Search("restriction", 10); len(hits) != 1 {
		t.Errorf("titles sharing the first %d characters should collapse, got %d hits", DedupTitleLen, len(hits))
	}
}

func TestSearch_Deterministic(t *testing.T) {
	idx := builtIndex(t, map[string]*content.Group{"editing": editingGroup()}, "editing")

	first := idx.Search("dna", 10)
	second := idx.Search("dna", 10)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated search differs:\n%+v\n%+v", first, second)
	}
}

func TestSearch_MultiWordQuery(t *testing.T) {
	g := &content.Group{
		Vocabulary: []content.Term{
			{Term: "Restriction Enzyme", Definition: "Cuts DNA at recognition sites"},
			{Term: "Recognition Site", Definition: "Sequence bound by an enzyme"},
		},
	}
	idx := builtIndex(t, map[string]*content.Group{"g": g}, "g")

	// Each word scores on its own even when the phrase occurs nowhere.
	hits := idx.Search("enzyme site", 10)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %+v", hits)
	}
	if hits[0].Score != 30 || hits[1].Score != 30 {
		t.Errorf("scores = %v, %v; want 30, 30", hits[0].Score, hits[1].Score)
	}

	hits = idx.Search("restriction enzyme", 10)
	if len(hits) != 2 || hits[0].Title != "Restriction Enzyme" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
	if hits[0].Score != 156 || hits[1].Score != 6 {
		t.Errorf("scores = %v, %v; want 156, 6", hits[0].Score, hits[1].Score)
	}
}

func TestSearch_SnippetCentersOnMatch(t *testing.T) {
	body := strings.Repeat("Filler words about sequencing. ", 10) + "Polymerase extends the primer. " +
		strings.Repeat("More filler text here. ", 10)
	g := &content.Group{Sections: []content.Section{{ID: "s", Title: "Overview", Content: body}}}
	idx := builtIndex(t, map[string]*content.Group{"g": g}, "g")

	hits := idx.Search("polymerase", 10)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	snip := hits[0].Snippet
	if !strings.HasPrefix(snip, "…") || !strings.HasSuffix(snip, "…") || !strings.Contains(snip, "Polymerase") {
		t.Errorf("snippet not centered on match: %q", snip)
	}
}

func TestSearchKinds(t *testing.T) {
	idx := builtIndex(t, map[string]*content.Group{"editing": editingGroup()}, "editing")

	hits := idx.SearchKinds("plasmid", 10, content.KindSection)
	if len(hits) != 1 || hits[0].Kind != content.KindSection {
		t.Errorf("SearchKinds(section) = %+v", hits)
	}
	if hits := idx.SearchKinds("plasmid", 10); len(hits) != 2 {
		t.Errorf("SearchKinds with no kinds returned %d hits, want 2", len(hits))
	}
	if hits := idx.SearchKinds("plasmid", 10, content.KindFact); len(hits) != 0 {
		t.Errorf("SearchKinds(fact) returned %d hits", len(hits))
	}
}

// ============================================================
// Build
// ============================================================

func TestBuild_ConcurrentCallersShareOneBuild(t *testing.T) {
	src := &gateSource{
		Source: newSource(t, map[string]*content.Group{"a": editingGroup(), "b": editingGroup()}),
		gate:   make(chan struct{}),
	}
	idx := NewIndex(src, []string{"a", "b"})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- idx.Build(context.Background())
		}()
	}
	close(src.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Build returned %v", err)
		}
	}
	if n := src.fetches.Load(); n != 2 {
		t.Errorf("fetches = %d, want 2 (one per group)", n)
	}
	if idx.Len() != 4 {
		t.Errorf("Len = %d, want 4", idx.Len())
	}

	// Later calls return immediately.
	mustBuild(t, idx)
	if n := src.fetches.Load(); n != 2 {
		t.Errorf("rebuild fetched again: %d", n)
	}
}

func TestBuild_CallerCancellationDoesNotStopBuild(t *testing.T) {
	src := &gateSource{
		Source: newSource(t, map[string]*content.Group{"editing": editingGroup()}),
		gate:   make(chan struct{}),
	}
	idx := NewIndex(src, []string{"editing"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := idx.Build(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Build = %v, want context.Canceled", err)
	}

	close(src.gate)
	select {
	case <-idx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("build did not finish")
	}
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
}

func TestBuild_FailedGroupsDegrade(t *testing.T) {
	good := newSource(t, map[string]*content.Group{"editing": editingGroup()})
	src := content.SourceFunc(func(ctx context.Context, id string) (*content.Group, error) {
		switch id {
		case "broken":
			return nil, content.ErrFetchFailed
		case "panics":
			panic("boom")
		}
		return good.Fetch(ctx, id)
	})
	idx := NewIndex(src, []string{"broken", "editing", "missing", "panics"})
	mustBuild(t, idx)

	if hits := idx.Search("plasmid", 10); len(hits) != 2 {
		t.Errorf("expected hits from healthy group, got %d", len(hits))
	}
	stats := idx.Stats()
	want := []string{"broken", "missing", "panics"}
	if !reflect.DeepEqual(stats.GroupsFailed, want) {
		t.Errorf("GroupsFailed = %v, want %v", stats.GroupsFailed, want)
	}
	if stats.GroupsLoaded != 1 || stats.Groups != 4 {
		t.Errorf("GroupsLoaded = %d, Groups = %d", stats.GroupsLoaded, stats.Groups)
	}
}

func TestBuild_FetchTimeout(t *testing.T) {
	src := content.SourceFunc(func(ctx context.Context, id string) (*content.Group, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	idx := NewIndex(src, []string{"slow"}, IndexOptions{FetchTimeout: 10 * time.Millisecond})
	mustBuild(t, idx)

	if got := idx.Stats().GroupsFailed; len(got) != 1 {
		t.Errorf("GroupsFailed = %v, want [slow]", got)
	}
}

func TestBuild_SectionWithoutID(t *testing.T) {
	idx := builtIndex(t, map[string]*content.Group{
		"cloning": {Sections: []content.Section{{
			Title:         "Gibson Assembly",
			Content:       "Joins overlapping fragments.",
			CheckQuestion: &content.Question{Question: "Which enzyme does Gibson assembly use?"},
		}}},
	}, "cloning")

	if got := idx.Stats().DroppedItems; got != 0 {
		t.Errorf("DroppedItems = %d, want 0", got)
	}
	hits := idx.Search("gibson", 10)
	if len(hits) != 2 {
		t.Fatalf("Search(gibson) returned %d hits, want section and check question", len(hits))
	}
	for _, h := range hits {
		if h.SubKey != "" || h.Target() != "/topic/cloning" {
			t.Errorf("hit %q: SubKey = %q, Target = %q", h.Title, h.SubKey, h.Target())
		}
	}
}

func TestBuild_NilSource(t *testing.T) {
	idx := NewIndex(nil, []string{"a"})
	mustBuild(t, idx)
	if idx.Len() != 0 || !idx.Ready() {
		t.Errorf("Len = %d, Ready = %v", idx.Len(), idx.Ready())
	}
}

func TestBuild_EntryOrderAndNormalization(t *testing.T) {
	g := &content.Group{
		Sections: []content.Section{{
			ID:            "s1",
			Title:         "  Gel   Electrophoresis ",
			Content:       "<h2>Setup</h2><p>Load the <em>gel</em>.</p><script>x()</script>",
			CheckQuestion: &content.Question{Question: "Which way does DNA move?", Options: []string{"Anode", "Cathode"}},
		}},
		Vocabulary:    []content.Term{{Term: "Agarose"}, {Term: ""}},
		KeyFacts:      []content.Fact{{Label: "Voltage", Value: "100"}},
		QuizQuestions: []content.Question{{Question: "What stains DNA?"}},
	}
	idx := NewIndex(newSource(t, map[string]*content.Group{"gel": g}), []string{"gel"},
		IndexOptions{MaxBodyLen: 12})
	mustBuild(t, idx)

	entries := idx.Entries()
	kinds := make([]content.Kind, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind
	}
	want := []content.Kind{content.KindSection, content.KindQuiz, content.KindVocabulary, content.KindFact, content.KindQuiz}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if entries[0].Title != "Gel Electrophoresis" {
		t.Errorf("title = %q", entries[0].Title)
	}
	if entries[0].Body != "Setup Load t" {
		t.Errorf("body = %q, want clipped stripped text", entries[0].Body)
	}
	if entries[1].SubKey != "s1" || entries[1].Provenance != content.ProvenanceCheckQuestion {
		t.Errorf("check question entry = %+v", entries[1])
	}
	if entries[1].Body != "Anode | Cath" {
		t.Errorf("check question body = %q", entries[1].Body)
	}
	if got := idx.Stats().DroppedItems; got != 1 {
		t.Errorf("DroppedItems = %d, want 1", got)
	}
}

func TestNewIndex_DedupesGroups(t *testing.T) {
	idx := NewIndex(nil, []string{"a", " ", "b", "a"})
	if got := idx.Groups(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Groups = %v", got)
	}
}

// ============================================================
// Stats, fingerprint and notifications
// ============================================================

func TestStats(t *testing.T) {
	idx := NewIndex(newSource(t, map[string]*content.Group{"editing": editingGroup()}), []string{"editing"})

	before := idx.Stats()
	if before.State != StateUnbuilt || before.Groups != 1 || before.Entries != 0 {
		t.Errorf("unbuilt stats = %+v", before)
	}
	if idx.Fingerprint() != "" {
		t.Error("unbuilt fingerprint should be empty")
	}

	mustBuild(t, idx)
	stats := idx.Stats()
	if stats.State != StateReady || stats.Entries != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByKind[content.KindSection] != 1 || stats.ByKind[content.KindVocabulary] != 1 {
		t.Errorf("ByKind = %v", stats.ByKind)
	}
	if stats.Fingerprint == "" || stats.Fingerprint != idx.Fingerprint() {
		t.Errorf("fingerprint = %q / %q", stats.Fingerprint, idx.Fingerprint())
	}

	stats.ByKind[content.KindSection] = 99
	if idx.Stats().ByKind[content.KindSection] != 1 {
		t.Error("Stats must return a copy")
	}
}

func TestFingerprint_TracksContent(t *testing.T) {
	a := builtIndex(t, map[string]*content.Group{"editing": editingGroup()}, "editing")
	b := builtIndex(t, map[string]*content.Group{"editing": editingGroup()}, "editing")
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical content should fingerprint equally")
	}

	changed := editingGroup()
	changed.Vocabulary[0].Definition = "A small circular RNA molecule"
	c := builtIndex(t, map[string]*content.Group{"editing": changed}, "editing")
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("changed content should change the fingerprint")
	}
}

func TestOnChange_EmitsBuildEvents(t *testing.T) {
	idx := NewIndex(newSource(t, map[string]*content.Group{"editing": editingGroup()}), []string{"editing"})

	var (
		mu     sync.Mutex
		events []ChangeEvent
	)
	unsub := idx.OnChange(func(ev ChangeEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	var other int
	unsubOther := idx.OnChange(func(ChangeEvent) { other++ })
	unsubOther()
	unsubOther()

	mustBuild(t, idx)
	unsub()

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != ChangeBuildStarted || events[1].Type != ChangeBuildCompleted {
		t.Errorf("event types = %v, %v", events[0].Type, events[1].Type)
	}
	if events[1].Entries != 2 || events[1].State != StateReady {
		t.Errorf("completed event = %+v", events[1])
	}
	if events[1].Version <= events[0].Version {
		t.Error("versions should increase")
	}
	if other != 0 {
		t.Errorf("unsubscribed listener called %d times", other)
	}
}

// ============================================================
// Observer
// ============================================================

type recordingObserver struct {
	mu       sync.Mutex
	groups   map[string]error
	builds   int
	searches []int
}

func (o *recordingObserver) ObserveGroup(group string, _ int, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.groups == nil {
		o.groups = make(map[string]error)
	}
	o.groups[group] = err
}

func (o *recordingObserver) ObserveBuild(Stats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.builds++
}

func (o *recordingObserver) ObserveSearch(hits int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.searches = append(o.searches, hits)
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	idx := NewIndex(newSource(t, map[string]*content.Group{"editing": editingGroup()}),
		[]string{"editing", "missing"}, IndexOptions{Observer: obs})

	idx.Search("plasmid", 10)
	mustBuild(t, idx)
	idx.Search("plasmid", 10)
	idx.Search("p", 10)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.builds != 1 {
		t.Errorf("builds = %d", obs.builds)
	}
	if obs.groups["editing"] != nil || !errors.Is(obs.groups["missing"], content.ErrGroupNotFound) {
		t.Errorf("groups = %v", obs.groups)
	}
	if !reflect.DeepEqual(obs.searches, []int{2}) {
		t.Errorf("searches = %v, want [2]", obs.searches)
	}
}

// ============================================================
// Hit
// ============================================================

func TestHit_Target(t *testing.T) {
	tests := []struct {
		hit  Hit
		want string
	}{
		{Hit{GroupKey: "editing"}, "/topic/editing"},
		{Hit{GroupKey: "editing", SubKey: "s1"}, "/topic/editing#section-s1"},
		{Hit{GroupKey: "genetic codes"}, "/topic/genetic%20codes"},
	}
	for _, tt := range tests {
		if got := tt.hit.Target(); got != tt.want {
			t.Errorf("Target() = %q, want %q", got, tt.want)
		}
	}
}

func TestState_String(t *testing.T) {
	if StateUnbuilt.String() != "unbuilt" || StateBuilding.String() != "building" || StateReady.String() != "ready" {
		t.Error("unexpected state names")
	}
	if State(9).String() != "State(9)" {
		t.Errorf("unknown state = %q", State(9).String())
	}
}

func TestState_TextRoundTrip(t *testing.T) {
	var s State
	if err := s.UnmarshalText([]byte("building")); err != nil || s != StateBuilding {
		t.Errorf("UnmarshalText(building) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("done")); err == nil {
		t.Error("expected error for unknown state")
	}
}
