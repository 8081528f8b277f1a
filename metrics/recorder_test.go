package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/index"
)

func TestNewRecorder(t *testing.T) {
	r := NewRecorder()
	require.NotNil(t, r)
	assert.NotNil(t, r.Registry())
	assert.NotNil(t, r.GroupFetchesTotal)
	assert.NotNil(t, r.SearchDuration)
	assert.NotNil(t, r.ToolCallsTotal)
}

func TestRecorders_AreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveSearch(3, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SearchesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SearchesTotal))
}

func TestObserveGroup(t *testing.T) {
	r := NewRecorder()
	r.ObserveGroup("editing", 4, 10*time.Millisecond, nil)
	r.ObserveGroup("cells", 0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.GroupFetchesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GroupFetchesTotal.WithLabelValues("error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.GroupEntries.WithLabelValues("editing")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.GroupEntries))
}

func TestObserveBuild(t *testing.T) {
	r := NewRecorder()
	builtAt := time.Unix(1700000000, 0)
	r.ObserveBuild(index.Stats{
		State:         index.StateReady,
		Entries:       5,
		ByKind:        map[content.Kind]int{content.KindSection: 3, content.KindVocabulary: 2},
		GroupsFailed:  []string{"cells"},
		DroppedItems:  2,
		BuildDuration: 1500 * time.Millisecond,
		BuiltAt:       builtAt,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.BuildsTotal))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.BuildDuration))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.LastBuildTimestamp))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.IndexEntries.WithLabelValues(string(content.KindSection))))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GroupsFailed))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.DroppedItems))

	// A later build replaces the per-kind series.
	r.ObserveBuild(index.Stats{ByKind: map[content.Kind]int{content.KindFact: 1}})
	assert.Equal(t, 1, testutil.CollectAndCount(r.IndexEntries))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.BuildsTotal))
}

func TestObserveToolCall(t *testing.T) {
	r := NewRecorder()
	r.ObserveToolCall("search_content", "ok", time.Millisecond)
	r.ObserveToolCall("search_content", "ok", time.Millisecond)
	r.ObserveToolCall("search_content", "invalid_params", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ToolCallsTotal.WithLabelValues("search_content", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ToolCallsTotal.WithLabelValues("search_content", "invalid_params")))
}

func TestRecorder_AsIndexObserver(t *testing.T) {
	src := content.NewInMemorySource()
	require.NoError(t, src.Put("editing", &content.Group{
		Sections:   []content.Section{{ID: "s1", Title: "Cloning Vectors", Content: "<p>A plasmid is used as a cloning vector.</p>"}},
		Vocabulary: []content.Term{{Term: "Plasmid", Definition: "A small circular DNA molecule"}},
	}))

	r := NewRecorder()
	idx := index.NewIndex(src, []string{"editing", "missing"}, index.IndexOptions{Observer: r})
	require.NoError(t, idx.Build(context.Background()))

	hits := idx.Search("plasmid", 10)
	require.Len(t, hits, 2)
	idx.Search("p", 10)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.GroupFetchesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GroupFetchesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GroupsFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.IndexEntries.WithLabelValues(string(content.KindVocabulary))))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SearchesTotal), "short queries are not observed")
}

func TestHandler(t *testing.T) {
	r := NewRecorder().WithRuntimeCollectors()
	r.ObserveSearch(1, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.True(t, strings.Contains(text, "studysearch_searches_total 1"), "missing search counter")
	assert.Contains(t, text, "go_goroutines")
}

func TestSearchCounterExposition(t *testing.T) {
	r := NewRecorder()
	r.ObserveSearch(2, time.Millisecond)

	expected := `
# HELP studysearch_searches_total Searches run against a ready index
# TYPE studysearch_searches_total counter
studysearch_searches_total 1
`
	require.NoError(t, testutil.CollectAndCompare(r.SearchesTotal, strings.NewReader(expected)))
}
