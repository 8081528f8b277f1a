package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Recorder) initBuildMetrics() {
	factory := promauto.With(r.registry)

	r.GroupFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "group_fetches_total",
			Help:      "Content group fetches by outcome",
		},
		[]string{"status"},
	)

	r.GroupFetchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "group_fetch_duration_seconds",
		Help:      "Time to fetch and flatten one content group",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	r.GroupEntries = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "group_entries",
			Help:      "Entries contributed by each group in the last build",
		},
		[]string{"group"},
	)

	r.BuildsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "index_builds_total",
		Help:      "Completed index builds",
	})

	r.BuildDuration = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "index_build_duration_seconds",
		Help:      "Duration of the last index build",
	})

	r.LastBuildTimestamp = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "index_last_build_timestamp_seconds",
		Help:      "Unix time the last build completed",
	})

	r.IndexEntries = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "index_entries",
			Help:      "Entries in the ready index by kind",
		},
		[]string{"kind"},
	)

	r.GroupsFailed = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "index_groups_failed",
		Help:      "Groups that could not be loaded in the last build",
	})

	r.DroppedItems = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "index_dropped_items",
		Help:      "Invalid content items skipped in the last build",
	})
}

func (r *Recorder) initSearchMetrics() {
	factory := promauto.With(r.registry)

	r.SearchesTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "searches_total",
		Help:      "Searches run against a ready index",
	})

	r.SearchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "search_duration_seconds",
		Help:      "Search latency",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	r.SearchHits = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "search_hits",
		Help:      "Hits returned per search",
		Buckets:   []float64{0, 1, 5, 10, 25, 50},
	})
}

func (r *Recorder) initServerMetrics() {
	factory := promauto.With(r.registry)

	r.ToolCallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool and outcome",
		},
		[]string{"tool", "status"},
	)

	r.ToolCallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "MCP tool call latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tool"},
	)
}
