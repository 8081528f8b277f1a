package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/studysearch/index"
)

// Namespace prefixes every metric name.
const Namespace = "studysearch"

// Recorder holds all collectors for one process.
type Recorder struct {
	registry *prometheus.Registry

	// Build metrics
	GroupFetchesTotal  *prometheus.CounterVec
	GroupFetchDuration prometheus.Histogram
	GroupEntries       *prometheus.GaugeVec
	BuildsTotal        prometheus.Counter
	BuildDuration      prometheus.Gauge
	LastBuildTimestamp prometheus.Gauge
	IndexEntries       *prometheus.GaugeVec
	GroupsFailed       prometheus.Gauge
	DroppedItems       prometheus.Gauge

	// Search metrics
	SearchesTotal  prometheus.Counter
	SearchDuration prometheus.Histogram
	SearchHits     prometheus.Histogram

	// Server metrics
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
}

var _ index.Observer = (*Recorder)(nil)

// NewRecorder returns a recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}
	r.initBuildMetrics()
	r.initSearchMetrics()
	r.initServerMetrics()
	return r
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func (r *Recorder) WithRuntimeCollectors() *Recorder {
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveGroup records one group fetch.
func (r *Recorder) ObserveGroup(group string, entries int, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.GroupFetchesTotal.WithLabelValues(status).Inc()
	r.GroupFetchDuration.Observe(elapsed.Seconds())
	r.GroupEntries.WithLabelValues(group).Set(float64(entries))
}

// ObserveBuild records a completed build.
func (r *Recorder) ObserveBuild(stats index.Stats) {
	r.BuildsTotal.Inc()
	r.BuildDuration.Set(stats.BuildDuration.Seconds())
	if !stats.BuiltAt.IsZero() {
		r.LastBuildTimestamp.Set(float64(stats.BuiltAt.Unix()))
	}
	r.IndexEntries.Reset()
	for kind, n := range stats.ByKind {
		r.IndexEntries.WithLabelValues(string(kind)).Set(float64(n))
	}
	r.GroupsFailed.Set(float64(len(stats.GroupsFailed)))
	r.DroppedItems.Set(float64(stats.DroppedItems))
}

// ObserveSearch records one search.
func (r *Recorder) ObserveSearch(hits int, elapsed time.Duration) {
	r.SearchesTotal.Inc()
	r.SearchDuration.Observe(elapsed.Seconds())
	r.SearchHits.Observe(float64(hits))
}

// ObserveToolCall records one MCP tool invocation. status is "ok" or an
// error class such as "invalid_params".
func (r *Recorder) ObserveToolCall(tool, status string, elapsed time.Duration) {
	r.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	r.ToolCallDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}
