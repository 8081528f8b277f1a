// Package metrics exports index and server measurements to Prometheus.
//
// A [Recorder] owns its own prometheus.Registry. It satisfies index.Observer,
// so it can be passed straight into index options, and it also counts MCP
// tool calls for the registry server:
//
//	rec := metrics.NewRecorder()
//	idx := index.NewIndex(src, groups, index.IndexOptions{Observer: rec})
//	http.Handle("/metrics", rec.Handler())
package metrics
