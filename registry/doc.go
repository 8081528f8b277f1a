// Package registry serves a content index to MCP clients over JSON-RPC.
//
// New registers three read-only tools:
//
//   - search_content {query, limit?, kinds?} ranks content by substring match
//   - list_groups {} lists the indexed groups with catalog metadata
//   - index_status {} reports build state and statistics
//
// Further tools may be registered with RegisterLocal or RegisterLocalFunc.
// The served index can be replaced at any time with SetIndex, which is how
// a watcher swaps in a rebuilt index.
//
// Example usage:
//
//	idx := index.NewIndex(src, cat.IDs())
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{Name: "studysearch", Version: "1.0.0"},
//	    Catalog:    cat,
//	})
//	reg.SetIndex(idx)
//
//	ctx := context.Background()
//	_ = reg.Start(ctx)
//	defer reg.Stop()
//
//	registry.ServeStdio(ctx, reg)
//
// Transports: ServeStdio (newline-delimited JSON), ServeHTTP (POST, JSON
// response) and ServeSSE (POST, one event-stream response).
package registry
