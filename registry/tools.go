package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/studysearch/catalog"
	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/index"
)

// Built-in tool names.
const (
	ToolSearchContent = "search_content"
	ToolListGroups    = "list_groups"
	ToolIndexStatus   = "index_status"
)

// SearchResult is the search_content payload.
type SearchResult struct {
	Query string      `json:"query"`
	State index.State `json:"state"`
	Count int         `json:"count"`
	Hits  []HitView   `json:"hits"`
}

// HitView is a hit with its link target and group title resolved.
type HitView struct {
	index.Hit
	Target     string `json:"target"`
	GroupTitle string `json:"groupTitle"`
}

// GroupView is one list_groups entry.
type GroupView struct {
	catalog.Topic
	Failed bool `json:"failed,omitempty"`
}

// GroupList is the list_groups payload.
type GroupList struct {
	State  index.State `json:"state"`
	Groups []GroupView `json:"groups"`
}

type builtinTool struct {
	tool    model.Tool
	handler ToolHandler
}

func (r *Registry) builtinTools() []builtinTool {
	kindNames := make([]any, len(content.Kinds))
	for i, k := range content.Kinds {
		kindNames[i] = string(k)
	}
	readOnly := []LocalToolOption{WithTags("content", "search"), WithReadOnly()}

	return []builtinTool{
		{
			tool: buildLocalTool(ToolSearchContent,
				"Search topic sections, vocabulary, key facts and quiz questions by substring.",
				map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{"type": "string", "minLength": 2},
						"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": r.config.MaxLimit},
						"kinds": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string", "enum": kindNames},
						},
					},
					"required": []any{"query"},
				},
				applyLocalToolOptions(readOnly)),
			handler: r.handleSearchContent,
		},
		{
			tool: buildLocalTool(ToolListGroups,
				"List the content groups in the index.",
				map[string]any{"type": "object"},
				applyLocalToolOptions(readOnly)),
			handler: r.handleListGroups,
		},
		{
			tool: buildLocalTool(ToolIndexStatus,
				"Report the index build state and statistics.",
				map[string]any{"type": "object"},
				applyLocalToolOptions(readOnly)),
			handler: r.handleIndexStatus,
		},
	}
}

func (r *Registry) handleSearchContent(_ context.Context, args map[string]any) (any, error) {
	query, ok := args["query"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: query must be a string", ErrInvalidArguments)
	}
	limit, err := intArg(args, "limit")
	if err != nil {
		return nil, err
	}
	kinds, err := stringsArg(args, "kinds")
	if err != nil {
		return nil, err
	}

	idx := r.Index()
	hits, err := r.searchIndex(idx, query, limit, kinds)
	if err != nil {
		return nil, err
	}

	views := make([]HitView, len(hits))
	for i, h := range hits {
		views[i] = HitView{
			Hit:        h,
			Target:     h.Target(),
			GroupTitle: r.config.Catalog.Title(h.GroupKey),
		}
	}
	return SearchResult{Query: query, State: idx.State(), Count: len(views), Hits: views}, nil
}

func (r *Registry) handleListGroups(context.Context, map[string]any) (any, error) {
	idx := r.Index()
	if idx == nil {
		return nil, ErrNoIndex
	}
	stats := idx.Stats()

	groups := make([]GroupView, 0, len(idx.Groups()))
	for _, id := range idx.Groups() {
		topic, err := r.config.Catalog.Topic(id)
		if err != nil {
			topic = catalog.Topic{ID: id}
		}
		topic.Title = topic.DisplayTitle()
		groups = append(groups, GroupView{
			Topic:  topic,
			Failed: slices.Contains(stats.GroupsFailed, id),
		})
	}
	return GroupList{State: stats.State, Groups: groups}, nil
}

func (r *Registry) handleIndexStatus(context.Context, map[string]any) (any, error) {
	idx := r.Index()
	if idx == nil {
		return nil, ErrNoIndex
	}
	return idx.Stats(), nil
}

func parseKinds(names []string) ([]content.Kind, error) {
	kinds := make([]content.Kind, 0, len(names))
	for _, name := range names {
		k, ok := content.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArguments, name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// intArg reads an optional integer argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidArguments, key)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, key, err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidArguments, key)
	}
}

// stringsArg reads an optional string list argument. A single string is
// accepted as a one-element list.
func stringsArg(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case string:
		return []string{list}, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] must be a string", ErrInvalidArguments, key, i)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidArguments, key)
	}
}

// toolResult wraps a handler result as an MCP tool result carrying both a
// JSON text block and the structured value.
func toolResult(v any) (*mcp.CallToolResult, error) {
	if res, ok := v.(*mcp.CallToolResult); ok {
		return res, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: v,
	}, nil
}
