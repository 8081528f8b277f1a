package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/studysearch/catalog"
	"github.com/jonwraymond/studysearch/index"
)

// DefaultMaxLimit caps the limit a search_content caller may request.
const DefaultMaxLimit = 100

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
	// Catalog supplies display metadata for groups. Optional.
	Catalog *catalog.Catalog
	// Limit is the search_content default. Defaults to index.DefaultLimit.
	Limit int
	// MaxLimit caps requested limits. Defaults to DefaultMaxLimit.
	MaxLimit int
	// Observer receives tool call measurements. Optional.
	Observer ToolObserver
	// Logger receives request diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// ToolObserver receives one measurement per tools/call.
type ToolObserver interface {
	ObserveToolCall(tool, status string, elapsed time.Duration)
}

type localTool struct {
	tool    model.Tool
	handler ToolHandler
}

// Registry serves a content index over MCP. The built-in tools
// search_content, list_groups and index_status are registered by New;
// additional local tools may be added with RegisterLocal.
type Registry struct {
	config Config
	logger *slog.Logger
	index  atomic.Pointer[index.Index]

	mu      sync.RWMutex
	tools   map[string]localTool
	started bool
}

// New creates a Registry with the built-in content tools registered.
func New(cfg Config) *Registry {
	if cfg.Limit <= 0 {
		cfg.Limit = index.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultMaxLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		config: cfg,
		logger: cfg.Logger,
		tools:  make(map[string]localTool),
	}
	for _, bt := range r.builtinTools() {
		if err := r.RegisterLocal(bt.tool, bt.handler); err != nil {
			panic(fmt.Sprintf("registry: built-in tool %s: %v", bt.tool.Name, err))
		}
	}
	return r
}

// SetIndex replaces the served index. It is safe to call while serving;
// in-flight calls finish against the index they started with.
func (r *Registry) SetIndex(idx *index.Index) {
	r.index.Store(idx)
	r.mu.RLock()
	started := r.started
	r.mu.RUnlock()
	if started && idx != nil {
		idx.Start()
	}
}

// Index returns the served index, or nil.
func (r *Registry) Index() *index.Index {
	return r.index.Load()
}

// RegisterLocal registers a tool with a local execution handler.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, tool.ToolID())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := tool.ToolID()
	if _, exists := r.tools[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, id)
	}
	r.tools[id] = localTool{tool: tool, handler: handler}
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool := buildLocalTool(name, description, inputSchema, cfg)
	return r.RegisterLocal(tool, handler)
}

// ListTools returns all registered tools ordered by ID.
func (r *Registry) ListTools() []model.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	tools := make([]model.Tool, 0, len(ids))
	for _, id := range ids {
		tools = append(tools, r.tools[id].tool)
	}
	return tools
}

// GetTool returns a tool by ID.
func (r *Registry) GetTool(id string) (model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lt, ok := r.tools[id]
	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return lt.tool, nil
}

// Execute runs a tool by ID with the given arguments.
func (r *Registry) Execute(ctx context.Context, id string, args map[string]any) (any, error) {
	r.mu.RLock()
	lt, ok := r.tools[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	if args == nil {
		args = map[string]any{}
	}
	return lt.handler(ctx, args)
}

// Search runs a content search against the served index. Unknown kinds are
// rejected with ErrInvalidArguments.
func (r *Registry) Search(query string, limit int, kinds ...string) ([]index.Hit, error) {
	return r.searchIndex(r.Index(), query, limit, kinds)
}

func (r *Registry) searchIndex(idx *index.Index, query string, limit int, kinds []string) ([]index.Hit, error) {
	if idx == nil {
		return nil, ErrNoIndex
	}
	parsed, err := parseKinds(kinds)
	if err != nil {
		return nil, err
	}
	limit = r.clampLimit(limit)
	if len(parsed) == 0 {
		return idx.Search(query, limit), nil
	}
	return idx.SearchKinds(query, limit, parsed...), nil
}

func (r *Registry) clampLimit(limit int) int {
	if limit <= 0 {
		return r.config.Limit
	}
	return min(limit, r.config.MaxLimit)
}

// Start begins building the served index.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.mu.Unlock()

	if idx := r.Index(); idx != nil {
		idx.Start()
		r.logger.InfoContext(ctx, "registry started", "groups", len(idx.Groups()))
	}
	return nil
}

// Stop marks the registry stopped. In-flight builds are left to finish.
func (r *Registry) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = false
	return nil
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	Tools int         `json:"tools"`
	Index index.Stats `json:"index"`
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	stats := RegistryStats{Tools: len(r.tools)}
	r.mu.RUnlock()

	if idx := r.Index(); idx != nil {
		stats.Index = idx.Stats()
	}
	return stats
}

// HealthCheck returns nil once the registry is started and its index is
// ready.
func (r *Registry) HealthCheck(ctx context.Context) error {
	r.mu.RLock()
	started := r.started
	r.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	idx := r.Index()
	if idx == nil {
		return ErrNoIndex
	}
	if !idx.Ready() {
		return fmt.Errorf("%w: %s", ErrIndexNotReady, idx.State())
	}
	return nil
}
