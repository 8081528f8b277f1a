package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Source fetches content group documents by identifier.
type Source interface {
	// Fetch returns the group document for id. A group that does not exist
	// returns an error wrapping ErrGroupNotFound.
	Fetch(ctx context.Context, id string) (*Group, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, id string) (*Group, error)

// Fetch calls f(ctx, id).
func (f SourceFunc) Fetch(ctx context.Context, id string) (*Group, error) {
	return f(ctx, id)
}

// InMemorySource stores group documents in memory.
type InMemorySource struct {
	mu     sync.RWMutex
	groups map[string]*Group
}

// NewInMemorySource creates an empty in-memory source.
func NewInMemorySource() *InMemorySource {
	return &InMemorySource{
		groups: make(map[string]*Group),
	}
}

// Put registers or replaces the document for id.
func (s *InMemorySource) Put(id string, g *Group) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidGroupID
	}
	if g == nil {
		return fmt.Errorf("%w: nil document for %s", ErrInvalidGroup, id)
	}

	s.mu.Lock()
	s.groups[id] = g
	s.mu.Unlock()
	return nil
}

// Fetch returns the document for id.
func (s *InMemorySource) Fetch(ctx context.Context, id string) (*Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	g, ok := s.groups[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return g, nil
}

// IDs returns the registered group identifiers in stable order.
func (s *InMemorySource) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Len returns the number of registered groups.
func (s *InMemorySource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups)
}
