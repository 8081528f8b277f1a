// Package catalog holds the declared, ordered list of content groups and the
// metadata used to present them.
//
// The order of a Catalog is significant: the index ingests groups in catalog
// order, which in turn decides how equally scored hits are ordered.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Error values for catalog construction and lookup.
var (
	ErrEmptyTopicID   = errors.New("topic id is required")
	ErrDuplicateTopic = errors.New("duplicate topic id")
	ErrNotFound       = errors.New("topic not found")
)

// Topic describes one content group.
type Topic struct {
	ID    string `json:"id" toml:"id"`
	Title string `json:"title,omitempty" toml:"title"`
	Icon  string `json:"icon,omitempty" toml:"icon"`
	Color string `json:"color,omitempty" toml:"color"`
}

// DisplayTitle returns the title, falling back to the ID.
func (t Topic) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}

// Catalog is an immutable ordered set of topics.
type Catalog struct {
	topics []Topic
	byID   map[string]int
}

// New builds a catalog from topics in the given order. IDs are trimmed and
// must be non-empty and unique.
func New(topics ...Topic) (*Catalog, error) {
	c := &Catalog{
		topics: make([]Topic, 0, len(topics)),
		byID:   make(map[string]int, len(topics)),
	}
	for i, t := range topics {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("%w: topics[%d]", ErrEmptyTopicID, i)
		}
		if _, ok := c.byID[t.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTopic, t.ID)
		}
		c.byID[t.ID] = len(c.topics)
		c.topics = append(c.topics, t)
	}
	return c, nil
}

// FromIDs builds a catalog of untitled topics. Empty and repeated IDs are
// skipped.
func FromIDs(ids []string) *Catalog {
	topics := make([]Topic, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		topics = append(topics, Topic{ID: id})
	}
	c, _ := New(topics...)
	return c
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.topics)
}

// IDs returns topic IDs in catalog order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.topics))
	for i, t := range c.topics {
		ids[i] = t.ID
	}
	return ids
}

// Topics returns a copy of the topics in catalog order.
func (c *Catalog) Topics() []Topic {
	if c == nil {
		return nil
	}
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Topic returns the topic with the given ID.
func (c *Catalog) Topic(id string) (Topic, error) {
	if c != nil {
		if i, ok := c.byID[id]; ok {
			return c.topics[i], nil
		}
	}
	return Topic{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Title returns the display title for id, or id itself when unknown.
func (c *Catalog) Title(id string) string {
	t, err := c.Topic(id)
	if err != nil {
		return id
	}
	return t.DisplayTitle()
}
