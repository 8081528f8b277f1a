package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every group document below the source root.
const DefaultPattern = "**/*.{json,yaml,yml}"

// Extensions are the group document extensions FSSource tries, in order.
var Extensions = []string{".json", ".yaml", ".yml"}

// FSSource reads group documents from a file system. The document for group
// "editing" is editing.json, editing.yaml or editing.yml, tried in that order.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source rooted at fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch reads and decodes the document for id.
func (s *FSSource) Fetch(ctx context.Context, id string) (*Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || !fs.ValidPath(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupID, id)
	}

	for _, ext := range Extensions {
		data, err := fs.ReadFile(s.fsys, id+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrFetchFailed, id+ext, err)
		}
		if ext == ".json" {
			return DecodeJSON(data)
		}
		return DecodeYAML(data)
	}

	return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
}

// DiscoverGroups lists the group identifiers whose documents match pattern
// (doublestar syntax, DefaultPattern when empty). Identifiers are file paths
// without extension, sorted and deduplicated.
func DiscoverGroups(fsys fs.FS, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid group pattern %q", pattern)
	}

	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discover groups: %w", err)
	}

	seen := make(map[string]struct{}, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ext := path.Ext(m)
		if !supportedExt(ext) {
			continue
		}
		id := strings.TrimSuffix(m, ext)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids, nil
}

func supportedExt(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
