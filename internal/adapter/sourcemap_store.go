package adapter

import (
	"encoding/json"
	"fmt"
	"os"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

// SourcemapStore loads Rojo sourcemaps.
type SourcemapStore interface {
	// Load reads and decodes the sourcemap at path. File paths are returned
	// exactly as written; canonicalizing them is up to the caller.
	Load(path m.Path) (*m.SourcemapNode, error)
}

// LocalSourcemapStore reads sourcemaps from disk.
type LocalSourcemapStore struct{}

// NewLocalSourcemapStore constructs a LocalSourcemapStore.
func NewLocalSourcemapStore() *LocalSourcemapStore {
	return &LocalSourcemapStore{}
}

// Load reads and decodes the sourcemap JSON document at path.
func (s *LocalSourcemapStore) Load(path m.Path) (*m.SourcemapNode, error) {
	// #nosec G304 - the sourcemap path is chosen by the user on purpose
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, err
	}

	var root m.SourcemapNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode sourcemap: %w", err)
	}

	if root.Name == "" && len(root.Children) == 0 && len(root.FilePaths) == 0 {
		return nil, fmt.Errorf("decode sourcemap: document has no root instance")
	}

	return &root, nil
}
