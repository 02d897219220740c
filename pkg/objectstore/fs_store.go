package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore serves documents from a local directory, keyed by relative path.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) Get(_ context.Context, key string) ([]byte, error) {
	// keep keys inside the root
	cleaned := filepath.Clean("/" + key)
	path := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(path, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, err
	}
	return data, nil
}
