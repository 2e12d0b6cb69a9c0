package external

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// FileStore is a ConfigStore backed by a single YAML file
type FileStore struct {
	path string
}

// NewFileStore returns a store reading and writing path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements ConfigStore. A missing file yields an empty state, not an
// error, so a fresh engine starts clean.
func (s *FileStore) Load(_ context.Context) (*gitops.SeedState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &gitops.SeedState{}, nil
		}
		return nil, fmt.Errorf("reading seed state: %w", err)
	}
	var state gitops.SeedState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding seed state: %w", err)
	}
	return &state, nil
}

// Save implements ConfigStore
func (s *FileStore) Save(_ context.Context, state *gitops.SeedState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding seed state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing seed state: %w", err)
	}
	return nil
}

var _ ConfigStore = (*FileStore)(nil)
