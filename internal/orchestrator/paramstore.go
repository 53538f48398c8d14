package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"studio/internal/domain"
)

// paramStore persists the last-used generation parameters to a local JSON
// file so the submission form can be restored across restarts. This is the
// subsystem's only durable state and it is best effort: callers log failures
// and move on.
type paramStore struct {
	path string
}

func newParamStore(path string) (*paramStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("paramstore: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("paramstore: ensure directory: %w", err)
	}
	return &paramStore{path: path}, nil
}

// Load reads the stored parameters. The second return is false when nothing
// has been stored yet.
func (s *paramStore) Load() (domain.GenerationParams, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.GenerationParams{}, false, nil
		}
		return domain.GenerationParams{}, false, fmt.Errorf("paramstore: read: %w", err)
	}
	var params domain.GenerationParams
	if err := json.Unmarshal(data, &params); err != nil {
		return domain.GenerationParams{}, false, fmt.Errorf("paramstore: decode: %w", err)
	}
	return params, true, nil
}

// Save writes the parameters, replacing any previous snapshot.
func (s *paramStore) Save(params domain.GenerationParams) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("paramstore: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("paramstore: write: %w", err)
	}
	return nil
}
