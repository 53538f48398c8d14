package orchestrator

import (
	"testing"

	"studio/internal/engine"
)

func newEngineClient(t *testing.T, baseURL string) *engine.Client {
	t.Helper()
	client, err := engine.NewClient(engine.Options{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("engine.NewClient: %v", err)
	}
	return client
}
