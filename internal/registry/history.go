package registry

import (
	"sync"

	"studio/internal/domain"
)

// ResultHistory is a bounded, newest-first list of completed generation
// outputs. Results are immutable once appended; the only mutations are
// user-initiated deletion and wholesale replacement from an engine snapshot.
type ResultHistory struct {
	mu      sync.RWMutex
	limit   int
	results []domain.Result
}

// NewResultHistory returns a history retaining at most limit entries.
// A non-positive limit keeps everything.
func NewResultHistory(limit int) *ResultHistory {
	return &ResultHistory{limit: limit}
}

// Append adds a result at the head of the history, evicting the oldest entry
// when the bound is exceeded. A result id already present is skipped so a
// completion delivered by both channels lands exactly once.
func (h *ResultHistory) Append(result domain.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.results {
		if existing.ID == result.ID {
			return
		}
	}
	h.results = append([]domain.Result{result}, h.results...)
	if h.limit > 0 && len(h.results) > h.limit {
		h.results = h.results[:h.limit]
	}
}

// Replace swaps the history contents for an engine-provided snapshot,
// trimming to the configured bound.
func (h *ResultHistory) Replace(results []domain.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	copied := make([]domain.Result, len(results))
	copy(copied, results)
	if h.limit > 0 && len(copied) > h.limit {
		copied = copied[:h.limit]
	}
	h.results = copied
}

// Delete removes the result with the given id, reporting whether it existed.
func (h *ResultHistory) Delete(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, result := range h.results {
		if result.ID == id {
			h.results = append(h.results[:i], h.results[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of retained results.
func (h *ResultHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.results)
}

// Snapshot returns a copy of the history, newest first.
func (h *ResultHistory) Snapshot() []domain.Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.Result, len(h.results))
	copy(out, h.results)
	return out
}
