package orchestrator

import (
	"sync"

	"studio/internal/domain"
)

// statusAggregator merges partial system-status updates from the push and
// pull channels into one coherent view. Semantics are a flat shallow merge:
// present fields overwrite, absent fields retain their previous value.
type statusAggregator struct {
	mu  sync.RWMutex
	cur domain.SystemStatus
}

func newStatusAggregator() *statusAggregator {
	return &statusAggregator{cur: domain.SystemStatus{Health: domain.HealthUnknown}}
}

func (a *statusAggregator) Apply(patch domain.StatusPatch) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if patch.Health != nil {
		a.cur.Health = domain.ParseHealth(*patch.Health)
	}
	if patch.QueueLength != nil {
		a.cur.QueueLength = *patch.QueueLength
	}
	if patch.ActiveWorkers != nil {
		a.cur.ActiveWorkers = *patch.ActiveWorkers
	}
	if patch.GPUStatus != nil {
		a.cur.GPUStatus = *patch.GPUStatus
	}
}

func (a *statusAggregator) Snapshot() domain.SystemStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cur
}
