// Package registry holds the client-side view of active jobs and retained
// results. Both tables are owned by the orchestrator: every mutation comes
// from its event loop, while readers only ever receive copied snapshots.
package registry

import (
	"sort"
	"sync"

	"studio/internal/domain"
)

// JobPatch is a partial job update. Nil fields were absent from the source
// event and leave the existing value untouched.
type JobPatch struct {
	Status      *domain.JobStatus
	Progress    *int
	CurrentStep *int
	TotalSteps  *int
}

// JobRegistry is the in-memory table of active jobs keyed by engine job id.
// At most one entry exists per id; updates merge into the existing entry
// rather than creating duplicates.
type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

// NewJobRegistry returns an empty registry.
func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]domain.Job)}
}

// Insert stores a job, replacing any previous entry with the same id.
func (r *JobRegistry) Insert(job domain.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// Merge overlays the present fields of patch onto the job with the given id.
// It reports false, leaving the registry unchanged, when the id is unknown;
// an update for a job this client never saw is dropped, not an error.
func (r *JobRegistry) Merge(id string, patch JobPatch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return false
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Progress != nil {
		job.Progress = *patch.Progress
	}
	if patch.CurrentStep != nil {
		job.CurrentStep = *patch.CurrentStep
	}
	if patch.TotalSteps != nil {
		job.TotalSteps = *patch.TotalSteps
	}
	r.jobs[id] = job
	return true
}

// Remove deletes the job with the given id, returning the removed entry.
// Removing an unknown id is a no-op.
func (r *JobRegistry) Remove(id string) (domain.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if ok {
		delete(r.jobs, id)
	}
	return job, ok
}

// Replace swaps the full registry contents for the given job list. Used when
// the engine asserts complete queue state (queue_update, poll snapshots).
func (r *JobRegistry) Replace(jobs []domain.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make(map[string]domain.Job, len(jobs))
	for _, job := range jobs {
		next[job.ID] = job
	}
	r.jobs = next
}

// Get returns the job with the given id.
func (r *JobRegistry) Get(id string) (domain.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}

// Len returns the number of tracked jobs.
func (r *JobRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Sorted returns a display-ordered copy of the registry: status priority
// first (processing, queued, completed, failed, unknown), newest first
// within equal priority. The order is recomputed on every call since status
// transitions move jobs between buckets.
func (r *JobRegistry) Sorted() []domain.Job {
	r.mu.RLock()
	jobs := make([]domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	r.mu.RUnlock()

	sort.SliceStable(jobs, func(i, j int) bool {
		pi, pj := jobs[i].Status.SortPriority(), jobs[j].Status.SortPriority()
		if pi != pj {
			return pi < pj
		}
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
	return jobs
}
