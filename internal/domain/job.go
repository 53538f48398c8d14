package domain

import "time"

// JobStatus enumerates job lifecycle states reported by the generation engine.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusUnknown    JobStatus = "unknown"
)

// ParseJobStatus maps an engine-reported status string onto the closed
// enumeration, falling back to JobStatusUnknown for values this client does
// not recognize.
func ParseJobStatus(s string) JobStatus {
	switch JobStatus(s) {
	case JobStatusQueued, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return JobStatus(s)
	default:
		return JobStatusUnknown
	}
}

// Cancellable reports whether a job in this state may still be cancelled.
func (s JobStatus) Cancellable() bool {
	return s == JobStatusQueued || s == JobStatusProcessing
}

// SortPriority orders statuses for display: running work first, then waiting
// work, then terminal states.
func (s JobStatus) SortPriority() int {
	switch s {
	case JobStatusProcessing:
		return 0
	case JobStatusQueued:
		return 1
	case JobStatusCompleted:
		return 2
	case JobStatusFailed:
		return 3
	default:
		return 4
	}
}

// GenerationParams holds the immutable parameters a job was submitted with.
// They travel with the job for display and are copied onto the result at
// completion time so "reuse parameters" keeps working after the job is gone.
type GenerationParams struct {
	Prompt   string  `json:"prompt"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Steps    int     `json:"steps"`
	CFGScale float64 `json:"cfg_scale"`
	Seed     int64   `json:"seed"`
}

// Job is one in-flight generation request tracked by engine-assigned id.
type Job struct {
	ID          string           `json:"id"`
	Status      JobStatus        `json:"status"`
	Progress    int              `json:"progress"`
	CurrentStep int              `json:"current_step,omitempty"`
	TotalSteps  int              `json:"total_steps,omitempty"`
	Params      GenerationParams `json:"params"`
	CreatedAt   time.Time        `json:"created_at"`
}
