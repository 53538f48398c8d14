package engine

import (
	"time"

	"studio/internal/domain"
	"studio/internal/progress"
)

// SubmitResponse is the engine's acknowledgement of a generation request.
type SubmitResponse struct {
	JobID    string   `json:"job_id"`
	Status   string   `json:"status"`
	Progress *float64 `json:"progress"`
}

// JobSnapshot is one job as the engine reports it, either in an active-jobs
// poll response or inside a queue_update push message. Progress arrives in
// whichever scale the emitting channel uses; conversion happens in Job.
type JobSnapshot struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	Progress    *float64  `json:"progress"`
	CurrentStep *int      `json:"current_step"`
	TotalSteps  *int      `json:"total_steps"`
	Prompt      string    `json:"prompt"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Steps       int       `json:"steps"`
	CFGScale    float64   `json:"cfg_scale"`
	Seed        int64     `json:"seed"`
	CreatedAt   time.Time `json:"created_at"`
}

// Job converts the snapshot into the canonical domain representation.
func (s JobSnapshot) Job() domain.Job {
	job := domain.Job{
		ID:       s.JobID,
		Status:   domain.ParseJobStatus(s.Status),
		Progress: progress.Normalize(s.Progress),
		Params: domain.GenerationParams{
			Prompt:   s.Prompt,
			Width:    s.Width,
			Height:   s.Height,
			Steps:    s.Steps,
			CFGScale: s.CFGScale,
			Seed:     s.Seed,
		},
		CreatedAt: s.CreatedAt,
	}
	if s.CurrentStep != nil {
		job.CurrentStep = *s.CurrentStep
	}
	if s.TotalSteps != nil {
		job.TotalSteps = *s.TotalSteps
	}
	return job
}

// ResultSnapshot is one retained output as the engine reports it.
type ResultSnapshot struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	ImageURL  string    `json:"image_url"`
	Prompt    string    `json:"prompt"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Steps     int       `json:"steps"`
	CFGScale  float64   `json:"cfg_scale"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

// Result converts the snapshot into the canonical domain representation.
func (s ResultSnapshot) Result() domain.Result {
	return domain.Result{
		ID:       s.ID,
		JobID:    s.JobID,
		ImageURL: s.ImageURL,
		Params: domain.GenerationParams{
			Prompt:   s.Prompt,
			Width:    s.Width,
			Height:   s.Height,
			Steps:    s.Steps,
			CFGScale: s.CFGScale,
			Seed:     s.Seed,
		},
		CreatedAt: s.CreatedAt,
	}
}
