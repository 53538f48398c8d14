package domain

import "time"

// Result is the retained output of a completed job. ImageURL may be empty
// when the engine finished without producing a usable image.
type Result struct {
	ID        string           `json:"id"`
	JobID     string           `json:"job_id"`
	ImageURL  string           `json:"image_url,omitempty"`
	Params    GenerationParams `json:"params"`
	CreatedAt time.Time        `json:"created_at"`
}
