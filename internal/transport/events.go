package transport

import (
	"encoding/json"
	"errors"
	"fmt"

	"studio/internal/domain"
	"studio/internal/engine"
)

// ErrUnknownType marks a message whose type discriminator this client does
// not recognize. Such messages are ignored so newer engines stay compatible.
var ErrUnknownType = errors.New("transport: unrecognized message type")

// Event is a decoded push message. The concrete types below mirror the
// engine's message envelope one to one.
type Event interface {
	event()
}

// ProgressEvent updates one job in place. Nil fields were absent from the
// payload and must not clear previously known values.
type ProgressEvent struct {
	JobID       string   `json:"job_id"`
	Status      string   `json:"status"`
	Progress    *float64 `json:"progress"`
	CurrentStep *int     `json:"current_step"`
	TotalSteps  *int     `json:"total_steps"`
}

// StartedEvent signals that the engine picked up a job. Telemetry only.
type StartedEvent struct {
	JobID string `json:"job_id"`
}

// CompleteEvent terminates a job successfully and carries its output.
type CompleteEvent struct {
	JobID    string   `json:"job_id"`
	Status   string   `json:"status"`
	ResultID string   `json:"result_id"`
	ImageURL string   `json:"image_url"`
	Images   []string `json:"images"`
}

// Image returns the output image address, falling back to the first entry of
// the image array when the singular field is absent.
func (e *CompleteEvent) Image() string {
	if e.ImageURL != "" {
		return e.ImageURL
	}
	if len(e.Images) > 0 {
		return e.Images[0]
	}
	return ""
}

// ErrorEvent terminates a job with an engine-supplied failure message.
type ErrorEvent struct {
	JobID string `json:"job_id"`
	Error string `json:"error"`
}

// QueueUpdateEvent asserts the engine's full current queue state.
type QueueUpdateEvent struct {
	Jobs []engine.JobSnapshot `json:"jobs"`
}

// StatusEvent carries ambient engine telemetry. Envelope-only metadata
// (message text, timestamps) is deliberately not decoded.
type StatusEvent struct {
	domain.StatusPatch
}

func (*ProgressEvent) event()    {}
func (*StartedEvent) event()     {}
func (*CompleteEvent) event()    {}
func (*ErrorEvent) event()       {}
func (*QueueUpdateEvent) event() {}
func (*StatusEvent) event()      {}

// Decode parses a raw push payload into its typed event. Messages without a
// recognized type discriminator yield ErrUnknownType.
func Decode(data []byte) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("transport: decode envelope: %w", err)
	}

	var evt Event
	switch envelope.Type {
	case "generation_progress":
		evt = &ProgressEvent{}
	case "generation_started":
		evt = &StartedEvent{}
	case "generation_complete":
		evt = &CompleteEvent{}
	case "generation_error":
		evt = &ErrorEvent{}
	case "queue_update":
		evt = &QueueUpdateEvent{}
	case "system_status":
		evt = &StatusEvent{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}
	if err := json.Unmarshal(data, evt); err != nil {
		return nil, fmt.Errorf("transport: decode %s: %w", envelope.Type, err)
	}
	return evt, nil
}
