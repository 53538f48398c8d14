package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studio/internal/domain"
)

func TestSubmit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var params domain.GenerationParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if params.Prompt != "a cat" {
			t.Fatalf("prompt = %q", params.Prompt)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"job_id": "j1", "status": "queued", "progress": 0})
	}))
	defer ts.Close()

	client, err := NewClient(Options{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.Submit(context.Background(), domain.GenerationParams{Prompt: "a cat"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.JobID != "j1" || resp.Status != "queued" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitMissingJobID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "queued"})
	}))
	defer ts.Close()

	client, _ := NewClient(Options{BaseURL: ts.URL})
	if _, err := client.Submit(context.Background(), domain.GenerationParams{Prompt: "x"}); err == nil {
		t.Fatalf("expected error for response without job id")
	}
}

func TestCancelSurfacesEngineError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs/j1/cancel" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "job already finished"})
	}))
	defer ts.Close()

	client, _ := NewClient(Options{BaseURL: ts.URL})
	err := client.Cancel(context.Background(), "j1")
	if err == nil || !strings.Contains(err.Error(), "job already finished") {
		t.Fatalf("expected engine error text, got %v", err)
	}
}

func TestActiveJobs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jobs": []map[string]any{
				{"job_id": "j1", "status": "processing", "progress": 55, "current_step": 11, "total_steps": 20},
				{"job_id": "j2", "status": "mystery"},
			},
		})
	}))
	defer ts.Close()

	client, _ := NewClient(Options{BaseURL: ts.URL})
	jobs, err := client.ActiveJobs(context.Background())
	if err != nil {
		t.Fatalf("ActiveJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len = %d, want 2", len(jobs))
	}
	j1 := jobs[0].Job()
	if j1.Progress != 55 || j1.CurrentStep != 11 || j1.TotalSteps != 20 {
		t.Fatalf("unexpected job conversion: %+v", j1)
	}
	if jobs[1].Job().Status != domain.JobStatusUnknown {
		t.Fatalf("unrecognized status not mapped to unknown")
	}
}

func TestResultsLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Fatalf("limit = %q, want 50", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": "r1", "job_id": "j1", "image_url": "u1"}},
		})
	}))
	defer ts.Close()

	client, _ := NewClient(Options{BaseURL: ts.URL})
	results, err := client.Results(context.Background(), 50)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 1 || results[0].Result().ImageURL != "u1" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSystemStatusPartialFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"health": "degraded", "queue_length": 3})
	}))
	defer ts.Close()

	client, _ := NewClient(Options{BaseURL: ts.URL})
	patch, err := client.SystemStatus(context.Background())
	if err != nil {
		t.Fatalf("SystemStatus: %v", err)
	}
	if patch.Health == nil || *patch.Health != "degraded" {
		t.Fatalf("health not decoded: %+v", patch)
	}
	if patch.QueueLength == nil || *patch.QueueLength != 3 {
		t.Fatalf("queue length not decoded: %+v", patch)
	}
	if patch.ActiveWorkers != nil {
		t.Fatalf("absent field decoded as present")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
