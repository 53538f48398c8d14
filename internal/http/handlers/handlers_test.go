package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studio/internal/engine"
	"studio/internal/http/handlers"
	"studio/internal/http/httpapi"
	"studio/internal/infra"
	"studio/internal/orchestrator"
)

func newTestRouter(t *testing.T, engineHandler http.Handler) http.Handler {
	t.Helper()
	ts := httptest.NewServer(engineHandler)
	t.Cleanup(ts.Close)

	client, err := engine.NewClient(engine.Options{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("engine.NewClient: %v", err)
	}
	orc, err := orchestrator.New(orchestrator.Options{Engine: client})
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}
	logger := infra.NewLogger("test")
	return httpapi.NewRouter(handlers.NewApp(orc, logger), logger, nil)
}

func TestGenerateAndListJobs(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected engine path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"job_id": "j1", "status": "queued", "progress": 0})
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{"prompt":"a cat","width":512,"height":512}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("generate status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var out struct {
		Jobs []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Jobs) != 1 || out.Jobs[0].ID != "j1" || out.Jobs[0].Status != "queued" {
		t.Fatalf("unexpected jobs payload: %+v", out.Jobs)
	}
}

func TestGenerateBlankPrompt(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("engine should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{"prompt":"  "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "blank_prompt") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestCancelNotCancellable(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("engine should not be called")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/jobs/ghost/cancel", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/jobs":
			_ = json.NewEncoder(w).Encode(map[string]any{"jobs": []any{}})
		case "/api/results":
			if got := r.URL.Query().Get("limit"); got != "12" {
				t.Fatalf("limit = %q, want 12", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		case "/api/status":
			_ = json.NewEncoder(w).Encode(map[string]any{"health": "healthy"})
		default:
			t.Fatalf("unexpected engine path: %s", r.URL.Path)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/refresh", strings.NewReader(`{"limit":12}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	if !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Fatalf("status body = %s", rec.Body.String())
	}
}

func TestStatusIncludesTransportState(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"transport":"closed"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestParamsNotFoundBeforeSubmit(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/params", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
