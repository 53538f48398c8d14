package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studio/internal/orchestrator"
)

// ListJobs serves the display-ordered active-job projection.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"jobs": a.Orc.Jobs()})
}

func (a *App) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job id required")
		return
	}
	if err := a.Orc.Cancel(r.Context(), jobID); err != nil {
		if errors.Is(err, orchestrator.ErrNotCancellable) {
			a.error(w, http.StatusConflict, "not_cancellable", "job is not cancellable")
			return
		}
		a.error(w, http.StatusBadGateway, "engine_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) ClearQueue(w http.ResponseWriter, r *http.Request) {
	cancelled := a.Orc.ClearQueue(r.Context())
	a.json(w, http.StatusOK, map[string]int{"cancelled": cancelled})
}
