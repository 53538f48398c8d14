package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"studio/internal/orchestrator"
)

func (a *App) GetStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Orc.Status())
}

func (a *App) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notes := a.Orc.Notifications()
	if notes == nil {
		notes = []orchestrator.Notification{}
	}
	a.json(w, http.StatusOK, map[string]any{"notifications": notes})
}

// Refresh forces an immediate pull outside the regular poll cadence. The
// optional limit field sets the result page size explicitly instead of
// being inferred from UI state.
func (a *App) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit int `json:"limit"`
	}
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
	}
	if err := a.Orc.Refresh(r.Context(), req.Limit); err != nil {
		a.error(w, http.StatusBadGateway, "engine_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
