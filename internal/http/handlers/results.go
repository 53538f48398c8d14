package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) ListResults(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"results": a.Orc.Results()})
}

func (a *App) DeleteResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "result id required")
		return
	}
	if err := a.Orc.DeleteResult(r.Context(), id); err != nil {
		a.error(w, http.StatusBadGateway, "engine_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
