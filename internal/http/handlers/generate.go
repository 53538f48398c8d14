package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"studio/internal/domain"
	"studio/internal/orchestrator"
)

func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var params domain.GenerationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	job, err := a.Orc.Submit(r.Context(), params)
	if err != nil {
		if errors.Is(err, orchestrator.ErrBlankPrompt) {
			a.error(w, http.StatusBadRequest, "blank_prompt", "prompt must not be blank")
			return
		}
		a.error(w, http.StatusBadGateway, "engine_error", err.Error())
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{"job": job})
}

// GetParams restores the last-submitted generation parameters for the form.
func (a *App) GetParams(w http.ResponseWriter, r *http.Request) {
	params, ok := a.Orc.LastParams()
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "no parameters stored")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"params": params})
}
