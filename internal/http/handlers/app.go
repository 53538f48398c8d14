// Package handlers exposes the orchestrator to UI consumers over a narrow
// local HTTP surface: read-only projections of jobs, results and status, and
// a command interface for writers. The handlers never mutate state
// themselves; everything goes through the orchestrator.
package handlers

import (
	"encoding/json"
	"net/http"

	"studio/internal/infra"
	"studio/internal/orchestrator"
)

type App struct {
	Orc    *orchestrator.Orchestrator
	Logger infra.Logger
}

func NewApp(orc *orchestrator.Orchestrator, logger infra.Logger) *App {
	return &App{Orc: orc, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}
