package httpapi

import (
	stdhttp "net/http"

	"studio/internal/http/handlers"
	"studio/internal/infra"
	appmw "studio/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App, logger infra.Logger, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(appmw.RequestID, appmw.CORS(allowedOrigins), appmw.Logger(logger), middleware.Recoverer)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Get("/", app.ListJobs)
		r.Post("/{id}/cancel", app.CancelJob)
	})
	r.Post("/v1/queue/clear", app.ClearQueue)

	r.Post("/v1/generate", app.Generate)
	r.Get("/v1/params", app.GetParams)

	r.Route("/v1/results", func(r chi.Router) {
		r.Get("/", app.ListResults)
		r.Delete("/{id}", app.DeleteResult)
	})

	r.Get("/v1/status", app.GetStatus)
	r.Get("/v1/notifications", app.ListNotifications)
	r.Post("/v1/refresh", app.Refresh)

	return r
}
