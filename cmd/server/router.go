package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cardwise/cardwise-api/internal/api"
	apimiddleware "github.com/cardwise/cardwise-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.Trace)

	aiHandler := api.NewAIHandler(app.responder)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.Identity)

			r.Post("/ai/generate-quiz", aiHandler.GenerateQuiz)
			r.Post("/ai/hint", aiHandler.Hint)
			r.Post("/ai/explain", aiHandler.Explain)
			r.Post("/ai/improve-card", aiHandler.ImproveCard)
			r.Get("/ai/usage", aiHandler.Usage)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
