package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gratitudeapp/gratitude-api/internal/api"
	apimiddleware "github.com/gratitudeapp/gratitude-api/internal/api/middleware"
)

// setupRouter configures the application router: standard chi
// middleware, tracing, the public auth endpoints, and the bearer-guarded
// gratitude endpoints. Bodies and path parameters are validated by
// middleware before any handler runs.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.passwordHasher,
		app.passwordVerifier,
		app.jwtService,
		app.responder,
		app.logger,
	)
	gratitudeHandler := api.NewGratitudeHandler(
		app.gratitudeService,
		app.responder,
		app.logger,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.responder)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(apimiddleware.Body[api.RegisterRequest](app.responder)).
			Post("/auth/register", authHandler.Register)
		r.With(apimiddleware.Body[api.LoginRequest](app.responder)).
			Post("/auth/login", authHandler.Login)

		r.Route("/gratitudes", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.With(apimiddleware.ListQuery(app.responder)).
				Get("/", gratitudeHandler.List)
			r.With(apimiddleware.Body[api.CreateGratitudeRequest](app.responder)).
				Post("/", gratitudeHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(apimiddleware.GratitudeID(app.responder))

				r.Get("/", gratitudeHandler.Get)
				r.With(apimiddleware.Body[api.UpdateGratitudeRequest](app.responder)).
					Patch("/", gratitudeHandler.Update)
				r.Delete("/", gratitudeHandler.Delete)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
