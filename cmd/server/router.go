package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/lumina/internal/api"
	apiMiddleware "github.com/phrazzld/lumina/internal/api/middleware"
	"github.com/phrazzld/lumina/internal/api/shared"
)

// setupRouter wires handlers and middleware for the application.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     app.config.Server.AllowedOrigins,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", shared.TraceIDHeader},
		ExposedHeaders:     []string{shared.TraceIDHeader},
		OptionsPassthrough: true,
		MaxAge:             300,
	}))

	blobHandler, err := api.NewBlobHandler(app.store, app.config.Storage.BlobKey, app.logger)
	if err != nil {
		// BlobKey is validated in newApplication.
		panic(err)
	}
	dictHandler := api.NewDictionaryHandler(app.dictionary, app.metrics, app.logger)
	healthHandler := api.NewHealthHandler(app.store, app.config.Storage.Backend, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", blobHandler.GetData)
		r.Post("/data", blobHandler.SaveData)
		r.Options("/data", blobHandler.Options)
		r.Get("/data/history", blobHandler.History)
		r.Options("/data/history", blobHandler.Options)
		r.Get("/dictionary/{word}", dictHandler.Lookup)
		r.Options("/dictionary/{word}", blobHandler.Options)
	})

	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
