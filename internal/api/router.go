package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/shoplist/api/internal/api/handlers"
	mw "github.com/shoplist/api/internal/api/middleware"
)

type Dependencies struct {
	Tokens         mw.TokenParser
	AuthHandler    *handlers.AuthHandler
	ItemsHandler   *handlers.ItemsHandler
	UploadHandler  *handlers.UploadHandler
	HealthHandler  *handlers.HealthHandler
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxy     bool
}

// NewRouter builds the HTTP handler. ctx bounds background work started by
// middleware, such as the rate limiter sweeper.
func NewRouter(ctx context.Context, dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	if dep.TrustProxy {
		r.Use(chimid.RealIP)
	}
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.AllowedOrigins))
	r.Use(mw.RateLimit(ctx, dep.RateLimitRPS, dep.RateLimitBurst))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := dep.HealthHandler
	if hh == nil {
		hh = handlers.NewHealthHandler(nil)
	}
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api", func(api chi.Router) {
		// Auth routes (public)
		api.Post("/authentication/login", dep.AuthHandler.Login)

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.Tokens))

			protected.Route("/items", func(ir chi.Router) {
				ir.Get("/", mw.WithIdentity(dep.ItemsHandler.List))
				ir.Post("/", mw.WithIdentity(dep.ItemsHandler.Create))
				ir.Get("/calculatePrice", mw.WithIdentity(dep.ItemsHandler.CalculatePrice))
				ir.Delete("/{id}", mw.WithIdentity(dep.ItemsHandler.Delete))
			})

			protected.Post("/upload/upload", mw.WithIdentity(dep.UploadHandler.Upload))
		})
	})

	return r
}
