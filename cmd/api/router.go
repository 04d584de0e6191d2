package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookstore/internal/auth"
	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/ingest"
	"bookstore/internal/user"
)

type handlers struct {
	auth   *auth.HTTPHandler
	user   *user.HTTPHandler
	book   *book.HTTPHandler
	ingest *ingest.HTTPHandler
}

// pinger reports whether the database answers.
type pinger interface {
	Ping(ctx context.Context) error
}

func newRouter(ctx context.Context, cfg config.Config, logger *zap.Logger, verifier *auth.Verifier, h handlers, db pinger) http.Handler {
	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy)
	sellerOnly := auth.RequireRole(user.RoleSeller)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(logger))
	r.Use(httpx.RecoveryMiddleware(logger))
	r.Use(httpx.SecurityHeadersMiddleware(cfg.EnableHSTS))
	r.Use(httpx.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(httpx.RequestSizeLimitMiddleware(cfg.UploadMaxBytes))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, r, map[string]string{"status": "ok"}, nil)
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "database not ready", nil)
			return
		}
		httpx.JSONSuccess(w, r, map[string]string{"status": "ready"}, nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/auth/signup", h.auth.Signup)
			r.Post("/auth/login", h.auth.Login)
		})

		r.Get("/books", h.book.List)
		r.Get("/books/{id}", h.book.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(verifier))
			r.Get("/me", h.user.GetCurrentUser)

			r.Group(func(r chi.Router) {
				r.Use(sellerOnly)
				r.Post("/books", h.book.Create)
				r.Put("/books/{id}", h.book.Update)
				r.Delete("/books/{id}", h.book.Delete)
				r.With(limiter.Middleware).Post("/books/upload", h.ingest.Upload)
				r.Get("/imports", h.ingest.ListRuns)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.NotFound(w, r, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
