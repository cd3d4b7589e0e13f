// Package router sets up all HTTP routes and middleware chains for the
// iTab API. It organizes routes into the unauthenticated health check and
// the /api group with its own middleware stack.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"itab/internal/handlers"
	"itab/internal/middleware"
)

// Options carries the request-guarding settings of the /api group.
type Options struct {
	// APIToken, when set, must accompany every /api request.
	APIToken string
	// RateLimit requests per RateWindow per client; zero means the defaults.
	RateLimit  int
	RateWindow time.Duration
	// TrustProxy makes the rate limiter key on X-Forwarded-For / X-Real-IP.
	TrustProxy bool
	// AllowedOrigins may send state-changing requests besides the server's
	// own origin, for example the browser extension.
	AllowedOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned limiter must be stopped on
// shutdown.
func New(api *handlers.API, opts Options) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check: no auth, no rate limit.
	r.Get("/health", api.Health)

	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow, opts.TrustProxy)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(middleware.SameOrigin(opts.AllowedOrigins))
		r.Use(middleware.RequireToken(opts.APIToken))

		// Whole document and its settings
		r.Get("/sites", api.Sites)
		r.Put("/settings", api.SettingsUpdate)
		r.Post("/import", api.Import)
		r.Get("/export", api.Export)
		r.Get("/backup", api.BackupDownload)
		r.Post("/restore", api.Restore)
		r.Get("/search", api.Search)
		r.Get("/favicon", api.Favicon)

		// Categories and their sites
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", api.CategoryCreate)
			r.Put("/reorder", api.CategoriesReorder)
			r.Put("/{id}", api.CategoryUpdate)
			r.Delete("/{id}", api.CategoryDelete)

			r.Route("/{id}/sites", func(r chi.Router) {
				r.Post("/", api.SiteCreate)
				r.Put("/reorder", api.SitesReorder)
				r.Put("/reorder-full", api.SitesReplace)
				r.Put("/{index}", api.SiteUpdate)
				r.Delete("/{index}", api.SiteDelete)
				r.Post("/{index}/move", api.SiteMove)
			})
		})

		// Remote backup
		r.Route("/webdav", func(r chi.Router) {
			r.Get("/", api.WebDAVStatus)
			r.Put("/", api.WebDAVConfigure)
			r.Post("/test", api.WebDAVTest)
			r.Post("/backup", api.WebDAVBackup)
			r.Post("/restore", api.WebDAVRestore)
			r.Get("/backups", api.WebDAVBackups)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r, limiter
}
