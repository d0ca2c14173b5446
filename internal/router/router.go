package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aasthafoundation/careboard/internal/auth"
	"github.com/aasthafoundation/careboard/internal/handler"
	"github.com/aasthafoundation/careboard/internal/metrics"
	mw "github.com/aasthafoundation/careboard/internal/middleware"
)

type Options struct {
	JWTSecret string
	// AuthRequired guards POST, PUT and DELETE on the data API unless the
	// backend is read-only. Admin and /auth/me routes always need a token.
	AuthRequired bool
	CORSOrigin   string
	Metrics      *metrics.Metrics
}

type Handlers struct {
	Data      *handler.DataHandler
	Dashboard *handler.DashboardHandler
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	Health    *handler.HealthHandler
}

func New(opts Options, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware. Metrics wraps Recovery so panics count as 500s.
	if opts.Metrics != nil {
		r.Use(mw.Metrics(opts.Metrics))
	}
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(opts.CORSOrigin))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/healthz", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Get("/dashboard", h.Dashboard.Dashboard)

		r.Group(func(r chi.Router) {
			if opts.AuthRequired && !h.Data.ReadOnly() {
				r.Use(auth.RequireForMethods(opts.JWTSecret, http.MethodPost, http.MethodPut, http.MethodDelete))
			}
			r.Get("/data/{resource}", h.Data.List)
			r.Post("/data/{resource}", h.Data.Create)
			r.Put("/data/{resource}", h.Data.Update)
			r.Delete("/data/{resource}", h.Data.Delete)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(opts.JWTSecret))

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/admin/cache", h.Admin.CacheEntries)
			r.Post("/admin/cache/clear", h.Admin.ClearCache)
		})
	})

	return r
}
