package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/yourorg/mls-search-api/http"
	"github.com/yourorg/mls-search-api/internal/logger"
)

type RouterDeps struct {
	Search          httpapi.SearchDeps
	Gatherer        prometheus.Gatherer
	Log             *slog.Logger
	RateLimitPerMin int
}

func BuildRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(d.Log))
	r.Use(middleware.Recoverer)

	// operational endpoints are not rate limited
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, render.M{"ok": true})
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if d.RateLimitPerMin > 0 {
			// protect upstream quota
			r.Use(httprate.Limit(d.RateLimitPerMin, 1*time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(tooManyRequests),
			))
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))
		httpapi.RegisterSearch(r, d.Search)
	})
	return r
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusTooManyRequests)
	render.JSON(w, r, render.M{"error": "Too many requests"})
}
