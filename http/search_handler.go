package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/mls-search-api/internal/canon"
	"github.com/yourorg/mls-search-api/internal/events"
	"github.com/yourorg/mls-search-api/internal/metrics"
	"github.com/yourorg/mls-search-api/internal/quota"
	"github.com/yourorg/mls-search-api/mls"
)

// Searcher runs one provider search; *mls.Client implements it.
type Searcher interface {
	Search(ctx context.Context, p *mls.Provider, q mls.Query) ([]mls.SearchResult, error)
}

type SearchDeps struct {
	Registry *mls.Registry
	Client   Searcher
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

// RegisterSearch mounts /api/{provider}/search and dispatches through the registry.
// Every method reaches the handler so non-GET requests get the JSON 405 body.
func RegisterSearch(r chi.Router, d SearchDeps) {
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.HandleFunc("/api/{provider}/search", func(w http.ResponseWriter, req *http.Request) {
		p, ok := d.Registry.Lookup(chi.URLParam(req, "provider"))
		if !ok {
			render.Status(req, http.StatusNotFound)
			render.JSON(w, req, render.M{"error": "Unknown provider"})
			return
		}
		searchHandler(p, d)(w, req)
	})
}

func searchHandler(p *mls.Provider, d SearchDeps) http.HandlerFunc {
	log := d.Log.With("provider", p.Name)
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSON(w, req, d.Metrics, p, http.StatusMethodNotAllowed, render.M{"error": "Method not allowed"})
			return
		}
		if !p.Configured() {
			writeJSON(w, req, d.Metrics, p, http.StatusOK, mls.Response{
				Results: []mls.SearchResult{},
				Error:   p.Label + " not configured",
				Hint:    p.Hint,
				Demo:    true,
			})
			return
		}
		qs := req.URL.Query()
		q, err := mls.Query{MLS: qs.Get("mls"), Address: qs.Get("address"), City: qs.Get("city")}.Normalize()
		if err != nil {
			writeJSON(w, req, d.Metrics, p, http.StatusBadRequest, render.M{"error": "Provide mls or address query parameter"})
			return
		}

		start := time.Now()
		results, err := d.Client.Search(req.Context(), p, q)
		status, body := searchResponse(p, results, err)
		if err != nil {
			log.Warn("mls search failed", "mode", q.Mode(), "status", status, "err", err)
		}
		writeJSON(w, req, d.Metrics, p, status, body)
		publish(req.Context(), d.Events, p, q, status, results, time.Since(start))
	}
}

func searchResponse(p *mls.Provider, results []mls.SearchResult, err error) (int, any) {
	var upstream *mls.UpstreamError
	switch {
	case err == nil:
		if results == nil {
			results = []mls.SearchResult{}
		}
		return http.StatusOK, mls.Response{Results: results}
	case errors.As(err, &upstream):
		return upstream.Status, render.M{
			"error":  p.Label + " API error",
			"status": upstream.Status,
			"detail": upstream.Body,
		}
	case errors.Is(err, quota.ErrDailyLimitExceeded):
		return http.StatusTooManyRequests, render.M{
			"error":  p.Label + " quota exceeded",
			"detail": err.Error(),
		}
	default:
		return http.StatusInternalServerError, render.M{
			"error":  "Server error",
			"detail": err.Error(),
		}
	}
}

func writeJSON(w http.ResponseWriter, req *http.Request, m *metrics.Metrics, p *mls.Provider, status int, v any) {
	m.ProxyResponse(p.Name, status)
	render.Status(req, status)
	render.JSON(w, req, v)
}

func publish(ctx context.Context, pub events.Publisher, p *mls.Provider, q mls.Query, status int, results []mls.SearchResult, took time.Duration) {
	if pub == nil {
		return
	}
	numbers := make([]string, 0, len(results))
	keys := make([]string, 0, len(results))
	for _, r := range results {
		numbers = append(numbers, r.MLSNumber)
		if k := canon.PropertyKey(r.Address, r.City, r.State, r.Zip); k != "" {
			keys = append(keys, k)
		}
	}
	pub.PublishSearchCompleted(ctx, events.SearchCompleted{
		Provider:     p.Name,
		Mode:         q.Mode(),
		MLS:          q.MLS,
		Address:      q.Address,
		City:         q.City,
		Status:       status,
		ResultCount:  len(results),
		MLSNumbers:   numbers,
		PropertyKeys: keys,
		Duration:     took,
		At:           time.Now(),
	})
}
