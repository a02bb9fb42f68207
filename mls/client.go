package mls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yourorg/mls-search-api/internal/metrics"
)

const (
	defaultTimeout          = 10 * time.Second
	defaultMediaConcurrency = pageSize
	maxBodyBytes            = 4 << 20
)

// Quota gates upstream searches, e.g. a shared daily allowance.
type Quota interface {
	Take(ctx context.Context, provider string) error
}

// UpstreamError carries a non-2xx provider response.
type UpstreamError struct {
	Provider string
	Resource string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s error %d: %s", e.Provider, e.Resource, e.Status, e.Body)
}

type Options struct {
	// Timeout bounds each upstream call (property query and every media query).
	Timeout time.Duration
	// RetryMax is passed to retryablehttp. Zero means a single attempt.
	RetryMax          int
	RequestsPerSecond float64
	MediaConcurrency  int
	Quota             Quota
	Metrics           *metrics.Metrics
	Logger            *slog.Logger
	HTTPClient        *http.Client
}

type Client struct {
	http             *retryablehttp.Client
	timeout          time.Duration
	rps              float64
	mediaConcurrency int
	quota            Quota
	metrics          *metrics.Metrics
	log              *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = max(opts.RetryMax, 0)
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.HTTPClient != nil {
		hc := *opts.HTTPClient
		rc.HTTPClient = &hc
	}
	rc.HTTPClient.Timeout = timeout
	rc.Logger = log.With("component", "mls.http")

	mediaConcurrency := opts.MediaConcurrency
	if mediaConcurrency <= 0 {
		mediaConcurrency = defaultMediaConcurrency
	}
	return &Client{
		http:             rc,
		timeout:          timeout,
		rps:              opts.RequestsPerSecond,
		mediaConcurrency: mediaConcurrency,
		quota:            opts.Quota,
		metrics:          opts.Metrics,
		log:              log,
		limiters:         make(map[string]*rate.Limiter),
	}
}

// Search runs one Property query against p and normalizes the page. Providers with a
// Media spec get their photos resolved concurrently; a failed media fetch only blanks
// the photos of that listing.
func (c *Client) Search(ctx context.Context, p *Provider, q Query) ([]SearchResult, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	if c.quota != nil {
		if err := c.quota.Take(ctx, p.Name); err != nil {
			return nil, err
		}
	}

	u := withQuery(p.PropertyURL, odataQuery{filter: p.Filter(q), selects: p.Select, top: pageSize})
	body, err := c.get(ctx, p, "property", u)
	if err != nil {
		return nil, err
	}
	var page struct {
		Value []json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%s: decode property response: %w", p.Name, err)
	}
	if len(page.Value) > pageSize {
		page.Value = page.Value[:pageSize]
	}

	results := make([]SearchResult, 0, len(page.Value))
	for _, raw := range page.Value {
		r, photos, err := p.Normalize(raw)
		if err != nil {
			return nil, err
		}
		applyPhotos(&r, photos)
		results = append(results, r)
	}
	if p.Media != nil && len(results) > 0 {
		c.resolveMedia(ctx, p, results)
	}
	return results, nil
}

func (c *Client) resolveMedia(ctx context.Context, p *Provider, results []SearchResult) {
	var g errgroup.Group
	g.SetLimit(c.mediaConcurrency)
	for i := range results {
		i := i
		if results[i].MLSNumber == "" {
			continue
		}
		g.Go(func() error {
			photos, err := c.fetchMedia(ctx, p, results[i].MLSNumber)
			if err != nil {
				c.log.Warn("media fetch failed; listing keeps no photos",
					"provider", p.Name, "mls", results[i].MLSNumber, "err", err)
				c.metrics.MediaFailure(p.Name)
				applyPhotos(&results[i], nil)
				return nil
			}
			applyPhotos(&results[i], photos)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Client) fetchMedia(ctx context.Context, p *Provider, mlsNumber string) ([]Photo, error) {
	m := p.Media
	u := withQuery(m.URL, odataQuery{filter: m.Filter(mlsNumber), selects: m.Select, top: m.Top, orderBy: m.OrderBy})
	body, err := c.get(ctx, p, "media", u)
	if err != nil {
		return nil, err
	}
	var page struct {
		Value []Photo `json:"value"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%s: decode media response: %w", p.Name, err)
	}
	photos := orderPhotos(page.Value)
	if m.Top > 0 && len(photos) > m.Top {
		photos = photos[:m.Top]
	}
	return photos, nil
}

func (c *Client) get(ctx context.Context, p *Provider, resource, u string) ([]byte, error) {
	// the limiter wait counts against the per-call timeout
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.limiter(p.Name).Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s %s rate limit: %w", p.Name, resource, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.Token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(p.Name, resource, "error", time.Since(start))
		return nil, fmt.Errorf("%s %s request: %w", p.Name, resource, err)
	}
	defer resp.Body.Close()

	body, err := ioReadAllLimit(resp.Body, maxBodyBytes)
	c.metrics.ObserveUpstream(p.Name, resource, strconv.Itoa(resp.StatusCode), time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: p.Label, Resource: resource, Status: resp.StatusCode, Body: string(body)}
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s read: %w", p.Name, resource, err)
	}
	return body, nil
}

func (c *Client) limiter(name string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[name]
	if !ok {
		limit := rate.Inf
		if c.rps > 0 {
			limit = rate.Limit(c.rps)
		}
		// burst covers one property query plus its full media fan-out
		l = rate.NewLimiter(limit, pageSize+1)
		c.limiters[name] = l
	}
	return l
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return b, err
	}
	if int64(len(b)) > limit {
		return b[:limit], errors.New("payload too large")
	}
	return b, nil
}
