package mls

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Source is the caller-facing provider tag.
type Source string

const (
	// SourceRMLS selects the RMLS RESO feed (Oregon / SW Washington). Default.
	SourceRMLS Source = "rmls"
	// SourceNWMLS selects the Bridge Interactive feed carrying the Washington MLS dataset.
	SourceNWMLS Source = "nwmls"
)

// providerNames is the single tag -> provider table. Route paths, registry lookups and
// the client façade all derive from it.
var providerNames = map[Source]string{
	SourceRMLS:  "rmls",
	SourceNWMLS: "bridge",
}

// ParseSource maps a tag to a Source. An empty tag selects RMLS.
func ParseSource(s string) (Source, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SourceRMLS, nil
	}
	src := Source(s)
	if _, ok := providerNames[src]; !ok {
		return "", fmt.Errorf("unknown mls source %q", s)
	}
	return src, nil
}

// ProviderName returns the registry/route name for the tag.
func (s Source) ProviderName() string {
	if s == "" {
		s = SourceRMLS
	}
	return providerNames[s]
}

// SearchPath is the proxy endpoint path serving this source.
func (s Source) SearchPath() string {
	return "/api/" + s.ProviderName() + "/search"
}

// MediaSpec describes a secondary per-listing media resource.
type MediaSpec struct {
	URL     string
	Filter  func(mlsNumber string) string
	Select  []string
	Top     int
	OrderBy string
}

// Provider describes one upstream OData feed. The client is generic over it.
type Provider struct {
	Name        string // route segment, e.g. "bridge"
	Label       string // human name used in error bodies, e.g. "Bridge"
	Source      Source
	PropertyURL string
	Token       string
	Hint        string
	Select      []string
	Filter      func(Query) string
	Normalize   func(raw json.RawMessage) (SearchResult, []Photo, error)
	Media       *MediaSpec // nil when photos are embedded in the property record
}

// Configured reports whether a bearer token is available.
func (p *Provider) Configured() bool { return p != nil && p.Token != "" }

var (
	// ErrNotConfigured is returned when the provider has no bearer token.
	ErrNotConfigured = errors.New("mls provider not configured")
	// ErrMissingQuery is returned when neither an MLS number nor an address was given.
	ErrMissingQuery = errors.New("provide mls or address query parameter")
)

// Normalize trims the query; it fails when nothing searchable remains.
func (q Query) Normalize() (Query, error) {
	q.MLS = strings.TrimSpace(q.MLS)
	q.Address = strings.TrimSpace(q.Address)
	q.City = strings.TrimSpace(q.City)
	if q.MLS == "" && q.Address == "" {
		return q, ErrMissingQuery
	}
	return q, nil
}

// Mode reports which filter mode the query uses.
func (q Query) Mode() string {
	if q.MLS != "" {
		return "mls"
	}
	return "address"
}

// Registry maps provider route names to providers.
type Registry struct {
	order  []*Provider
	byName map[string]*Provider
}

func NewRegistry(providers ...*Provider) *Registry {
	r := &Registry{
		byName: make(map[string]*Provider, len(providers)),
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, dup := r.byName[p.Name]; dup {
			continue
		}
		r.order = append(r.order, p)
		r.byName[p.Name] = p
	}
	return r
}

func (r *Registry) Lookup(name string) (*Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// All returns providers in registration order.
func (r *Registry) All() []*Provider {
	return append([]*Provider(nil), r.order...)
}
