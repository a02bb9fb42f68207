package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/mls-search-api/listing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestMLSCommandPrintsListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bridge/search", r.URL.Path)
		assert.Equal(t, "2101234", r.URL.Query().Get("mls"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"mlsNumber":"2101234","bedrooms":2,"bathrooms":1,"propertyType":"Condo","city":"Seattle","galleryImages":[]}]}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "mls", "2101234", "--source", "nwmls", "--base-url", srv.URL, "--listing")
	require.NoError(t, err)

	var listings []listing.PropertyListing
	require.NoError(t, json.Unmarshal([]byte(out), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "mls-2101234", listings[0].ID)
	assert.Equal(t, "2BR/1BA Condo in Seattle", listings[0].Headline)
}

func TestAddressCommandReportsProxyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Alder St", r.URL.Query().Get("address"))
		assert.Equal(t, "Portland", r.URL.Query().Get("city"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"RMLS API error","status":401,"detail":"expired"}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "address", "Alder", "St", "--city", "Portland", "--base-url", srv.URL)
	require.Error(t, err)
	assert.Equal(t, "RMLS API error (status 401): expired", err.Error())
	assert.Contains(t, out, `"results": []`)
}

func TestUnknownSource(t *testing.T) {
	_, _, err := execute(t, "mls", "1", "--source", "zillow", "--base-url", "http://127.0.0.1:1")
	assert.ErrorContains(t, err, "unknown mls source")
}

func TestBlankQueryRejected(t *testing.T) {
	_, _, err := execute(t, "address", " ", "--base-url", "http://127.0.0.1:1")
	assert.Error(t, err)
}
