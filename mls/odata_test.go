package mls

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralEscapesQuotes(t *testing.T) {
	assert.Equal(t, "'123'", Literal("123"))
	assert.Equal(t, "'O''Brien'", Literal("O'Brien"))
	assert.Equal(t, "''' or 1 eq 1 or ''='''", Literal("' or 1 eq 1 or '='"))
}

func TestBridgeFilter(t *testing.T) {
	assert.Equal(t, "ListingId eq '2101234'", bridgeFilter(Query{MLS: "2101234", Address: "ignored"}))
	assert.Equal(t,
		"contains(tolower(UnparsedAddress),tolower('12 Main'))",
		bridgeFilter(Query{Address: "12 Main"}))
	assert.Equal(t,
		"contains(tolower(UnparsedAddress),tolower('12 Main')) and tolower(City) eq tolower('Coeur d''Alene')",
		bridgeFilter(Query{Address: "12 Main", City: "Coeur d'Alene"}))
}

func TestRMLSFilter(t *testing.T) {
	assert.Equal(t, "ListingId eq '23456789'", rmlsFilter(Query{MLS: "23456789"}))
	assert.Equal(t, "contains(StreetName,'Alder') and City eq 'Portland'", rmlsFilter(Query{Address: "Alder", City: "Portland"}))
	assert.Equal(t, "ResourceRecordKey eq '2345' and MediaCategory eq 'Photo'", rmlsMediaFilter("2345"))
}

func TestQueryEncodingOrderAndEscaping(t *testing.T) {
	u := withQuery("https://example.test/Property", odataQuery{
		filter:  "City eq 'Lake Oswego'",
		selects: []string{"ListingId", "City"},
		top:     10,
		orderBy: "Order asc",
	})
	assert.Equal(t,
		"https://example.test/Property?$filter=City%20eq%20%27Lake%20Oswego%27&$select=ListingId%2CCity&$top=10&$orderby=Order%20asc",
		u)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "City eq 'Lake Oswego'", parsed.Query().Get("$filter"))
	assert.Equal(t, "10", parsed.Query().Get("$top"))
}

func TestQueryNormalize(t *testing.T) {
	_, err := Query{MLS: "  ", Address: ""}.Normalize()
	assert.ErrorIs(t, err, ErrMissingQuery)

	q, err := Query{Address: " 5 Elm ", City: " Bend "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "5 Elm", q.Address)
	assert.Equal(t, "Bend", q.City)
	assert.Equal(t, "address", q.Mode())
}
