package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/mls-search-api/internal/events"
)

func TestNewSearchRow(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	row, err := newSearchRow(events.SearchCompleted{
		Provider:     "rmls",
		Mode:         "address",
		Address:      "Alder",
		City:         "Portland",
		Status:       200,
		ResultCount:  2,
		MLSNumbers:   []string{"111", "222"},
		PropertyKeys: []string{"1 alder st|portland|or|97201"},
		Duration:     1500 * time.Millisecond,
		At:           at,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(row.ID)
	assert.NoError(t, err)
	assert.False(t, row.MLS.Valid)
	assert.Equal(t, "Alder", row.Address.String)
	assert.JSONEq(t, `["111","222"]`, string(row.MLSNumbers))
	assert.JSONEq(t, `["1 alder st|portland|or|97201"]`, string(row.PropertyKeys))
	assert.Equal(t, int64(1500), row.DurationMS)
	assert.Equal(t, time.UTC, row.SearchedAt.Location())
	assert.True(t, row.SearchedAt.Equal(at))
}

func TestNewSearchRowEmptyResults(t *testing.T) {
	row, err := newSearchRow(events.SearchCompleted{Provider: "bridge", Mode: "mls", MLS: "9", Status: 404})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(row.MLSNumbers))
	assert.Equal(t, "[]", string(row.PropertyKeys))
	assert.False(t, row.SearchedAt.IsZero())
}

func TestRecordSearchNilStore(t *testing.T) {
	var s *Store
	assert.Error(t, s.RecordSearch(context.Background(), events.SearchCompleted{}))
	assert.NoError(t, s.Close())
}

// Runs against a real database only when MLS_TEST_PG_DSN is set.
func TestRecordSearchPostgres(t *testing.T) {
	dsn := os.Getenv("MLS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("MLS_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(dsn)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.RecordSearch(ctx, events.SearchCompleted{
		Provider: "rmls", Mode: "mls", MLS: "test-record-search", Status: 200, ResultCount: 1,
		MLSNumbers: []string{"test-record-search"}, At: time.Now(),
	}))

	var n int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM search_log WHERE mls_number = $1`, "test-record-search").Scan(&n))
	assert.GreaterOrEqual(t, n, 1)
}
