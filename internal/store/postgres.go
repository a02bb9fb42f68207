package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourorg/mls-search-api/internal/events"
)

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS search_log (
            id            UUID PRIMARY KEY,
            provider      TEXT NOT NULL,
            mode          TEXT NOT NULL,
            mls_number    TEXT,
            address       TEXT,
            city          TEXT,
            status        SMALLINT NOT NULL,
            result_count  INTEGER NOT NULL,
            mls_numbers   JSONB NOT NULL,
            property_keys JSONB NOT NULL,
            duration_ms   INTEGER NOT NULL,
            searched_at   TIMESTAMPTZ NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_search_log_provider ON search_log(provider, searched_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_search_log_mls ON search_log(mls_number) WHERE mls_number IS NOT NULL;`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// searchRow is the column set of one search_log insert.
type searchRow struct {
	ID           string
	Provider     string
	Mode         string
	MLS          sql.NullString
	Address      sql.NullString
	City         sql.NullString
	Status       int
	ResultCount  int
	MLSNumbers   []byte
	PropertyKeys []byte
	DurationMS   int64
	SearchedAt   time.Time
}

func newSearchRow(evt events.SearchCompleted) (searchRow, error) {
	numbers, err := jsonList(evt.MLSNumbers)
	if err != nil {
		return searchRow{}, err
	}
	keys, err := jsonList(evt.PropertyKeys)
	if err != nil {
		return searchRow{}, err
	}
	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	return searchRow{
		ID:           uuid.NewString(),
		Provider:     evt.Provider,
		Mode:         evt.Mode,
		MLS:          nullString(evt.MLS),
		Address:      nullString(evt.Address),
		City:         nullString(evt.City),
		Status:       evt.Status,
		ResultCount:  evt.ResultCount,
		MLSNumbers:   numbers,
		PropertyKeys: keys,
		DurationMS:   evt.Duration.Milliseconds(),
		SearchedAt:   at.UTC(),
	}, nil
}

// RecordSearch stores the query metadata, returned MLS numbers and property keys of
// one search.
// Listing bodies are never persisted.
func (s *Store) RecordSearch(ctx context.Context, evt events.SearchCompleted) error {
	if s == nil || s.DB == nil {
		return errors.New("nil db")
	}
	row, err := newSearchRow(evt)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
        INSERT INTO search_log (id, provider, mode, mls_number, address, city, status, result_count, mls_numbers, property_keys, duration_ms, searched_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		row.ID, row.Provider, row.Mode, row.MLS, row.Address, row.City, row.Status, row.ResultCount,
		string(row.MLSNumbers), string(row.PropertyKeys), row.DurationMS, row.SearchedAt,
	)
	return err
}

func jsonList(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
