package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultKey is the row key used when none is configured.
const DefaultKey = "default"

const schemaSQL = `CREATE TABLE IF NOT EXISTS resume_state (
	key        TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps the state as a JSONB row in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// ConnectPostgres establishes a connection pool to the database.
func ConnectPostgres(ctx context.Context, databaseURL, key string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &StoreError{Op: "connect", Message: "failed to connect to database", Cause: err}
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &StoreError{Op: "connect", Message: "failed to ping database", Cause: err}
	}

	if key == "" {
		key = DefaultKey
	}
	return &PostgresStore{pool: pool, key: key}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the state table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return &StoreError{Op: "migrate", Message: "failed to create resume_state", Cause: err}
	}
	return nil
}

// Load implements Repository.
func (s *PostgresStore) Load(ctx context.Context) (*types.State, error) {
	var raw []byte
	var updatedAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT state, updated_at FROM resume_state WHERE key = $1`,
		s.key,
	).Scan(&raw, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &StoreError{Op: "load", Message: "failed to query state", Cause: err}
	}

	state, err := types.DecodeState(bytes.NewReader(raw))
	if err != nil {
		return nil, &StoreError{Op: "load", Message: fmt.Sprintf("failed to decode state %q", s.key), Cause: err}
	}
	if state.LastModified.IsZero() {
		state.LastModified = updatedAt
	}
	return state, nil
}

// Save implements Repository.
func (s *PostgresStore) Save(ctx context.Context, state types.State) error {
	jsonBytes, err := json.Marshal(state)
	if err != nil {
		return &StoreError{Op: "save", Message: "failed to encode state", Cause: err}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO resume_state (key, state, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET state = $2, updated_at = NOW()`,
		s.key, jsonBytes,
	)
	if err != nil {
		return &StoreError{Op: "save", Message: "failed to upsert state", Cause: err}
	}
	return nil
}

// Delete removes the stored row.
func (s *PostgresStore) Delete(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM resume_state WHERE key = $1`, s.key); err != nil {
		return &StoreError{Op: "delete", Message: "failed to delete state", Cause: err}
	}
	return nil
}
