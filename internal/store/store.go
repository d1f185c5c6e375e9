// Package store persists the editable resume state.
package store

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// Repository loads and saves the single editable state.
type Repository interface {
	// Load returns nil and no error when nothing has been saved yet.
	Load(ctx context.Context) (*types.State, error)
	Save(ctx context.Context, state types.State) error
}

// Kind selects a Repository implementation.
type Kind string

// Supported repository kinds
const (
	KindFile     Kind = "file"
	KindPostgres Kind = "postgres"
	KindMemory   Kind = "memory"
)

// Config selects and configures a Repository.
type Config struct {
	Kind        Kind
	Path        string
	DatabaseURL string
	// Key names the row holding the state in Postgres.
	Key string
}

// Opened is a Repository together with the function that releases it.
type Opened struct {
	Repository
	Close func()
}

// Open creates the configured repository.
func Open(ctx context.Context, cfg Config) (*Opened, error) {
	switch cfg.Kind {
	case KindFile, "":
		if cfg.Path == "" {
			return nil, &StoreError{Op: "open", Message: "state path is required for the file store"}
		}
		return &Opened{Repository: NewFileStore(cfg.Path), Close: func() {}}, nil
	case KindMemory:
		return &Opened{Repository: NewMemoryStore(), Close: func() {}}, nil
	case KindPostgres:
		if cfg.DatabaseURL == "" {
			return nil, &StoreError{Op: "open", Message: "database URL is required for the postgres store"}
		}
		pg, err := ConnectPostgres(ctx, cfg.DatabaseURL, cfg.Key)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return &Opened{Repository: pg, Close: pg.Close}, nil
	}
	return nil, &StoreError{Op: "open", Message: fmt.Sprintf("unknown store %q", cfg.Kind)}
}

// StoreError reports a persistence failure.
type StoreError struct {
	Op      string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
