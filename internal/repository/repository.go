package repository

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"

	"travelrec/internal/domain"
)

// Store is implemented by every backing medium. Load returns at most the
// configured cap of records in retrieval order; Save persists the full
// in-memory collection.
type Store interface {
	// Kind names the backing medium for logs and messages
	Kind() string

	Load(ctx context.Context) ([]domain.Record, error)
	Save(ctx context.Context, records []domain.Record) error

	// Close releases resources
	Close() error
}

// DocumentStore is a write-through store whose collection is addressed by
// reference number. Update upserts and Delete of an absent reference is a
// no-op; Save is a sequence of individual upserts.
type DocumentStore interface {
	Store

	Insert(ctx context.Context, record domain.Record) error
	Update(ctx context.Context, ref string, patch domain.Patch) error
	Delete(ctx context.Context, ref string) error
}

// DefaultMaxRecords is the cap applied when none is configured
const DefaultMaxRecords = 100
