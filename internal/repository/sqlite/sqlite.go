package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travelrec/internal/codec"
	"travelrec/internal/domain"
	"travelrec/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store implements repository.DocumentStore using SQLite. Each record is a
// JSON document in the records table, physically keyed by a generated id
// and logically by its ref_number.
type Store struct {
	db         *sql.DB
	maxRecords int
	docs       *codec.DocumentCodec
	json       *codec.JSONCodec
	logger     *zap.Logger
}

var _ repository.DocumentStore = (*Store)(nil)

// New opens (creating if needed) the SQLite database at dbPath and migrates
// the schema
func New(dbPath string, maxRecords int, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", domain.ErrPersistence, err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized
	db.SetMaxOpenConns(1)

	if maxRecords <= 0 {
		maxRecords = repository.DefaultMaxRecords
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		db:         db,
		maxRecords: maxRecords,
		docs:       codec.NewDocumentCodec(),
		json:       codec.NewJSONCodec(),
		logger:     logger.Named("sqlite"),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to migrate database: %v", domain.ErrPersistence, err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA busy_timeout = 5000`,
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			ref_number TEXT,
			data JSON NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_ref_number ON records(ref_number)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Kind returns the backing medium name
func (s *Store) Kind() string {
	return "sqlite"
}

// Load returns up to maxRecords records in insertion order. Unknown
// document fields are ignored.
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		ORDER BY rowid
		LIMIT ?
	`, s.maxRecords)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query records: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("%w: failed to scan record: %v", domain.ErrPersistence, err)
		}

		record, err := row.toDomain(s.json, s.docs)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", row.ID, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating records: %v", domain.ErrPersistence, err)
	}

	s.logger.Debug("loaded records", zap.Int("count", len(records)), zap.Int("cap", s.maxRecords))
	return records, nil
}

// Get retrieves the first record with the given reference.
// Returns nil, nil when none exists.
func (s *Store) Get(ctx context.Context, ref string) (*domain.Record, error) {
	var row recordRow
	err := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records WHERE ref_number = ?
		ORDER BY rowid LIMIT 1
	`, ref).Scan(row.scanArgs()...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query record: %v", domain.ErrPersistence, err)
	}

	record, err := row.toDomain(s.json, s.docs)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Count returns the number of stored documents
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: failed to count records: %v", domain.ErrPersistence, err)
	}
	return n, nil
}

// Insert appends the record as a new document
func (s *Store) Insert(ctx context.Context, record domain.Record) error {
	args, err := s.insertArgs(uuid.NewString(), s.docs.FromRecord(record))
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, ref_number, data) VALUES (?, ?, ?)
	`, args...); err != nil {
		return fmt.Errorf("%w: failed to insert record %s: %v", domain.ErrPersistence, record.RefNumber, err)
	}

	s.logger.Debug("inserted record", zap.String("ref", record.RefNumber))
	return nil
}

// Update sets the patch fields on the first document matching ref, or
// inserts a new document holding ref plus the patch when none matches
func (s *Store) Update(ctx context.Context, ref string, patch domain.Patch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	var row recordRow
	err = tx.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records WHERE ref_number = ?
		ORDER BY rowid LIMIT 1
	`, ref).Scan(row.scanArgs()...)

	set := s.docs.FromPatch(patch)
	upserted := false

	switch {
	case errors.Is(err, sql.ErrNoRows):
		doc := s.docs.Merge(codec.Document{string(domain.FieldRefNumber): ref}, set)
		args, err := s.insertArgs(uuid.NewString(), doc)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (id, ref_number, data) VALUES (?, ?, ?)
		`, args...); err != nil {
			return fmt.Errorf("%w: failed to upsert record %s: %v", domain.ErrPersistence, ref, err)
		}
		upserted = true

	case err != nil:
		return fmt.Errorf("%w: failed to query record: %v", domain.ErrPersistence, err)

	default:
		base, err := s.json.DecodeDocument([]byte(row.Data))
		if err != nil {
			return fmt.Errorf("%w: document %s: %v", domain.ErrPersistence, row.ID, err)
		}
		args, err := s.insertArgs(row.ID, s.docs.Merge(base, set))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE records SET ref_number = ?, data = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, args[1], args[2], args[0]); err != nil {
			return fmt.Errorf("%w: failed to update record %s: %v", domain.ErrPersistence, ref, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", domain.ErrPersistence, err)
	}

	s.logger.Debug("updated record", zap.String("ref", ref), zap.Bool("upserted", upserted))
	return nil
}

// Delete removes the first document matching ref. A missing reference is
// not an error.
func (s *Store) Delete(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM records WHERE id = (
			SELECT id FROM records WHERE ref_number = ? ORDER BY rowid LIMIT 1
		)
	`, ref)
	if err != nil {
		return fmt.Errorf("%w: failed to delete record %s: %v", domain.ErrPersistence, ref, err)
	}

	n, _ := res.RowsAffected()
	s.logger.Debug("deleted record", zap.String("ref", ref), zap.Int64("removed", n))
	return nil
}

// Save upserts every record in turn. It is not atomic: all records are
// attempted and the failures are returned together.
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	var errs error
	for _, r := range records {
		if err := s.Update(ctx, r.RefNumber, domain.FullPatch(r)); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
