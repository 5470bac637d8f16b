package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"travelrec/internal/domain"
	"travelrec/internal/repository"
	"travelrec/internal/sorting"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RecordService coordinates the in-memory record collection with the
// active store. The caller owns the collection: mutating methods take the
// current records and return a new slice, leaving the input untouched.
type RecordService struct {
	store      repository.Store
	docs       repository.DocumentStore // nil unless the store is write-through
	maxRecords int
	validate   *validator.Validate
	logger     *zap.Logger
}

// New creates a record service over store. A store that also implements
// repository.DocumentStore is used write-through.
func New(store repository.Store, maxRecords int, logger *zap.Logger) *RecordService {
	if maxRecords <= 0 {
		maxRecords = repository.DefaultMaxRecords
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &RecordService{
		store:      store,
		maxRecords: maxRecords,
		validate:   newValidator(),
		logger:     logger.Named("service"),
	}
	if docs, ok := store.(repository.DocumentStore); ok {
		s.docs = docs
	}
	return s
}

// Kind names the active store
func (s *RecordService) Kind() string {
	return s.store.Kind()
}

// WriteThrough reports whether mutations reach the store immediately
func (s *RecordService) WriteThrough() bool {
	return s.docs != nil
}

// MaxRecords returns the collection cap
func (s *RecordService) MaxRecords() int {
	return s.maxRecords
}

// Load fetches the collection from the store, capped and with duplicate
// references removed (the first occurrence wins). Every record must pass
// the same validation as Create; one invalid record fails the load.
func (s *RecordService) Load(ctx context.Context) ([]domain.Record, error) {
	loaded, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("load failed", zap.String("store", s.store.Kind()), zap.Error(err))
		return nil, err
	}

	records := make([]domain.Record, 0, min(len(loaded), s.maxRecords))
	seen := make(map[string]bool, len(loaded))
	for i, r := range loaded {
		if len(records) == s.maxRecords {
			s.logger.Warn("record cap reached, ignoring remainder",
				zap.Int("cap", s.maxRecords), zap.Int("loaded", len(loaded)))
			break
		}
		if seen[r.RefNumber] {
			s.logger.Warn("dropping duplicate reference", zap.String("ref", r.RefNumber))
			continue
		}
		if err := s.validateRecord(r); err != nil {
			err = fmt.Errorf("record %d (%q): %w", i+1, r.RefNumber, err)
			s.logger.Error("load rejected", zap.String("store", s.store.Kind()), zap.Error(err))
			return nil, err
		}
		seen[r.RefNumber] = true
		records = append(records, r)
	}

	s.logger.Info("loaded records", zap.String("store", s.store.Kind()), zap.Int("count", len(records)))
	return records, nil
}

// Save persists the whole collection. Flat files are rewritten; document
// stores upsert record by record.
func (s *RecordService) Save(ctx context.Context, records []domain.Record) error {
	if err := s.store.Save(ctx, records); err != nil {
		s.logger.Error("save failed", zap.String("store", s.store.Kind()), zap.Error(err))
		return err
	}
	s.logger.Info("saved records", zap.String("store", s.store.Kind()), zap.Int("count", len(records)))
	return nil
}

// Create validates record and appends it. Document stores insert it
// immediately; flat files hold it until the next Save.
func (s *RecordService) Create(ctx context.Context, records []domain.Record, record domain.Record) ([]domain.Record, error) {
	if err := s.validateRecord(record); err != nil {
		return records, err
	}
	if domain.FindRecord(records, record.RefNumber) >= 0 {
		return records, fmt.Errorf("%w: %s", domain.ErrDuplicateReference, record.RefNumber)
	}

	if s.docs != nil {
		if err := s.docs.Insert(ctx, record); err != nil {
			s.logger.Error("insert failed", zap.String("ref", record.RefNumber), zap.Error(err))
			return records, err
		}
	}

	s.logger.Debug("created record", zap.Stringer("record", record))
	return append(slices.Clone(records), record), nil
}

// Read returns the whole collection (up to the cap) when ref is empty,
// otherwise the single matching record
func (s *RecordService) Read(records []domain.Record, ref string) ([]domain.Record, error) {
	if ref == "" {
		return slices.Clone(records[:min(len(records), s.maxRecords)]), nil
	}

	i := domain.FindRecord(records, ref)
	if i < 0 {
		return nil, fmt.Errorf("%w: record %s", domain.ErrNotFound, ref)
	}
	return []domain.Record{records[i]}, nil
}

// Update applies patch to the record with reference ref.
//
// With a flat file the record must exist in the collection. Document stores
// upsert instead: an unknown reference becomes a new record built from the
// patch, both in the store and in the returned collection.
func (s *RecordService) Update(ctx context.Context, records []domain.Record, ref string, patch domain.Patch) ([]domain.Record, error) {
	i := domain.FindRecord(records, ref)
	if i < 0 && s.docs == nil {
		return records, fmt.Errorf("%w: record %s", domain.ErrNotFound, ref)
	}

	var updated domain.Record
	if i >= 0 {
		updated = patch.Apply(records[i])
	} else {
		updated = patch.Apply(domain.Record{RefNumber: ref})
	}

	if err := s.validateRecord(updated); err != nil {
		return records, err
	}
	if j := domain.FindRecord(records, updated.RefNumber); j >= 0 && j != i {
		return records, fmt.Errorf("%w: %s", domain.ErrDuplicateReference, updated.RefNumber)
	}

	if s.docs != nil {
		if err := s.docs.Update(ctx, ref, patch); err != nil {
			s.logger.Error("update failed", zap.String("ref", ref), zap.Error(err))
			return records, err
		}
	}

	out := slices.Clone(records)
	if i >= 0 {
		out[i] = updated
	} else {
		s.logger.Info("update created record", zap.String("ref", ref))
		out = append(out, updated)
	}
	return out, nil
}

// Delete removes the record with reference ref. A missing reference is
// NotFound for flat files and silently accepted by document stores.
func (s *RecordService) Delete(ctx context.Context, records []domain.Record, ref string) ([]domain.Record, error) {
	i := domain.FindRecord(records, ref)
	if i < 0 && s.docs == nil {
		return records, fmt.Errorf("%w: record %s", domain.ErrNotFound, ref)
	}

	if s.docs != nil {
		if err := s.docs.Delete(ctx, ref); err != nil {
			s.logger.Error("delete failed", zap.String("ref", ref), zap.Error(err))
			return records, err
		}
	}

	if i < 0 {
		return records, nil
	}
	return slices.Delete(slices.Clone(records), i, i+1), nil
}

// Sort returns the collection ordered by keys
func (s *RecordService) Sort(records []domain.Record, keys []sorting.Key) ([]domain.Record, error) {
	return sorting.Sort(records, keys)
}

// Close releases the store
func (s *RecordService) Close() error {
	return s.store.Close()
}

// IsUserError reports whether err stems from user input rather than the
// store, so callers can choose how loudly to report it
func IsUserError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound)
}
