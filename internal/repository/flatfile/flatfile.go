package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"travelrec/internal/codec"
	"travelrec/internal/domain"
	"travelrec/internal/repository"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Defaults match the published travel-expense dataset layout
const (
	DefaultInputPath  = "travelq.csv"
	DefaultOutputPath = "saved_travel_data.csv"
)

// Options configures a flat-file store
type Options struct {
	InputPath  string
	OutputPath string
	MaxRecords int
}

// Store implements repository.Store over a fixed input file and a fixed
// output file. The codec is picked from each path's extension.
type Store struct {
	inputPath  string
	outputPath string
	maxRecords int
	importer   codec.Importer
	exporter   codec.Exporter
	logger     *zap.Logger
}

var _ repository.Store = (*Store)(nil)

// New creates a flat-file store
func New(opts Options, logger *zap.Logger) *Store {
	if opts.InputPath == "" {
		opts.InputPath = DefaultInputPath
	}
	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputPath
	}
	if opts.MaxRecords <= 0 {
		opts.MaxRecords = repository.DefaultMaxRecords
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		inputPath:  opts.InputPath,
		outputPath: opts.OutputPath,
		maxRecords: opts.MaxRecords,
		importer:   codec.ForPath(opts.InputPath),
		exporter:   codec.ForPath(opts.OutputPath),
		logger:     logger.Named("flatfile"),
	}
}

// Kind returns the input file format
func (s *Store) Kind() string {
	return s.importer.Format()
}

// InputPath returns the file Load reads
func (s *Store) InputPath() string {
	return s.inputPath
}

// OutputPath returns the file Save writes
func (s *Store) OutputPath() string {
	return s.outputPath
}

// Load reads at most MaxRecords records from the input file in file order
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.inputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, s.inputPath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrPersistence, s.inputPath, err)
	}
	defer f.Close()

	records, err := s.importer.Parse(f, s.maxRecords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.inputPath, err)
	}

	s.logger.Debug("loaded records",
		zap.String("path", s.inputPath),
		zap.Int("count", len(records)),
		zap.Int("cap", s.maxRecords))

	return records, nil
}

// Save overwrites the output file with the full collection. The file is
// written beside the target and renamed into place.
func (s *Store) Save(ctx context.Context, records []domain.Record) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.outputPath)+".*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrPersistence, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err := s.exporter.Export(records, tmp); err != nil {
		return multierr.Append(fmt.Errorf("%s: %w", s.outputPath, err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrPersistence, tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", domain.ErrPersistence, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.outputPath); err != nil {
		return fmt.Errorf("%w: replace %s: %v", domain.ErrPersistence, s.outputPath, err)
	}

	s.logger.Debug("saved records",
		zap.String("path", s.outputPath),
		zap.Int("count", len(records)))

	return nil
}

// Close is a no-op; files are opened per operation
func (s *Store) Close() error {
	return nil
}
