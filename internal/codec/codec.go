package codec

import (
	"io"
	"path/filepath"
	"strings"

	"travelrec/internal/domain"
)

// Importer interface for reading records from a serialized source.
// A positive limit caps the number of records returned.
type Importer interface {
	Parse(r io.Reader, limit int) ([]domain.Record, error)
	Format() string
}

// Exporter interface for writing records to a serialized sink
type Exporter interface {
	Export(records []domain.Record, w io.Writer) error
	Format() string
}

// Codec reads and writes one flat-file format
type Codec interface {
	Importer
	Exporter
}

// ForPath picks a codec from the file extension. CSV is the default.
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONCodec()
	case ".yaml", ".yml":
		return NewYAMLCodec()
	default:
		return NewCSVCodec()
	}
}
