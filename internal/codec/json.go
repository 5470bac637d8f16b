package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"travelrec/internal/domain"
)

// JSONCodec handles JSON encoding of documents and record lists
type JSONCodec struct {
	documents *DocumentCodec
}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{documents: NewDocumentCodec()}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// EncodeDocument serializes a single document
func (c *JSONCodec) EncodeDocument(doc Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses a single document. Numbers are kept as
// json.Number so amounts convert to decimals without float rounding.
func (c *JSONCodec) DecodeDocument(data []byte) (Document, error) {
	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// Parse imports records from a JSON array of documents
func (c *JSONCodec) Parse(r io.Reader, limit int) ([]domain.Record, error) {
	var docs []Document
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&docs); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: json has no content", domain.ErrEmptyInput)
		}
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", domain.ErrPersistence, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: json array is empty", domain.ErrEmptyInput)
	}

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	records := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		record, err := c.documents.ToRecord(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Export exports records as an indented JSON array of documents
func (c *JSONCodec) Export(records []domain.Record, w io.Writer) error {
	docs := make([]Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, c.documents.FromRecord(r))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(docs); err != nil {
		return fmt.Errorf("%w: failed to encode JSON: %v", domain.ErrPersistence, err)
	}

	return nil
}
