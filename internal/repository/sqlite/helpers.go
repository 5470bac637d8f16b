package sqlite

import (
	"database/sql"
	"fmt"

	"travelrec/internal/codec"
	"travelrec/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Record Row Scanner
// ============================================================================

// recordColumns is the column list matching recordRow.scanArgs
const recordColumns = `id, ref_number, data`

// recordRow holds the raw columns of one stored document
type recordRow struct {
	ID        string
	RefNumber sql.NullString
	Data      string
}

func (r *recordRow) scanArgs() []interface{} {
	return []interface{}{&r.ID, &r.RefNumber, &r.Data}
}

// toDomain decodes the JSON document into a record. The indexed
// ref_number column wins when the document body lacks one.
func (r *recordRow) toDomain(json *codec.JSONCodec, docs *codec.DocumentCodec) (domain.Record, error) {
	doc, err := json.DecodeDocument([]byte(r.Data))
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if doc.Ref() == "" {
		if ref := nullToString(r.RefNumber); ref != "" {
			doc[string(domain.FieldRefNumber)] = ref
		}
	}
	return docs.ToRecord(doc)
}

// ============================================================================
// Insert Argument Builders
// ============================================================================

// insertArgs returns id, ref_number and data in column order
func (s *Store) insertArgs(id string, doc codec.Document) ([]interface{}, error) {
	data, err := s.json.EncodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode document: %v", domain.ErrPersistence, err)
	}
	return []interface{}{id, stringToNull(doc.Ref()), string(data)}, nil
}
