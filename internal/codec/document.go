package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"travelrec/internal/domain"

	"github.com/shopspring/decimal"
)

// Document is a record as stored in a document collection, keyed by
// domain.Field names
type Document map[string]any

// Ref returns the document's reference number, empty when absent
func (d Document) Ref() string {
	ref, _ := decodeString(d[string(domain.FieldRefNumber)])
	return ref
}

// DocumentCodec converts records to and from document form. Amounts are
// stored as numbers and dates as YYYY-MM-DD strings.
type DocumentCodec struct{}

// NewDocumentCodec creates a new document codec
func NewDocumentCodec() *DocumentCodec {
	return &DocumentCodec{}
}

// Format returns the codec format identifier
func (c *DocumentCodec) Format() string {
	return "document"
}

// FromRecord renders every field of r
func (c *DocumentCodec) FromRecord(r domain.Record) Document {
	return c.FromPatch(domain.FullPatch(r))
}

// FromPatch renders only the fields set in p, for $set-style updates
func (c *DocumentCodec) FromPatch(p domain.Patch) Document {
	doc := make(Document)
	for field, value := range p.Values() {
		doc[string(field)] = encodeValue(value)
	}
	return doc
}

// ToRecord builds a record from a stored document. Keys outside
// domain.Fields are ignored; absent amounts default to zero and absent
// text or dates to empty.
func (c *DocumentCodec) ToRecord(doc Document) (domain.Record, error) {
	var (
		r   domain.Record
		err error
	)

	if r.RefNumber, err = decodeString(doc[string(domain.FieldRefNumber)]); err != nil {
		return r, fieldError(domain.FieldRefNumber, err)
	}
	if r.Title, err = decodeString(doc[string(domain.FieldTitle)]); err != nil {
		return r, fieldError(domain.FieldTitle, err)
	}
	if r.Purpose, err = decodeString(doc[string(domain.FieldPurpose)]); err != nil {
		return r, fieldError(domain.FieldPurpose, err)
	}
	if r.StartDate, err = decodeDate(doc[string(domain.FieldStartDate)]); err != nil {
		return r, fieldError(domain.FieldStartDate, err)
	}
	if r.EndDate, err = decodeDate(doc[string(domain.FieldEndDate)]); err != nil {
		return r, fieldError(domain.FieldEndDate, err)
	}

	amounts := []struct {
		field  domain.Field
		target *decimal.Decimal
	}{
		{domain.FieldAirfare, &r.Airfare},
		{domain.FieldOtherTransport, &r.OtherTransport},
		{domain.FieldLodging, &r.Lodging},
		{domain.FieldMeals, &r.Meals},
		{domain.FieldOtherExpenses, &r.OtherExpenses},
		{domain.FieldTotal, &r.Total},
	}
	for _, a := range amounts {
		d, err := decodeDecimal(doc[string(a.field)])
		if err != nil {
			return r, fieldError(a.field, err)
		}
		*a.target = d
	}

	return r, nil
}

// Merge overlays patch onto base and returns the result. Neither input
// is modified.
func (c *DocumentCodec) Merge(base, patch Document) Document {
	merged := make(Document, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

func fieldError(field domain.Field, err error) error {
	return fmt.Errorf("%w: document field %s: %v", domain.ErrPersistence, field, err)
}

// encodeValue maps domain values to document primitives
func encodeValue(v any) any {
	switch v := v.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return v.Format(domain.DateLayout)
	case decimal.Decimal:
		return v.InexactFloat64()
	default:
		return v
	}
}

// timeValuer matches driver date types such as bson primitive.DateTime
type timeValuer interface {
	Time() time.Time
}

func decodeString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case int, int32, int64, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unsupported text value of type %T", v)
	}
}

func decodeDate(v any) (time.Time, error) {
	switch v := v.(type) {
	case nil:
		return time.Time{}, nil
	case string:
		return domain.ParseDate(v)
	case time.Time:
		return civilDate(v), nil
	case timeValuer:
		return civilDate(v.Time()), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date value of type %T", v)
	}
}

func civilDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func decodeDecimal(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return domain.ParseAmount(v)
	case fmt.Stringer:
		// bson Decimal128 and similar exact types
		return decimal.NewFromString(v.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount value of type %T", v)
	}
}
