package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"travelrec/internal/domain"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// CSVCodec handles travel-record CSV import/export
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// csvRow is one CSV line. Field order is the documented column order and
// drives the header written by Export.
type csvRow struct {
	RefNumber      string `csv:"ref_number"`
	Title          string `csv:"title_en"`
	Purpose        string `csv:"purpose_en"`
	StartDate      string `csv:"start_date"`
	EndDate        string `csv:"end_date"`
	Airfare        string `csv:"airfare"`
	OtherTransport string `csv:"other_transport"`
	Lodging        string `csv:"lodging"`
	Meals          string `csv:"meals"`
	OtherExpenses  string `csv:"other_expenses"`
	Total          string `csv:"total"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads records from CSV. Columns are matched by header name and
// extra columns are ignored; every documented column must be present.
func (c *CSVCodec) Parse(r io.Reader, limit int) ([]domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", domain.ErrPersistence, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: csv has no content", domain.ErrEmptyInput)
	}

	header, err := gocsv.DefaultCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv has no content", domain.ErrEmptyInput)
		}
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", domain.ErrPersistence, err)
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: csv header is missing columns: %s",
			domain.ErrPersistence, strings.Join(missing, ", "))
	}

	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, fmt.Errorf("%w: csv has no content", domain.ErrEmptyInput)
		}
		return nil, fmt.Errorf("%w: failed to parse CSV: %v", domain.ErrPersistence, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: csv has a header but no rows", domain.ErrEmptyInput)
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	records := make([]domain.Record, 0, len(rows))
	for i, row := range rows {
		record, err := row.toDomain()
		if err != nil {
			// +2: one for the header, one for 1-based line numbers
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrPersistence, i+2, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Export writes records as CSV with a header row
func (c *CSVCodec) Export(records []domain.Record, w io.Writer) error {
	rows := make([]csvRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, fromDomain(r))
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("%w: failed to encode CSV: %v", domain.ErrPersistence, err)
	}
	return nil
}

// missingColumns lists the documented columns absent from header
func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, f := range domain.Fields {
		if !present[string(f)] {
			missing = append(missing, string(f))
		}
	}
	return missing
}

// toDomain converts the row's text cells to a domain.Record.
// Blank cost cells read as zero and blank dates as unset; a blank
// reference is rejected.
func (row csvRow) toDomain() (domain.Record, error) {
	if strings.TrimSpace(row.RefNumber) == "" {
		return domain.Record{}, fmt.Errorf("%s: reference number is blank", domain.FieldRefNumber)
	}

	record := domain.Record{
		RefNumber: row.RefNumber,
		Title:     row.Title,
		Purpose:   row.Purpose,
	}

	var err error
	if record.StartDate, err = domain.ParseDate(row.StartDate); err != nil {
		return record, fmt.Errorf("start_date: %v", err)
	}
	if record.EndDate, err = domain.ParseDate(row.EndDate); err != nil {
		return record, fmt.Errorf("end_date: %v", err)
	}

	amounts := []struct {
		field  domain.Field
		cell   string
		target *decimal.Decimal
	}{
		{domain.FieldAirfare, row.Airfare, &record.Airfare},
		{domain.FieldOtherTransport, row.OtherTransport, &record.OtherTransport},
		{domain.FieldLodging, row.Lodging, &record.Lodging},
		{domain.FieldMeals, row.Meals, &record.Meals},
		{domain.FieldOtherExpenses, row.OtherExpenses, &record.OtherExpenses},
		{domain.FieldTotal, row.Total, &record.Total},
	}
	for _, a := range amounts {
		d, err := domain.ParseAmount(a.cell)
		if err != nil {
			return record, fmt.Errorf("%s: %v", a.field, err)
		}
		*a.target = d
	}

	return record, nil
}

func fromDomain(r domain.Record) csvRow {
	return csvRow{
		RefNumber:      r.RefNumber,
		Title:          r.Title,
		Purpose:        r.Purpose,
		StartDate:      domain.FormatDate(r.StartDate),
		EndDate:        domain.FormatDate(r.EndDate),
		Airfare:        formatAmount(r.Airfare),
		OtherTransport: formatAmount(r.OtherTransport),
		Lodging:        formatAmount(r.Lodging),
		Meals:          formatAmount(r.Meals),
		OtherExpenses:  formatAmount(r.OtherExpenses),
		Total:          formatAmount(r.Total),
	}
}

// formatAmount writes currency with two decimal places, keeping any
// finer precision the value carries
func formatAmount(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}
