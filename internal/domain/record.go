package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by files, documents and prompts
const DateLayout = "2006-01-02"

// Record represents one travel-expense entry
type Record struct {
	RefNumber string    `validate:"required,max=64"`
	Title     string    `validate:"max=512"`
	Purpose   string    `validate:"max=4096"`
	StartDate time.Time // zero when unset
	EndDate   time.Time // zero when unset

	// Costs are non-negative currency values
	Airfare        decimal.Decimal `validate:"gte=0"`
	OtherTransport decimal.Decimal `validate:"gte=0"`
	Lodging        decimal.Decimal `validate:"gte=0"`
	Meals          decimal.Decimal `validate:"gte=0"`
	OtherExpenses  decimal.Decimal `validate:"gte=0"`

	// Total is expected to equal ComputedTotal but is never forced to
	Total decimal.Decimal `validate:"gte=0"`
}

// ComputedTotal returns the sum of the five cost fields
func (r Record) ComputedTotal() decimal.Decimal {
	return decimal.Sum(r.Airfare, r.OtherTransport, r.Lodging, r.Meals, r.OtherExpenses)
}

// TotalMatches reports whether Total equals the sum of the cost fields
func (r Record) TotalMatches() bool {
	return r.Total.Equal(r.ComputedTotal())
}

// Value returns the value held in field f.
// Text fields yield string, dates time.Time and costs decimal.Decimal.
func (r Record) Value(f Field) any {
	switch f {
	case FieldRefNumber:
		return r.RefNumber
	case FieldTitle:
		return r.Title
	case FieldPurpose:
		return r.Purpose
	case FieldStartDate:
		return r.StartDate
	case FieldEndDate:
		return r.EndDate
	case FieldAirfare:
		return r.Airfare
	case FieldOtherTransport:
		return r.OtherTransport
	case FieldLodging:
		return r.Lodging
	case FieldMeals:
		return r.Meals
	case FieldOtherExpenses:
		return r.OtherExpenses
	case FieldTotal:
		return r.Total
	}
	return nil
}

// Equal compares two records field by field, treating decimals numerically
func (r Record) Equal(o Record) bool {
	return r.RefNumber == o.RefNumber &&
		r.Title == o.Title &&
		r.Purpose == o.Purpose &&
		r.StartDate.Equal(o.StartDate) &&
		r.EndDate.Equal(o.EndDate) &&
		r.Airfare.Equal(o.Airfare) &&
		r.OtherTransport.Equal(o.OtherTransport) &&
		r.Lodging.Equal(o.Lodging) &&
		r.Meals.Equal(o.Meals) &&
		r.OtherExpenses.Equal(o.OtherExpenses) &&
		r.Total.Equal(o.Total)
}

// String renders a short summary for log lines
func (r Record) String() string {
	return fmt.Sprintf("%s (%s) total=%s", r.RefNumber, r.Title, r.Total.String())
}

// FormatDate renders a calendar date, empty for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date; blank input yields the zero time
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrValidation, s)
	}
	return t, nil
}

// ParseAmount parses a currency amount; blank input yields zero
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	return d, nil
}

// FindRecord returns the index of the record with the given reference, or -1
func FindRecord(records []Record, ref string) int {
	for i := range records {
		if records[i].RefNumber == ref {
			return i
		}
	}
	return -1
}
