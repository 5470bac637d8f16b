package domain

import "strings"

// Field names a record attribute. The value doubles as the CSV column
// header and the document key.
type Field string

const (
	FieldRefNumber      Field = "ref_number"
	FieldTitle          Field = "title_en"
	FieldPurpose        Field = "purpose_en"
	FieldStartDate      Field = "start_date"
	FieldEndDate        Field = "end_date"
	FieldAirfare        Field = "airfare"
	FieldOtherTransport Field = "other_transport"
	FieldLodging        Field = "lodging"
	FieldMeals          Field = "meals"
	FieldOtherExpenses  Field = "other_expenses"
	FieldTotal          Field = "total"
)

// Fields lists every record field in the documented column order
var Fields = []Field{
	FieldRefNumber,
	FieldTitle,
	FieldPurpose,
	FieldStartDate,
	FieldEndDate,
	FieldAirfare,
	FieldOtherTransport,
	FieldLodging,
	FieldMeals,
	FieldOtherExpenses,
	FieldTotal,
}

// fieldAliases lets users type the short names shown in tables
var fieldAliases = map[string]Field{
	"ref":       FieldRefNumber,
	"reference": FieldRefNumber,
	"title":     FieldTitle,
	"purpose":   FieldPurpose,
	"start":     FieldStartDate,
	"end":       FieldEndDate,
	"transport": FieldOtherTransport,
	"other":     FieldOtherExpenses,
}

// ParseField resolves a field name or alias, case-insensitively
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	f, ok := fieldAliases[s]
	return f, ok
}

// IsText returns true for free-text fields
func (f Field) IsText() bool {
	return f == FieldRefNumber || f == FieldTitle || f == FieldPurpose
}

// IsDate returns true for calendar date fields
func (f Field) IsDate() bool {
	return f == FieldStartDate || f == FieldEndDate
}

// IsAmount returns true for the cost fields and the total
func (f Field) IsAmount() bool {
	switch f {
	case FieldAirfare, FieldOtherTransport, FieldLodging, FieldMeals, FieldOtherExpenses, FieldTotal:
		return true
	}
	return false
}

// Label returns the column heading used in tables
func (f Field) Label() string {
	switch f {
	case FieldRefNumber:
		return "Ref Number"
	case FieldTitle:
		return "Title"
	case FieldPurpose:
		return "Purpose"
	case FieldStartDate:
		return "Start Date"
	case FieldEndDate:
		return "End Date"
	case FieldAirfare:
		return "Airfare"
	case FieldOtherTransport:
		return "Other Transport"
	case FieldLodging:
		return "Lodging"
	case FieldMeals:
		return "Meals"
	case FieldOtherExpenses:
		return "Other Expenses"
	case FieldTotal:
		return "Total"
	}
	return string(f)
}
