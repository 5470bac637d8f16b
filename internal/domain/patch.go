package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patch is a partial field set applied to a record. Nil fields are left
// untouched.
type Patch struct {
	RefNumber      *string
	Title          *string
	Purpose        *string
	StartDate      *time.Time
	EndDate        *time.Time
	Airfare        *decimal.Decimal
	OtherTransport *decimal.Decimal
	Lodging        *decimal.Decimal
	Meals          *decimal.Decimal
	OtherExpenses  *decimal.Decimal
	Total          *decimal.Decimal
}

// FullPatch returns a patch setting every field of r
func FullPatch(r Record) Patch {
	return Patch{
		RefNumber:      &r.RefNumber,
		Title:          &r.Title,
		Purpose:        &r.Purpose,
		StartDate:      &r.StartDate,
		EndDate:        &r.EndDate,
		Airfare:        &r.Airfare,
		OtherTransport: &r.OtherTransport,
		Lodging:        &r.Lodging,
		Meals:          &r.Meals,
		OtherExpenses:  &r.OtherExpenses,
		Total:          &r.Total,
	}
}

// Apply returns a copy of r with the patch's set fields overwritten
func (p Patch) Apply(r Record) Record {
	if p.RefNumber != nil {
		r.RefNumber = *p.RefNumber
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Purpose != nil {
		r.Purpose = *p.Purpose
	}
	if p.StartDate != nil {
		r.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		r.EndDate = *p.EndDate
	}
	if p.Airfare != nil {
		r.Airfare = *p.Airfare
	}
	if p.OtherTransport != nil {
		r.OtherTransport = *p.OtherTransport
	}
	if p.Lodging != nil {
		r.Lodging = *p.Lodging
	}
	if p.Meals != nil {
		r.Meals = *p.Meals
	}
	if p.OtherExpenses != nil {
		r.OtherExpenses = *p.OtherExpenses
	}
	if p.Total != nil {
		r.Total = *p.Total
	}
	return r
}

// Values returns the set fields keyed by Field
func (p Patch) Values() map[Field]any {
	values := make(map[Field]any)
	if p.RefNumber != nil {
		values[FieldRefNumber] = *p.RefNumber
	}
	if p.Title != nil {
		values[FieldTitle] = *p.Title
	}
	if p.Purpose != nil {
		values[FieldPurpose] = *p.Purpose
	}
	if p.StartDate != nil {
		values[FieldStartDate] = *p.StartDate
	}
	if p.EndDate != nil {
		values[FieldEndDate] = *p.EndDate
	}
	if p.Airfare != nil {
		values[FieldAirfare] = *p.Airfare
	}
	if p.OtherTransport != nil {
		values[FieldOtherTransport] = *p.OtherTransport
	}
	if p.Lodging != nil {
		values[FieldLodging] = *p.Lodging
	}
	if p.Meals != nil {
		values[FieldMeals] = *p.Meals
	}
	if p.OtherExpenses != nil {
		values[FieldOtherExpenses] = *p.OtherExpenses
	}
	if p.Total != nil {
		values[FieldTotal] = *p.Total
	}
	return values
}

// IsEmpty returns true if no field is set
func (p Patch) IsEmpty() bool {
	return len(p.Values()) == 0
}
