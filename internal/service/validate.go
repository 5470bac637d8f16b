package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"travelrec/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds a validator that understands decimal amounts and the
// record's date ordering rule
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		r := sl.Current().Interface().(domain.Record)
		if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
			sl.ReportError(r.EndDate, "EndDate", "EndDate", "notbeforestart", "")
		}
	}, domain.Record{})

	return v
}

// validateRecord checks the record's shape and flattens any failures into
// a single ErrValidation
func (s *RecordService) validateRecord(r domain.Record) error {
	if strings.TrimSpace(r.RefNumber) == "" {
		return fmt.Errorf("%w: reference number is required", domain.ErrValidation)
	}

	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fe.Field() + " must not be negative"
	case "max":
		return fmt.Sprintf("%s is longer than %s characters", fe.Field(), fe.Param())
	case "notbeforestart":
		return "end date is before start date"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
