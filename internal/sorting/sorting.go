// Package sorting orders record collections by one or more fields.
package sorting

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"travelrec/internal/domain"

	"github.com/shopspring/decimal"
)

// Direction is the order applied to one sort key
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the short form used by ParseKeys
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts asc/ascending/a and desc/descending/d
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "a":
		return Ascending, nil
	case "desc", "descending", "d":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("%w: unknown sort direction %q", domain.ErrValidation, s)
}

// Key is one (field, direction) sort criterion
type Key struct {
	Field     domain.Field
	Direction Direction
}

func (k Key) String() string {
	return string(k.Field) + ":" + k.Direction.String()
}

// ParseKeys parses a comma separated list such as "total:desc,ref_number".
// Direction defaults to ascending.
func ParseKeys(s string) ([]Key, error) {
	var keys []Key
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, dir, _ := strings.Cut(part, ":")
		field, ok := domain.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown sort field %q", domain.ErrValidation, name)
		}
		d, err := ParseDirection(dir)
		if err != nil {
			return nil, err
		}
		keys = append(keys, Key{Field: field, Direction: d})
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no sort keys given", domain.ErrValidation)
	}
	return keys, nil
}

// Sort returns a sorted copy of records. Keys are applied left to right,
// the first having the highest precedence, and records equal on every key
// keep their original relative order. records is not modified.
func Sort(records []domain.Record, keys []Key) ([]domain.Record, error) {
	for _, k := range keys {
		if !slices.Contains(domain.Fields, k.Field) {
			return nil, fmt.Errorf("%w: unknown sort field %q", domain.ErrValidation, k.Field)
		}
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.Record) int {
		for _, k := range keys {
			c := compareField(a, b, k.Field)
			if k.Direction == Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return sorted, nil
}

func compareField(a, b domain.Record, f domain.Field) int {
	switch av := a.Value(f).(type) {
	case string:
		return strings.Compare(av, b.Value(f).(string))
	case time.Time:
		return av.Compare(b.Value(f).(time.Time))
	case decimal.Decimal:
		return av.Cmp(b.Value(f).(decimal.Decimal))
	}
	return 0
}
