package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPatchApply(t *testing.T) {
	t.Run("only set fields change", func(t *testing.T) {
		r := sampleRecord()
		title := "New Title"
		meals := decimal.RequireFromString("75.25")

		got := Patch{Title: &title, Meals: &meals}.Apply(r)

		if got.Title != "New Title" {
			t.Errorf("expected title to change, got %s", got.Title)
		}
		if !got.Meals.Equal(meals) {
			t.Errorf("expected meals 75.25, got %s", got.Meals)
		}
		if got.RefNumber != r.RefNumber || !got.Total.Equal(r.Total) {
			t.Error("expected untouched fields to be preserved")
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		r := sampleRecord()
		title := "Changed"
		_ = Patch{Title: &title}.Apply(r)
		if r.Title != "Test Title" {
			t.Errorf("input record was mutated: %s", r.Title)
		}
	})

	t.Run("full patch reproduces the record", func(t *testing.T) {
		r := sampleRecord()
		got := FullPatch(r).Apply(Record{})
		if !got.Equal(r) {
			t.Errorf("expected %v, got %v", r, got)
		}
	})
}

func TestPatchValues(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		p := Patch{}
		if !p.IsEmpty() {
			t.Error("expected empty patch")
		}
		if len(p.Values()) != 0 {
			t.Errorf("expected no values, got %d", len(p.Values()))
		}
	})

	t.Run("full patch has every field", func(t *testing.T) {
		values := FullPatch(sampleRecord()).Values()
		for _, f := range Fields {
			if _, ok := values[f]; !ok {
				t.Errorf("expected value for %s", f)
			}
		}
	})

	t.Run("partial patch", func(t *testing.T) {
		ref := "X-1"
		values := Patch{RefNumber: &ref}.Values()
		if len(values) != 1 || values[FieldRefNumber] != "X-1" {
			t.Errorf("unexpected values: %v", values)
		}
	})
}
