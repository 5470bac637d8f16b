package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"travelrec/internal/domain"

	"github.com/shopspring/decimal"
)

const csvHeader = "ref_number,title_en,purpose_en,start_date,end_date,airfare,other_transport,lodging,meals,other_expenses,total\n"

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			RefNumber:      "T-2023-P11-001",
			Title:          "Test Title",
			Purpose:        "Meeting, with \"quotes\"",
			StartDate:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			Airfare:        decimal.RequireFromString("500.00"),
			OtherTransport: decimal.RequireFromString("100.00"),
			Lodging:        decimal.RequireFromString("200.00"),
			Meals:          decimal.RequireFromString("150.00"),
			OtherExpenses:  decimal.RequireFromString("50.00"),
			Total:          decimal.RequireFromString("1000.00"),
		},
		{
			RefNumber: "T-2023-P11-002",
			Title:     "No dates",
			Meals:     decimal.RequireFromString("12.345"),
			Total:     decimal.RequireFromString("12.345"),
		},
	}
}

func TestCSVParse(t *testing.T) {
	codec := NewCSVCodec()

	t.Run("maps named columns", func(t *testing.T) {
		input := csvHeader + "A-1,Title,Purpose,2023-01-01,2023-01-05,500.0,100,200,150,50,1000.00\n"
		records, err := codec.Parse(strings.NewReader(input), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		r := records[0]
		if r.RefNumber != "A-1" || r.Title != "Title" || r.Purpose != "Purpose" {
			t.Errorf("unexpected text fields: %+v", r)
		}
		if domain.FormatDate(r.EndDate) != "2023-01-05" {
			t.Errorf("expected end date 2023-01-05, got %s", domain.FormatDate(r.EndDate))
		}
		if !r.Total.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected total 1000, got %s", r.Total)
		}
	})

	t.Run("caps rows in file order", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString(csvHeader)
		for i := 0; i < 10; i++ {
			fmt.Fprintf(&sb, "R-%02d,,,,,0,0,0,0,0,%d\n", i, i)
		}

		records, err := codec.Parse(strings.NewReader(sb.String()), 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected 4 records, got %d", len(records))
		}
		for i, r := range records {
			if want := fmt.Sprintf("R-%02d", i); r.RefNumber != want {
				t.Errorf("record %d: expected %s, got %s", i, want, r.RefNumber)
			}
		}
	})

	t.Run("columns matched by name with extras ignored", func(t *testing.T) {
		input := "total,extra,meals,lodging,other_expenses,other_transport,airfare,end_date,start_date,purpose_en,title_en,ref_number\n" +
			"42.5,ignored,,,,,,,,,,B-7\n"
		records, err := codec.Parse(strings.NewReader(input), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].RefNumber != "B-7" || !records[0].Total.Equal(decimal.RequireFromString("42.5")) {
			t.Errorf("unexpected record: %+v", records[0])
		}
		if !records[0].Airfare.IsZero() {
			t.Errorf("expected blank cost to read as zero, got %s", records[0].Airfare)
		}
	})

	t.Run("foreign header is a read failure", func(t *testing.T) {
		_, err := codec.Parse(strings.NewReader("name,amount\nfoo,12\nbar,13\n"), 100)
		if !errors.Is(err, domain.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		if !strings.Contains(err.Error(), "ref_number") {
			t.Errorf("expected missing column in error, got %v", err)
		}
	})

	t.Run("missing documented column is a read failure", func(t *testing.T) {
		input := "ref_number,title_en,purpose_en,start_date,end_date,airfare,other_transport,lodging,meals,other_expenses\n" +
			"A-1,,,,,0,0,0,0,0\n"
		_, err := codec.Parse(strings.NewReader(input), 0)
		if !errors.Is(err, domain.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		if !strings.Contains(err.Error(), "total") {
			t.Errorf("expected total named in error, got %v", err)
		}
	})

	t.Run("blank reference is a read failure", func(t *testing.T) {
		input := csvHeader + "A-1,,,,,0,0,0,0,0,0\n  ,Untitled,,,,0,0,0,0,0,0\n"
		_, err := codec.Parse(strings.NewReader(input), 0)
		if !errors.Is(err, domain.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		if !strings.Contains(err.Error(), "line 3") || !strings.Contains(err.Error(), "ref_number") {
			t.Errorf("expected line and field in error, got %v", err)
		}
	})

	t.Run("byte order mark is skipped", func(t *testing.T) {
		input := "\xEF\xBB\xBF" + csvHeader + "C-1,,,,,,,,,,7\n"
		records, err := codec.Parse(strings.NewReader(input), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].RefNumber != "C-1" {
			t.Errorf("expected ref C-1, got %q", records[0].RefNumber)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := codec.Parse(strings.NewReader(""), 0)
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("header only is empty", func(t *testing.T) {
		_, err := codec.Parse(strings.NewReader(csvHeader), 0)
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("bad amount is a read failure", func(t *testing.T) {
		input := csvHeader + "A-1,,,,,abc,0,0,0,0,0\n"
		_, err := codec.Parse(strings.NewReader(input), 0)
		if !errors.Is(err, domain.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		if !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "airfare") {
			t.Errorf("expected line and field in error, got %v", err)
		}
	})

	t.Run("bad date is a read failure", func(t *testing.T) {
		input := csvHeader + "A-1,,,01/02/2023,,0,0,0,0,0,0\n"
		_, err := codec.Parse(strings.NewReader(input), 0)
		if !errors.Is(err, domain.ErrPersistence) {
			t.Errorf("expected ErrPersistence, got %v", err)
		}
	})

	t.Run("rows past the cap are not converted", func(t *testing.T) {
		input := csvHeader + "A-1,,,,,1,0,0,0,0,1\nA-2,,,,,oops,0,0,0,0,0\n"
		records, err := codec.Parse(strings.NewReader(input), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
		}
	})
}

func TestCSVExport(t *testing.T) {
	codec := NewCSVCodec()

	t.Run("writes documented column order", func(t *testing.T) {
		var buf bytes.Buffer
		if err := codec.Export(sampleRecords(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), csvHeader) {
			t.Errorf("unexpected header line: %q", strings.SplitN(buf.String(), "\n", 2)[0])
		}
	})

	t.Run("amounts keep two decimal places", func(t *testing.T) {
		var buf bytes.Buffer
		if err := codec.Export(sampleRecords(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := strings.Split(buf.String(), "\n")
		if !strings.HasSuffix(lines[1], ",500.00,100.00,200.00,150.00,50.00,1000.00") {
			t.Errorf("expected fixed two-place amounts, got %q", lines[1])
		}
		if !strings.HasSuffix(lines[2], ",0.00,0.00,0.00,12.345,0.00,12.345") {
			t.Errorf("expected finer precision to be kept, got %q", lines[2])
		}
	})

	t.Run("round trips every field", func(t *testing.T) {
		want := sampleRecords()
		var buf bytes.Buffer
		if err := codec.Export(want, &buf); err != nil {
			t.Fatalf("export: %v", err)
		}

		got, err := codec.Parse(&buf, 0)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d records, got %d", len(want), len(got))
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Errorf("record %d: expected %+v, got %+v", i, want[i], got[i])
			}
		}
	})
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"travelq.csv", "csv"},
		{"records.JSON", "json"},
		{"records.yml", "yaml"},
		{"records.yaml", "yaml"},
		{"no-extension", "csv"},
	}

	for _, tt := range tests {
		if got := ForPath(tt.path).Format(); got != tt.format {
			t.Errorf("ForPath(%q).Format() = %s, want %s", tt.path, got, tt.format)
		}
	}
}
