package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out, style{}), &out
}

func TestPrompterAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		def      string
		expected string
		retries  int
	}{
		{"plain number", "12.5\n", "0", "12.5", 0},
		{"dollar sign", "$40\n", "0", "40", 0},
		{"blank takes default", "\n", "99.95", "99.95", 0},
		{"retries until valid", "abc\n-3\n7\n", "0", "7", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPrompter(tt.input)
			got, err := p.Amount("Cost", decimal.RequireFromString(tt.def))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
			retries := strings.Count(out.String(), "Invalid input") + strings.Count(out.String(), "cannot be negative")
			if retries != tt.retries {
				t.Errorf("expected %d retries, got %d:\n%s", tt.retries, retries, out.String())
			}
		})
	}
}

func TestPrompterAmountShowsDefault(t *testing.T) {
	p, out := newTestPrompter("\n")
	if _, err := p.Amount("Enter total cost", decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Enter total cost [1000.00]: ") {
		t.Errorf("unexpected prompt %q", out.String())
	}
}

func TestPrompterDate(t *testing.T) {
	def := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	p, out := newTestPrompter("01/02/2023\n2023-13-01\n2023-11-30\n")
	got, err := p.Date("Start", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %s", got)
	}
	if n := strings.Count(out.String(), "Invalid date format"); n != 2 {
		t.Errorf("expected 2 retries, got %d", n)
	}

	p, _ = newTestPrompter("\n")
	got, err = p.Date("Start", def)
	if err != nil || !got.Equal(def) {
		t.Errorf("expected default %s, got %s (%v)", def, got, err)
	}
}

func TestPrompterChoice(t *testing.T) {
	p, out := newTestPrompter("0\nnine\n9\n4\n")
	got, err := p.Choice("Enter your choice: ", 1, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if n := strings.Count(out.String(), "between 1 and 8"); n != 3 {
		t.Errorf("expected 3 retries, got %d", n)
	}
}

func TestPrompterText(t *testing.T) {
	p, _ := newTestPrompter("\n  New title  \n")

	got, err := p.Text("Title", "Old")
	if err != nil || got != "Old" {
		t.Errorf("expected blank to keep current, got %q (%v)", got, err)
	}
	got, err = p.Text("Title", "Old")
	if err != nil || got != "New title" {
		t.Errorf("expected trimmed answer, got %q (%v)", got, err)
	}
}

func TestPrompterRequired(t *testing.T) {
	p, out := newTestPrompter("\n \nREF-1\n")
	got, err := p.Required("Ref: ")
	if err != nil || got != "REF-1" {
		t.Fatalf("expected REF-1, got %q (%v)", got, err)
	}
	if n := strings.Count(out.String(), "A value is required."); n != 2 {
		t.Errorf("expected 2 retries, got %d", n)
	}
}

func TestPrompterEOF(t *testing.T) {
	p, _ := newTestPrompter("")
	if _, err := p.Amount("Cost", decimal.Zero); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}

	// A final line without newline is still an answer
	p, _ = newTestPrompter("5")
	if got, err := p.Choice("n: ", 1, 8); err != nil || got != 5 {
		t.Errorf("expected 5, got %d (%v)", got, err)
	}
}
