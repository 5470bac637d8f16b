package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"travelrec/internal/domain"

	"github.com/shopspring/decimal"
)

// Prompter reads answers line by line. Every typed prompt retries until the
// input is valid; io.EOF is returned once input runs out.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	style style
}

// NewPrompter creates a prompter reading from in and echoing prompts to out
func NewPrompter(in io.Reader, out io.Writer, st style) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, style: st}
}

// Line prints label and returns the trimmed answer
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Text asks for free text. A blank answer keeps current.
func (p *Prompter) Text(label, current string) (string, error) {
	answer, err := p.Line(withDefault(label, current))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// Required asks for text until a non-blank answer is given
func (p *Prompter) Required(label string) (string, error) {
	for {
		answer, err := p.Line(label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		p.invalid("A value is required.")
	}
}

// Amount asks for a non-negative currency amount. A blank answer yields def.
func (p *Prompter) Amount(label string, def decimal.Decimal) (decimal.Decimal, error) {
	for {
		answer, err := p.Line(withDefault(label, def.StringFixed(2)))
		if err != nil {
			return decimal.Zero, err
		}
		if answer == "" {
			return def, nil
		}

		d, err := domain.ParseAmount(answer)
		if err != nil {
			p.invalid("Invalid input. Please enter a number.")
			continue
		}
		if d.IsNegative() {
			p.invalid("Amounts cannot be negative.")
			continue
		}
		return d, nil
	}
}

// Date asks for a YYYY-MM-DD date. A blank answer yields def, which may be
// the zero time for an unset date.
func (p *Prompter) Date(label string, def time.Time) (time.Time, error) {
	for {
		answer, err := p.Line(withDefault(label, domain.FormatDate(def)))
		if err != nil {
			return time.Time{}, err
		}
		if answer == "" {
			return def, nil
		}

		t, err := domain.ParseDate(answer)
		if err != nil {
			p.invalid("Invalid date format. Please use YYYY-MM-DD.")
			continue
		}
		return t, nil
	}
}

// Choice asks for a number between lo and hi inclusive
func (p *Prompter) Choice(label string, lo, hi int) (int, error) {
	for {
		answer, err := p.Line(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		p.invalid(fmt.Sprintf("Invalid choice. Please enter a number between %d and %d.", lo, hi))
	}
}

func (p *Prompter) invalid(msg string) {
	fmt.Fprintln(p.out, p.style.err(msg))
}

func withDefault(label, def string) string {
	if def == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, def)
}
