package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"travelrec/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// writeTable renders records as an aligned table with a heading line
func writeTable(w io.Writer, st style, title string, records []domain.Record) error {
	fmt.Fprintln(w, st.heading(title))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, len(domain.Fields))
	rules := make([]string, len(domain.Fields))
	for i, f := range domain.Fields {
		labels[i] = f.Label()
		rules[i] = strings.Repeat("-", len(labels[i]))
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t")+"\t")
	fmt.Fprintln(tw, strings.Join(rules, "\t")+"\t")

	for _, r := range records {
		cells := make([]string, len(domain.Fields))
		for i, f := range domain.Fields {
			cells[i] = formatCell(r.Value(f))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

func formatCell(v any) string {
	switch v := v.(type) {
	case decimal.Decimal:
		return formatMoney(v)
	case string:
		return truncate(v, 40)
	case time.Time:
		return domain.FormatDate(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatMoney renders an amount as $1,234.56
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0)
	if cents.Equal(decimal.NewFromInt(100)) {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = decimal.Zero
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(whole.IntPart()), cents.IntPart())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
