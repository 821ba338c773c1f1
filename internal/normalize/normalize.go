// Package normalize converts raw cell text from pasted or uploaded tabular
// data into canonical typed values. Parsing is deliberately lenient: a value
// that cannot be parsed is replaced with a default and the substitution is
// recorded on the result so callers can surface it instead of losing rows.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in priority order. The d/m layouts come before m/d so
// an ambiguous "05/01/2024" reads as the 5th of January; m/d only matches
// when the day position cannot be a month.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2/1/2006",
	"1/2/2006",
	"2 Jan 2006",
}

// Normalizer maps raw cell strings to typed values. Now is the clock used
// when a date fails to parse; it is a field so tests can pin it.
type Normalizer struct {
	Now func() time.Time
}

func New() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// DateResult carries a parsed calendar date or, when Defaulted is set, the
// current-date substitute for an unparseable input together with the raw text
// that failed.
type DateResult struct {
	Value     time.Time
	Raw       string
	Defaulted bool
}

// String renders the canonical yyyy-mm-dd form.
func (r DateResult) String() string {
	return r.Value.Format(time.DateOnly)
}

// Date parses a calendar date from any of the supported layouts. Inputs that
// match no layout, or that name an impossible calendar date, default to the
// current system date with Defaulted set; they never fail.
func (n *Normalizer) Date(s string) DateResult {
	raw := strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, canonicalMonthCase(raw, layout))
		if err != nil {
			continue
		}

		return DateResult{Value: dateOnly(t), Raw: raw}
	}

	return DateResult{Value: dateOnly(n.Now()), Raw: raw, Defaulted: true}
}

// canonicalMonthCase fixes the month token casing for the textual layout so
// "5 FEB 2025" and "5 feb 2025" both hit the fixed month table.
func canonicalMonthCase(s, layout string) string {
	if !strings.Contains(layout, "Jan") {
		return s
	}

	fields := strings.Fields(s)
	if len(fields) != 3 || len(fields[1]) != 3 {
		return s
	}

	fields[1] = strings.ToUpper(fields[1][:1]) + strings.ToLower(fields[1][1:])

	return strings.Join(fields, " ")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AmountResult carries an amount in cents. Defaulted marks a non-empty input
// that could not be parsed and was replaced with zero.
type AmountResult struct {
	Cents     int64
	Raw       string
	Defaulted bool
}

// Amount parses a currency amount into cents. Currency symbols, thousands
// separators and whitespace are stripped; only digits, a minus sign and the
// decimal point survive. Empty input is zero; unparsable input is zero with
// Defaulted set.
func (n *Normalizer) Amount(s string) AmountResult {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}

	clean := b.String()
	if clean == "" {
		return AmountResult{Raw: s, Defaulted: strings.TrimSpace(s) != ""}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return AmountResult{Raw: s, Defaulted: true}
	}

	return AmountResult{
		Cents: d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Raw:   s,
	}
}

// Optional maps empty cell text to absent. Absent fields stay nil all the way
// to the store so a user-entered empty string is never persisted as a value.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

// FormatCents renders cents as a canonical decimal string ("150.00").
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
