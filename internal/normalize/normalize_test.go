package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andremfs/bookline/internal/normalize"
)

func fixedNormalizer() *normalize.Normalizer {
	n := normalize.New()
	n.Now = func() time.Time {
		return time.Date(2025, 6, 1, 13, 45, 0, 0, time.Local)
	}

	return n
}

func TestNormalizer_Date(t *testing.T) {
	type testCase struct {
		name          string
		input         string
		want          string
		wantDefaulted bool
	}

	tests := []testCase{
		{name: "ISO", input: "2024-01-05", want: "2024-01-05"},
		{name: "ISOSingleDigit", input: "2024-1-5", want: "2024-01-05"},
		{name: "SlashYearFirst", input: "2024/01/05", want: "2024-01-05"},
		{name: "DayMonthYear", input: "05/01/2024", want: "2024-01-05"},
		{name: "DayMonthYearSingleDigit", input: "5/1/2024", want: "2024-01-05"},
		{name: "MonthDayYearFallback", input: "01/13/2024", want: "2024-01-13"},
		{name: "Textual", input: "5 Feb 2025", want: "2025-02-05"},
		{name: "TextualUppercase", input: "5 FEB 2025", want: "2025-02-05"},
		{name: "Garbage", input: "not a date", want: "2025-06-01", wantDefaulted: true},
		{name: "Empty", input: "", want: "2025-06-01", wantDefaulted: true},
		{name: "ImpossibleDate", input: "2024-02-30", want: "2025-06-01", wantDefaulted: true},
		{name: "MonthThirteenBothPositions", input: "13/13/2024", want: "2025-06-01", wantDefaulted: true},
	}

	n := fixedNormalizer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Date(tt.input)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.wantDefaulted, got.Defaulted)
		})
	}
}

func TestNormalizer_Date_EquivalentFormsAgree(t *testing.T) {
	// One calendar date in every supported format normalizes identically.
	n := fixedNormalizer()

	forms := []string{"2024-01-05", "2024/01/05", "05/01/2024", "5 Jan 2024"}
	for _, f := range forms {
		got := n.Date(f)
		assert.Equal(t, "2024-01-05", got.String(), "input %q", f)
		assert.False(t, got.Defaulted, "input %q", f)
	}
}

func TestNormalizer_Date_NeverFails(t *testing.T) {
	n := fixedNormalizer()

	for _, s := range []string{"", "??", "31/31/31", "yesterday", "2024-00-00"} {
		got := n.Date(s)
		// Always a syntactically valid yyyy-mm-dd.
		_, err := time.Parse(time.DateOnly, got.String())
		assert.NoError(t, err, "input %q", s)
	}
}

func TestNormalizer_Amount(t *testing.T) {
	type testCase struct {
		name          string
		input         string
		wantCents     int64
		wantDefaulted bool
	}

	tests := []testCase{
		{name: "Plain", input: "150.00", wantCents: 15000},
		{name: "CurrencySymbol", input: "$1,234.56", wantCents: 123456},
		{name: "EuroSign", input: "€99.9", wantCents: 9990},
		{name: "Negative", input: "-42.10", wantCents: -4210},
		{name: "Integer", input: "7", wantCents: 700},
		{name: "Empty", input: "", wantCents: 0},
		{name: "WhitespaceOnly", input: "   ", wantCents: 0},
		{name: "Garbage", input: "abc", wantCents: 0, wantDefaulted: true},
		{name: "DoubleDot", input: "1.2.3", wantCents: 0, wantDefaulted: true},
	}

	n := fixedNormalizer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Amount(tt.input)
			assert.Equal(t, tt.wantCents, got.Cents)
			assert.Equal(t, tt.wantDefaulted, got.Defaulted)
		})
	}
}

func TestNormalizer_Amount_Idempotent(t *testing.T) {
	// Normalizing the canonical rendering of any amount returns the same value.
	n := fixedNormalizer()

	for _, cents := range []int64{0, 1, 99, 100, 15000, -4210, 123456789} {
		canonical := normalize.FormatCents(cents)
		got := n.Amount(canonical)
		assert.Equal(t, cents, got.Cents, "canonical %q", canonical)
		assert.False(t, got.Defaulted)
	}
}

func TestOptional(t *testing.T) {
	assert.Nil(t, normalize.Optional(""))
	assert.Nil(t, normalize.Optional("   "))

	got := normalize.Optional(" PROJ1 ")
	if assert.NotNil(t, got) {
		assert.Equal(t, "PROJ1", *got)
	}
}
