// Package tabular splits pasted or uploaded tabular text into ordered rows
// of string cells. The delimiter (comma or tab) is auto-detected; header rows
// are skipped only when the caller says so.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/andremfs/bookline/internal/encoding"
)

type Options struct {
	// SkipHeader drops the first row. There is no header auto-detection;
	// the caller knows whether its input carries one.
	SkipHeader bool
	// Delimiter forces a cell separator. Zero means auto-detect.
	Delimiter rune
}

// Rows decodes the input to UTF-8 and splits it into rows of cells,
// preserving input order. Rows that are entirely empty are dropped; ragged
// rows are allowed and handled downstream by column position.
func Rows(r io.Reader, opts Options) ([][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	text := string(raw)

	delim := opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("split rows: %w", err)
	}

	out := rows[:0]

	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}

		out = append(out, row)
	}

	if opts.SkipHeader && len(out) > 0 {
		out = out[1:]
	}

	return out, nil
}

// DetectDelimiter picks tab or comma by counting occurrences in the first
// non-empty line. A tie goes to comma, the more common paste format.
func DetectDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.Count(line, "\t") > strings.Count(line, ",") {
			return '\t'
		}

		return ','
	}

	return ','
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
