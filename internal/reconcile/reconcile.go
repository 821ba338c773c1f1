// Package reconcile holds the outcome types shared by every import pipeline:
// each incoming row is classified against the stored collection and the whole
// batch is reported back in original input order.
package reconcile

// Outcome classifies what happened to one imported row.
type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeUpdated   Outcome = "updated"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
)

// RowResult is the per-row report. Row is the 0-based index of the row in the
// original pasted/uploaded input so users can correlate errors positionally.
type RowResult struct {
	Row     int      `json:"row"`
	Outcome Outcome  `json:"outcome"`
	Errors  []string `json:"errors,omitempty"`
	Notes   []string `json:"notes,omitempty"`
}

// Summary aggregates one import batch. Rows preserves input order even when
// individual rows failed; partial success is always visible.
type Summary struct {
	Inserted   int         `json:"inserted"`
	Updated    int         `json:"updated"`
	Duplicates int         `json:"duplicates"`
	Invalid    int         `json:"invalid"`
	Failed     int         `json:"failed"`
	Rows       []RowResult `json:"rows"`
}

// Add records one row result and bumps the matching counter.
func (s *Summary) Add(r RowResult) {
	switch r.Outcome {
	case OutcomeInserted:
		s.Inserted++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeInvalid:
		s.Invalid++
	case OutcomeFailed:
		s.Failed++
	}

	s.Rows = append(s.Rows, r)
}

// InvalidRows returns just the rows that failed validation, in input order.
func (s *Summary) InvalidRows() []RowResult {
	var out []RowResult

	for _, r := range s.Rows {
		if r.Outcome == OutcomeInvalid {
			out = append(out, r)
		}
	}

	return out
}
