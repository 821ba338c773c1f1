package transaction

// ValidatedRecord is a Candidate plus its validation verdict. RowIndex is the
// 0-based position of the source row in the original input so errors can be
// correlated back to the pasted text. Notes carry non-fatal leniency
// substitutions (defaulted dates, unrecognized statuses) made upstream.
type ValidatedRecord struct {
	Candidate Candidate
	RowIndex  int
	Errors    []string
	Notes     []string
}

func (r ValidatedRecord) Valid() bool {
	return len(r.Errors) == 0
}

// Validate applies the per-field and cross-field rules. All rules are
// checked independently; a candidate can carry multiple errors. Both amounts
// being nonzero is unusual but allowed; the importer notes it instead.
func Validate(c Candidate) []string {
	var errs []string

	if c.Description == "" {
		errs = append(errs, "description is required")
	}

	if c.Expense < 0 {
		errs = append(errs, "expense amount cannot be negative")
	}

	if c.Income < 0 {
		errs = append(errs, "income amount cannot be negative")
	}

	switch c.Status {
	case StatusDraft, StatusPending, StatusCompleted:
	default:
		errs = append(errs, "unknown status")
	}

	return errs
}
