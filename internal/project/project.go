package project

import (
	"time"

	"github.com/google/uuid"
)

// Account is a project/ledger account transactions may link to. It is
// read-only reference data from the transaction pipeline's point of view.
type Account struct {
	ID          uuid.UUID
	Code        string
	Name        string
	BODCategory string
	CreatedAt   time.Time
}

// Candidate is a parsed-but-not-yet-validated account row from a chart import.
type Candidate struct {
	Code        string
	Name        string
	BODCategory *string
}

// ValidatedRecord is a Candidate plus its validation verdict, keyed to the
// original input row.
type ValidatedRecord struct {
	Candidate Candidate
	RowIndex  int
	Errors    []string
}

func (r ValidatedRecord) Valid() bool {
	return len(r.Errors) == 0
}

// Validate applies the per-field rules for chart rows. All rules are checked;
// a record can carry multiple errors.
func Validate(c Candidate) []string {
	var errs []string

	if c.Code == "" {
		errs = append(errs, "account code is required")
	}

	if c.Name == "" {
		errs = append(errs, "account name is required")
	}

	return errs
}

// Patch carries the fields of a partial account update. Nil fields are left
// untouched on the existing record.
type Patch struct {
	Name        *string
	BODCategory *string
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.BODCategory == nil
}
