package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/project"
)

var ErrNotFound = errors.New("transaction not found")

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus reads a status cell leniently: recognized values (any casing)
// map to their enum, anything else defaults to Pending. The second return
// reports whether the input was recognized so callers can note the default.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, true
	case StatusPending:
		return StatusPending, true
	case StatusCompleted:
		return StatusCompleted, true
	}

	return StatusPending, false
}

// Transaction is a persisted ledger entry. Optional fields are pointers: nil
// means the field was never provided, which is distinct from an empty string
// and is never written to the store.
type Transaction struct {
	ID             uuid.UUID
	Date           time.Time // date only, UTC midnight
	Description    string
	Description2   *string
	Expense        int64 // cents, non-negative
	Income         int64 // cents, non-negative
	Status         Status
	ProjectCode    *string
	Category       *string
	SequenceNumber int64 // display order; 0 = legacy record without one
	Project        *project.Account
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Net is the signed amount this entry moves the balance by.
func (t *Transaction) Net() int64 {
	return t.Income - t.Expense
}

// Candidate is the normalized, not-yet-validated shape of a transaction
// built from one imported row.
type Candidate struct {
	Date         time.Time
	Description  string
	Description2 *string
	Expense      int64
	Income       int64
	Status       Status
	ProjectCode  *string
	Category     *string
}

func (c Candidate) transaction() *Transaction {
	return &Transaction{
		Date:         c.Date,
		Description:  c.Description,
		Description2: c.Description2,
		Expense:      c.Expense,
		Income:       c.Income,
		Status:       c.Status,
		ProjectCode:  c.ProjectCode,
		Category:     c.Category,
	}
}

// NaturalKey identifies a transaction for reconciliation. No single field is
// reliable across input formats, so the key is a composite of the stable
// core fields; which fields participate is a per-entity strategy.
type NaturalKey struct {
	Date        time.Time
	Description string
	Expense     int64
	Income      int64
}

// NaturalKeyFunc derives the reconciliation key for a candidate.
type NaturalKeyFunc func(Candidate) NaturalKey

// DefaultNaturalKey keys on date, description and both amounts.
func DefaultNaturalKey(c Candidate) NaturalKey {
	return NaturalKey{
		Date:        c.Date,
		Description: c.Description,
		Expense:     c.Expense,
		Income:      c.Income,
	}
}

// Patch carries the fields of a partial update. Nil fields are left
// untouched on the stored record; an import never destructively overwrites
// fields the incoming row did not provide.
type Patch struct {
	Date         *time.Time
	Description  *string
	Description2 *string
	Expense      *int64
	Income       *int64
	Status       *Status
	ProjectCode  *string
	Category     *string
}

func (p Patch) Empty() bool {
	return p.Date == nil && p.Description == nil && p.Description2 == nil &&
		p.Expense == nil && p.Income == nil && p.Status == nil &&
		p.ProjectCode == nil && p.Category == nil
}
