package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/reconcile"
)

var (
	ErrNotFound = errors.New("account not found")
	// ErrBatchAborted marks failures that invalidate a whole chart import,
	// such as not being able to read the existing accounts.
	ErrBatchAborted = errors.New("chart import aborted")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=project
type Repository interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	FindByCode(ctx context.Context, code string) (*Account, error)
	CreateAccount(ctx context.Context, acc *Account) error
	UpdateAccount(ctx context.Context, id uuid.UUID, patch Patch) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) Create(ctx context.Context, c Candidate) (*Account, error) {
	if errs := Validate(c); len(errs) > 0 {
		return nil, fmt.Errorf("invalid account: %s", errs[0])
	}

	acc := &Account{Code: c.Code, Name: c.Name}
	if c.BODCategory != nil {
		acc.BODCategory = *c.BODCategory
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

// ImportChart reconciles a batch of chart rows against the stored accounts.
// The account code is the natural key: a missing code inserts, a code whose
// fields changed updates just those fields, and an identical row is reported
// as a duplicate and skipped. A failed existence read aborts the whole batch;
// a failed write is reported on its row and the batch continues.
func (s *Service) ImportChart(ctx context.Context, records []ValidatedRecord) (*reconcile.Summary, error) {
	summary := &reconcile.Summary{}

	for _, rec := range records {
		result := reconcile.RowResult{Row: rec.RowIndex}

		if !rec.Valid() {
			result.Outcome = reconcile.OutcomeInvalid
			result.Errors = rec.Errors
			summary.Add(result)

			continue
		}

		existing, err := s.repo.FindByCode(ctx, rec.Candidate.Code)
		if err != nil {
			return nil, fmt.Errorf("%w: finding account %q: %v", ErrBatchAborted, rec.Candidate.Code, err)
		}

		switch {
		case existing == nil:
			acc := &Account{Code: rec.Candidate.Code, Name: rec.Candidate.Name}
			if rec.Candidate.BODCategory != nil {
				acc.BODCategory = *rec.Candidate.BODCategory
			}

			if err := s.repo.CreateAccount(ctx, acc); err != nil {
				result.Outcome = reconcile.OutcomeFailed
				result.Errors = []string{err.Error()}
			} else {
				result.Outcome = reconcile.OutcomeInserted
			}
		default:
			patch := diff(existing, rec.Candidate)
			if patch.Empty() {
				result.Outcome = reconcile.OutcomeDuplicate
			} else if err := s.repo.UpdateAccount(ctx, existing.ID, patch); err != nil {
				result.Outcome = reconcile.OutcomeFailed
				result.Errors = []string{err.Error()}
			} else {
				result.Outcome = reconcile.OutcomeUpdated
			}
		}

		summary.Add(result)
	}

	return summary, nil
}

// diff builds the partial update between an existing account and an incoming
// candidate. Absent candidate fields never overwrite stored values.
func diff(existing *Account, c Candidate) Patch {
	var p Patch

	if c.Name != "" && c.Name != existing.Name {
		p.Name = &c.Name
	}

	if c.BODCategory != nil && *c.BODCategory != existing.BODCategory {
		p.BODCategory = c.BODCategory
	}

	return p
}
