package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/project"
	"github.com/andremfs/bookline/internal/reconcile"
)

var (
	// ErrBatchAborted marks failures that invalidate a whole import batch,
	// such as not being able to read the existing records. The caller
	// retries the batch in full; re-resolution is idempotent.
	ErrBatchAborted = errors.New("import batch aborted")
	// ErrPartialReorder rejects reorder requests that do not cover every
	// stored transaction. Reordering a filtered subset would let its new
	// sequence numbers collide with records outside the subset.
	ErrPartialReorder = errors.New("reorder must include every transaction exactly once")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	ListTransactions(ctx context.Context) ([]*Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, patch Patch) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	ReorderAll(ctx context.Context, ids []uuid.UUID) error

	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx scopes one import batch. The store serializes concurrent imports
// behind it so the max-sequence read and the writes that depend on it act as
// a single writer.
type ImportTx interface {
	MaxSequenceNumber(ctx context.Context) (int64, error)
	FindByNaturalKey(ctx context.Context, key NaturalKey) (*Transaction, error)
	Insert(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, id uuid.UUID, patch Patch) error
	Commit() error
	Rollback() error
}

// ProjectDirectory is the read-only view of the project account set used for
// linking.
type ProjectDirectory interface {
	List(ctx context.Context) ([]project.Account, error)
}

type Service struct {
	repo     Repository
	projects ProjectDirectory
	matcher  project.Matcher
	key      NaturalKeyFunc
}

type Option func(*Service)

// WithNaturalKey overrides the reconciliation key derivation.
func WithNaturalKey(fn NaturalKeyFunc) Option {
	return func(s *Service) { s.key = fn }
}

// WithMatcher overrides the project linking strategy.
func WithMatcher(m project.Matcher) Option {
	return func(s *Service) { s.matcher = m }
}

func NewService(repo Repository, projects ProjectDirectory, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		projects: projects,
		matcher:  project.ExactMatcher{},
		key:      DefaultNaturalKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Import reconciles a batch of validated rows against the stored collection.
// Each valid candidate is classified INSERT, UPDATE or DUPLICATE by its
// natural key; inserts are assigned the next sequence number. Results are
// reported per row in original input order. A failed read aborts the batch
// with ErrBatchAborted; a failed write is reported on its row and the batch
// continues.
func (s *Service) Import(ctx context.Context, records []ValidatedRecord) (*reconcile.Summary, error) {
	summary := &reconcile.Summary{}
	if len(records) == 0 {
		return summary, nil
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	seq, err := itx.MaxSequenceNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading max sequence number: %v", ErrBatchAborted, err)
	}

	for _, rec := range records {
		result := reconcile.RowResult{Row: rec.RowIndex, Notes: rec.Notes}

		if !rec.Valid() {
			result.Outcome = reconcile.OutcomeInvalid
			result.Errors = rec.Errors
			summary.Add(result)

			continue
		}

		existing, err := itx.FindByNaturalKey(ctx, s.key(rec.Candidate))
		if err != nil {
			return nil, fmt.Errorf("%w: finding existing record for row %d: %v", ErrBatchAborted, rec.RowIndex, err)
		}

		switch {
		case existing == nil:
			tx := rec.Candidate.transaction()
			tx.SequenceNumber = seq + 1

			if err := itx.Insert(ctx, tx); err != nil {
				result.Outcome = reconcile.OutcomeFailed
				result.Errors = []string{err.Error()}
			} else {
				seq++
				result.Outcome = reconcile.OutcomeInserted
			}
		default:
			patch := diffCandidate(existing, rec.Candidate)
			if patch.Empty() {
				result.Outcome = reconcile.OutcomeDuplicate
			} else if err := itx.Update(ctx, existing.ID, patch); err != nil {
				result.Outcome = reconcile.OutcomeFailed
				result.Errors = []string{err.Error()}
			} else {
				result.Outcome = reconcile.OutcomeUpdated
			}
		}

		summary.Add(result)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return summary, nil
}

// diffCandidate builds the partial update between a stored record and an
// incoming candidate. Absent optional fields never overwrite stored values.
func diffCandidate(existing *Transaction, c Candidate) Patch {
	var p Patch

	if !existing.Date.Equal(c.Date) {
		p.Date = &c.Date
	}

	if existing.Description != c.Description {
		p.Description = &c.Description
	}

	if existing.Expense != c.Expense {
		p.Expense = &c.Expense
	}

	if existing.Income != c.Income {
		p.Income = &c.Income
	}

	if existing.Status != c.Status {
		p.Status = &c.Status
	}

	if c.Description2 != nil && !strPtrEqual(existing.Description2, c.Description2) {
		p.Description2 = c.Description2
	}

	if c.ProjectCode != nil && !strPtrEqual(existing.ProjectCode, c.ProjectCode) {
		p.ProjectCode = c.ProjectCode
	}

	if c.Category != nil && !strPtrEqual(existing.Category, c.Category) {
		p.Category = c.Category
	}

	return p
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

// Reorder rewrites the display order of the entire collection. The ids must
// be a permutation of every stored transaction; each gets sequence number
// index+1. Partial reorders are rejected rather than risking sequence
// collisions with records outside the subset.
func (s *Service) Reorder(ctx context.Context, ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrPartialReorder, id)
		}

		seen[id] = struct{}{}
	}

	stored, err := s.repo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing ids: %w", err)
	}

	if len(stored) != len(ids) {
		return fmt.Errorf("%w: got %d ids, collection has %d", ErrPartialReorder, len(ids), len(stored))
	}

	for _, id := range stored {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: missing id %s", ErrPartialReorder, id)
		}
	}

	return s.repo.ReorderAll(ctx, ids)
}

// Ledger returns the collection in display order with running balances
// computed from the starting balance, each entry linked to its project
// account. Balances are derived on every read, never stored.
func (s *Service) Ledger(ctx context.Context, startingBalance int64) ([]LedgerLine, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	DisplayOrder(txs)

	if err := s.linkProjects(ctx, txs); err != nil {
		return nil, err
	}

	return RunningBalance(txs, startingBalance), nil
}

func (s *Service) linkProjects(ctx context.Context, txs []*Transaction) error {
	accounts, err := s.projects.List(ctx)
	if err != nil {
		return fmt.Errorf("listing project accounts: %w", err)
	}

	for _, tx := range txs {
		if tx.ProjectCode == nil {
			continue
		}

		tx.Project = s.matcher.Match(*tx.ProjectCode, accounts)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) error {
	return s.repo.UpdateTransaction(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}
