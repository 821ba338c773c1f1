package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/andremfs/bookline/internal/project"
	"github.com/andremfs/bookline/internal/reconcile"
	"github.com/andremfs/bookline/internal/transaction"
)

func candidate(desc string, expense, income int64) transaction.Candidate {
	return transaction.Candidate{
		Date:        date(2024, time.January, 15),
		Description: desc,
		Expense:     expense,
		Income:      income,
		Status:      transaction.StatusCompleted,
	}
}

func record(row int, c transaction.Candidate) transaction.ValidatedRecord {
	return transaction.ValidatedRecord{Candidate: c, RowIndex: row}
}

func stored(c transaction.Candidate, seq int64) *transaction.Transaction {
	return &transaction.Transaction{
		ID:             uuid.New(),
		Date:           c.Date,
		Description:    c.Description,
		Description2:   c.Description2,
		Expense:        c.Expense,
		Income:         c.Income,
		Status:         c.Status,
		ProjectCode:    c.ProjectCode,
		Category:       c.Category,
		SequenceNumber: seq,
	}
}

func newImportMocks(t *testing.T) (*transaction.MockRepository, *transaction.MockImportTx, *transaction.Service) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	projects := transaction.NewMockProjectDirectory(ctrl)
	svc := transaction.NewService(repo, projects)

	return repo, itx, svc
}

func TestService_Import_InsertsAssignDenseSequence(t *testing.T) {
	repo, itx, svc := newImportMocks(t)

	records := []transaction.ValidatedRecord{
		record(0, candidate("Office supplies", 15000, 0)),
		record(1, candidate("Invoice 42", 0, 90000)),
	}

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().MaxSequenceNumber(gomock.Any()).Return(int64(7), nil)
	itx.EXPECT().FindByNaturalKey(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	var seqs []int64

	itx.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			seqs = append(seqs, tx.SequenceNumber)
			return nil
		}).Times(2)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Import(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	// max+1, then the next one; never a number already in the collection.
	assert.Equal(t, []int64{8, 9}, seqs)
}

func TestService_Import_SecondIdenticalRowIsDuplicate(t *testing.T) {
	repo, itx, svc := newImportMocks(t)

	c := candidate("Office supplies", 15000, 0)
	records := []transaction.ValidatedRecord{record(0, c), record(1, c)}

	var inserted *transaction.Transaction

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().MaxSequenceNumber(gomock.Any()).Return(int64(0), nil)
	// Within one batch the second lookup sees the first row's insert.
	itx.EXPECT().FindByNaturalKey(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, transaction.NaturalKey) (*transaction.Transaction, error) {
			return inserted, nil
		}).Times(2)
	itx.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			inserted = tx
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Import(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, reconcile.OutcomeInserted, summary.Rows[0].Outcome)
	assert.Equal(t, reconcile.OutcomeDuplicate, summary.Rows[1].Outcome)
}

func TestService_Import_Idempotent(t *testing.T) {
	// Re-running an import against its own prior output writes nothing.
	repo, itx, svc := newImportMocks(t)

	c1 := candidate("Office supplies", 15000, 0)
	c2 := candidate("Invoice 42", 0, 90000)

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().MaxSequenceNumber(gomock.Any()).Return(int64(2), nil)
	itx.EXPECT().FindByNaturalKey(gomock.Any(), transaction.DefaultNaturalKey(c1)).Return(stored(c1, 1), nil)
	itx.EXPECT().FindByNaturalKey(gomock.Any(), transaction.DefaultNaturalKey(c2)).Return(stored(c2, 2), nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Import(context.Background(), []transaction.ValidatedRecord{
		record(0, c1), record(1, c2),
	})
	require.NoError(t, err)
	assert.Zero(t, summary.Inserted)
	assert.Zero(t, summary.Updated)
	assert.Equal(t, 2, summary.Duplicates)
}

func TestService_Import_UpdateTouchesOnlyChangedFields(t *testing.T) {
	repo, itx, svc := newImportMocks(t)

	existing := stored(candidate("Office supplies", 15000, 0), 1)
	existing.Status = transaction.StatusDraft

	category := "stationery"
	incoming := candidate("Office supplies", 15000, 0)
	incoming.Category = &category

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().MaxSequenceNumber(gomock.Any()).Return(int64(1), nil)
	itx.EXPECT().FindByNaturalKey(gomock.Any(), gomock.Any()).Return(existing, nil)
	itx.EXPECT().Update(gomock.Any(), existing.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, patch transaction.Patch) error {
			// Only status and category changed; everything else absent.
			require.NotNil(t, patch.Status)
			assert.Equal(t, transaction.StatusCompleted, *patch.Status)
			require.NotNil(t, patch.Category)
			assert.Equal(t, "stationery", *patch.Category)
			assert.Nil(t, patch.Date)
			assert.Nil(t, patch.Description)
			assert.Nil(t, patch.Description2)
			assert.Nil(t, patch.Expense)
			assert.Nil(t, patch.Income)
			assert.Nil(t, patch.ProjectCode)
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Import(context.Background(), []transaction.ValidatedRecord{record(0, incoming)})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
}

func TestService_Import_ReadFailureAbortsBatch(t *testing.T) {
	repo, itx, svc := newImportMocks(t)

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().MaxSequenceNumber(gomock.Any()).Return(int64(0), nil)
	itx.EXPECT().FindByNaturalKey(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))
	itx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Import(context.Background(), []transaction.ValidatedRecord{
		record(0, candidate("First", 100, 0)),
		record(1, candidate("Never reached", 200, 0)),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, transaction.ErrBatchAborted)
	assert.Nil(t, summary)
}

func TestService_Import_WriteFailureContinuesBatch(t *testing.T) {
	repo, itx, svc := newImportMocks(t)

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().MaxSequenceNumber(gomock.Any()).Return(int64(0), nil)
	itx.EXPECT().FindByNaturalKey(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	first := itx.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	itx.EXPECT().Insert(gomock.Any(), gomock.Any()).After(first).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			// The failed row's sequence number is not consumed.
			assert.Equal(t, int64(1), tx.SequenceNumber)
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Import(context.Background(), []transaction.ValidatedRecord{
		record(0, candidate("Fails", 100, 0)),
		record(1, candidate("Succeeds", 200, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, reconcile.OutcomeFailed, summary.Rows[0].Outcome)
	assert.NotEmpty(t, summary.Rows[0].Errors)
}

func TestService_Import_InvalidRowsPreservedInOrder(t *testing.T) {
	repo, itx, svc := newImportMocks(t)

	bad := transaction.Candidate{Status: transaction.StatusPending}
	records := []transaction.ValidatedRecord{
		record(0, candidate("Good", 100, 0)),
		{Candidate: bad, RowIndex: 1, Errors: transaction.Validate(bad)},
		record(2, candidate("Also good", 200, 0)),
	}

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().MaxSequenceNumber(gomock.Any()).Return(int64(0), nil)
	itx.EXPECT().FindByNaturalKey(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	itx.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	summary, err := svc.Import(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Invalid)
	require.Len(t, summary.Rows, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{summary.Rows[0].Row, summary.Rows[1].Row, summary.Rows[2].Row})
	assert.Equal(t, reconcile.OutcomeInvalid, summary.Rows[1].Outcome)
}

func TestService_Import_Empty(t *testing.T) {
	_, _, svc := newImportMocks(t)

	summary, err := svc.Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Rows)
}

func TestService_Reorder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	t.Run("FullPermutation", func(t *testing.T) {
		repo, _, svc := newImportMocks(t)

		repo.EXPECT().ListIDs(gomock.Any()).Return(ids, nil)
		repo.EXPECT().ReorderAll(gomock.Any(), []uuid.UUID{ids[2], ids[0], ids[1]}).Return(nil)

		err := svc.Reorder(context.Background(), []uuid.UUID{ids[2], ids[0], ids[1]})
		assert.NoError(t, err)
	})

	t.Run("RejectsSubset", func(t *testing.T) {
		repo, _, svc := newImportMocks(t)

		repo.EXPECT().ListIDs(gomock.Any()).Return(ids, nil)

		err := svc.Reorder(context.Background(), []uuid.UUID{ids[0], ids[1]})
		assert.ErrorIs(t, err, transaction.ErrPartialReorder)
	})

	t.Run("RejectsUnknownID", func(t *testing.T) {
		repo, _, svc := newImportMocks(t)

		repo.EXPECT().ListIDs(gomock.Any()).Return(ids, nil)

		err := svc.Reorder(context.Background(), []uuid.UUID{ids[0], ids[1], uuid.New()})
		assert.ErrorIs(t, err, transaction.ErrPartialReorder)
	})

	t.Run("RejectsDuplicateID", func(t *testing.T) {
		_, _, svc := newImportMocks(t)

		err := svc.Reorder(context.Background(), []uuid.UUID{ids[0], ids[0], ids[1]})
		assert.ErrorIs(t, err, transaction.ErrPartialReorder)
	})
}

func TestService_Ledger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	projects := transaction.NewMockProjectDirectory(ctrl)
	svc := transaction.NewService(repo, projects)

	code := "PROJ1"
	caseVariant := "proj1"

	txs := []*transaction.Transaction{
		{Description: "second", SequenceNumber: 2, Income: 500, ProjectCode: &caseVariant},
		{Description: "first", SequenceNumber: 1, Expense: 200, ProjectCode: &code},
	}

	repo.EXPECT().ListTransactions(gomock.Any()).Return(txs, nil)
	projects.EXPECT().List(gomock.Any()).Return([]project.Account{
		{Code: "PROJ1", Name: "Office Refit"},
	}, nil)

	lines, err := svc.Ledger(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "first", lines[0].Transaction.Description)
	assert.Equal(t, int64(800), lines[0].Balance)
	assert.Equal(t, int64(1300), lines[1].Balance)

	// Exact match links; the case variant stays unlinked.
	require.NotNil(t, lines[0].Transaction.Project)
	assert.Equal(t, "Office Refit", lines[0].Transaction.Project.Name)
	assert.Nil(t, lines[1].Transaction.Project)
}
