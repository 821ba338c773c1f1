package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/transaction"
)

// importLockKey serializes import batches behind a single advisory lock so
// the max-sequence read and the inserts that depend on it act as one writer.
const importLockKey = int64(0x626b6c696d70) // "bklimp"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, date, description, description2, expense_cents, income_cents,
	status, project_code, category, sequence_number, created_at, updated_at
`

// scanTransaction reads one row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx     transaction.Transaction
		status string
		seq    sql.NullInt64
	)

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Description, &tx.Description2,
		&tx.Expense, &tx.Income, &status, &tx.ProjectCode, &tx.Category,
		&seq, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Status = transaction.Status(status)
	// Legacy rows predate sequence numbers; they carry NULL and sort by date.
	tx.SequenceNumber = seq.Int64

	return &tx, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, id uuid.UUID, patch transaction.Patch) error {
	query, args := buildPatchUpdate(id, patch)
	if query == "" {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

// buildPatchUpdate renders a partial UPDATE touching only the present fields.
// Returns an empty query for an empty patch.
func buildPatchUpdate(id uuid.UUID, patch transaction.Patch) (string, []any) {
	var (
		sets   string
		args   []any
		argIdx = 1
	)

	add := func(col string, val any) {
		sets += fmt.Sprintf(" %s = $%d,", col, argIdx)

		args = append(args, val)
		argIdx++
	}

	if patch.Date != nil {
		add("date", *patch.Date)
	}

	if patch.Description != nil {
		add("description", *patch.Description)
	}

	if patch.Description2 != nil {
		add("description2", *patch.Description2)
	}

	if patch.Expense != nil {
		add("expense_cents", *patch.Expense)
	}

	if patch.Income != nil {
		add("income_cents", *patch.Income)
	}

	if patch.Status != nil {
		add("status", string(*patch.Status))
	}

	if patch.ProjectCode != nil {
		add("project_code", *patch.ProjectCode)
	}

	if patch.Category != nil {
		add("category", *patch.Category)
	}

	if len(args) == 0 {
		return "", nil
	}

	query := "UPDATE transactions SET" + sets +
		fmt.Sprintf(" updated_at = NOW() WHERE id = $%d", argIdx)
	args = append(args, id)

	return query, args
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (s *Store) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("listing ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ReorderAll rewrites every sequence number as one batched transaction.
// Sequence numbers are staged negative first so the unique index never sees
// a collision mid-rewrite, then flipped to their final index+1 values.
func (s *Store) ReorderAll(ctx context.Context, ids []uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reorder tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey); err != nil {
		return fmt.Errorf("acquiring reorder lock: %w", err)
	}

	var count int
	if err := dbTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return fmt.Errorf("counting transactions: %w", err)
	}

	if count != len(ids) {
		return fmt.Errorf("reorder covers %d of %d transactions", len(ids), count)
	}

	for i, id := range ids {
		res, err := dbTx.ExecContext(ctx,
			`UPDATE transactions SET sequence_number = $1 WHERE id = $2`, -(int64(i) + 1), id)
		if err != nil {
			return fmt.Errorf("staging sequence for %s: %w", id, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("staging sequence for %s: %w", id, err)
		}

		if affected == 0 {
			return fmt.Errorf("reorder id %s: %w", id, transaction.ErrNotFound)
		}
	}

	query := `
		UPDATE transactions
		SET sequence_number = -sequence_number, updated_at = NOW()
		WHERE sequence_number < 0
	`
	if _, err := dbTx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("finalizing sequences: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}

	return nil
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens the transaction scope for one import batch and takes the
// advisory lock guarding the shared max-sequence resource.
func (s *Store) BeginImport(ctx context.Context) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) MaxSequenceNumber(ctx context.Context) (int64, error) {
	var max int64

	err := itx.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence_number), 0) FROM transactions`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("reading max sequence number: %w", err)
	}

	return max, nil
}

func (itx *importTx) FindByNaturalKey(ctx context.Context, key transaction.NaturalKey) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE date = $1 AND description = $2 AND expense_cents = $3 AND income_cents = $4
		LIMIT 1`

	tx, err := scanTransaction(itx.tx.QueryRowContext(ctx, query,
		key.Date, key.Description, key.Expense, key.Income))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding by natural key: %w", err)
	}

	return tx, nil
}

func (itx *importTx) Insert(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions
			(date, description, description2, expense_cents, income_cents,
			 status, project_code, category, sequence_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	return itx.guarded(ctx, func() error {
		err := itx.tx.QueryRowContext(ctx, query,
			tx.Date, tx.Description, tx.Description2,
			tx.Expense, tx.Income, string(tx.Status),
			tx.ProjectCode, tx.Category, tx.SequenceNumber,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}

		return nil
	})
}

func (itx *importTx) Update(ctx context.Context, id uuid.UUID, patch transaction.Patch) error {
	query, args := buildPatchUpdate(id, patch)
	if query == "" {
		return nil
	}

	return itx.guarded(ctx, func() error {
		if _, err := itx.tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("updating transaction: %w", err)
		}

		return nil
	})
}

// guarded wraps one write in a savepoint. A failed statement poisons a
// Postgres transaction, but the import contract is per-record atomicity: the
// batch must survive individual write failures, so each write rolls back to
// its own savepoint on error.
func (itx *importTx) guarded(ctx context.Context, write func() error) error {
	if _, err := itx.tx.ExecContext(ctx, "SAVEPOINT row_write"); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	if err := write(); err != nil {
		if _, rbErr := itx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT row_write"); rbErr != nil {
			return fmt.Errorf("rolling back savepoint after %v: %w", err, rbErr)
		}

		return err
	}

	if _, err := itx.tx.ExecContext(ctx, "RELEASE SAVEPOINT row_write"); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}

	return nil
}
