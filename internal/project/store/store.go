package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/project"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectAccountColumns = `id, code, name, bod_category, created_at`

func (s *Store) ListAccounts(ctx context.Context) ([]project.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM project_accounts ORDER BY code ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []project.Account

	for rows.Next() {
		var acc project.Account
		if err := rows.Scan(&acc.ID, &acc.Code, &acc.Name, &acc.BODCategory, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

func (s *Store) FindByCode(ctx context.Context, code string) (*project.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM project_accounts WHERE code = $1`

	var acc project.Account

	err := s.db.QueryRowContext(ctx, query, code).
		Scan(&acc.ID, &acc.Code, &acc.Name, &acc.BODCategory, &acc.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding account by code: %w", err)
	}

	return &acc, nil
}

func (s *Store) CreateAccount(ctx context.Context, acc *project.Account) error {
	query := `
		INSERT INTO project_accounts (code, name, bod_category, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, acc.Code, acc.Name, acc.BODCategory).
		Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, id uuid.UUID, patch project.Patch) error {
	query := `UPDATE project_accounts SET`

	var (
		args   []any
		argIdx = 1
	)

	if patch.Name != nil {
		query += fmt.Sprintf(" name = $%d,", argIdx)

		args = append(args, *patch.Name)
		argIdx++
	}

	if patch.BODCategory != nil {
		query += fmt.Sprintf(" bod_category = $%d,", argIdx)

		args = append(args, *patch.BODCategory)
		argIdx++
	}

	if len(args) == 0 {
		return nil
	}

	query = query[:len(query)-1] + fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, id)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM project_accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	return nil
}
