// Package importer turns uploaded or pasted tabular input into validated
// candidate records for the reconciliation pipeline. Parsing never drops a
// row: unparseable cells get lenient defaults recorded as notes, and rows
// that fail validation are carried through with their errors attached.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/andremfs/bookline/internal/normalize"
	"github.com/andremfs/bookline/internal/project"
	"github.com/andremfs/bookline/internal/tabular"
	"github.com/andremfs/bookline/internal/transaction"
)

type Format string

const (
	// FormatTabular is delimited text, pasted or uploaded. The delimiter
	// is auto-detected unless forced.
	FormatTabular Format = "tabular"
	// FormatCSV is an alias accepted from upload forms.
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

type Options struct {
	Format Format
	// SkipHeader drops the first row. The caller states whether the input
	// carries a header; there is no guessing.
	SkipHeader bool
	// Delimiter forces a cell separator for tabular input. Zero means
	// auto-detect.
	Delimiter rune
}

type Service struct {
	norm     *normalize.Normalizer
	profiles Profiles
}

func NewService(profiles Profiles) *Service {
	return &Service{
		norm:     normalize.New(),
		profiles: profiles,
	}
}

// ParseTransactions builds one candidate record per input row, in input
// order. Rows are normalized and validated concurrently; the output index is
// the input index so results stay correlated with the source text.
func (s *Service) ParseTransactions(ctx context.Context, r io.Reader, opts Options) ([]transaction.ValidatedRecord, error) {
	rows, err := s.rows(r, opts)
	if err != nil {
		return nil, err
	}

	records := make([]transaction.ValidatedRecord, len(rows))
	idx := s.profiles.Transactions.index()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			records[i] = s.buildTransaction(row, i, idx)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

// ParseAccounts builds chart-of-accounts candidate records, one per row in
// input order.
func (s *Service) ParseAccounts(ctx context.Context, r io.Reader, opts Options) ([]project.ValidatedRecord, error) {
	rows, err := s.rows(r, opts)
	if err != nil {
		return nil, err
	}

	records := make([]project.ValidatedRecord, len(rows))
	idx := s.profiles.Accounts.index()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			records[i] = buildAccount(row, i, idx)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *Service) rows(r io.Reader, opts Options) ([][]string, error) {
	switch opts.Format {
	case FormatXLSX:
		rows, err := xlsxRows(r)
		if err != nil {
			return nil, err
		}

		if opts.SkipHeader && len(rows) > 0 {
			rows = rows[1:]
		}

		return rows, nil
	case FormatTabular, FormatCSV, "":
		return tabular.Rows(r, tabular.Options{
			SkipHeader: opts.SkipHeader,
			Delimiter:  opts.Delimiter,
		})
	default:
		return nil, fmt.Errorf("unknown import format: %s", opts.Format)
	}
}

func (s *Service) buildTransaction(row []string, rowIndex int, idx map[string]int) transaction.ValidatedRecord {
	var notes []string

	dateRes := s.norm.Date(cell(row, idx, ColDate))
	if dateRes.Defaulted {
		notes = append(notes, fmt.Sprintf("unparseable date %q, defaulted to %s", dateRes.Raw, dateRes))
		slog.Warn("defaulted unparseable date", "row", rowIndex, "raw", dateRes.Raw)
	}

	expense := s.norm.Amount(cell(row, idx, ColExpense))
	if expense.Defaulted {
		notes = append(notes, fmt.Sprintf("unparseable expense %q, recorded as 0.00", expense.Raw))
		slog.Warn("defaulted unparseable amount", "row", rowIndex, "column", ColExpense, "raw", expense.Raw)
	}

	income := s.norm.Amount(cell(row, idx, ColIncome))
	if income.Defaulted {
		notes = append(notes, fmt.Sprintf("unparseable income %q, recorded as 0.00", income.Raw))
		slog.Warn("defaulted unparseable amount", "row", rowIndex, "column", ColIncome, "raw", income.Raw)
	}

	rawStatus := cell(row, idx, ColStatus)

	status, known := transaction.ParseStatus(rawStatus)
	if !known && strings.TrimSpace(rawStatus) != "" {
		notes = append(notes, fmt.Sprintf("unrecognized status %q, recorded as %s", rawStatus, status))
		slog.Warn("defaulted unrecognized status", "row", rowIndex, "raw", rawStatus)
	}

	c := transaction.Candidate{
		Date:         dateRes.Value,
		Description:  strings.TrimSpace(cell(row, idx, ColDescription)),
		Description2: normalize.Optional(cell(row, idx, ColDescription2)),
		Expense:      expense.Cents,
		Income:       income.Cents,
		Status:       status,
		ProjectCode:  normalize.Optional(cell(row, idx, ColProject)),
		Category:     normalize.Optional(cell(row, idx, ColCategory)),
	}

	if c.Expense != 0 && c.Income != 0 {
		notes = append(notes, "row carries both an expense and an income amount")
	}

	return transaction.ValidatedRecord{
		Candidate: c,
		RowIndex:  rowIndex,
		Errors:    transaction.Validate(c),
		Notes:     notes,
	}
}

func buildAccount(row []string, rowIndex int, idx map[string]int) project.ValidatedRecord {
	c := project.Candidate{
		Code:        strings.TrimSpace(cell(row, idx, ColCode)),
		Name:        strings.TrimSpace(cell(row, idx, ColName)),
		BODCategory: normalize.Optional(cell(row, idx, ColBODCategory)),
	}

	return project.ValidatedRecord{
		Candidate: c,
		RowIndex:  rowIndex,
		Errors:    project.Validate(c),
	}
}

// cell reads a named column from a row; columns past the row's end or not in
// the profile read empty.
func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}

	return row[i]
}
