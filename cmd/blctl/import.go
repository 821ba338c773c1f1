package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andremfs/bookline/internal/importer"
	"github.com/andremfs/bookline/internal/reconcile"
)

var (
	importSkipHeader bool
	importFormat     string
	importDelimiter  string
	importProfiles   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tabular data",
}

var importTransactionsCmd = &cobra.Command{
	Use:   "transactions FILE",
	Short: "Import transactions from a delimited text or xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), args[0], func(ctx context.Context, svcs *services, f *os.File, opts importer.Options) (*reconcile.Summary, error) {
			records, err := svcs.imports.ParseTransactions(ctx, f, opts)
			if err != nil {
				return nil, err
			}

			return svcs.txs.Import(ctx, records)
		})
	},
}

var importAccountsCmd = &cobra.Command{
	Use:   "accounts FILE",
	Short: "Import the chart of project accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), args[0], func(ctx context.Context, svcs *services, f *os.File, opts importer.Options) (*reconcile.Summary, error) {
			records, err := svcs.imports.ParseAccounts(ctx, f, opts)
			if err != nil {
				return nil, err
			}

			return svcs.projects.ImportChart(ctx, records)
		})
	},
}

type runFunc func(ctx context.Context, svcs *services, f *os.File, opts importer.Options) (*reconcile.Summary, error)

func runImport(ctx context.Context, path string, run runFunc) error {
	svcs, err := connect(importProfiles)
	if err != nil {
		return err
	}
	defer svcs.db.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	format := importer.Format(importFormat)
	if format == "" && strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		format = importer.FormatXLSX
	}

	opts := importer.Options{
		Format:     format,
		SkipHeader: importSkipHeader,
	}

	if importDelimiter != "" {
		opts.Delimiter = []rune(importDelimiter)[0]
	}

	summary, err := run(ctx, svcs, f, opts)
	if err != nil {
		return err
	}

	printSummary(summary)

	return nil
}

func printSummary(s *reconcile.Summary) {
	fmt.Printf("inserted %d, updated %d, duplicates %d, invalid %d, failed %d\n",
		s.Inserted, s.Updated, s.Duplicates, s.Invalid, s.Failed)

	for _, row := range s.Rows {
		if row.Outcome != reconcile.OutcomeInvalid && row.Outcome != reconcile.OutcomeFailed && len(row.Notes) == 0 {
			continue
		}

		fmt.Printf("  row %d: %s\n", row.Row+1, row.Outcome)

		for _, e := range row.Errors {
			fmt.Printf("    error: %s\n", e)
		}

		for _, n := range row.Notes {
			fmt.Printf("    note: %s\n", n)
		}
	}
}

func init() {
	importCmd.PersistentFlags().BoolVar(&importSkipHeader, "skip-header", false, "Drop the first row of the input")
	importCmd.PersistentFlags().StringVar(&importFormat, "format", "", "Input format: tabular or xlsx (default: by file extension)")
	importCmd.PersistentFlags().StringVar(&importDelimiter, "delimiter", "", "Force a cell delimiter (default: auto-detect)")
	importCmd.PersistentFlags().StringVar(&importProfiles, "profiles", "", "Path to a column profile override file")

	importCmd.AddCommand(importTransactionsCmd, importAccountsCmd)
}
