package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andremfs/bookline/internal/normalize"
)

var ledgerStartingBalance int64

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the ledger with running balances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svcs, err := connect("")
		if err != nil {
			return err
		}
		defer svcs.db.Close()

		lines, err := svcs.txs.Ledger(cmd.Context(), ledgerStartingBalance)
		if err != nil {
			return err
		}

		for _, line := range lines {
			tx := line.Transaction

			projectCode := ""
			if tx.ProjectCode != nil {
				projectCode = *tx.ProjectCode
			}

			fmt.Printf("%s  %-40s %10s %10s  %10s  %s\n",
				tx.Date.Format("2006-01-02"),
				tx.Description,
				normalize.FormatCents(tx.Expense),
				normalize.FormatCents(tx.Income),
				normalize.FormatCents(line.Balance),
				projectCode,
			)
		}

		return nil
	},
}

func init() {
	ledgerCmd.Flags().Int64Var(&ledgerStartingBalance, "starting-balance", 0, "Starting balance in cents")
}
