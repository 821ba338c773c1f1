package transaction

// LedgerLine pairs a transaction with the cumulative balance after it.
type LedgerLine struct {
	Transaction *Transaction
	Balance     int64
}

// RunningBalance folds an already display-ordered transaction list into
// per-step cumulative balances. It is a strict left fold over income minus
// expense and is recomputed on every read; balances are never stored, so a
// reorder or edit corrects every downstream balance automatically.
func RunningBalance(txs []*Transaction, startingBalance int64) []LedgerLine {
	lines := make([]LedgerLine, len(txs))
	total := startingBalance

	for i, tx := range txs {
		total += tx.Net()
		lines[i] = LedgerLine{Transaction: tx, Balance: total}
	}

	return lines
}
