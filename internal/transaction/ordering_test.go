package transaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andremfs/bookline/internal/transaction"
)

func TestDisplayOrder_AllSequenced(t *testing.T) {
	txs := []*transaction.Transaction{
		{Description: "c", SequenceNumber: 3},
		{Description: "a", SequenceNumber: 1},
		{Description: "b", SequenceNumber: 2},
	}

	transaction.DisplayOrder(txs)

	assert.Equal(t, "a", txs[0].Description)
	assert.Equal(t, "b", txs[1].Description)
	assert.Equal(t, "c", txs[2].Description)
}

func TestDisplayOrder_LegacyByDateDescending(t *testing.T) {
	txs := []*transaction.Transaction{
		{Description: "old", Date: date(2023, time.January, 1)},
		{Description: "new", Date: date(2024, time.June, 1)},
		{Description: "mid", Date: date(2023, time.December, 31)},
	}

	transaction.DisplayOrder(txs)

	assert.Equal(t, "new", txs[0].Description)
	assert.Equal(t, "mid", txs[1].Description)
	assert.Equal(t, "old", txs[2].Description)
}

func TestDisplayOrder_MixedSequencedFirst(t *testing.T) {
	txs := []*transaction.Transaction{
		{Description: "legacy-new", Date: date(2024, time.June, 1)},
		{Description: "seq2", SequenceNumber: 2, Date: date(2020, time.January, 1)},
		{Description: "legacy-old", Date: date(2023, time.January, 1)},
		{Description: "seq1", SequenceNumber: 1, Date: date(2025, time.January, 1)},
	}

	transaction.DisplayOrder(txs)

	// Sequenced records come first regardless of date.
	assert.Equal(t, "seq1", txs[0].Description)
	assert.Equal(t, "seq2", txs[1].Description)
	assert.Equal(t, "legacy-new", txs[2].Description)
	assert.Equal(t, "legacy-old", txs[3].Description)
}
