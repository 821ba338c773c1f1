package transaction

import "sort"

// DisplayOrder sorts transactions in place into their display order:
// records carrying a sequence number come first, ascending by it; legacy
// records without one follow, newest date first. The sort is stable so
// records that tie keep their stored order.
func DisplayOrder(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]

		switch {
		case a.SequenceNumber > 0 && b.SequenceNumber > 0:
			return a.SequenceNumber < b.SequenceNumber
		case a.SequenceNumber > 0:
			return true
		case b.SequenceNumber > 0:
			return false
		default:
			return a.Date.After(b.Date)
		}
	})
}
