package fifo

import (
	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

// exhaustedEpsilon absorbs residue from pro-rated fee divisions; a lot whose
// remaining quantity falls to or below it counts as fully consumed.
var exhaustedEpsilon = decimal.New(1, -8) // 1e-8

// LotQueue holds the unsold acquisition lots of a single asset in acquisition
// order. Lots are consumed from the front, oldest first, regardless of which
// tax year pushed them. One queue exists per (session, asset) and survives
// across tax-year boundaries.
type LotQueue struct {
	lots []model.Lot
}

// Push appends a lot to the back of the queue.
func (q *LotQueue) Push(lot model.Lot) {
	q.lots = append(q.lots, lot)
}

// Oldest returns a pointer to the front lot, or nil when the queue is empty.
// The matcher mutates the returned lot's RemainingQuantity in place.
func (q *LotQueue) Oldest() *model.Lot {
	if len(q.lots) == 0 {
		return nil
	}
	return &q.lots[0]
}

// PopIfExhausted removes the front lot when its remaining quantity is within
// epsilon of zero. Returns true if a lot was removed.
func (q *LotQueue) PopIfExhausted() bool {
	if len(q.lots) == 0 {
		return false
	}
	if q.lots[0].RemainingQuantity.Cmp(exhaustedEpsilon) > 0 {
		return false
	}
	q.lots = q.lots[1:]
	return true
}

// Len returns the number of lots with remaining quantity.
func (q *LotQueue) Len() int {
	return len(q.lots)
}

// TotalRemaining sums the remaining quantity across all lots.
func (q *LotQueue) TotalRemaining() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range q.lots {
		total = total.Add(lot.RemainingQuantity)
	}
	return total
}
