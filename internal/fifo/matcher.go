package fifo

import (
	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

// matchDisposal drains the asset's lot queue oldest-first until the disposed
// quantity is satisfied, producing the per-lot cost/revenue/gain breakdown.
//
// Fee pro-ration is deliberately asymmetric and must stay that way: the
// acquisition fee is spread over the lot's ORIGINAL quantity (it was paid once
// for the full lot, even as the lot depletes), while the disposal fee is
// spread over the disposal's TOTAL quantity.
func matchDisposal(tx model.Transaction, queue *LotQueue) (model.Disposal, error) {
	disposal := model.Disposal{
		Date:     tx.Date,
		Asset:    tx.Asset,
		Type:     tx.Type,
		Quantity: tx.Quantity,
		Price:    tx.PriceZAR,
		Fee:      tx.Fee,
		Cost:     decimal.Zero,
		Revenue:  decimal.Zero,
		Gain:     decimal.Zero,
	}

	remaining := tx.Quantity
	for remaining.IsPositive() && queue.Len() > 0 {
		// A head lot within epsilon of empty contributes nothing; drop it
		// rather than emit a residue-sized match.
		if queue.PopIfExhausted() {
			continue
		}
		lot := queue.Oldest()
		matchQty := decimal.Min(remaining, lot.RemainingQuantity)

		// Multiply before dividing so exact ratios stay exact.
		cost := lot.UnitCost.Mul(matchQty).
			Add(lot.FeeBasis.Mul(matchQty).Div(lot.OriginalQuantity))
		revenue := tx.PriceZAR.Mul(matchQty).
			Sub(tx.Fee.Mul(matchQty).Div(tx.Quantity))
		gain := revenue.Sub(cost)

		disposal.Matches = append(disposal.Matches, model.DisposalMatch{
			LotDate:   lot.AcquisitionDate,
			Quantity:  matchQty,
			BuyPrice:  lot.UnitCost,
			SellPrice: tx.PriceZAR,
			Cost:      cost,
			Revenue:   revenue,
			Gain:      gain,
		})

		disposal.Cost = disposal.Cost.Add(cost)
		disposal.Revenue = disposal.Revenue.Add(revenue)
		disposal.Gain = disposal.Gain.Add(gain)

		remaining = remaining.Sub(matchQty)
		lot.RemainingQuantity = lot.RemainingQuantity.Sub(matchQty)
		queue.PopIfExhausted()
	}

	if remaining.Cmp(exhaustedEpsilon) > 0 {
		return model.Disposal{}, &apperrors.InsufficientBalanceError{
			Asset:     tx.Asset,
			Requested: tx.Quantity,
			Available: tx.Quantity.Sub(remaining),
		}
	}

	return disposal, nil
}
