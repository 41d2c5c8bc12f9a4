package fifo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

// Calculator runs the FIFO capital-gains computation for one session. It owns
// no state between calls; every Calculate builds a fresh set of lot queues.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a Calculator that classifies tax-year status against
// the wall clock.
func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// Calculate computes per-tax-year FIFO gains with carry-forward. Years are
// processed strictly ascending; lot queues persist across year boundaries so
// disposals match against lots acquired in prior tax years at their
// historical cost basis.
func (c *Calculator) Calculate(sessionID string, transactions []model.Transaction) (*model.CalculationResult, error) {
	if len(transactions) == 0 {
		return nil, apperrors.ErrEmptySession
	}

	grouped, err := GroupByTaxYear(transactions)
	if err != nil {
		return nil, err
	}

	queues := make(map[string]*LotQueue)
	taxYears := make([]model.TaxYearResult, 0, len(grouped))

	for _, year := range sortedYears(grouped) {
		yearResult, err := c.calculateYear(year, grouped[year], queues)
		if err != nil {
			return nil, fmt.Errorf("tax year %d: %w", year, err)
		}
		taxYears = append(taxYears, yearResult)
	}

	return &model.CalculationResult{
		SessionID:      sessionID,
		OverallSummary: summarizeYears(taxYears),
		TaxYears:       taxYears,
	}, nil
}

// CalculateCombined computes FIFO gains over the whole transaction list with
// no year grouping. It is the carry-forward machinery run once over a single
// group with empty starting queues, which makes it a natural regression
// check against Calculate.
func (c *Calculator) CalculateCombined(sessionID string, transactions []model.Transaction) (*model.CombinedResult, error) {
	if len(transactions) == 0 {
		return nil, apperrors.ErrEmptySession
	}
	for i, tx := range transactions {
		if tx.Date.IsZero() {
			return nil, &apperrors.InvalidDateError{Index: i}
		}
	}

	queues := make(map[string]*LotQueue)
	assets, totalGain, err := processAssets(transactions, queues)
	if err != nil {
		return nil, err
	}

	return &model.CombinedResult{
		SessionID: sessionID,
		TotalGain: totalGain,
		Assets:    assets,
	}, nil
}

func (c *Calculator) calculateYear(taxYear int, transactions []model.Transaction, queues map[string]*LotQueue) (model.TaxYearResult, error) {
	assets, totalGain, err := processAssets(transactions, queues)
	if err != nil {
		return model.TaxYearResult{}, err
	}

	return model.TaxYearResult{
		TaxYear:            taxYear,
		Period:             Period(taxYear),
		Status:             Status(taxYear, c.now()),
		TransactionSummary: summarizeTransactions(transactions),
		TotalGain:          totalGain,
		Assets:             assets,
	}, nil
}

// processAssets runs one year's transactions against the session's persistent
// lot queues. The year's acquisition lots enter their queues first; the
// disposals then run in a single chronological pass across all assets, so a
// trade's acquired lot is already in place when a later disposal of that
// asset matches.
func processAssets(transactions []model.Transaction, queues map[string]*LotQueue) ([]model.AssetResult, decimal.Decimal, error) {
	order := assetOrder(transactions)

	results := make(map[string]*model.AssetResult, len(order))
	for _, asset := range order {
		results[asset] = &model.AssetResult{
			Asset:                  asset,
			CarriedForwardQuantity: queueFor(queues, asset).TotalRemaining(),
			PurchasedThisYear:      decimal.Zero,
			SoldThisYear:           decimal.Zero,
			TotalGain:              decimal.Zero,
		}
	}

	for _, tx := range transactions {
		if tx.Type != model.TypeBuy {
			continue
		}
		result := results[tx.Asset]
		result.PurchasedThisYear = result.PurchasedThisYear.Add(tx.Quantity)
		result.TotalBuys++

		// A zero-quantity buy holds nothing to dispose of later; pushing it
		// would put a lot with no original quantity at the queue head.
		if !tx.Quantity.IsPositive() {
			continue
		}
		queueFor(queues, tx.Asset).Push(model.Lot{
			Asset:             tx.Asset,
			AcquisitionDate:   tx.Date,
			OriginalQuantity:  tx.Quantity,
			RemainingQuantity: tx.Quantity,
			UnitCost:          tx.PriceZAR,
			FeeBasis:          tx.Fee,
		})
	}

	for _, tx := range transactions {
		if !tx.IsDisposal() {
			continue
		}

		disposal, err := matchDisposal(tx, queueFor(queues, tx.Asset))
		if err != nil {
			return nil, decimal.Zero, err
		}

		result := results[tx.Asset]
		result.Disposals = append(result.Disposals, disposal)
		result.SoldThisYear = result.SoldThisYear.Add(tx.Quantity)
		result.TotalGain = result.TotalGain.Add(disposal.Gain)
		result.TotalSales++

		// A trade re-acquires at market value, never transferring basis: the
		// acquired lot's cost is the trade's full value and the trade fee
		// enters its fee basis.
		if tx.Type == model.TypeTrade && tx.AcquiredAsset != "" && tx.AcquiredQuantity.IsPositive() {
			queueFor(queues, tx.AcquiredAsset).Push(model.Lot{
				Asset:             tx.AcquiredAsset,
				AcquisitionDate:   tx.Date,
				OriginalQuantity:  tx.AcquiredQuantity,
				RemainingQuantity: tx.AcquiredQuantity,
				UnitCost:          tx.TotalValue().Div(tx.AcquiredQuantity),
				FeeBasis:          tx.Fee,
			})
		}
	}

	out := make([]model.AssetResult, 0, len(order))
	totalGain := decimal.Zero
	for _, asset := range order {
		result := results[asset]
		result.RemainingQuantity = queueFor(queues, asset).TotalRemaining()
		out = append(out, *result)
		totalGain = totalGain.Add(result.TotalGain)
	}

	return out, totalGain, nil
}

func queueFor(queues map[string]*LotQueue, asset string) *LotQueue {
	queue, ok := queues[asset]
	if !ok {
		queue = &LotQueue{}
		queues[asset] = queue
	}
	return queue
}

// assetOrder records each asset's first appearance in the transaction list.
// Results are reported in this order.
func assetOrder(transactions []model.Transaction) []string {
	var order []string
	seen := make(map[string]bool)
	for _, tx := range transactions {
		if !seen[tx.Asset] {
			seen[tx.Asset] = true
			order = append(order, tx.Asset)
		}
	}
	return order
}
