package fifo

import (
	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

// summarizeTransactions rolls one tax year's transactions into counts and
// value totals. Trades count toward sell value since they dispose at market
// value.
func summarizeTransactions(transactions []model.Transaction) model.TransactionSummary {
	summary := model.TransactionSummary{
		TotalTransactions: len(transactions),
		TotalBuyValue:     decimal.Zero,
		TotalSellValue:    decimal.Zero,
		TotalFees:         decimal.Zero,
	}

	seen := make(map[string]bool)
	for _, tx := range transactions {
		switch tx.Type {
		case model.TypeBuy:
			summary.Buys++
			summary.TotalBuyValue = summary.TotalBuyValue.Add(tx.TotalValue())
		case model.TypeSell:
			summary.Sells++
			summary.TotalSellValue = summary.TotalSellValue.Add(tx.TotalValue())
		case model.TypeTrade:
			summary.Trades++
			summary.TotalSellValue = summary.TotalSellValue.Add(tx.TotalValue())
		}

		summary.TotalFees = summary.TotalFees.Add(tx.Fee)

		if !seen[tx.Asset] {
			seen[tx.Asset] = true
			summary.Assets = append(summary.Assets, tx.Asset)
		}
	}

	return summary
}

// summarizeYears rolls the per-year results into the overall summary. The
// taxable/exclusion fields stay zero here; the tax layer fills them in.
func summarizeYears(taxYears []model.TaxYearResult) model.OverallSummary {
	summary := model.OverallSummary{
		TotalYears:               len(taxYears),
		TotalCapitalGainAllYears: decimal.Zero,
	}

	for i, year := range taxYears {
		if i == 0 || year.TaxYear < summary.EarliestTaxYear {
			summary.EarliestTaxYear = year.TaxYear
		}
		if year.TaxYear > summary.LatestTaxYear {
			summary.LatestTaxYear = year.TaxYear
		}
		summary.TotalTransactions += year.TransactionSummary.TotalTransactions
		summary.TotalCapitalGainAllYears = summary.TotalCapitalGainAllYears.Add(year.TotalGain)
	}

	return summary
}
