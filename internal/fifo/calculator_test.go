package fifo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

func testCalculator(now time.Time) *Calculator {
	c := NewCalculator()
	c.now = func() time.Time { return now }
	return c
}

func TestCalculateEndToEndScenario(t *testing.T) {
	// Two buys in tax year 2023, one sale in January 2024 (still tax year
	// 2023), leaving half of the second lot carried into tax year 2024.
	txs := []model.Transaction{
		buyTx("BTC", "1", "800000", "100", day(2023, time.May, 1)),
		buyTx("BTC", "1", "900000", "100", day(2023, time.November, 1)),
		sellTx("BTC", "1.5", "1000000", "150", day(2024, time.January, 10)),
	}

	result, err := testCalculator(day(2024, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	require.Len(t, result.TaxYears, 1)
	year := result.TaxYears[0]
	assert.Equal(t, 2023, year.TaxYear)
	assert.Equal(t, model.StatusPrevious, year.Status)
	assert.Equal(t, day(2023, time.March, 1), year.Period.Start)
	assert.Equal(t, day(2024, time.February, 29), year.Period.End)

	require.Len(t, year.Assets, 1)
	btc := year.Assets[0]
	assert.Equal(t, "BTC", btc.Asset)
	assert.True(t, btc.CarriedForwardQuantity.IsZero())
	assert.Equal(t, "2", btc.PurchasedThisYear.String())
	assert.Equal(t, "1.5", btc.SoldThisYear.String())
	assert.Equal(t, "0.5", btc.RemainingQuantity.String())
	assert.Equal(t, "249700", btc.TotalGain.String())

	require.Len(t, btc.Disposals, 1)
	disposal := btc.Disposals[0]
	assert.Equal(t, "1250150", disposal.Cost.String())
	assert.Equal(t, "1499850", disposal.Revenue.String())
	require.Len(t, disposal.Matches, 2)
	assert.Equal(t, "800100", disposal.Matches[0].Cost.String())
	assert.Equal(t, "450050", disposal.Matches[1].Cost.String())

	assert.Equal(t, "249700", result.OverallSummary.TotalCapitalGainAllYears.String())
	assert.Equal(t, 3, result.OverallSummary.TotalTransactions)
}

func TestCalculateCarryForwardAcrossYears(t *testing.T) {
	// Unsold 2020 coins must be visible as carried-forward quantity in 2021
	// and matched (at their 2020 basis) before any 2021 lot.
	txs := []model.Transaction{
		buyTx("BTC", "2", "100000", "0", day(2020, time.June, 1)),
		buyTx("BTC", "1", "300000", "0", day(2021, time.June, 1)),
		sellTx("BTC", "1", "400000", "0", day(2021, time.July, 1)),
	}

	result, err := testCalculator(day(2022, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	require.Len(t, result.TaxYears, 2)

	y2020 := result.TaxYears[0]
	assert.Equal(t, 2020, y2020.TaxYear)
	assert.Equal(t, "2", y2020.Assets[0].RemainingQuantity.String())
	assert.True(t, y2020.TotalGain.IsZero())

	y2021 := result.TaxYears[1]
	assert.Equal(t, 2021, y2021.TaxYear)
	btc := y2021.Assets[0]
	assert.Equal(t, "2", btc.CarriedForwardQuantity.String())
	assert.Equal(t, "2", btc.RemainingQuantity.String())
	// Gain against the 2020 lot's basis, not the 2021 lot's.
	assert.Equal(t, "300000", btc.TotalGain.String())
	assert.Equal(t, day(2020, time.June, 1), btc.Disposals[0].Matches[0].LotDate)
}

func TestCalculateYearsProcessedAscending(t *testing.T) {
	// Input deliberately lists the later year first; the coordinator must
	// sort, or the 2021 sale would find an empty queue.
	txs := []model.Transaction{
		sellTx("BTC", "1", "500000", "0", day(2021, time.June, 1)),
		buyTx("BTC", "1", "100000", "0", day(2020, time.June, 1)),
	}

	result, err := testCalculator(day(2022, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	require.Len(t, result.TaxYears, 2)
	assert.Equal(t, 2020, result.TaxYears[0].TaxYear)
	assert.Equal(t, 2021, result.TaxYears[1].TaxYear)
	assert.Equal(t, "400000", result.TaxYears[1].TotalGain.String())
}

func TestCalculateConservation(t *testing.T) {
	txs := []model.Transaction{
		buyTx("ETH", "3.25", "1000", "0", day(2022, time.April, 1)),
		buyTx("ETH", "1.75", "1200", "0", day(2022, time.August, 1)),
		sellTx("ETH", "2", "1500", "0", day(2023, time.April, 1)),
		buyTx("ETH", "0.5", "1100", "0", day(2023, time.June, 1)),
		sellTx("ETH", "1.5", "1600", "0", day(2023, time.July, 1)),
	}

	result, err := testCalculator(day(2024, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	// buys - sells == final remaining: 3.25+1.75+0.5 - 2 - 1.5 = 2
	final := result.TaxYears[len(result.TaxYears)-1].Assets[0]
	assert.Equal(t, "2", final.RemainingQuantity.String())
}

func TestCalculateOversellAborts(t *testing.T) {
	t.Run("sell without any prior buy", func(t *testing.T) {
		txs := []model.Transaction{
			sellTx("XRP", "10", "5", "0", day(2023, time.May, 1)),
		}

		result, err := testCalculator(day(2024, time.June, 1)).Calculate("sess-1", txs)

		var insufficient *apperrors.InsufficientBalanceError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "XRP", insufficient.Asset)
		assert.Nil(t, result, "no partial result on failure")
	})

	t.Run("sell exceeding holdings across years", func(t *testing.T) {
		txs := []model.Transaction{
			buyTx("BTC", "1", "100000", "0", day(2020, time.June, 1)),
			sellTx("BTC", "3", "200000", "0", day(2022, time.June, 1)),
		}

		_, err := testCalculator(day(2024, time.June, 1)).Calculate("sess-1", txs)

		var insufficient *apperrors.InsufficientBalanceError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "3", insufficient.Requested.String())
		assert.Equal(t, "1", insufficient.Available.String())
	})
}

func TestCalculateTradeDisposesAndReacquires(t *testing.T) {
	// Trading 1 BTC (bought at 100k) for 10 ETH at a 200k trade value is a
	// disposal of BTC at market plus a fresh ETH lot at market, never a basis
	// transfer.
	txs := []model.Transaction{
		buyTx("BTC", "1", "100000", "0", day(2022, time.June, 1)),
		tradeTx("BTC", "1", "200000", "0", "ETH", "10", day(2022, time.August, 1)),
		sellTx("ETH", "10", "25000", "0", day(2022, time.October, 1)),
	}

	result, err := testCalculator(day(2023, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	require.Len(t, result.TaxYears, 1)
	year := result.TaxYears[0]
	require.Len(t, year.Assets, 2)

	btc := year.Assets[0]
	assert.Equal(t, "BTC", btc.Asset)
	assert.Equal(t, "100000", btc.TotalGain.String())
	assert.True(t, btc.RemainingQuantity.IsZero())

	// ETH basis is the trade value (200k for 10 ETH = 20k per unit), so
	// selling at 25k realizes 50k.
	eth := year.Assets[1]
	assert.Equal(t, "ETH", eth.Asset)
	assert.Equal(t, "50000", eth.TotalGain.String())

	// 100k BTC gain + 50k ETH gain.
	assert.Equal(t, "150000", year.TotalGain.String())
}

func TestCalculateTradeAcquisitionVisibleToLaterDisposals(t *testing.T) {
	// The acquired asset appears first in the input and a later sale needs
	// both its original lot and the lot acquired mid-year through the trade.
	// Disposals must run chronologically across assets, not asset by asset.
	txs := []model.Transaction{
		buyTx("ETH", "5", "10000", "0", day(2024, time.April, 1)),
		buyTx("BTC", "1", "500000", "0", day(2024, time.May, 1)),
		tradeTx("BTC", "1", "600000", "0", "ETH", "10", day(2024, time.June, 1)),
		sellTx("ETH", "12", "70000", "0", day(2024, time.July, 1)),
	}

	result, err := testCalculator(day(2025, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err, "15 ETH are held when 12 are sold")

	require.Len(t, result.TaxYears, 1)
	year := result.TaxYears[0]
	require.Len(t, year.Assets, 2)

	// 5 ETH from the April lot (basis 10k) plus 7 from the traded lot
	// (basis 600k/10 = 60k), all sold at 70k.
	eth := year.Assets[0]
	assert.Equal(t, "ETH", eth.Asset)
	assert.Equal(t, "370000", eth.TotalGain.String())
	assert.Equal(t, "3", eth.RemainingQuantity.String())
	require.Len(t, eth.Disposals, 1)
	require.Len(t, eth.Disposals[0].Matches, 2)
	assert.Equal(t, day(2024, time.April, 1), eth.Disposals[0].Matches[0].LotDate)
	assert.Equal(t, day(2024, time.June, 1), eth.Disposals[0].Matches[1].LotDate)

	btc := year.Assets[1]
	assert.Equal(t, "100000", btc.TotalGain.String())
	assert.True(t, btc.RemainingQuantity.IsZero())

	assert.Equal(t, "470000", year.TotalGain.String())
}

func TestCalculateZeroQuantityBuy(t *testing.T) {
	// A zero-quantity buy is valid input. It must not leave a lot at the
	// queue head for a later disposal to pro-rate against.
	txs := []model.Transaction{
		buyTx("BTC", "0", "100000", "10", day(2023, time.May, 1)),
		buyTx("BTC", "1", "100000", "0", day(2023, time.June, 1)),
		sellTx("BTC", "1", "150000", "0", day(2023, time.July, 1)),
	}

	result, err := testCalculator(day(2024, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	btc := result.TaxYears[0].Assets[0]
	assert.Equal(t, 2, btc.TotalBuys)
	assert.Equal(t, "1", btc.PurchasedThisYear.String())
	assert.Equal(t, "50000", btc.TotalGain.String())
	assert.True(t, btc.RemainingQuantity.IsZero())
}

func TestCalculateTradeFeeHandling(t *testing.T) {
	txs := []model.Transaction{
		buyTx("BTC", "1", "100000", "0", day(2022, time.June, 1)),
		tradeTx("BTC", "1", "200000", "100", "ETH", "10", day(2022, time.August, 1)),
		sellTx("ETH", "10", "20000", "0", day(2023, time.June, 1)),
	}

	result, err := testCalculator(day(2024, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	btc := result.TaxYears[0].Assets[0]
	// Proceeds net of the trade fee: 200000 - 100 - 100000 basis.
	assert.Equal(t, "99900", btc.TotalGain.String())

	// The acquired lot carries the trade value and the trade fee in its
	// basis: selling all 10 ETH at the acquisition price realizes a loss of
	// exactly the fee.
	require.Len(t, result.TaxYears, 2)
	eth := result.TaxYears[1].Assets[0]
	assert.Equal(t, "10", eth.CarriedForwardQuantity.String())
	assert.Equal(t, "-100", eth.TotalGain.String())
}

func TestCalculateEmptySession(t *testing.T) {
	_, err := testCalculator(time.Now()).Calculate("sess-1", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptySession)

	_, err = testCalculator(time.Now()).CalculateCombined("sess-1", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptySession)
}

func TestCalculateCombinedMatchesSingleYearRun(t *testing.T) {
	// For transactions confined to one tax year, the combined run and the
	// carry-forward run must agree exactly.
	txs := []model.Transaction{
		buyTx("BTC", "2", "100000", "50", day(2023, time.April, 1)),
		sellTx("BTC", "1", "150000", "25", day(2023, time.October, 1)),
	}

	c := testCalculator(day(2024, time.June, 1))

	combined, err := c.CalculateCombined("sess-1", txs)
	require.NoError(t, err)

	byYear, err := c.Calculate("sess-1", txs)
	require.NoError(t, err)

	require.Len(t, byYear.TaxYears, 1)
	assert.Equal(t, byYear.TaxYears[0].TotalGain.String(), combined.TotalGain.String())
	require.Len(t, combined.Assets, 1)
	assert.Equal(t, byYear.TaxYears[0].Assets[0].TotalGain.String(), combined.Assets[0].TotalGain.String())
	assert.Equal(t, byYear.TaxYears[0].Assets[0].RemainingQuantity.String(), combined.Assets[0].RemainingQuantity.String())
}

func TestCalculateTransactionSummary(t *testing.T) {
	txs := []model.Transaction{
		buyTx("BTC", "1", "100000", "10", day(2023, time.April, 1)),
		sellTx("BTC", "0.5", "200000", "20", day(2023, time.May, 1)),
		tradeTx("BTC", "0.25", "220000", "5", "ETH", "2", day(2023, time.June, 1)),
	}

	result, err := testCalculator(day(2024, time.June, 1)).Calculate("sess-1", txs)
	require.NoError(t, err)

	summary := result.TaxYears[0].TransactionSummary
	assert.Equal(t, 3, summary.TotalTransactions)
	assert.Equal(t, 1, summary.Buys)
	assert.Equal(t, 1, summary.Sells)
	assert.Equal(t, 1, summary.Trades)
	assert.Equal(t, []string{"BTC"}, summary.Assets)
	assert.Equal(t, "100000", summary.TotalBuyValue.String())
	// 0.5*200000 + 0.25*220000
	assert.Equal(t, "155000", summary.TotalSellValue.String())
	assert.Equal(t, "35", summary.TotalFees.String())
}
