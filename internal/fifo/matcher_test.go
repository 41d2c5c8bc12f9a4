package fifo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
)

func TestMatchDisposalSingleLot(t *testing.T) {
	q := &LotQueue{}
	q.Push(newLot("BTC", "2", "100000", "50", day(2023, time.April, 1)))

	disposal, err := matchDisposal(sellTx("BTC", "1", "150000", "30", day(2023, time.June, 1)), q)
	require.NoError(t, err)

	require.Len(t, disposal.Matches, 1)
	m := disposal.Matches[0]
	// Acquisition fee pro-rated over the lot's original quantity: 50 * 1/2.
	assert.Equal(t, "100025", m.Cost.String())
	// Disposal fee pro-rated over the full disposal: 30 * 1/1.
	assert.Equal(t, "149970", m.Revenue.String())
	assert.Equal(t, "49945", m.Gain.String())

	assert.Equal(t, "1", q.TotalRemaining().String())
}

func TestMatchDisposalSpansLots(t *testing.T) {
	q := &LotQueue{}
	q.Push(newLot("BTC", "1", "800000", "100", day(2023, time.May, 1)))
	q.Push(newLot("BTC", "1", "900000", "100", day(2023, time.November, 1)))

	disposal, err := matchDisposal(sellTx("BTC", "1.5", "1000000", "150", day(2024, time.January, 10)), q)
	require.NoError(t, err)

	require.Len(t, disposal.Matches, 2)

	first := disposal.Matches[0]
	assert.Equal(t, day(2023, time.May, 1), first.LotDate)
	assert.Equal(t, "800100", first.Cost.String())
	assert.Equal(t, "999900", first.Revenue.String())

	second := disposal.Matches[1]
	assert.Equal(t, day(2023, time.November, 1), second.LotDate)
	assert.Equal(t, "450050", second.Cost.String())
	assert.Equal(t, "499950", second.Revenue.String())

	assert.Equal(t, "1250150", disposal.Cost.String())
	assert.Equal(t, "1499850", disposal.Revenue.String())
	assert.Equal(t, "249700", disposal.Gain.String())

	// Half of the second lot remains at its original basis.
	assert.Equal(t, "0.5", q.TotalRemaining().String())
	assert.Equal(t, "900000", q.Oldest().UnitCost.String())
}

func TestMatchDisposalFeeProRationUsesOriginalQuantity(t *testing.T) {
	// Selling a partially depleted lot must still spread the acquisition fee
	// over the lot's original quantity, not what is left of it.
	q := &LotQueue{}
	q.Push(newLot("ETH", "4", "1000", "40", day(2023, time.April, 1)))

	_, err := matchDisposal(sellTx("ETH", "1", "2000", "0", day(2023, time.May, 1)), q)
	require.NoError(t, err)

	disposal, err := matchDisposal(sellTx("ETH", "1", "2000", "0", day(2023, time.June, 1)), q)
	require.NoError(t, err)

	// 1000*1 + 40*(1/4), even though only 3 units remained.
	assert.Equal(t, "1010", disposal.Matches[0].Cost.String())
}

func TestMatchDisposalFIFONeverTouchesNewerLots(t *testing.T) {
	q := &LotQueue{}
	q.Push(newLot("BTC", "5", "100", "0", day(2021, time.April, 1)))
	q.Push(newLot("BTC", "5", "200", "0", day(2022, time.April, 1)))
	q.Push(newLot("BTC", "5", "300", "0", day(2023, time.April, 1)))

	disposal, err := matchDisposal(sellTx("BTC", "3", "500", "0", day(2023, time.May, 1)), q)
	require.NoError(t, err)

	require.Len(t, disposal.Matches, 1)
	assert.Equal(t, day(2021, time.April, 1), disposal.Matches[0].LotDate)
	assert.Equal(t, "100", disposal.Matches[0].BuyPrice.String())
}

func TestMatchDisposalInsufficientBalance(t *testing.T) {
	t.Run("partially covered", func(t *testing.T) {
		q := &LotQueue{}
		q.Push(newLot("BTC", "1", "100", "0", day(2023, time.April, 1)))

		_, err := matchDisposal(sellTx("BTC", "2.5", "500", "0", day(2023, time.May, 1)), q)

		var insufficient *apperrors.InsufficientBalanceError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "BTC", insufficient.Asset)
		assert.Equal(t, "2.5", insufficient.Requested.String())
		assert.Equal(t, "1", insufficient.Available.String())
	})

	t.Run("empty queue", func(t *testing.T) {
		_, err := matchDisposal(sellTx("XRP", "1", "10", "0", day(2023, time.May, 1)), &LotQueue{})

		var insufficient *apperrors.InsufficientBalanceError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, insufficient.Available.IsZero())
	})
}
