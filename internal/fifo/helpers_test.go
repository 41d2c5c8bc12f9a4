package fifo

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func buyTx(asset, qty, price, fee string, date time.Time) model.Transaction {
	return model.Transaction{
		Date:     date,
		Type:     model.TypeBuy,
		Asset:    asset,
		Quantity: dec(qty),
		PriceZAR: dec(price),
		Fee:      dec(fee),
	}
}

func sellTx(asset, qty, price, fee string, date time.Time) model.Transaction {
	tx := buyTx(asset, qty, price, fee, date)
	tx.Type = model.TypeSell
	return tx
}

func tradeTx(asset, qty, price, fee, acquiredAsset, acquiredQty string, date time.Time) model.Transaction {
	tx := buyTx(asset, qty, price, fee, date)
	tx.Type = model.TypeTrade
	tx.AcquiredAsset = acquiredAsset
	tx.AcquiredQuantity = dec(acquiredQty)
	return tx
}

func newLot(asset, qty, unitCost, fee string, date time.Time) model.Lot {
	return model.Lot{
		Asset:             asset,
		AcquisitionDate:   date,
		OriginalQuantity:  dec(qty),
		RemainingQuantity: dec(qty),
		UnitCost:          dec(unitCost),
		FeeBasis:          dec(fee),
	}
}
