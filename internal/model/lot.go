package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is one acquisition of an asset, tracked until fully disposed.
// FeeBasis is the acquisition fee paid once for the whole original quantity;
// the matcher pro-rates it over OriginalQuantity as the lot depletes.
type Lot struct {
	Asset             string          `json:"asset"`
	AcquisitionDate   time.Time       `json:"acquisitionDate"`
	OriginalQuantity  decimal.Decimal `json:"originalQuantity"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	FeeBasis          decimal.Decimal `json:"feeBasis"`
}

// DisposalMatch pairs a portion of a disposal with a portion of one lot.
type DisposalMatch struct {
	LotDate   time.Time       `json:"lotDate"`
	Quantity  decimal.Decimal `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
	Cost      decimal.Decimal `json:"cost"`
	Revenue   decimal.Decimal `json:"revenue"`
	Gain      decimal.Decimal `json:"gain"`
}

// Disposal records one SELL (or the disposal leg of a TRADE) with its
// per-lot match breakdown.
type Disposal struct {
	Date     time.Time       `json:"date"`
	Asset    string          `json:"asset"`
	Type     string          `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Fee      decimal.Decimal `json:"fee"`
	Cost     decimal.Decimal `json:"cost"`
	Revenue  decimal.Decimal `json:"revenue"`
	Gain     decimal.Decimal `json:"gain"`
	Matches  []DisposalMatch `json:"matches"`
}

// AssetResult is the per-asset outcome of one tax year's FIFO run.
// CarriedForwardQuantity is the lot-queue total observed before the year's
// transactions were processed; RemainingQuantity the total after.
type AssetResult struct {
	Asset                  string          `json:"asset"`
	CarriedForwardQuantity decimal.Decimal `json:"carriedForwardQuantity"`
	PurchasedThisYear      decimal.Decimal `json:"purchasedThisYear"`
	SoldThisYear           decimal.Decimal `json:"soldThisYear"`
	RemainingQuantity      decimal.Decimal `json:"remainingQuantity"`
	TotalBuys              int             `json:"totalBuys"`
	TotalSales             int             `json:"totalSales"`
	TotalGain              decimal.Decimal `json:"totalGain"`
	Disposals              []Disposal      `json:"disposals"`
}
