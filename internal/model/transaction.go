package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types supported by the calculator.
// A TRADE is a disposal of Asset plus, when AcquiredAsset is set, a
// simultaneous acquisition of the acquired asset at the trade's market value.
const (
	TypeBuy   = "BUY"
	TypeSell  = "SELL"
	TypeTrade = "TRADE"
)

// Transaction represents a single normalized crypto transaction belonging to
// an upload session. Quantity, PriceZAR and Fee are decimal so the FIFO
// exhaustion check and the conservation invariant stay exact.
type Transaction struct {
	ID               string          `json:"id"`
	SessionID        string          `json:"sessionId"`
	Date             time.Time       `json:"date"`
	Type             string          `json:"type"`
	Asset            string          `json:"asset"`
	Quantity         decimal.Decimal `json:"quantity"`
	PriceZAR         decimal.Decimal `json:"priceZar"`
	Fee              decimal.Decimal `json:"fee"`
	AcquiredAsset    string          `json:"acquiredAsset,omitempty"`
	AcquiredQuantity decimal.Decimal `json:"acquiredQuantity,omitempty"`
	CreatedAt        time.Time       `json:"createdAt,omitempty"`
}

// IsDisposal reports whether the transaction reduces held quantity of Asset.
func (t Transaction) IsDisposal() bool {
	return t.Type == TypeSell || t.Type == TypeTrade
}

// TotalValue returns quantity multiplied by unit price.
func (t Transaction) TotalValue() decimal.Decimal {
	return t.Quantity.Mul(t.PriceZAR)
}

// TransactionSummary aggregates the transactions processed in one tax year.
type TransactionSummary struct {
	TotalTransactions int             `json:"totalTransactions"`
	Buys              int             `json:"buys"`
	Sells             int             `json:"sells"`
	Trades            int             `json:"trades"`
	Assets            []string        `json:"assets"`
	TotalBuyValue     decimal.Decimal `json:"totalBuyValue"`
	TotalSellValue    decimal.Decimal `json:"totalSellValue"`
	TotalFees         decimal.Decimal `json:"totalFees"`
}
