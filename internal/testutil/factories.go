package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/repository"
)

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple creation with defaults
//	tx := testutil.NewTransaction("session-1").Build(t, db)
//
//	// Customized transaction
//	tx := testutil.NewTransaction("session-1").
//	    Sell().
//	    WithAsset("ETH").
//	    WithQuantity("2.5").
//	    WithPrice("30000").
//	    OnDate("2024-06-01").
//	    Build(t, db)
type TransactionBuilder struct {
	tx model.Transaction
}

// NewTransaction creates a TransactionBuilder with sensible defaults:
// a BUY of 1 BTC at R100000 with no fee.
func NewTransaction(sessionID string) *TransactionBuilder {
	return &TransactionBuilder{
		tx: model.Transaction{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Date:      time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			Type:      model.TypeBuy,
			Asset:     "BTC",
			Quantity:  decimal.NewFromInt(1),
			PriceZAR:  decimal.NewFromInt(100000),
			Fee:       decimal.Zero,
		},
	}
}

// Sell marks the transaction as a SELL.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.tx.Type = model.TypeSell
	return b
}

// TradeFor marks the transaction as a TRADE acquiring the given asset and quantity.
func (b *TransactionBuilder) TradeFor(asset, quantity string) *TransactionBuilder {
	b.tx.Type = model.TypeTrade
	b.tx.AcquiredAsset = asset
	b.tx.AcquiredQuantity = mustDecimal(quantity)
	return b
}

// WithAsset sets the asset symbol.
func (b *TransactionBuilder) WithAsset(asset string) *TransactionBuilder {
	b.tx.Asset = asset
	return b
}

// WithQuantity sets the quantity.
func (b *TransactionBuilder) WithQuantity(quantity string) *TransactionBuilder {
	b.tx.Quantity = mustDecimal(quantity)
	return b
}

// WithPrice sets the unit price in rand.
func (b *TransactionBuilder) WithPrice(price string) *TransactionBuilder {
	b.tx.PriceZAR = mustDecimal(price)
	return b
}

// WithFee sets the transaction fee in rand.
func (b *TransactionBuilder) WithFee(fee string) *TransactionBuilder {
	b.tx.Fee = mustDecimal(fee)
	return b
}

// OnDate sets the transaction date from a YYYY-MM-DD string.
func (b *TransactionBuilder) OnDate(date string) *TransactionBuilder {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("testutil: invalid date " + date)
	}
	b.tx.Date = parsed
	return b
}

// Transaction returns the built transaction without persisting it.
func (b *TransactionBuilder) Transaction() model.Transaction {
	return b.tx
}

// Build persists the transaction and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	repo := repository.NewTransactionRepository(db)
	if err := repo.InsertTransactions(context.Background(), []model.Transaction{b.tx}); err != nil {
		t.Fatalf("Failed to insert test transaction: %v", err)
	}
	return b.tx
}

func mustDecimal(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic("testutil: invalid decimal " + value)
	}
	return d
}
