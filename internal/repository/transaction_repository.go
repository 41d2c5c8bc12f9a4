// Package repository provides data access over the SQLite store. Decimal
// columns are stored as TEXT so quantities and prices round-trip exactly.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

// TransactionRepository provides data access methods for the transactions table.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertTransactions stores a batch of transactions atomically. Either the
// whole upload lands or none of it does.
func (r *TransactionRepository) InsertTransactions(ctx context.Context, transactions []model.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, session_id, date, type, asset, quantity, price_zar, fee, acquired_asset, acquired_quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range transactions {
		var acquiredAsset, acquiredQuantity sql.NullString
		if t.AcquiredAsset != "" {
			acquiredAsset = sql.NullString{String: t.AcquiredAsset, Valid: true}
			acquiredQuantity = sql.NullString{String: t.AcquiredQuantity.String(), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.SessionID,
			// Full timestamp, so same-day rows with times still order
			// chronologically. RFC 3339 in UTC sorts lexicographically.
			t.Date.UTC().Format(time.RFC3339),
			t.Type,
			t.Asset,
			t.Quantity.String(),
			t.PriceZAR.String(),
			t.Fee.String(),
			acquiredAsset,
			acquiredQuantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	return nil
}

// GetBySession retrieves all transactions for a session in chronological
// order. Rows sharing a timestamp keep their insertion order.
func (r *TransactionRepository) GetBySession(ctx context.Context, sessionID string) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, date, type, asset, quantity, price_zar, fee, acquired_asset, acquired_quantity, created_at
		FROM transactions
		WHERE session_id = ?
		ORDER BY date ASC, rowid ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr, quantityStr, priceStr, feeStr, createdAtStr string
		var acquiredAsset, acquiredQuantity sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.SessionID,
			&dateStr,
			&t.Type,
			&t.Asset,
			&quantityStr,
			&priceStr,
			&feeStr,
			&acquiredAsset,
			&acquiredQuantity,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			t.CreatedAt = t.Date
		}

		if t.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid quantity %q: %w", t.ID, quantityStr, err)
		}
		if t.PriceZAR, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid price %q: %w", t.ID, priceStr, err)
		}
		if t.Fee, err = decimal.NewFromString(feeStr); err != nil {
			return nil, fmt.Errorf("transaction %s has invalid fee %q: %w", t.ID, feeStr, err)
		}

		if acquiredAsset.Valid {
			t.AcquiredAsset = acquiredAsset.String
			if t.AcquiredQuantity, err = decimal.NewFromString(acquiredQuantity.String); err != nil {
				return nil, fmt.Errorf("transaction %s has invalid acquired quantity: %w", t.ID, err)
			}
		}

		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// DeleteSession removes all transactions belonging to a session and reports
// how many rows were deleted.
func (r *TransactionRepository) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}

	return count, nil
}
