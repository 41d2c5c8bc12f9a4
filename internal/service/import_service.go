package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/repository"
)

// columnAliases maps each canonical CSV column to the header spellings
// accepted from exchange exports.
var columnAliases = map[string][]string{
	"date":              {"date", "transaction_date", "datetime"},
	"type":              {"type", "transaction_type"},
	"asset":             {"asset", "coin", "cryptocurrency", "crypto", "symbol", "currency"},
	"quantity":          {"quantity", "amount", "qty"},
	"price_zar":         {"price_zar", "price", "price_in_zar", "zar_price", "price (zar)"},
	"fee":               {"fee", "fees", "transaction_fee"},
	"acquired_asset":    {"acquired_asset", "acquired asset"},
	"acquired_quantity": {"acquired_quantity", "acquired quantity", "acquired_qty"},
}

// dateLayouts accepted for the date column.
var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "02/01/2006", time.RFC3339}

// RowError reports why one CSV row was rejected. Row numbering is 1-based
// and counts the header row.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportResult is the outcome of one CSV upload.
type ImportResult struct {
	SessionID    string              `json:"sessionId"`
	Count        int                 `json:"count"`
	Errors       []RowError          `json:"errors"`
	Transactions []model.Transaction `json:"transactions"`
}

// ImportService ingests CSV uploads into a fresh calculation session.
type ImportService struct {
	transactionRepo *repository.TransactionRepository
}

// NewImportService creates a new ImportService with the provided repository dependency.
func NewImportService(transactionRepo *repository.TransactionRepository) *ImportService {
	return &ImportService{transactionRepo: transactionRepo}
}

// ImportCSV parses and validates the uploaded CSV, stores the valid rows
// under a new session and reports per-row failures. A file whose rows all
// fail still produces a session id with zero transactions.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := resolveColumns(header)
	if _, ok := columns["date"]; !ok {
		return nil, fmt.Errorf("CSV is missing a date column")
	}

	result := &ImportResult{
		SessionID:    "calc-" + uuid.New().String(),
		Transactions: []model.Transaction{},
		Errors:       []RowError{},
	}

	rowNumber := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNumber, Errors: []string{err.Error()}})
			continue
		}

		tx, rowErrs := parseRow(record, columns)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, RowError{Row: rowNumber, Errors: rowErrs})
			continue
		}

		tx.ID = uuid.New().String()
		tx.SessionID = result.SessionID
		result.Transactions = append(result.Transactions, tx)
	}

	if len(result.Transactions) > 0 {
		if err := s.transactionRepo.InsertTransactions(ctx, result.Transactions); err != nil {
			return nil, fmt.Errorf("failed to store imported transactions: %w", err)
		}
	}

	result.Count = len(result.Transactions)
	return result, nil
}

// resolveColumns maps canonical column names to their index in the header.
func resolveColumns(header []string) map[string]int {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		normalized[strings.ToLower(strings.TrimSpace(h))] = i
	}

	columns := make(map[string]int)
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := normalized[alias]; ok {
				columns[canonical] = i
				break
			}
		}
	}
	return columns
}

func parseRow(record []string, columns map[string]int) (model.Transaction, []string) {
	var tx model.Transaction
	var errs []string

	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	if date, err := parseDate(field("date")); err != nil {
		errs = append(errs, err.Error())
	} else {
		tx.Date = date
	}

	tx.Type = strings.ToUpper(field("type"))
	switch tx.Type {
	case model.TypeBuy, model.TypeSell, model.TypeTrade:
	case "":
		errs = append(errs, "type is required")
	default:
		errs = append(errs, fmt.Sprintf("invalid type %q", tx.Type))
	}

	tx.Asset = strings.ToUpper(field("asset"))
	if tx.Asset == "" {
		errs = append(errs, "asset is required")
	}

	var err error
	if tx.Quantity, err = parsePositiveDecimal("quantity", field("quantity"), true); err != nil {
		errs = append(errs, err.Error())
	}
	if tx.PriceZAR, err = parsePositiveDecimal("price_zar", field("price_zar"), true); err != nil {
		errs = append(errs, err.Error())
	}
	if tx.Fee, err = parsePositiveDecimal("fee", field("fee"), false); err != nil {
		errs = append(errs, err.Error())
	}

	if tx.Type == model.TypeTrade {
		tx.AcquiredAsset = strings.ToUpper(field("acquired_asset"))
		if tx.AcquiredAsset != "" {
			if tx.AcquiredQuantity, err = parsePositiveDecimal("acquired_quantity", field("acquired_quantity"), true); err != nil {
				errs = append(errs, err.Error())
			}
		}
	}

	return tx, errs
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// parsePositiveDecimal parses a non-negative decimal field. Optional fields
// default to zero when empty.
func parsePositiveDecimal(name, value string, required bool) (decimal.Decimal, error) {
	if value == "" {
		if required {
			return decimal.Zero, fmt.Errorf("%s is required", name)
		}
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, value)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", name)
	}
	return d, nil
}
