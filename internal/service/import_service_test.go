package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/testutil"
)

func TestImportCSV(t *testing.T) {
	t.Run("imports valid rows and stores them", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		importService := testutil.NewTestImportService(t, db)

		csv := strings.Join([]string{
			"date,type,asset,quantity,price_zar,fee",
			"2024-06-01,BUY,BTC,1,100000,50",
			"2024-08-15,sell,btc,0.5,150000,25",
		}, "\n")

		result, err := importService.ImportCSV(context.Background(), strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV failed: %v", err)
		}

		if result.Count != 2 {
			t.Errorf("Expected 2 imported transactions, got %d", result.Count)
		}
		if len(result.Errors) != 0 {
			t.Errorf("Expected no row errors, got %v", result.Errors)
		}
		if !strings.HasPrefix(result.SessionID, "calc-") {
			t.Errorf("Expected session id with calc- prefix, got %q", result.SessionID)
		}

		// Type and asset are normalized to upper case.
		if result.Transactions[1].Type != "SELL" || result.Transactions[1].Asset != "BTC" {
			t.Errorf("Expected normalized SELL/BTC, got %s/%s",
				result.Transactions[1].Type, result.Transactions[1].Asset)
		}

		// Rows landed in the database under the new session.
		transactionService := testutil.NewTestTransactionService(t, db)
		stored, err := transactionService.GetSessionTransactions(context.Background(), result.SessionID)
		if err != nil {
			t.Fatalf("GetSessionTransactions failed: %v", err)
		}
		if len(stored) != 2 {
			t.Errorf("Expected 2 stored transactions, got %d", len(stored))
		}
	})

	t.Run("accepts exchange export header aliases", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		importService := testutil.NewTestImportService(t, db)

		csv := strings.Join([]string{
			"datetime,transaction_type,coin,amount,price,fees",
			"2024-06-01,BUY,ETH,2,30000,10",
		}, "\n")

		result, err := importService.ImportCSV(context.Background(), strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV failed: %v", err)
		}
		if result.Count != 1 {
			t.Fatalf("Expected 1 imported transaction, got %d (errors: %v)", result.Count, result.Errors)
		}
		if got := result.Transactions[0].PriceZAR.String(); got != "30000" {
			t.Errorf("Expected price 30000, got %s", got)
		}
	})

	t.Run("parses trade rows with acquired leg", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		importService := testutil.NewTestImportService(t, db)

		csv := strings.Join([]string{
			"date,type,asset,quantity,price_zar,fee,acquired_asset,acquired_quantity",
			"2024-06-01,TRADE,BTC,1,500000,100,ETH,10",
		}, "\n")

		result, err := importService.ImportCSV(context.Background(), strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV failed: %v", err)
		}
		if result.Count != 1 {
			t.Fatalf("Expected 1 imported transaction, got %d (errors: %v)", result.Count, result.Errors)
		}

		tx := result.Transactions[0]
		if tx.AcquiredAsset != "ETH" {
			t.Errorf("Expected acquired asset ETH, got %q", tx.AcquiredAsset)
		}
		if tx.AcquiredQuantity.String() != "10" {
			t.Errorf("Expected acquired quantity 10, got %s", tx.AcquiredQuantity)
		}
	})

	t.Run("reports invalid rows without aborting the upload", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		importService := testutil.NewTestImportService(t, db)

		csv := strings.Join([]string{
			"date,type,asset,quantity,price_zar,fee",
			"2024-06-01,BUY,BTC,1,100000,0",
			"not-a-date,BUY,BTC,1,100000,0",
			"2024-06-03,HOLD,BTC,1,100000,0",
			"2024-06-04,BUY,BTC,-1,100000,0",
		}, "\n")

		result, err := importService.ImportCSV(context.Background(), strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV failed: %v", err)
		}

		if result.Count != 1 {
			t.Errorf("Expected 1 valid transaction, got %d", result.Count)
		}
		if len(result.Errors) != 3 {
			t.Fatalf("Expected 3 row errors, got %d: %v", len(result.Errors), result.Errors)
		}

		// Row numbering is 1-based and counts the header.
		if result.Errors[0].Row != 3 {
			t.Errorf("Expected first error on row 3, got %d", result.Errors[0].Row)
		}
		if !strings.Contains(result.Errors[1].Errors[0], "invalid type") {
			t.Errorf("Expected invalid type error, got %v", result.Errors[1].Errors)
		}
		if !strings.Contains(result.Errors[2].Errors[0], "cannot be negative") {
			t.Errorf("Expected negative quantity error, got %v", result.Errors[2].Errors)
		}
	})

	t.Run("rejects CSV without a date column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		importService := testutil.NewTestImportService(t, db)

		csv := "type,asset,quantity,price_zar\nBUY,BTC,1,100000"

		_, err := importService.ImportCSV(context.Background(), strings.NewReader(csv))
		if err == nil {
			t.Fatal("Expected error for missing date column")
		}
		if !strings.Contains(err.Error(), "date column") {
			t.Errorf("Expected date column error, got %v", err)
		}
	})

	t.Run("strips thousands separators from amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		importService := testutil.NewTestImportService(t, db)

		csv := strings.Join([]string{
			"date,type,asset,quantity,price_zar,fee",
			`2024-06-01,BUY,BTC,1,"1,250,000",50`,
		}, "\n")

		result, err := importService.ImportCSV(context.Background(), strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV failed: %v", err)
		}
		if result.Count != 1 {
			t.Fatalf("Expected 1 imported transaction, got %d (errors: %v)", result.Count, result.Errors)
		}
		if got := result.Transactions[0].PriceZAR.String(); got != "1250000" {
			t.Errorf("Expected price 1250000, got %s", got)
		}
	})
}
