package testutil

import (
	"database/sql"
	"testing"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/repository"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/service"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/tax"
)

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewTransactionService(transactionRepo)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewImportService(transactionRepo)
}

func NewTestCalculationService(t *testing.T, db *sql.DB) *service.CalculationService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	calculationService, err := service.NewCalculationService(transactionRepo, tax.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create calculation service: %v", err)
	}
	return calculationService
}
