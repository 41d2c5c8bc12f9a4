package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/fifo"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/repository"
)

// TransactionService handles session-scoped transaction operations.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependency.
func NewTransactionService(transactionRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// GetSessionTransactions retrieves all transactions for a session in
// chronological order.
func (s *TransactionService) GetSessionTransactions(ctx context.Context, sessionID string) ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, sessionID)
	}
	return transactions, nil
}

// GroupedByTaxYear returns a session's transactions grouped into SARS tax
// years, most recent year first.
func (s *TransactionService) GroupedByTaxYear(ctx context.Context, sessionID string) ([]model.TaxYearTransactions, error) {
	transactions, err := s.GetSessionTransactions(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	grouped, err := fifo.GroupByTaxYear(transactions)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(grouped))
	for year := range grouped {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	result := make([]model.TaxYearTransactions, 0, len(years))
	for _, year := range years {
		result = append(result, model.TaxYearTransactions{
			TaxYear:      year,
			Period:       fifo.Period(year),
			Count:        len(grouped[year]),
			Transactions: grouped[year],
		})
	}
	return result, nil
}

// DeleteSession removes a session and all its transactions.
func (s *TransactionService) DeleteSession(ctx context.Context, sessionID string) error {
	count, err := s.transactionRepo.DeleteSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, sessionID)
	}
	return nil
}
