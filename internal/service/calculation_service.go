// Package service contains the business logic between the HTTP layer and the
// repositories: CSV ingestion, session management and the capital-gains
// calculation pipeline.
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/fifo"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/repository"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/tax"
)

// CalculationService runs the FIFO engine and the tax layer over a stored
// session. One instance is safe for concurrent requests: every calculation
// builds its own lot queues.
type CalculationService struct {
	transactionRepo *repository.TransactionRepository
	fifoCalc        *fifo.Calculator
	taxCalc         *tax.Calculator
}

// NewCalculationService validates the tax configuration and wires the
// calculation pipeline.
func NewCalculationService(transactionRepo *repository.TransactionRepository, cfg tax.Config) (*CalculationService, error) {
	taxCalc, err := tax.NewCalculator(cfg)
	if err != nil {
		return nil, err
	}

	return &CalculationService{
		transactionRepo: transactionRepo,
		fifoCalc:        fifo.NewCalculator(),
		taxCalc:         taxCalc,
	}, nil
}

// CalculateByTaxYear computes per-tax-year FIFO gains with carry-forward and
// the resulting taxable capital gain. When otherIncome is non-nil, each year
// additionally gets a marginal-liability estimate against the progressive
// bracket table.
func (s *CalculationService) CalculateByTaxYear(ctx context.Context, sessionID string, otherIncome *decimal.Decimal) (*model.CalculationResult, error) {
	transactions, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.fifoCalc.Calculate(sessionID, transactions)
	if err != nil {
		return nil, err
	}

	s.taxCalc.Apply(result)

	if otherIncome != nil {
		for i := range result.TaxYears {
			year := &result.TaxYears[i]
			liability := s.taxCalc.EstimateLiability(year.FIFOCalculation.TaxableCapitalGain, *otherIncome)
			year.Liability = &liability
		}
	}

	return result, nil
}

// CalculateCombined computes FIFO gains over the whole session without year
// grouping, plus the taxable gain as if it all fell in one year.
func (s *CalculationService) CalculateCombined(ctx context.Context, sessionID string) (*model.CombinedResult, error) {
	transactions, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.fifoCalc.CalculateCombined(sessionID, transactions)
	if err != nil {
		return nil, err
	}

	s.taxCalc.ApplyCombined(result)
	return result, nil
}

func (s *CalculationService) loadSession(ctx context.Context, sessionID string) ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEmptySession, sessionID)
	}
	return transactions, nil
}
