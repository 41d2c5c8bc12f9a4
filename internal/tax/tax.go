// Package tax applies SARS capital-gains tax rules to the FIFO engine's
// output: annual exclusion, inclusion rate and the progressive income-tax
// brackets used to estimate marginal liability.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

// Config holds the tax-law parameters for a calculation. SARS revises these
// yearly, so they are injected rather than hard-coded in the engine.
type Config struct {
	AnnualExclusion decimal.Decimal
	InclusionRate   decimal.Decimal
	Brackets        BracketTable
}

// DefaultConfig returns the SARS 2025/2026 parameters: R40,000 annual
// exclusion and a 40% inclusion rate for individuals.
func DefaultConfig() Config {
	return Config{
		AnnualExclusion: decimal.NewFromInt(40000),
		InclusionRate:   decimal.NewFromFloat(0.40),
		Brackets:        DefaultBrackets(),
	}
}

// Validate fails fast on unusable parameters, before any transaction is
// processed.
func (c Config) Validate() error {
	if c.AnnualExclusion.IsNegative() {
		return &apperrors.InvalidConfigurationError{Reason: "annual exclusion cannot be negative"}
	}
	if c.InclusionRate.IsNegative() || c.InclusionRate.Cmp(decimal.NewFromInt(1)) > 0 {
		return &apperrors.InvalidConfigurationError{Reason: "inclusion rate must be between 0 and 1"}
	}
	if reason := c.Brackets.validate(); reason != "" {
		return &apperrors.InvalidConfigurationError{Reason: reason}
	}
	return nil
}

// Calculator layers the liability computation on top of FIFO results.
type Calculator struct {
	cfg Config
}

// NewCalculator validates the configuration and returns a Calculator.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{cfg: cfg}, nil
}

// Apply computes the taxable capital gain for every tax year in the result
// and fills in the overall taxable totals.
func (c *Calculator) Apply(result *model.CalculationResult) {
	totalTaxable := decimal.Zero
	totalExclusions := decimal.Zero

	for i := range result.TaxYears {
		year := &result.TaxYears[i]

		calc := c.calculateYear(year.TotalGain)
		year.FIFOCalculation = &calc
		year.Breakdown = c.breakdown(calc)

		if calc.TaxableCapitalGain.IsPositive() {
			result.OverallSummary.YearsWithTaxableGain++
		}
		if year.TotalGain.IsPositive() && year.TotalGain.Cmp(c.cfg.AnnualExclusion) <= 0 {
			result.OverallSummary.YearsBelowExclusion++
		}

		totalTaxable = totalTaxable.Add(calc.TaxableCapitalGain)
		totalExclusions = totalExclusions.Add(calc.AnnualExclusionApplied)
	}

	result.OverallSummary.TotalTaxableAllYears = totalTaxable.Round(2)
	result.OverallSummary.TotalExclusionsApplied = totalExclusions.Round(2)
}

// ApplyCombined computes the taxable gain for a single-pass result.
func (c *Calculator) ApplyCombined(result *model.CombinedResult) {
	calc := c.calculateYear(result.TotalGain)
	result.FIFOCalculation = &calc
	result.Breakdown = c.breakdown(calc)
}

// EstimateLiability blends the included capital gain with other taxable
// income: the additional tax is the bracket tax on the combined income minus
// the bracket tax on the other income alone.
func (c *Calculator) EstimateLiability(includedGain, otherIncome decimal.Decimal) model.LiabilityEstimate {
	combined := otherIncome.Add(includedGain)
	additional := c.cfg.Brackets.IncomeTax(combined).Sub(c.cfg.Brackets.IncomeTax(otherIncome))

	return model.LiabilityEstimate{
		OtherTaxableIncome:     otherIncome.Round(2),
		AmountIncludedInIncome: includedGain.Round(2),
		EstimatedAdditionalTax: additional.Round(2),
		MarginalRate:           c.cfg.Brackets.MarginalRate(combined),
	}
}

func (c *Calculator) calculateYear(totalGain decimal.Decimal) model.FIFOCalculation {
	netGain := decimal.Max(decimal.Zero, totalGain.Sub(c.cfg.AnnualExclusion))
	taxableGain := netGain.Mul(c.cfg.InclusionRate)
	exclusionApplied := decimal.Max(decimal.Zero, decimal.Min(totalGain, c.cfg.AnnualExclusion))

	return model.FIFOCalculation{
		TotalCapitalGain:       totalGain.Round(2),
		AnnualExclusionLimit:   c.cfg.AnnualExclusion,
		AnnualExclusionApplied: exclusionApplied.Round(2),
		NetCapitalGain:         netGain.Round(2),
		InclusionRate:          c.cfg.InclusionRate,
		TaxableCapitalGain:     taxableGain.Round(2),
	}
}

func (c *Calculator) breakdown(calc model.FIFOCalculation) []model.BreakdownStep {
	ratePct := c.cfg.InclusionRate.Mul(decimal.NewFromInt(100))

	return []model.BreakdownStep{
		{
			Step:        1,
			Description: "Total capital gain from all transactions",
			Calculation: "Sum of all gains and losses",
			Amount:      calc.TotalCapitalGain,
		},
		{
			Step:        2,
			Description: "Less: annual exclusion",
			Calculation: fmt.Sprintf("R%s - R%s", calc.TotalCapitalGain.StringFixed(2), c.cfg.AnnualExclusion.StringFixed(2)),
			Amount:      calc.NetCapitalGain,
		},
		{
			Step:        3,
			Description: fmt.Sprintf("Apply inclusion rate (%s%%)", ratePct.String()),
			Calculation: fmt.Sprintf("R%s x %s%%", calc.NetCapitalGain.StringFixed(2), ratePct.String()),
			Amount:      calc.TaxableCapitalGain,
		},
		{
			Step:        4,
			Description: "Taxable capital gain",
			Calculation: "Report this amount on your SARS tax return",
			Amount:      calc.TaxableCapitalGain,
			Note:        "Add this to your taxable income. SARS calculates the final tax from your total income and bracket.",
		},
	}
}
