package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxYearStatus classifies a tax year relative to the current one.
// Informational only; it has no effect on the calculation.
type TaxYearStatus string

const (
	StatusPrevious TaxYearStatus = "previous"
	StatusCurrent  TaxYearStatus = "current"
	StatusFuture   TaxYearStatus = "future"
)

// Period is the inclusive date range of a SARS tax year
// (1 March to the last day of the following February).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TaxYearResult is the FIFO outcome for one SARS tax year.
type TaxYearResult struct {
	TaxYear            int                `json:"taxYear"`
	Period             Period             `json:"period"`
	Status             TaxYearStatus      `json:"status"`
	TransactionSummary TransactionSummary `json:"transactionSummary"`
	TotalGain          decimal.Decimal    `json:"totalGain"`
	Assets             []AssetResult      `json:"assets"`

	// Populated by the tax layer.
	FIFOCalculation *FIFOCalculation   `json:"fifoCalculation,omitempty"`
	Breakdown       []BreakdownStep    `json:"breakdown,omitempty"`
	Liability       *LiabilityEstimate `json:"liability,omitempty"`
}

// FIFOCalculation shows how the taxable capital gain for one year was derived.
type FIFOCalculation struct {
	TotalCapitalGain       decimal.Decimal `json:"totalCapitalGain"`
	AnnualExclusionLimit   decimal.Decimal `json:"annualExclusionLimit"`
	AnnualExclusionApplied decimal.Decimal `json:"annualExclusionApplied"`
	NetCapitalGain         decimal.Decimal `json:"netCapitalGain"`
	InclusionRate          decimal.Decimal `json:"inclusionRate"`
	TaxableCapitalGain     decimal.Decimal `json:"taxableCapitalGain"`
}

// BreakdownStep is one human-readable step of the tax computation.
type BreakdownStep struct {
	Step        int             `json:"step"`
	Description string          `json:"description"`
	Calculation string          `json:"calculation"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
}

// LiabilityEstimate blends the included capital gain with other taxable
// income to estimate the marginal tax owed on the crypto gains.
type LiabilityEstimate struct {
	OtherTaxableIncome     decimal.Decimal `json:"otherTaxableIncome"`
	AmountIncludedInIncome decimal.Decimal `json:"amountIncludedInIncome"`
	EstimatedAdditionalTax decimal.Decimal `json:"estimatedAdditionalTax"`
	MarginalRate           decimal.Decimal `json:"marginalRate"`
}

// OverallSummary rolls all tax years into one view.
type OverallSummary struct {
	TotalYears               int             `json:"totalYears"`
	EarliestTaxYear          int             `json:"earliestTaxYear"`
	LatestTaxYear            int             `json:"latestTaxYear"`
	TotalTransactions        int             `json:"totalTransactions"`
	TotalCapitalGainAllYears decimal.Decimal `json:"totalCapitalGainAllYears"`

	// Populated by the tax layer.
	TotalTaxableAllYears   decimal.Decimal `json:"totalTaxableAllYears"`
	TotalExclusionsApplied decimal.Decimal `json:"totalExclusionsApplied"`
	YearsWithTaxableGain   int             `json:"yearsWithTaxableGain"`
	YearsBelowExclusion    int             `json:"yearsBelowExclusion"`
}

// TaxYearTransactions is the raw transaction listing for one tax year, used
// by the grouped-listing endpoint.
type TaxYearTransactions struct {
	TaxYear      int           `json:"taxYear"`
	Period       Period        `json:"period"`
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions"`
}

// CombinedResult is the single-pass output with no tax-year grouping.
type CombinedResult struct {
	SessionID string          `json:"sessionId"`
	TotalGain decimal.Decimal `json:"totalGain"`
	Assets    []AssetResult   `json:"assets"`

	// Populated by the tax layer.
	FIFOCalculation *FIFOCalculation `json:"fifoCalculation,omitempty"`
	Breakdown       []BreakdownStep  `json:"breakdown,omitempty"`
}

// CalculationResult is the full structured output for one session.
type CalculationResult struct {
	SessionID      string          `json:"sessionId"`
	OverallSummary OverallSummary  `json:"overallSummary"`
	TaxYears       []TaxYearResult `json:"taxYears"`
}
