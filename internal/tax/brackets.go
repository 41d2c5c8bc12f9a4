package tax

import (
	"github.com/shopspring/decimal"
)

// Bracket is one marginal band of a progressive income-tax table. Income
// above Threshold (up to the next bracket's threshold) is taxed at Rate on
// top of the cumulative Base owed at Threshold.
type Bracket struct {
	Threshold decimal.Decimal `json:"threshold"`
	Base      decimal.Decimal `json:"base"`
	Rate      decimal.Decimal `json:"rate"`
}

// BracketTable is an ascending list of brackets. Tables change every tax
// year, so they are data supplied to the calculator, not constants baked into
// it.
type BracketTable []Bracket

// DefaultBrackets returns the SARS 2025/2026 individual income-tax table.
func DefaultBrackets() BracketTable {
	return BracketTable{
		{Threshold: decimal.Zero, Base: decimal.Zero, Rate: decimal.NewFromFloat(0.18)},
		{Threshold: decimal.NewFromInt(237100), Base: decimal.NewFromInt(42678), Rate: decimal.NewFromFloat(0.26)},
		{Threshold: decimal.NewFromInt(370500), Base: decimal.NewFromInt(77362), Rate: decimal.NewFromFloat(0.31)},
		{Threshold: decimal.NewFromInt(512800), Base: decimal.NewFromInt(121475), Rate: decimal.NewFromFloat(0.33)},
		{Threshold: decimal.NewFromInt(673000), Base: decimal.NewFromInt(174438), Rate: decimal.NewFromFloat(0.36)},
		{Threshold: decimal.NewFromInt(857900), Base: decimal.NewFromInt(262994), Rate: decimal.NewFromFloat(0.39)},
		{Threshold: decimal.NewFromInt(1817000), Base: decimal.NewFromInt(644489), Rate: decimal.NewFromFloat(0.45)},
	}
}

// validate checks that the table is usable: non-empty, starting at zero,
// strictly ascending thresholds, and non-negative, non-decreasing rates.
func (t BracketTable) validate() string {
	if len(t) == 0 {
		return "bracket table is empty"
	}
	if !t[0].Threshold.IsZero() {
		return "first bracket must start at zero"
	}
	for i, b := range t {
		if b.Rate.IsNegative() || b.Base.IsNegative() {
			return "bracket rates and base amounts must be non-negative"
		}
		if i == 0 {
			continue
		}
		if b.Threshold.Cmp(t[i-1].Threshold) <= 0 {
			return "bracket thresholds must be strictly increasing"
		}
		if b.Rate.Cmp(t[i-1].Rate) < 0 {
			return "bracket rates must be non-decreasing"
		}
	}
	return ""
}

// IncomeTax returns the tax owed on the given taxable income. Negative income
// is treated as zero.
func (t BracketTable) IncomeTax(income decimal.Decimal) decimal.Decimal {
	if income.IsNegative() {
		return decimal.Zero
	}
	b := t.bracketFor(income)
	return b.Base.Add(income.Sub(b.Threshold).Mul(b.Rate))
}

// MarginalRate returns the rate applied to the last rand of the given income.
func (t BracketTable) MarginalRate(income decimal.Decimal) decimal.Decimal {
	if income.IsNegative() {
		return t[0].Rate
	}
	return t.bracketFor(income).Rate
}

func (t BracketTable) bracketFor(income decimal.Decimal) Bracket {
	bracket := t[0]
	for _, b := range t[1:] {
		if income.Cmp(b.Threshold) < 0 {
			break
		}
		bracket = b
	}
	return bracket
}
