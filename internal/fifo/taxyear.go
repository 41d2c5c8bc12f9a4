// Package fifo implements the FIFO capital-gains engine: SARS tax-year
// partitioning, per-asset lot queues, oldest-first disposal matching and the
// carry-forward of unsold lots across tax-year boundaries.
package fifo

import (
	"sort"
	"time"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

// TaxYearOf maps a date to its SARS tax year. A tax year runs from 1 March of
// year Y to the last day of February of Y+1 and is labeled Y, so January and
// February dates belong to the previous calendar year's tax year.
func TaxYearOf(d time.Time) int {
	if d.Month() >= time.March {
		return d.Year()
	}
	return d.Year() - 1
}

// Period returns the inclusive date range of the given tax year. The end date
// is the last day of February of the following calendar year, 29 February
// when that year is a leap year.
func Period(taxYear int) model.Period {
	start := time.Date(taxYear, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(taxYear+1, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return model.Period{Start: start, End: end}
}

// Status classifies taxYear relative to the tax year containing now.
func Status(taxYear int, now time.Time) model.TaxYearStatus {
	current := TaxYearOf(now)
	switch {
	case taxYear < current:
		return model.StatusPrevious
	case taxYear > current:
		return model.StatusFuture
	default:
		return model.StatusCurrent
	}
}

// GroupByTaxYear partitions transactions by SARS tax year, preserving the
// input order inside each group. A transaction without a usable date aborts
// the grouping; silently skipping it would mis-state gains.
func GroupByTaxYear(transactions []model.Transaction) (map[int][]model.Transaction, error) {
	grouped := make(map[int][]model.Transaction)
	for i, tx := range transactions {
		if tx.Date.IsZero() {
			return nil, &apperrors.InvalidDateError{Index: i}
		}
		year := TaxYearOf(tx.Date)
		grouped[year] = append(grouped[year], tx)
	}
	return grouped, nil
}

// sortedYears returns the map keys in ascending order. The coordinator always
// iterates this list itself; processing a later year before an earlier one
// would corrupt FIFO ordering.
func sortedYears(grouped map[int][]model.Transaction) []int {
	years := make([]int, 0, len(grouped))
	for year := range grouped {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
