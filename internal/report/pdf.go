// Package report renders a calculation result as a PDF document suitable for
// attaching to a SARS provisional tax submission.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
)

const (
	fontFamily = "Helvetica"
	pageMargin = 15.0
	lineHeight = 6.0
)

// Generate renders the full per-tax-year calculation as a PDF and returns the
// document bytes.
func Generate(result *model.CalculationResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	writeTitle(pdf, result)
	writeOverallSummary(pdf, result.OverallSummary)

	for i := range result.TaxYears {
		writeTaxYear(pdf, &result.TaxYears[i])
	}

	writeDisclaimer(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTitle(pdf *fpdf.Fpdf, result *model.CalculationResult) {
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, "Crypto Capital Gains Tax Report", "", 1, "C", false, 0, "")

	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, fmt.Sprintf("Session %s", result.SessionID), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

func writeOverallSummary(pdf *fpdf.Fpdf, summary model.OverallSummary) {
	sectionHeading(pdf, "Overall Summary")

	rows := [][2]string{
		{"Tax years covered", fmt.Sprintf("%d (%d - %d)", summary.TotalYears, summary.EarliestTaxYear, summary.LatestTaxYear)},
		{"Total transactions", fmt.Sprintf("%d", summary.TotalTransactions)},
		{"Total capital gain (all years)", zar(summary.TotalCapitalGainAllYears)},
		{"Total taxable capital gain", zar(summary.TotalTaxableAllYears)},
		{"Annual exclusions applied", zar(summary.TotalExclusionsApplied)},
		{"Years with a taxable gain", fmt.Sprintf("%d", summary.YearsWithTaxableGain)},
		{"Years fully covered by the exclusion", fmt.Sprintf("%d", summary.YearsBelowExclusion)},
	}
	keyValueTable(pdf, rows)
	pdf.Ln(4)
}

func writeTaxYear(pdf *fpdf.Fpdf, year *model.TaxYearResult) {
	sectionHeading(pdf, fmt.Sprintf("Tax Year %d (%s to %s)",
		year.TaxYear,
		year.Period.Start.Format("2 Jan 2006"),
		year.Period.End.Format("2 Jan 2006")))

	summary := year.TransactionSummary
	keyValueTable(pdf, [][2]string{
		{"Transactions", fmt.Sprintf("%d (%d buys, %d sells, %d trades)",
			summary.TotalTransactions, summary.Buys, summary.Sells, summary.Trades)},
		{"Total capital gain", zar(year.TotalGain)},
	})
	pdf.Ln(2)

	if len(year.Breakdown) > 0 {
		writeBreakdown(pdf, year.Breakdown)
	}

	for i := range year.Assets {
		writeAsset(pdf, &year.Assets[i])
	}

	if year.Liability != nil {
		writeLiability(pdf, year.Liability)
	}

	pdf.Ln(4)
}

func writeBreakdown(pdf *fpdf.Fpdf, steps []model.BreakdownStep) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(0, lineHeight, "Taxable Gain Calculation", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 9)
	for _, step := range steps {
		pdf.CellFormat(8, lineHeight, fmt.Sprintf("%d.", step.Step), "", 0, "L", false, 0, "")
		pdf.CellFormat(72, lineHeight, step.Description, "", 0, "L", false, 0, "")
		pdf.CellFormat(65, lineHeight, step.Calculation, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, zar(step.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
}

func writeAsset(pdf *fpdf.Fpdf, asset *model.AssetResult) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(0, lineHeight, asset.Asset, "", 1, "L", false, 0, "")

	keyValueTable(pdf, [][2]string{
		{"Carried forward", asset.CarriedForwardQuantity.String()},
		{"Purchased this year", asset.PurchasedThisYear.String()},
		{"Sold this year", asset.SoldThisYear.String()},
		{"Remaining at year end", asset.RemainingQuantity.String()},
		{"Capital gain", zar(asset.TotalGain)},
	})

	if len(asset.Disposals) > 0 {
		writeDisposals(pdf, asset.Disposals)
	}
	pdf.Ln(2)
}

func writeDisposals(pdf *fpdf.Fpdf, disposals []model.Disposal) {
	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetFillColor(235, 235, 235)
	headers := []struct {
		label string
		width float64
	}{
		{"Date", 22},
		{"Type", 16},
		{"Quantity", 28},
		{"Cost (ZAR)", 38},
		{"Proceeds (ZAR)", 38},
		{"Gain (ZAR)", 38},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, lineHeight, h.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 8)
	for _, d := range disposals {
		pdf.CellFormat(22, lineHeight, d.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(16, lineHeight, d.Type, "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, lineHeight, d.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, lineHeight, zar(d.Cost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, lineHeight, zar(d.Revenue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, lineHeight, zar(d.Gain), "1", 1, "R", false, 0, "")
	}
}

func writeLiability(pdf *fpdf.Fpdf, liability *model.LiabilityEstimate) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(0, lineHeight, "Estimated Tax Liability", "", 1, "L", false, 0, "")

	marginal := liability.MarginalRate.Mul(decimal.NewFromInt(100))
	keyValueTable(pdf, [][2]string{
		{"Other taxable income", zar(liability.OtherTaxableIncome)},
		{"Capital gain included in income", zar(liability.AmountIncludedInIncome)},
		{"Estimated additional tax", zar(liability.EstimatedAdditionalTax)},
		{"Marginal rate", fmt.Sprintf("%s%%", marginal.StringFixed(0))},
	})
	pdf.Ln(2)
}

func writeDisclaimer(pdf *fpdf.Fpdf) {
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 4, "This report is an estimate generated from the transactions you provided, "+
		"using the FIFO method and current SARS capital gains parameters. "+
		"It is not tax advice. Verify all figures with a registered tax practitioner before filing.",
		"", "L", false)
	pdf.SetTextColor(0, 0, 0)
}

func sectionHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(fontFamily, "B", 12)
	pdf.SetFillColor(225, 232, 240)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func keyValueTable(pdf *fpdf.Fpdf, rows [][2]string) {
	pdf.SetFont(fontFamily, "", 9)
	for _, row := range rows {
		pdf.CellFormat(80, lineHeight, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, row[1], "", 1, "L", false, 0, "")
	}
}

// zar formats a rand amount with two decimals.
func zar(amount decimal.Decimal) string {
	return "R " + amount.StringFixed(2)
}
