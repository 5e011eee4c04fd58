package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type _PrintHelper struct {
	PrintAllDecimals bool
}

func (h _PrintHelper) CurrStr(val decimal.Decimal) string {
	if h.PrintAllDecimals {
		return val.String()
	}
	return val.StringFixed(2)
}

func (h _PrintHelper) EuroStr(val decimal.Decimal) string {
	return h.CurrStr(val) + " EUR"
}

func (h _PrintHelper) PlusMinusEuro(val decimal.Decimal, showPlus bool) string {
	if val.IsNegative() {
		return fmt.Sprintf("-%s EUR", h.CurrStr(val.Neg()))
	}
	plus := ""
	if showPlus {
		plus = "+"
	}
	return fmt.Sprintf("%s%s EUR", plus, h.CurrStr(val))
}

func strOrDash(useStr bool, str string) string {
	if useStr {
		return str
	}
	return "-"
}

// RenderTable is the renderer-agnostic table model handed to the report
// writers. The assembler formats it; no ledger state leaks through.
type RenderTable struct {
	Header []string
	Rows   [][]string
	Footer []string
	Notes  []string
	Errors []error
}

// lotOriginInfo summarises which lots a disposal consumed, in the form
// qty@acquired-date@unit-basis, matching the detail of the filing report.
func lotOriginInfo(d *Disposal, ph _PrintHelper) string {
	infos := make([]string, 0, len(d.Matches))
	for _, m := range d.Matches {
		infos = append(infos, fmt.Sprintf("%s@%s@%s",
			m.Quantity, m.AcquiredAt, ph.CurrStr(m.UnitBasis)))
	}
	if len(infos) == 0 {
		return "-"
	}
	return strings.Join(infos, "; ")
}

// RenderDisposalsTableModel builds the per-asset disposal table: one row
// per sell, with its FIFO lot origins and realized gain, plus per-year
// gain totals in the footer.
func RenderDisposalsTableModel(
	disposals []*Disposal, gains *CumulativeGains, renderFullValues bool) *RenderTable {

	table := &RenderTable{}
	table.Header = []string{"Asset", "Date", "Quantity", "Proceeds", "Cost Basis",
		"Fee", "Gain (Loss)", "Lot Origins", "Source",
	}

	ph := _PrintHelper{PrintAllDecimals: renderFullValues}

	sawOversold := false
	for _, d := range disposals {
		oversoldAsterix := ""
		if d.IsOversold() {
			oversoldAsterix = fmt.Sprintf(" *\n(no basis for %s)", d.Oversold)
			sawOversold = true
		}
		rec := d.Record
		row := []string{
			rec.Asset,
			rec.Date.String(),
			rec.Quantity.String(),
			ph.EuroStr(d.Proceeds),
			ph.EuroStr(d.CostBasis),
			strOrDash(!d.Fee.IsZero(), ph.EuroStr(d.Fee)),
			ph.PlusMinusEuro(d.Gain, false) + oversoldAsterix,
			lotOriginInfo(d, ph),
			rec.SourceID,
		}
		table.Rows = append(table.Rows, row)
	}

	years := gains.YearTotalsKeysSorted()
	yearStrs := []string{}
	yearValsStrs := []string{}
	for _, year := range years {
		yearStrs = append(yearStrs, fmt.Sprintf("%d", year))
		yearValsStrs = append(yearValsStrs, ph.PlusMinusEuro(gains.YearTotals[year], false))
	}
	totalFooterLabel := "Total"
	totalFooterValsStr := ph.PlusMinusEuro(gains.Total, false)
	if len(years) > 1 {
		totalFooterLabel += "\n" + strings.Join(yearStrs, "\n")
		totalFooterValsStr += "\n" + strings.Join(yearValsStrs, "\n")
	}
	table.Footer = []string{"", "", "", "", "", totalFooterLabel, totalFooterValsStr, "", ""}

	if sawOversold {
		table.Notes = append(table.Notes,
			" * = Disposal exceeded recorded holdings; gain covers the matched quantity only")
	}

	return table
}

// RenderIncomeTableModel builds the passive income detail table with
// per-category totals in the footer.
func RenderIncomeTableModel(
	entries []IncomeEntry, totals *IncomeTotals, renderFullValues bool) *RenderTable {

	table := &RenderTable{}
	table.Header = []string{"Asset", "Date", "Category", "Quantity", "Value", "Source"}

	ph := _PrintHelper{PrintAllDecimals: renderFullValues}

	for _, entry := range entries {
		rec := entry.Record
		table.Rows = append(table.Rows, []string{
			rec.Asset,
			rec.Date.String(),
			rec.Kind.String(),
			rec.Quantity.String(),
			ph.EuroStr(entry.Value),
			rec.SourceID,
		})
	}

	table.Footer = []string{"", "",
		"Staking\nAirdrops\nInterest\nTotal",
		"",
		strings.Join([]string{
			ph.EuroStr(totals.Staking),
			ph.EuroStr(totals.Airdrops),
			ph.EuroStr(totals.Interest),
			ph.EuroStr(totals.Total()),
		}, "\n"),
		"",
	}
	return table
}

// RenderHoldingsTableModel builds the open lot report for the end of the
// run: what remains unsold, and at what basis.
func RenderHoldingsTableModel(led *Ledger, renderFullValues bool) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Asset", "Acquired", "Remaining", "Unit Basis", "Total Basis"}

	ph := _PrintHelper{PrintAllDecimals: renderFullValues}

	assets := led.Assets()
	sort.Strings(assets)
	for _, asset := range assets {
		for _, lot := range led.OpenLots(asset) {
			table.Rows = append(table.Rows, []string{
				asset,
				lot.AcquiredAt.String(),
				lot.Remaining.String(),
				ph.EuroStr(lot.UnitBasis),
				ph.EuroStr(lot.Remaining.Mul(lot.UnitBasis)),
			})
		}
	}
	return table
}

// RenderDiagnosticsNotes formats the skipped/warned record list for
// inclusion in a table's notes.
func RenderDiagnosticsNotes(diags []Diagnostic) []string {
	notes := make([]string, 0, len(diags))
	for _, diag := range diags {
		notes = append(notes, " [!] "+diag.String())
	}
	return notes
}
