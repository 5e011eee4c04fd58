package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/ledger"
	"github.com/criptax/criptax/util"
)

func euroStr(val decimal.Decimal, full bool) string {
	return util.Tern(full, val.String(), val.StringFixed(2)) + " EUR"
}

func bracketLabel(b BracketTax) string {
	if b.UpTo.IsNull {
		return "above"
	}
	return "up to " + b.UpTo.String()
}

func appendBaseRows(table *ledger.RenderTable, baseName string, bt BaseTax, full bool) {
	for _, b := range bt.Brackets {
		table.Rows = append(table.Rows, []string{
			baseName,
			bracketLabel(b),
			b.Rate.Mul(decimal.NewFromInt(100)).String() + "%",
			euroStr(b.Portion, full),
			euroStr(b.Tax, full),
		})
	}
	if len(bt.Brackets) == 0 {
		table.Rows = append(table.Rows, []string{baseName, "-", "-", euroStr(decimal.Zero, full), euroStr(decimal.Zero, full)})
	}
}

// RenderSummaryTableModel builds the estimated liability table: one row
// per bracket actually touched, for each of the two bases, with the
// combined estimate in the footer.
func RenderSummaryTableModel(s *Summary, renderFullValues bool) *ledger.RenderTable {
	table := &ledger.RenderTable{}
	table.Header = []string{"Base", "Bracket", "Rate", "Amount In Bracket", "Tax"}

	appendBaseRows(table, "Capital gains", s.GainsTax, renderFullValues)
	appendBaseRows(table, "Passive income", s.IncomeTax, renderFullValues)

	table.Footer = []string{"", "", "",
		"Estimated liability", euroStr(s.TotalTax, renderFullValues)}

	table.Notes = append(table.Notes,
		fmt.Sprintf(" Net capital result: %s (taxable base %s)",
			euroStr(s.NetGain, renderFullValues), euroStr(s.GainsBase, renderFullValues)))
	if s.OtherFees.IsPositive() {
		table.Notes = append(table.Notes,
			fmt.Sprintf(" Standalone fees deducted from gains: %s", euroStr(s.OtherFees, renderFullValues)))
	}
	if s.ResidualLoss.IsPositive() {
		table.Notes = append(table.Notes,
			fmt.Sprintf(" Residual loss not applied to any base: %s (%s). "+
				"Carry-forward is a filing decision, review with an advisor.",
				euroStr(s.ResidualLoss, renderFullValues), s.Policy))
	}
	return table
}
