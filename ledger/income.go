package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/optdec"
	"github.com/criptax/criptax/price"
)

// IncomeTotals holds the reporting-currency sums of passive income events
// for the run, per category.
type IncomeTotals struct {
	Staking  decimal.Decimal
	Airdrops decimal.Decimal
	Interest decimal.Decimal
}

func NewIncomeTotals() *IncomeTotals {
	return &IncomeTotals{
		Staking:  decimal.Zero,
		Airdrops: decimal.Zero,
		Interest: decimal.Zero,
	}
}

func (t *IncomeTotals) Total() decimal.Decimal {
	return t.Staking.Add(t.Airdrops).Add(t.Interest)
}

// IncomeEntry is one valued income event, for the detail report.
type IncomeEntry struct {
	Record *Record
	// Value = quantity x resolved unit price, in the reporting currency.
	Value decimal.Decimal
}

// IncomeAggregator classifies passive income records and sums their
// reporting-currency value. Records whose price cannot be resolved are
// collected as diagnostics; aggregation continues for the rest.
type IncomeAggregator struct {
	totals  *IncomeTotals
	entries []IncomeEntry
	diags   []Diagnostic
}

func NewIncomeAggregator() *IncomeAggregator {
	return &IncomeAggregator{totals: NewIncomeTotals()}
}

// Add values rec and adds it to its category total. Returns the resolved
// value. Non-income kinds are rejected outright; a missing price is
// recorded as a diagnostic and reported via the error.
func (a *IncomeAggregator) Add(rec *Record, resolver price.Resolver) (decimal.Decimal, error) {
	if !rec.Kind.IsIncome() {
		return decimal.Zero, fmt.Errorf(
			"record %s is a %s, not an income event", rec.SourceID, rec.Kind)
	}
	if !rec.Quantity.IsPositive() {
		err := fmt.Errorf("income of %s %s on %s: %w",
			rec.Quantity, rec.Asset, rec.Date, ErrInvalidQuantity)
		a.diags = append(a.diags, diagnose(rec, err))
		return decimal.Zero, err
	}

	unitValue := rec.UnitValue
	if unitValue.IsNull {
		resolved, err := resolver.Resolve(rec.Asset, rec.Date)
		if err != nil {
			a.diags = append(a.diags, diagnose(rec, err))
			return decimal.Zero, err
		}
		unitValue = optdec.New(resolved)
	}

	value := rec.Quantity.Mul(unitValue.Decimal)
	switch rec.Kind {
	case STAKING_REWARD:
		a.totals.Staking = a.totals.Staking.Add(value)
	case AIRDROP:
		a.totals.Airdrops = a.totals.Airdrops.Add(value)
	case INTEREST:
		a.totals.Interest = a.totals.Interest.Add(value)
	}
	a.entries = append(a.entries, IncomeEntry{Record: rec, Value: value})
	return value, nil
}

func (a *IncomeAggregator) Totals() *IncomeTotals {
	return a.totals
}

func (a *IncomeAggregator) Entries() []IncomeEntry {
	return a.entries
}

// Diagnostics returns the per-record failures seen so far.
func (a *IncomeAggregator) Diagnostics() []Diagnostic {
	return a.diags
}
