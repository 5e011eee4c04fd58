package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/price"
)

type ComputeOptions struct {
	// Year restricts which disposals, income events and standalone fees
	// count toward the taxable totals. Zero means no restriction.
	// Acquisitions are never filtered: lots opened before the tax year
	// still back disposals within it.
	Year int
}

// RunResult is the full output of one computation run: immutable value
// objects handed downstream to the estimator and the report assembler.
type RunResult struct {
	// Disposals in record order, including those outside the tax year
	// (their gains are excluded from the year totals, not from the list).
	Disposals    []*Disposal
	Income       *IncomeTotals
	IncomeDetail []IncomeEntry
	// OtherFees is the in-year sum of standalone FeeOnly records.
	OtherFees decimal.Decimal
	// Diagnostics lists every skipped or warned record.
	Diagnostics []Diagnostic
	// Ledger is the end-of-run ledger, for the open holdings report.
	Ledger *Ledger
}

func (r *RunResult) inYear(rec *Record, year int) bool {
	return year == 0 || rec.Date.Year() == year
}

// ComputeRun processes the records in timestamp order (ties by ingestion
// order) through a fresh ledger: acquisitions and income events open lots,
// sells consume them FIFO, income is aggregated per category.
//
// Record-level failures (invalid quantity, missing price, oversold
// disposal) never abort the run; they are collected into Diagnostics and
// the rest of the records are still processed.
func ComputeRun(recs []*Record, resolver price.Resolver, opts ComputeOptions) *RunResult {
	recs = SortRecords(append([]*Record{}, recs...))

	led := NewLedger()
	incomeAgg := NewIncomeAggregator()
	result := &RunResult{
		Income:    incomeAgg.Totals(),
		OtherFees: decimal.Zero,
		Ledger:    led,
	}

	for _, rec := range recs {
		switch {
		case rec.Kind == BUY:
			unitCost, err := resolveUnitValue(rec, resolver)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, diagnose(rec, err))
				continue
			}
			if err := led.RecordAcquisition(
				rec.Asset, rec.Quantity, buyUnitBasis(rec, unitCost),
				rec.Date, rec.ReadIndex); err != nil {
				result.Diagnostics = append(result.Diagnostics, diagnose(rec, err))
			}

		case rec.Kind == SELL:
			unitProceeds, err := resolveUnitValue(rec, resolver)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, diagnose(rec, err))
				continue
			}
			disposal, err := led.RecordDisposal(rec, unitProceeds)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, diagnose(rec, err))
				if !errors.Is(err, ErrInsufficientBasis) {
					continue
				}
				// Oversold: the partial match still counts.
			}
			result.Disposals = append(result.Disposals, disposal)

		case rec.Kind.IsIncome():
			value, err := incomeAgg.Add(rec, resolver)
			if err != nil {
				// Already recorded by the aggregator.
				continue
			}
			// Income received is also an acquisition at its market-value
			// basis, so a later sale of it only taxes the price movement.
			unitBasis := value.Div(rec.Quantity)
			if err := led.RecordAcquisition(
				rec.Asset, rec.Quantity, unitBasis, rec.Date, rec.ReadIndex); err != nil {
				result.Diagnostics = append(result.Diagnostics, diagnose(rec, err))
			}

		case rec.Kind == FEE_ONLY:
			if result.inYear(rec, opts.Year) {
				result.OtherFees = result.OtherFees.Add(rec.Fee)
			}

		default:
			result.Diagnostics = append(result.Diagnostics,
				diagnose(rec, errors.New("record has no kind")))
		}
	}

	// Category totals only count the selected year; detail keeps everything.
	result.IncomeDetail = incomeAgg.Entries()
	if opts.Year != 0 {
		yearTotals := NewIncomeTotals()
		for _, entry := range incomeAgg.Entries() {
			if !result.inYear(entry.Record, opts.Year) {
				continue
			}
			switch entry.Record.Kind {
			case STAKING_REWARD:
				yearTotals.Staking = yearTotals.Staking.Add(entry.Value)
			case AIRDROP:
				yearTotals.Airdrops = yearTotals.Airdrops.Add(entry.Value)
			case INTEREST:
				yearTotals.Interest = yearTotals.Interest.Add(entry.Value)
			}
		}
		result.Income = yearTotals
	}
	result.Diagnostics = append(result.Diagnostics, incomeAgg.Diagnostics()...)

	return result
}

// NetGain sums the disposal gains counting toward the tax year.
func (r *RunResult) NetGain(year int) decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Disposals {
		if r.inYear(d.Record, year) {
			total = total.Add(d.Gain)
		}
	}
	return total
}

func resolveUnitValue(rec *Record, resolver price.Resolver) (decimal.Decimal, error) {
	if !rec.UnitValue.IsNull {
		return rec.UnitValue.Decimal, nil
	}
	return resolver.Resolve(rec.Asset, rec.Date)
}

// buyUnitBasis folds the acquisition fee into the per-unit cost basis.
func buyUnitBasis(rec *Record, unitCost decimal.Decimal) decimal.Decimal {
	if rec.Fee.IsZero() {
		return unitCost
	}
	totalCost := rec.Quantity.Mul(unitCost).Add(rec.Fee)
	return totalCost.Div(rec.Quantity)
}
