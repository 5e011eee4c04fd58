package tax

import (
	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/optdec"
	"github.com/criptax/criptax/util"
)

// LossPolicy decides what a net capital loss may offset. The regime
// modeled here does not settle this, so it is configuration rather than a
// hard-coded rule.
type LossPolicy int

const (
	// LossesSeparate floors the gains base at zero and reports the loss
	// separately; income is taxed in full.
	LossesSeparate LossPolicy = iota
	// LossesOffsetIncome applies the net loss against the income base
	// first; only what remains is reported as residual loss.
	LossesOffsetIncome
)

func (p LossPolicy) String() string {
	if p == LossesOffsetIncome {
		return "losses offset income"
	}
	return "losses reported separately"
}

// BracketTax is one row of a marginal-bracket breakdown.
type BracketTax struct {
	UpTo    optdec.DecOpt
	Rate    decimal.Decimal
	Portion decimal.Decimal
	Tax     decimal.Decimal
}

// BaseTax is the progressive tax over a single base amount.
type BaseTax struct {
	Base     decimal.Decimal
	Brackets []BracketTax
	Total    decimal.Decimal
}

// Summary combines the gains and income bases into the estimated
// liability. A pure value object: safe to hand downstream.
type Summary struct {
	// NetGain is the raw gains total, before fee deduction and flooring.
	NetGain decimal.Decimal
	// OtherFees are standalone FeeOnly records, deducted from the gains
	// base.
	OtherFees decimal.Decimal
	// GainsBase is max(0, NetGain - OtherFees).
	GainsBase decimal.Decimal
	// ResidualLoss is the loss left after flooring (and, under
	// LossesOffsetIncome, after reducing the income base). Reported
	// separately, never silently discarded: carry-forward is the filer's
	// decision.
	ResidualLoss decimal.Decimal
	IncomeBase   decimal.Decimal
	Policy       LossPolicy
	GainsTax     BaseTax
	IncomeTax    BaseTax
	TotalTax     decimal.Decimal
}

// applySchedule runs the classic marginal walk: for each bracket in
// ascending order, tax the portion of base within it, until the base is
// exhausted. Negative bases produce zero tax.
func applySchedule(base decimal.Decimal, sched *Schedule) BaseTax {
	result := BaseTax{Base: base, Total: decimal.Zero}
	remaining := util.MaxDecimal(base, decimal.Zero)
	lower := decimal.Zero

	for _, b := range sched.Brackets {
		if !remaining.IsPositive() {
			break
		}
		portion := remaining
		if !b.UpTo.IsNull {
			width := b.UpTo.Decimal.Sub(lower)
			portion = util.MinDecimal(remaining, width)
			lower = b.UpTo.Decimal
		}
		tax := portion.Mul(b.Rate)
		result.Brackets = append(result.Brackets, BracketTax{
			UpTo:    b.UpTo,
			Rate:    b.Rate,
			Portion: portion,
			Tax:     tax,
		})
		result.Total = result.Total.Add(tax)
		remaining = remaining.Sub(portion)
	}
	return result
}

// EstimateTax produces the Summary for one run. The schedule is validated
// up front; a broken schedule aborts the estimate before any computation.
func EstimateTax(
	netGain decimal.Decimal, income decimal.Decimal, otherFees decimal.Decimal,
	sched *Schedule, policy LossPolicy) (*Summary, error) {

	if err := sched.Validate(); err != nil {
		return nil, err
	}

	gains := netGain.Sub(otherFees)
	gainsBase := util.MaxDecimal(gains, decimal.Zero)
	residualLoss := util.MaxDecimal(gains.Neg(), decimal.Zero)
	incomeBase := util.MaxDecimal(income, decimal.Zero)

	if policy == LossesOffsetIncome && residualLoss.IsPositive() {
		offset := util.MinDecimal(residualLoss, incomeBase)
		incomeBase = incomeBase.Sub(offset)
		residualLoss = residualLoss.Sub(offset)
	}

	summary := &Summary{
		NetGain:      netGain,
		OtherFees:    otherFees,
		GainsBase:    gainsBase,
		ResidualLoss: residualLoss,
		IncomeBase:   incomeBase,
		Policy:       policy,
		GainsTax:     applySchedule(gainsBase, sched),
		IncomeTax:    applySchedule(incomeBase, sched),
	}
	summary.TotalTax = summary.GainsTax.Total.Add(summary.IncomeTax.Total)
	return summary, nil
}
