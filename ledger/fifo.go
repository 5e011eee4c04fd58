package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/date"
	"github.com/criptax/criptax/log"
	"github.com/criptax/criptax/util"
)

// Ledger holds, per asset, the queue of open lots in acquisition order.
// It is an explicit value owned by a single computation run: construct one
// with NewLedger, feed it the run's records, discard it. No process-wide
// state is kept.
type Ledger struct {
	lots map[string][]*Lot
}

func NewLedger() *Ledger {
	return &Ledger{lots: make(map[string][]*Lot)}
}

// RecordAcquisition appends a new lot to the asset's queue. The unit basis
// must already include the attributable acquisition fee.
func (l *Ledger) RecordAcquisition(
	asset string, quantity decimal.Decimal, unitBasis decimal.Decimal,
	acquiredAt date.Date, readIdx uint32) error {

	if !quantity.IsPositive() {
		return fmt.Errorf("acquisition of %s %s on %s: %w",
			quantity, asset, acquiredAt, ErrInvalidQuantity)
	}
	l.lots[asset] = append(l.lots[asset], &Lot{
		Asset:         asset,
		Remaining:     quantity,
		UnitBasis:     unitBasis,
		AcquiredAt:    acquiredAt,
		AcquiredIndex: readIdx,
	})
	return nil
}

// RecordDisposal consumes rec.Quantity of rec.Asset from the front of the
// lot queue, oldest lot first, and returns the per-lot matches and the
// total gain. unitProceeds is the resolved sale price per unit.
//
// When the queue runs dry before the full quantity is matched, the partial
// Disposal computed so far is returned together with ErrInsufficientBasis;
// its Oversold field carries the unmatched quantity. The disposal fee is
// prorated across slices by quantity, so the oversold remainder's share of
// the fee is never applied.
func (l *Ledger) RecordDisposal(rec *Record, unitProceeds decimal.Decimal) (*Disposal, error) {
	if !rec.Quantity.IsPositive() {
		return nil, fmt.Errorf("disposal of %s %s on %s: %w",
			rec.Quantity, rec.Asset, rec.Date, ErrInvalidQuantity)
	}

	queue := l.lots[rec.Asset]
	outstanding := rec.Quantity
	matches := make([]LotMatch, 0, 1)
	basisTotal := decimal.Zero
	matchedTotal := decimal.Zero

	for outstanding.IsPositive() && len(queue) > 0 {
		lot := queue[0]
		take := util.MinDecimal(lot.Remaining, outstanding)
		log.Tracef("fifo", "%s sell on %s takes %s from lot of %s (basis %s)",
			rec.Asset, rec.Date, take, lot.AcquiredAt, lot.UnitBasis)
		sliceProceeds := take.Mul(unitProceeds)
		sliceFee := rec.Fee.Mul(take).Div(rec.Quantity)
		matches = append(matches, LotMatch{
			AcquiredAt:  lot.AcquiredAt,
			Quantity:    take,
			UnitBasis:   lot.UnitBasis,
			Proceeds:    sliceProceeds,
			Gain:        sliceProceeds.Sub(take.Mul(lot.UnitBasis)).Sub(sliceFee),
			HoldingDays: lot.AcquiredAt.DaysUntil(rec.Date),
		})
		basisTotal = basisTotal.Add(take.Mul(lot.UnitBasis))
		matchedTotal = matchedTotal.Add(take)
		outstanding = outstanding.Sub(take)

		lot.Remaining = lot.Remaining.Sub(take)
		if lot.Remaining.IsZero() {
			queue = queue[1:]
		}
	}
	l.lots[rec.Asset] = queue

	proceeds := matchedTotal.Mul(unitProceeds)
	// A single division for the matched fee share keeps the disposal-level
	// gain free of per-slice rounding accumulation.
	feeApplied := rec.Fee.Mul(matchedTotal).Div(rec.Quantity)
	disposal := &Disposal{
		Record:    rec,
		Matches:   matches,
		Proceeds:  proceeds,
		CostBasis: basisTotal,
		Fee:       rec.Fee,
		Gain:      proceeds.Sub(basisTotal).Sub(feeApplied),
		Oversold:  outstanding,
	}

	if outstanding.IsPositive() {
		return disposal, fmt.Errorf(
			"disposal of %s %s on %s exceeds recorded holdings by %s: %w",
			rec.Quantity, rec.Asset, rec.Date, outstanding, ErrInsufficientBasis)
	}
	return disposal, nil
}

// Holdings returns the total remaining quantity across the asset's open
// lots.
func (l *Ledger) Holdings(asset string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots[asset] {
		total = total.Add(lot.Remaining)
	}
	return total
}

// OpenLots returns copies of the asset's open lots, oldest first.
func (l *Ledger) OpenLots(asset string) []Lot {
	lots := make([]Lot, 0, len(l.lots[asset]))
	for _, lot := range l.lots[asset] {
		lots = append(lots, *lot)
	}
	return lots
}

// Assets returns every asset which currently has open lots.
func (l *Ledger) Assets() []string {
	assets := make([]string, 0, len(l.lots))
	for asset, queue := range l.lots {
		if len(queue) > 0 {
			assets = append(assets, asset)
		}
	}
	return assets
}
