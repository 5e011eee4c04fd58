package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/date"
	"github.com/criptax/criptax/optdec"
)

type RecordKind int

const (
	NO_KIND RecordKind = iota
	BUY
	SELL
	STAKING_REWARD
	AIRDROP
	INTEREST
	FEE_ONLY
)

func (k RecordKind) String() string {
	switch k {
	case BUY:
		return "Buy"
	case SELL:
		return "Sell"
	case STAKING_REWARD:
		return "StakingReward"
	case AIRDROP:
		return "Airdrop"
	case INTEREST:
		return "Interest"
	case FEE_ONLY:
		return "FeeOnly"
	default:
		return "<invalid kind>"
	}
}

func ParseRecordKind(data string) (RecordKind, error) {
	switch strings.TrimSpace(strings.ToLower(data)) {
	case "buy":
		return BUY, nil
	case "sell":
		return SELL, nil
	case "stakingreward", "staking-reward", "staking", "reward":
		return STAKING_REWARD, nil
	case "airdrop":
		return AIRDROP, nil
	case "interest":
		return INTEREST, nil
	case "feeonly", "fee-only", "fee":
		return FEE_ONLY, nil
	default:
		return NO_KIND, fmt.Errorf("Invalid record kind: '%s'", data)
	}
}

// IsIncome reports whether the kind is a passive income event (received
// value which is not a disposal consideration).
func (k RecordKind) IsIncome() bool {
	switch k {
	case STAKING_REWARD, AIRDROP, INTEREST:
		return true
	}
	return false
}

// IsAcquisition reports whether the kind increases holdings and thus opens
// a lot. Income events open lots at their market-value basis.
func (k RecordKind) IsAcquisition() bool {
	return k == BUY || k.IsIncome()
}

// Record is one normalized transaction event, as produced by the external
// transaction normalizer. Quantities and fees are already decimal and unit
// values are already in the reporting currency.
type Record struct {
	Asset    string
	Kind     RecordKind
	Quantity decimal.Decimal
	// UnitValue is the reporting-currency value per unit of Asset at the
	// record's date: the cost for acquisitions, the proceeds for disposals,
	// the market value for income. Null means it must be resolved via the
	// price resolver.
	UnitValue optdec.DecOpt
	// Fee in the reporting currency.
	Fee  decimal.Decimal
	Date date.Date
	// SourceID traces back to the originating raw export row.
	SourceID string
	// ReadIndex is the ingestion sequence number, used as the stable
	// tie-breaker when two records share a date.
	ReadIndex uint32
}

// Lot is an open quantity of an asset acquired at a known basis.
// Ledger-internal: consumers only ever see copies.
type Lot struct {
	Asset string
	// Remaining is always > 0 while the lot is queued; it only shrinks.
	Remaining decimal.Decimal
	// UnitBasis is the acquisition cost per unit, inclusive of the
	// attributable acquisition fee.
	UnitBasis  decimal.Decimal
	AcquiredAt date.Date
	// Insertion tie-breaker for same-day acquisitions.
	AcquiredIndex uint32
}

// LotMatch is one slice of a disposal, matched against a single lot.
type LotMatch struct {
	AcquiredAt date.Date
	Quantity   decimal.Decimal
	UnitBasis  decimal.Decimal
	// Proceeds attributable to this slice (quantity x unit proceeds).
	Proceeds decimal.Decimal
	// Gain for the slice, net of its prorated share of the disposal fee.
	Gain decimal.Decimal
	// Days between acquisition and disposal. Advisory only: the savings
	// regime modeled here does not distinguish holding periods.
	HoldingDays int
}

// Disposal is the result of matching one sell record against the open
// lots of its asset, oldest first.
type Disposal struct {
	Record    *Record
	Matches   []LotMatch
	Proceeds  decimal.Decimal
	CostBasis decimal.Decimal
	Fee       decimal.Decimal
	// Gain = Proceeds - CostBasis - the fee share of the matched quantity.
	Gain decimal.Decimal
	// Oversold is the quantity which could not be matched because the lot
	// queue ran dry. Zero for a fully-matched disposal.
	Oversold decimal.Decimal
}

func (d *Disposal) IsOversold() bool {
	return d.Oversold.IsPositive()
}

// SortRecords orders records by date, breaking ties by ingestion order.
// The input slice is modified and returned.
func SortRecords(recs []*Record) []*Record {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Date.Equal(recs[j].Date) {
			return recs[i].ReadIndex < recs[j].ReadIndex
		}
		return recs[i].Date.Before(recs[j].Date)
	})
	return recs
}

func SplitRecordsByAsset(recs []*Record) map[string][]*Record {
	recsByAsset := make(map[string][]*Record)
	for _, rec := range recs {
		recsByAsset[rec.Asset] = append(recsByAsset[rec.Asset], rec)
	}
	return recsByAsset
}
