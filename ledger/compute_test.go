package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/criptax/criptax/date"
	"github.com/criptax/criptax/ledger"
	"github.com/criptax/criptax/optdec"
	"github.com/criptax/criptax/price"
)

func rec(asset string, kind ledger.RecordKind, qty, unitValue, fee string,
	d date.Date, idx uint32) *ledger.Record {

	uv := optdec.Null
	if unitValue != "" {
		uv = optdec.RequireFromString(unitValue)
	}
	return &ledger.Record{
		Asset:     asset,
		Kind:      kind,
		Quantity:  dec(qty),
		UnitValue: uv,
		Fee:       dec(fee),
		Date:      d,
		SourceID:  "r",
		ReadIndex: idx,
	}
}

func noPrices() price.Resolver {
	return &price.StaticResolver{Prices: map[string]decimal.Decimal{}}
}

func TestComputeRunBasicGain(t *testing.T) {
	rq := require.New(t)

	recs := []*ledger.Record{
		rec("btc", ledger.BUY, "1", "100", "0", mkDate(1), 0),
		rec("btc", ledger.BUY, "1", "200", "0", mkDate(2), 1),
		rec("btc", ledger.SELL, "1.5", "300", "0", mkDate(10), 2),
	}
	result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
	rq.Len(result.Disposals, 1)
	rq.Equal("250", result.Disposals[0].Gain.String())
	rq.Equal("250", result.NetGain(0).String())
	rq.Empty(result.Diagnostics)
	rq.Equal("0.5", result.Ledger.Holdings("btc").String())
}

func TestComputeRunBuyFeeFoldsIntoBasis(t *testing.T) {
	rq := require.New(t)

	// Buying 2 units @ 100 with fee 10 makes the unit basis 105, so a
	// later sale at 105 breaks exactly even.
	recs := []*ledger.Record{
		rec("btc", ledger.BUY, "2", "100", "10", mkDate(1), 0),
		rec("btc", ledger.SELL, "2", "105", "0", mkDate(5), 1),
	}
	result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
	rq.Len(result.Disposals, 1)
	rq.True(result.Disposals[0].Gain.IsZero())
}

func TestComputeRunSortsByDateNotInputOrder(t *testing.T) {
	rq := require.New(t)

	// The sell arrives first in the slice but dates after the buy.
	recs := []*ledger.Record{
		rec("btc", ledger.SELL, "1", "200", "0", mkDate(10), 0),
		rec("btc", ledger.BUY, "1", "100", "0", mkDate(1), 1),
	}
	result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
	rq.Empty(result.Diagnostics)
	rq.Equal("100", result.NetGain(0).String())
}

func TestComputeRunIncomeOpensLot(t *testing.T) {
	rq := require.New(t)

	// A staking reward is income at market value, and selling it later
	// only taxes the price movement above that basis.
	recs := []*ledger.Record{
		rec("eth", ledger.STAKING_REWARD, "2", "100", "0", mkDate(1), 0),
		rec("eth", ledger.SELL, "2", "120", "0", mkDate(20), 1),
	}
	result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
	rq.Equal("200", result.Income.Staking.String())
	rq.Len(result.Disposals, 1)
	rq.Equal("40", result.Disposals[0].Gain.String())
}

func TestComputeRunResolvesMissingPricesViaResolver(t *testing.T) {
	rq := require.New(t)

	resolver := &price.StaticResolver{Prices: map[string]decimal.Decimal{
		"eth": dec("100"),
	}}
	recs := []*ledger.Record{
		rec("eth", ledger.AIRDROP, "3", "", "0", mkDate(1), 0),
		rec("doge", ledger.AIRDROP, "100", "", "0", mkDate(2), 1),
	}
	result := ledger.ComputeRun(recs, resolver, ledger.ComputeOptions{})
	rq.Equal("300", result.Income.Airdrops.String())
	rq.Len(result.Diagnostics, 1)
	rq.Equal("doge", result.Diagnostics[0].Asset)
	rq.True(errors.Is(result.Diagnostics[0].Err, price.ErrMissingPrice))
}

func TestComputeRunOversoldKeepsPartial(t *testing.T) {
	rq := require.New(t)

	recs := []*ledger.Record{
		rec("btc", ledger.BUY, "1", "100", "0", mkDate(1), 0),
		rec("btc", ledger.SELL, "2", "300", "0", mkDate(5), 1),
	}
	result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
	// The partial disposal still counts toward the run.
	rq.Len(result.Disposals, 1)
	rq.Equal("200", result.Disposals[0].Gain.String())
	rq.True(result.Disposals[0].IsOversold())
	rq.Len(result.Diagnostics, 1)
	rq.True(errors.Is(result.Diagnostics[0].Err, ledger.ErrInsufficientBasis))
}

func TestComputeRunYearFilter(t *testing.T) {
	rq := require.New(t)

	d23 := date.New(2023, time.June, 1)
	d24 := date.New(2024, time.June, 1)
	recs := []*ledger.Record{
		rec("btc", ledger.BUY, "2", "100", "0", date.New(2023, time.January, 1), 0),
		rec("btc", ledger.SELL, "1", "150", "0", d23, 1),
		rec("btc", ledger.SELL, "1", "300", "0", d24, 2),
		rec("eth", ledger.INTEREST, "1", "50", "0", d23, 3),
		rec("eth", ledger.INTEREST, "1", "80", "0", d24, 4),
		rec("btc", ledger.FEE_ONLY, "1", "", "5", d23, 5),
		rec("btc", ledger.FEE_ONLY, "1", "", "7", d24, 6),
	}

	result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{Year: 2024})
	// Lots opened in 2023 still back the 2024 sale.
	rq.Equal("200", result.NetGain(2024).String())
	rq.Equal("80", result.Income.Interest.String())
	rq.Equal("7", result.OtherFees.String())
	// Detail keeps every year for the report.
	rq.Len(result.IncomeDetail, 2)

	// Year 0 covers everything.
	result = ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
	rq.Equal("250", result.NetGain(0).String())
	rq.Equal("130", result.Income.Interest.String())
	rq.Equal("12", result.OtherFees.String())
}

func TestComputeRunNoKindDiagnosed(t *testing.T) {
	rq := require.New(t)

	recs := []*ledger.Record{
		{Asset: "btc", Quantity: dec("1"), Date: mkDate(1), SourceID: "x"},
	}
	result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
	rq.Empty(result.Disposals)
	rq.Len(result.Diagnostics, 1)
}

func TestComputeRunIsDeterministic(t *testing.T) {
	rq := require.New(t)

	recs := []*ledger.Record{
		rec("btc", ledger.BUY, "1.5", "100", "2", mkDate(1), 0),
		rec("eth", ledger.STAKING_REWARD, "2", "50", "0", mkDate(2), 1),
		rec("btc", ledger.SELL, "1", "250", "1", mkDate(3), 2),
		rec("eth", ledger.SELL, "1", "70", "0", mkDate(4), 3),
	}

	run := func() ([]string, string) {
		result := ledger.ComputeRun(recs, noPrices(), ledger.ComputeOptions{})
		gains := make([]string, 0, len(result.Disposals))
		for _, d := range result.Disposals {
			gains = append(gains, d.Gain.String())
		}
		return gains, result.Income.Total().String()
	}

	gains1, income1 := run()
	gains2, income2 := run()
	rq.Empty(cmp.Diff(gains1, gains2))
	rq.Equal(income1, income2)
}
