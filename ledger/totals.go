package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/util"
)

// CumulativeGains aggregates realized disposal gains, overall and per
// calendar year of the sale date.
type CumulativeGains struct {
	Total      decimal.Decimal
	YearTotals map[int]decimal.Decimal
}

func (g *CumulativeGains) YearTotalsKeysSorted() []int {
	years := util.MapKeys(g.YearTotals)
	sort.Ints(years)
	return years
}

func CalcCumulativeGains(disposals []*Disposal) *CumulativeGains {
	total := decimal.Zero
	yearTotals := util.NewDefaultMap[int, decimal.Decimal](
		func(_ int) decimal.Decimal { return decimal.Zero })

	for _, d := range disposals {
		total = total.Add(d.Gain)
		year := d.Record.Date.Year()
		yearTotals.Set(year, yearTotals.Get(year).Add(d.Gain))
	}

	gains := &CumulativeGains{Total: total, YearTotals: map[int]decimal.Decimal{}}
	yearTotals.ForEach(func(year int, g decimal.Decimal) bool {
		gains.YearTotals[year] = g
		return true
	})
	return gains
}

// MergeCumulativeGains combines per-asset gains into run-wide totals.
func MergeCumulativeGains(assetGains map[string]*CumulativeGains) *CumulativeGains {
	total := decimal.Zero
	yearTotals := map[int]decimal.Decimal{}

	for _, gains := range assetGains {
		total = total.Add(gains.Total)
		for year, yearGain := range gains.YearTotals {
			soFar, ok := yearTotals[year]
			if !ok {
				soFar = decimal.Zero
			}
			yearTotals[year] = soFar.Add(yearGain)
		}
	}
	return &CumulativeGains{Total: total, YearTotals: yearTotals}
}
