package util

import (
	"github.com/shopspring/decimal"
)

func MinDecimal(val0 decimal.Decimal, vals ...decimal.Decimal) decimal.Decimal {
	min := val0
	for _, v := range vals {
		if v.LessThan(min) {
			min = v
		}
	}
	return min
}

func MaxDecimal(val0 decimal.Decimal, vals ...decimal.Decimal) decimal.Decimal {
	max := val0
	for _, v := range vals {
		if v.GreaterThan(max) {
			max = v
		}
	}
	return max
}
