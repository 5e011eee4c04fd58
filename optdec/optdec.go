// Package optdec provides a nullable wrapper around shopspring decimals.
// Null propagates through arithmetic, standing in for "value not known"
// (eg. a unit price which still needs resolution).
package optdec

import (
	"github.com/shopspring/decimal"
)

var Zero = DecOpt{Decimal: decimal.Zero}
var Null = DecOpt{IsNull: true}

type DecOpt struct {
	Decimal decimal.Decimal
	IsNull  bool
}

func New(value decimal.Decimal) DecOpt {
	return DecOpt{Decimal: value}
}

func NewFromInt(value int64) DecOpt {
	return DecOpt{Decimal: decimal.NewFromInt(value)}
}

func NewFromFloat(value float64) DecOpt {
	return DecOpt{Decimal: decimal.NewFromFloat(value)}
}

func NewFromString(value string) (DecOpt, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Null, err
	}
	return DecOpt{Decimal: d}, nil
}

func RequireFromString(value string) DecOpt {
	return DecOpt{Decimal: decimal.RequireFromString(value)}
}

func (d DecOpt) Add(d2 DecOpt) DecOpt {
	if d.IsNull || d2.IsNull {
		return Null
	}
	return DecOpt{Decimal: d.Decimal.Add(d2.Decimal)}
}

func (d DecOpt) AddD(d2 decimal.Decimal) DecOpt {
	return d.Add(New(d2))
}

func (d DecOpt) Sub(d2 DecOpt) DecOpt {
	if d.IsNull || d2.IsNull {
		return Null
	}
	return DecOpt{Decimal: d.Decimal.Sub(d2.Decimal)}
}

func (d DecOpt) SubD(d2 decimal.Decimal) DecOpt {
	return d.Sub(New(d2))
}

func (d DecOpt) Mul(d2 DecOpt) DecOpt {
	if d.IsNull || d2.IsNull {
		return Null
	}
	return DecOpt{Decimal: d.Decimal.Mul(d2.Decimal)}
}

func (d DecOpt) MulD(d2 decimal.Decimal) DecOpt {
	return d.Mul(New(d2))
}

// Div returns Null on division by zero, as well as for Null operands.
func (d DecOpt) Div(d2 DecOpt) DecOpt {
	if d.IsNull || d2.IsNull || d2.Decimal.IsZero() {
		return Null
	}
	return DecOpt{Decimal: d.Decimal.Div(d2.Decimal)}
}

func (d DecOpt) DivD(d2 decimal.Decimal) DecOpt {
	return d.Div(New(d2))
}

func (d DecOpt) Neg() DecOpt {
	if d.IsNull {
		return Null
	}
	return DecOpt{Decimal: d.Decimal.Neg()}
}

func (d DecOpt) Equal(d2 DecOpt) bool {
	if d.IsNull || d2.IsNull {
		return d.IsNull == d2.IsNull
	}
	return d.Decimal.Equal(d2.Decimal)
}

func (d DecOpt) GreaterThan(d2 DecOpt) bool {
	if d.IsNull || d2.IsNull {
		return false
	}
	return d.Decimal.GreaterThan(d2.Decimal)
}

func (d DecOpt) LessThan(d2 DecOpt) bool {
	if d.IsNull || d2.IsNull {
		return false
	}
	return d.Decimal.LessThan(d2.Decimal)
}

func (d DecOpt) IsZero() bool {
	return !d.IsNull && d.Decimal.IsZero()
}

func (d DecOpt) IsNegative() bool {
	return !d.IsNull && d.Decimal.IsNegative()
}

func (d DecOpt) IsPositive() bool {
	return !d.IsNull && d.Decimal.IsPositive()
}

// GetOr returns the wrapped decimal, or dflt when Null.
func (d DecOpt) GetOr(dflt decimal.Decimal) decimal.Decimal {
	if d.IsNull {
		return dflt
	}
	return d.Decimal
}

func (d DecOpt) String() string {
	if d.IsNull {
		return "null"
	}
	return d.Decimal.String()
}

func (d DecOpt) StringFixed(places int32) string {
	if d.IsNull {
		return "null"
	}
	return d.Decimal.StringFixed(places)
}
