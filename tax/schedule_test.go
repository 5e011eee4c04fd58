package tax_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/criptax/criptax/optdec"
	"github.com/criptax/criptax/tax"
)

func TestDefaultScheduleIsValid(t *testing.T) {
	rq := require.New(t)
	sched := tax.DefaultSchedule()
	rq.Nil(sched.Validate())
	rq.Len(sched.Brackets, 4)
	rq.True(sched.Brackets[3].UpTo.IsNull)
}

func TestLoadScheduleYaml(t *testing.T) {
	rq := require.New(t)

	yamlText := `
brackets:
  - threshold: 6000
    rate: 0.19
  - threshold: 50000
    rate: 0.21
  - threshold: inf
    rate: 0.23
`
	sched, err := tax.LoadScheduleYaml([]byte(yamlText))
	rq.Nil(err)
	rq.Len(sched.Brackets, 3)
	rq.Equal("6000", sched.Brackets[0].UpTo.String())
	rq.Equal("0.19", sched.Brackets[0].Rate.String())
	rq.True(sched.Brackets[2].UpTo.IsNull)

	// An omitted threshold also means unbounded.
	yamlText = `
brackets:
  - threshold: 1000
    rate: 0.1
  - rate: 0.2
`
	sched, err = tax.LoadScheduleYaml([]byte(yamlText))
	rq.Nil(err)
	rq.True(sched.Brackets[1].UpTo.IsNull)
}

func TestLoadScheduleYamlRejectsBadInput(t *testing.T) {
	rq := require.New(t)

	for name, yamlText := range map[string]string{
		"not yaml":     "{{{",
		"bad rate":     "brackets:\n  - threshold: 100\n    rate: abc\n",
		"no brackets":  "brackets: []\n",
		"bounded last": "brackets:\n  - threshold: 100\n    rate: 0.1\n",
	} {
		_, err := tax.LoadScheduleYaml([]byte(yamlText))
		rq.True(errors.Is(err, tax.ErrInvalidBracketSchedule), "case %q", name)
	}
}

func TestValidateRejectsMalformedSchedules(t *testing.T) {
	rq := require.New(t)

	mk := func(brackets ...tax.Bracket) *tax.Schedule {
		return &tax.Schedule{Brackets: brackets}
	}
	unbounded := func(rate string) tax.Bracket {
		return tax.Bracket{UpTo: optdec.Null, Rate: dec(rate)}
	}
	bounded := func(upTo int64, rate string) tax.Bracket {
		return tax.Bracket{UpTo: optdec.NewFromInt(upTo), Rate: dec(rate)}
	}

	// Case: empty
	rq.True(errors.Is(mk().Validate(), tax.ErrInvalidBracketSchedule))

	// Case: rate out of range
	rq.NotNil(mk(unbounded("1.5")).Validate())
	rq.NotNil(mk(unbounded("-0.1")).Validate())

	// Case: unbounded bracket before the last
	rq.NotNil(mk(unbounded("0.1"), unbounded("0.2")).Validate())

	// Case: thresholds not strictly ascending
	rq.NotNil(mk(bounded(100, "0.1"), bounded(100, "0.2"), unbounded("0.3")).Validate())
	rq.NotNil(mk(bounded(100, "0.1"), bounded(50, "0.2"), unbounded("0.3")).Validate())

	// Case: last bracket bounded leaves [upTo, inf) uncovered
	rq.NotNil(mk(bounded(100, "0.1")).Validate())

	// Valid single unbounded bracket is a flat tax.
	rq.Nil(mk(unbounded("0.19")).Validate())
}
