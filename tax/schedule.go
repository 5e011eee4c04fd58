// Package tax applies a progressive marginal-bracket schedule to the
// savings-income bases produced by the ledger: net capital gains and
// passive crypto income.
package tax

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/criptax/criptax/optdec"
)

// ErrInvalidBracketSchedule is fatal at configuration time: a broken
// schedule invalidates every downstream number, so the estimator aborts
// before computing anything.
var ErrInvalidBracketSchedule = errors.New("invalid bracket schedule")

// Bracket taxes the slice of the base between the previous bracket's
// threshold and UpTo at its marginal Rate. A Null UpTo means unbounded,
// and is only legal on the last bracket.
type Bracket struct {
	UpTo optdec.DecOpt
	Rate decimal.Decimal
}

type Schedule struct {
	Brackets []Bracket
}

// DefaultSchedule is the Spanish savings-income scale (2024):
// up to 6000 at 19%, to 50000 at 21%, to 200000 at 23%, above at 26%.
func DefaultSchedule() *Schedule {
	return &Schedule{Brackets: []Bracket{
		{UpTo: optdec.NewFromInt(6000), Rate: decimal.NewFromFloat(0.19)},
		{UpTo: optdec.NewFromInt(50000), Rate: decimal.NewFromFloat(0.21)},
		{UpTo: optdec.NewFromInt(200000), Rate: decimal.NewFromFloat(0.23)},
		{UpTo: optdec.Null, Rate: decimal.NewFromFloat(0.26)},
	}}
}

// Validate checks that the brackets are contiguous, strictly ascending,
// and cover [0, inf) with rates in [0, 1]. All violations wrap
// ErrInvalidBracketSchedule.
func (s *Schedule) Validate() error {
	scheduleErr := func(fmtStr string, v ...interface{}) error {
		return fmt.Errorf("%w: "+fmtStr, append([]interface{}{ErrInvalidBracketSchedule}, v...)...)
	}

	if len(s.Brackets) == 0 {
		return scheduleErr("no brackets")
	}
	prev := optdec.Zero
	for i, b := range s.Brackets {
		last := i == len(s.Brackets)-1
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return scheduleErr("bracket %d rate %s is not within [0, 1]", i+1, b.Rate)
		}
		if b.UpTo.IsNull {
			if !last {
				return scheduleErr("bracket %d is unbounded but not last", i+1)
			}
			continue
		}
		if last {
			return scheduleErr("last bracket must be unbounded to cover [0, inf)")
		}
		if !b.UpTo.GreaterThan(prev) {
			return scheduleErr("bracket %d threshold %s does not exceed the previous (%s)",
				i+1, b.UpTo, prev)
		}
		prev = b.UpTo
	}
	return nil
}

type scheduleYaml struct {
	Brackets []struct {
		Threshold string `yaml:"threshold"`
		Rate      string `yaml:"rate"`
	} `yaml:"brackets"`
}

// LoadScheduleYaml parses a bracket schedule of the form:
//
//	brackets:
//	  - threshold: 6000
//	    rate: 0.19
//	  - rate: 0.26   # no threshold: unbounded top bracket
//
// and validates it. Thresholds of "" or "inf" mean unbounded.
func LoadScheduleYaml(data []byte) (*Schedule, error) {
	var raw scheduleYaml
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBracketSchedule, err)
	}

	sched := &Schedule{Brackets: make([]Bracket, 0, len(raw.Brackets))}
	for i, rawB := range raw.Brackets {
		upTo := optdec.Null
		threshold := strings.TrimSpace(rawB.Threshold)
		if threshold != "" && !strings.EqualFold(threshold, "inf") {
			var err error
			upTo, err = optdec.NewFromString(threshold)
			if err != nil {
				return nil, fmt.Errorf("%w: bracket %d threshold: %v",
					ErrInvalidBracketSchedule, i+1, err)
			}
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(rawB.Rate))
		if err != nil {
			return nil, fmt.Errorf("%w: bracket %d rate: %v",
				ErrInvalidBracketSchedule, i+1, err)
		}
		sched.Brackets = append(sched.Brackets, Bracket{UpTo: upTo, Rate: rate})
	}

	if err := sched.Validate(); err != nil {
		return nil, err
	}
	return sched, nil
}

func LoadScheduleFile(fname string) (*Schedule, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	return LoadScheduleYaml(data)
}
