package price

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/date"
)

// Table is a Resolver backed by an in-memory daily price table, typically
// loaded from a CSV exported by an external price service.
type Table struct {
	prices map[cacheKey]decimal.Decimal
}

func NewTable() *Table {
	return &Table{prices: make(map[cacheKey]decimal.Decimal)}
}

func (t *Table) Add(asset string, on date.Date, p decimal.Decimal) {
	t.prices[cacheKey{strings.ToLower(asset), on}] = p
}

func (t *Table) Len() int {
	return len(t.prices)
}

// LoadTableCsv reads rows of `asset,date,unit_price` (no header) into a
// Table. Dates must be formatted as date.DefaultFormat.
func LoadTableCsv(r io.Reader) (*Table, error) {
	csvR := csv.NewReader(r)
	csvR.FieldsPerRecord = 3
	records, err := csvR.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse price table: %w", err)
	}

	table := NewTable()
	for i, record := range records {
		on, err := date.Parse(date.DefaultFormat, strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("price table row %d: %w", i+1, err)
		}
		p, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("price table row %d: %w", i+1, err)
		}
		table.Add(record[0], on, p)
	}
	return table, nil
}

func LoadTableCsvFile(fname string) (*Table, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return LoadTableCsv(fp)
}

func (t *Table) Resolve(asset string, on date.Date) (decimal.Decimal, error) {
	p, ok := t.prices[cacheKey{strings.ToLower(asset), on}]
	if !ok {
		return decimal.Zero, fmt.Errorf("resolve %s at %s: %w%s",
			asset, on, ErrMissingPrice, t.surroundingPricesHelp(asset, on))
	}
	return p, nil
}

// If the exact day is missing (weekend gaps in some sources), suggest the
// nearest day for which a price exists, up to a week out in either
// direction.
func (t *Table) surroundingPricesHelp(asset string, on date.Date) string {
	asset = strings.ToLower(asset)
	for i := 1; i <= 7; i++ {
		before := on.AddDays(-i)
		if p, ok := t.prices[cacheKey{asset, before}]; ok {
			return fmt.Sprintf("; nearest available is %s: %s", before, p)
		}
		after := on.AddDays(i)
		if p, ok := t.prices[cacheKey{asset, after}]; ok {
			return fmt.Sprintf("; nearest available is %s: %s", after, p)
		}
	}
	return ""
}
