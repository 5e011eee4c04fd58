package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/criptax/criptax/date"
	"github.com/criptax/criptax/optdec"
)

// CsvDateFormat is how dates appear in normalized record CSVs.
// Overridable from the command line.
var CsvDateFormat string = date.DefaultFormat

type colParser func(string, *Record) error

var colParserMap = map[string]colParser{
	"asset":      parseAssetCol,
	"kind":       parseKindCol,
	"quantity":   parseQuantityCol,
	"unit value": parseUnitValueCol,
	"fee":        parseFeeCol,
	"date":       parseDateCol,
	"source id":  parseSourceIdCol,
}

var ColNames []string

func init() {
	ColNames = make([]string, 0, len(colParserMap))
	for name := range colParserMap {
		ColNames = append(ColNames, name)
	}
}

func defaultRecord() *Record {
	return &Record{
		UnitValue: optdec.Null,
		Fee:       decimal.Zero,
	}
}

func checkRecordSanity(rec *Record) error {
	if rec.Asset == "" {
		return fmt.Errorf("Record has no asset")
	} else if (rec.Date == date.Date{}) {
		return fmt.Errorf("Record has no date")
	} else if rec.Kind == NO_KIND {
		return fmt.Errorf("Record has no kind (Buy, Sell, StakingReward, Airdrop, Interest, FeeOnly)")
	}
	return nil
}

// ParseRecordsCsv reads normalized Transaction Records from r. The first
// row must be a header naming a subset of ColNames. desc identifies the
// source (usually a file name) in errors. Records get sequential
// ReadIndexes starting at startIdx, preserving ingestion order across
// multiple files.
func ParseRecordsCsv(r io.Reader, desc string, startIdx uint32) ([]*Record, error) {
	csvR := csv.NewReader(r)
	rows, err := csvR.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Failed to parse CSV %s: %v", desc, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("No rows found in %s", desc)
	}

	header := rows[0]
	colParsers := make([]colParser, len(header))
	for i, col := range header {
		sanCol := strings.TrimSpace(strings.ToLower(col))
		if parser, ok := colParserMap[sanCol]; ok {
			colParsers[i] = parser
		} else {
			fmt.Fprintf(os.Stderr, "Warning: Unrecognized column %s\n", sanCol)
			colParsers[i] = parseNothingCol
		}
	}

	recs := make([]*Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := defaultRecord()
		for j, col := range row {
			if err := colParsers[j](col, rec); err != nil {
				return nil, fmt.Errorf("Error parsing %s at line:col %d:%d: %v", desc, i+2, j, err)
			}
		}
		if err := checkRecordSanity(rec); err != nil {
			return nil, fmt.Errorf("Error parsing %s at line %d: %v", desc, i+2, err)
		}
		if rec.SourceID == "" {
			// Keep traceability even when the normalizer left the id blank.
			rec.SourceID = uuid.NewString()
		}
		rec.ReadIndex = startIdx + uint32(len(recs))
		recs = append(recs, rec)
	}
	return recs, nil
}

func ParseRecordsCsvFile(fname string, startIdx uint32) ([]*Record, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ParseRecordsCsv(fp, fname, startIdx)
}

func parseNothingCol(data string, rec *Record) error {
	return nil
}

func parseAssetCol(data string, rec *Record) error {
	rec.Asset = strings.ToLower(strings.TrimSpace(data))
	return nil
}

func parseKindCol(data string, rec *Record) error {
	kind, err := ParseRecordKind(data)
	if err != nil {
		return err
	}
	rec.Kind = kind
	return nil
}

func parseQuantityCol(data string, rec *Record) error {
	qty, err := decimal.NewFromString(strings.TrimSpace(data))
	if err != nil {
		return fmt.Errorf("Error parsing quantity: %v", err)
	}
	rec.Quantity = qty
	return nil
}

func parseUnitValueCol(data string, rec *Record) error {
	data = strings.TrimSpace(data)
	if data == "" {
		// Left for the price resolver.
		rec.UnitValue = optdec.Null
		return nil
	}
	val, err := optdec.NewFromString(data)
	if err != nil {
		return fmt.Errorf("Error parsing unit value: %v", err)
	}
	rec.UnitValue = val
	return nil
}

func parseFeeCol(data string, rec *Record) error {
	data = strings.TrimSpace(data)
	if data == "" {
		rec.Fee = decimal.Zero
		return nil
	}
	fee, err := decimal.NewFromString(data)
	if err != nil {
		return fmt.Errorf("Error parsing fee: %v", err)
	}
	rec.Fee = fee
	return nil
}

func parseDateCol(data string, rec *Record) error {
	d, err := date.Parse(CsvDateFormat, strings.TrimSpace(data))
	if err != nil {
		return err
	}
	rec.Date = d
	return nil
}

func parseSourceIdCol(data string, rec *Record) error {
	rec.SourceID = strings.TrimSpace(data)
	return nil
}
