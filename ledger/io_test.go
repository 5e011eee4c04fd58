package ledger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/criptax/criptax/ledger"
)

func TestParseRecordsCsvBasic(t *testing.T) {
	rq := require.New(t)

	csvText := "asset,kind,quantity,unit value,fee,date,source id\n" +
		"BTC,Buy,0.5,20000,10,2024-01-05,kraken-1\n" +
		"btc,sell,0.25,30000,,2024-03-01,kraken-2\n" +
		"ETH,staking-reward,1.5,,0,2024-02-10,\n"

	recs, err := ledger.ParseRecordsCsv(strings.NewReader(csvText), "test.csv", 0)
	rq.Nil(err)
	rq.Len(recs, 3)

	rq.Equal("btc", recs[0].Asset)
	rq.Equal(ledger.BUY, recs[0].Kind)
	rq.Equal("0.5", recs[0].Quantity.String())
	rq.False(recs[0].UnitValue.IsNull)
	rq.Equal("20000", recs[0].UnitValue.Decimal.String())
	rq.Equal("10", recs[0].Fee.String())
	rq.Equal("2024-01-05", recs[0].Date.String())
	rq.Equal("kraken-1", recs[0].SourceID)
	rq.Equal(uint32(0), recs[0].ReadIndex)

	// Blank fee defaults to zero; kind parsing is case insensitive.
	rq.Equal(ledger.SELL, recs[1].Kind)
	rq.True(recs[1].Fee.IsZero())
	rq.Equal(uint32(1), recs[1].ReadIndex)

	// Blank unit value is left for the price resolver; blank source id
	// gets a generated one.
	rq.Equal(ledger.STAKING_REWARD, recs[2].Kind)
	rq.True(recs[2].UnitValue.IsNull)
	rq.NotEqual("", recs[2].SourceID)
}

func TestParseRecordsCsvStartIndex(t *testing.T) {
	rq := require.New(t)

	csvText := "asset,kind,quantity,unit value,fee,date,source id\n" +
		"BTC,Buy,1,100,0,2024-01-05,a\n" +
		"BTC,Buy,1,100,0,2024-01-06,b\n"

	recs, err := ledger.ParseRecordsCsv(strings.NewReader(csvText), "second.csv", 7)
	rq.Nil(err)
	rq.Equal(uint32(7), recs[0].ReadIndex)
	rq.Equal(uint32(8), recs[1].ReadIndex)
}

func TestParseRecordsCsvErrors(t *testing.T) {
	rq := require.New(t)

	// Case: unknown kind
	csvText := "asset,kind,quantity,unit value,fee,date,source id\n" +
		"BTC,Transfer,1,100,0,2024-01-05,a\n"
	_, err := ledger.ParseRecordsCsv(strings.NewReader(csvText), "bad.csv", 0)
	rq.NotNil(err)
	rq.Contains(err.Error(), "Invalid record kind")

	// Case: bad quantity
	csvText = "asset,kind,quantity,unit value,fee,date,source id\n" +
		"BTC,Buy,abc,100,0,2024-01-05,a\n"
	_, err = ledger.ParseRecordsCsv(strings.NewReader(csvText), "bad.csv", 0)
	rq.NotNil(err)

	// Case: missing asset
	csvText = "asset,kind,quantity,unit value,fee,date,source id\n" +
		",Buy,1,100,0,2024-01-05,a\n"
	_, err = ledger.ParseRecordsCsv(strings.NewReader(csvText), "bad.csv", 0)
	rq.NotNil(err)
	rq.Contains(err.Error(), "no asset")

	// Case: empty input
	_, err = ledger.ParseRecordsCsv(strings.NewReader(""), "empty.csv", 0)
	rq.NotNil(err)
}

func TestSortRecordsIsStableOnReadIndex(t *testing.T) {
	rq := require.New(t)

	recs := []*ledger.Record{
		{Asset: "btc", Kind: ledger.SELL, Quantity: dec("1"), Date: mkDate(5), ReadIndex: 2},
		{Asset: "btc", Kind: ledger.BUY, Quantity: dec("1"), Date: mkDate(5), ReadIndex: 1},
		{Asset: "btc", Kind: ledger.BUY, Quantity: dec("1"), Date: mkDate(2), ReadIndex: 3},
	}
	sorted := ledger.SortRecords(recs)
	rq.Equal(uint32(3), sorted[0].ReadIndex)
	// Same-day records keep ingestion order.
	rq.Equal(uint32(1), sorted[1].ReadIndex)
	rq.Equal(uint32(2), sorted[2].ReadIndex)
}

func TestSplitRecordsByAsset(t *testing.T) {
	rq := require.New(t)

	recs := []*ledger.Record{
		{Asset: "btc", Kind: ledger.BUY, Quantity: dec("1"), Date: mkDate(1)},
		{Asset: "eth", Kind: ledger.BUY, Quantity: dec("1"), Date: mkDate(1)},
		{Asset: "btc", Kind: ledger.SELL, Quantity: dec("1"), Date: mkDate(2)},
	}
	byAsset := ledger.SplitRecordsByAsset(recs)
	rq.Len(byAsset, 2)
	rq.Len(byAsset["btc"], 2)
	rq.Len(byAsset["eth"], 1)
}
