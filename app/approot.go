package app

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/criptax/criptax/app/outfmt"
	"github.com/criptax/criptax/ledger"
	"github.com/criptax/criptax/log"
	"github.com/criptax/criptax/price"
	"github.com/criptax/criptax/tax"
)

type DescribedReader struct {
	Desc   string
	Reader io.Reader
}

type Options struct {
	// Year is the tax year the estimate covers. Zero means all years.
	Year int
	// RenderFullValues prints every decimal place instead of cents.
	RenderFullValues bool
	// OffsetIncomeLosses selects tax.LossesOffsetIncome.
	OffsetIncomeLosses bool
}

func (o Options) lossPolicy() tax.LossPolicy {
	if o.OffsetIncomeLosses {
		return tax.LossesOffsetIncome
	}
	return tax.LossesSeparate
}

// RunTaxApp is the full batch run: parse the normalized record CSVs,
// match disposals FIFO, aggregate income, estimate the liability, and
// render everything through the writer. Record-level problems are
// reported as notes; only unreadable input or a broken schedule fail the
// run.
func RunTaxApp(
	csvFileReaders []DescribedReader,
	sched *tax.Schedule,
	resolver price.Resolver,
	opts Options,
	writer outfmt.ReportWriter,
	errPrinter log.ErrorPrinter) error {

	allRecs := make([]*ledger.Record, 0, 20)
	for _, csvReader := range csvFileReaders {
		recs, err := ledger.ParseRecordsCsv(
			csvReader.Reader, csvReader.Desc, uint32(len(allRecs)))
		if err != nil {
			errPrinter.Ln("Error:", err)
			return err
		}
		log.Fverbosef(os.Stderr, "Parsed %d records from %s\n", len(recs), csvReader.Desc)
		allRecs = append(allRecs, recs...)
	}

	// One resolution per (asset, date) pair per run, no matter how many
	// records share it.
	cached := price.NewCachedResolver(resolver)

	result := ledger.ComputeRun(allRecs, cached, ledger.ComputeOptions{Year: opts.Year})
	log.Fverbosef(os.Stderr, "Computed %d disposals, %d diagnostics, %d price lookups\n",
		len(result.Disposals), len(result.Diagnostics), cached.Lookups())

	disposalsByAsset := make(map[string][]*ledger.Disposal)
	for _, d := range result.Disposals {
		disposalsByAsset[d.Record.Asset] = append(disposalsByAsset[d.Record.Asset], d)
	}
	assets := make([]string, 0, len(disposalsByAsset))
	for asset := range disposalsByAsset {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	for _, asset := range assets {
		disposals := disposalsByAsset[asset]
		gains := ledger.CalcCumulativeGains(disposals)
		tableModel := ledger.RenderDisposalsTableModel(disposals, gains, opts.RenderFullValues)
		if err := writer.PrintRenderTable(outfmt.Disposals, asset, tableModel); err != nil {
			return err
		}
	}

	incomeTable := ledger.RenderIncomeTableModel(
		result.IncomeDetail, result.Income, opts.RenderFullValues)
	if err := writer.PrintRenderTable(outfmt.Income, "", incomeTable); err != nil {
		return err
	}

	holdingsTable := ledger.RenderHoldingsTableModel(result.Ledger, opts.RenderFullValues)
	if err := writer.PrintRenderTable(outfmt.Holdings, "", holdingsTable); err != nil {
		return err
	}

	summary, err := tax.EstimateTax(
		result.NetGain(opts.Year), result.Income.Total(), result.OtherFees,
		sched, opts.lossPolicy())
	if err != nil {
		errPrinter.Ln("Error:", err)
		return err
	}

	summaryTable := tax.RenderSummaryTableModel(summary, opts.RenderFullValues)
	// The filer must see what was skipped next to the totals.
	summaryTable.Notes = append(summaryTable.Notes,
		ledger.RenderDiagnosticsNotes(result.Diagnostics)...)
	yearName := "all years"
	if opts.Year != 0 {
		yearName = fmt.Sprintf("%d", opts.Year)
	}
	return writer.PrintRenderTable(outfmt.TaxSummary, yearName, summaryTable)
}
