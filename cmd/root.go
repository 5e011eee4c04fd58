package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/criptax/criptax/app"
	"github.com/criptax/criptax/app/outfmt"
	"github.com/criptax/criptax/ledger"
	"github.com/criptax/criptax/log"
	"github.com/criptax/criptax/price"
	"github.com/criptax/criptax/tax"
)

const (
	CsvDateFormatDefault string = "2006-01-02"

	ScheduleFileEnvVar string = "CRIPTAX_SCHEDULE"
	PriceFileEnvVar    string = "CRIPTAX_PRICES"
)

var TaxYear = 0
var ScheduleFile = ""
var PriceFile = ""
var OffsetIncomeLosses = false
var CsvOutputDir = ""
var PrintFullValues = false

func loadSchedule() (*tax.Schedule, error) {
	if ScheduleFile == "" {
		return tax.DefaultSchedule(), nil
	}
	return tax.LoadScheduleFile(ScheduleFile)
}

func loadResolver() (price.Resolver, error) {
	if PriceFile == "" {
		// Still usable for ledgers whose records all carry unit values.
		return price.NewTable(), nil
	}
	return price.LoadTableCsvFile(PriceFile)
}

func runRootCmd(cmd *cobra.Command, args []string) {
	errPrinter := &log.StderrErrorPrinter{}

	sched, err := loadSchedule()
	if err != nil {
		errPrinter.F("Error loading bracket schedule: %v\n", err)
		os.Exit(1)
	}

	resolver, err := loadResolver()
	if err != nil {
		errPrinter.F("Error loading price table: %v\n", err)
		os.Exit(1)
	}

	csvReaders := make([]app.DescribedReader, 0, len(args))
	for _, csvName := range args {
		fp, err := os.Open(csvName)
		if err != nil {
			errPrinter.F("Error: %v\n", err)
			os.Exit(1)
		}
		defer fp.Close()
		csvReaders = append(csvReaders, app.DescribedReader{Desc: csvName, Reader: fp})
	}

	var writer outfmt.ReportWriter
	if CsvOutputDir != "" {
		csvWriter, err := outfmt.NewCSVWriter(CsvOutputDir)
		if err != nil {
			errPrinter.F("Error: %v\n", err)
			os.Exit(1)
		}
		writer = csvWriter
	} else {
		writer = outfmt.NewSTDWriter(os.Stdout)
	}

	err = app.RunTaxApp(csvReaders, sched, resolver,
		app.Options{
			Year:               TaxYear,
			RenderFullValues:   PrintFullValues,
			OffsetIncomeLosses: OffsetIncomeLosses,
		},
		writer, errPrinter)
	if err != nil {
		os.Exit(1)
	}
}

func cmdName() string {
	binName := os.Args[0]
	return filepath.Base(binName)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   cmdName() + " [CSV_FILE ...]",
	Short: "Crypto capital gains and savings-income tax estimator",
	Long: fmt.Sprintf(
		`A cli tool which matches crypto disposals against acquisitions
first-in-first-out, aggregates staking, airdrop and interest income, and
estimates the resulting savings-base tax under a progressive bracket
schedule.

Each CSV provided should contain a header with these column names:
%s
The unit value column may be left blank for income records whose market
price is supplied via the --prices table instead.
 `, strings.Join(ledger.ColNames, ", ")),
	Run:     runRootCmd,
	Args:    cobra.MinimumNArgs(1),
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(onInit)

	// Persistent flags, which are global to the app cli
	RootCmd.PersistentFlags().BoolVarP(&log.VerboseEnabled, "verbose", "v", false,
		"Print verbose output")
	RootCmd.PersistentFlags().IntVarP(&TaxYear, "year", "y", 0,
		"Tax year to estimate. 0 covers every year found in the records.")
	RootCmd.PersistentFlags().StringVar(&ScheduleFile, "schedule", "",
		"YAML file with the bracket schedule. Defaults to the built-in savings scale. "+
			"May also be set via "+ScheduleFileEnvVar+".")
	RootCmd.PersistentFlags().StringVar(&PriceFile, "prices", "",
		"CSV price table (asset,date,unit_price) for records with blank unit values. "+
			"May also be set via "+PriceFileEnvVar+".")
	RootCmd.PersistentFlags().BoolVar(&OffsetIncomeLosses, "offset-income-losses", false,
		"Subtract residual capital losses from the income base instead of "+
			"reporting them separately.")
	RootCmd.PersistentFlags().StringVar(&CsvOutputDir, "csv-output-dir", "",
		"Write the reports as CSV files to this directory instead of printing tables.")
	RootCmd.PersistentFlags().BoolVar(&PrintFullValues, "print-full-values", false,
		"Print all decimal places instead of rounding to cents.")
	RootCmd.PersistentFlags().StringVar(&ledger.CsvDateFormat, "date-fmt", CsvDateFormatDefault,
		"Format of how dates appear in the csv file. Must represent Jan 2, 2006")
}

// onInit reads in ENV variables if set, and performs global or common
// actions before running command functions.
func onInit() {
	// A .env in the working directory can hold the file paths below.
	_ = godotenv.Load()

	if ScheduleFile == "" {
		ScheduleFile = os.Getenv(ScheduleFileEnvVar)
	}
	if PriceFile == "" {
		PriceFile = os.Getenv(PriceFileEnvVar)
	}
}
