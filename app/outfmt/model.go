package outfmt

import (
	"github.com/criptax/criptax/ledger"
)

type OutputType int

const (
	Disposals OutputType = iota
	Income
	Holdings
	TaxSummary
)

// ReportWriter renders the computed table models. The core produces the
// models; a writer decides the medium (terminal tables, CSV files, ...).
type ReportWriter interface {
	PrintRenderTable(outType OutputType, name string, tableModel *ledger.RenderTable) error
}
