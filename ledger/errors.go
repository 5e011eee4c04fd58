package ledger

import (
	"errors"
	"fmt"

	"github.com/criptax/criptax/date"
)

// ErrInvalidQuantity marks a malformed record (quantity <= 0). Fatal for
// that record only: skip and report.
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrInsufficientBasis marks an oversold position: a disposal larger than
// the recorded holdings of its asset. Non-fatal; the partial match is
// still returned so the caller can warn instead of aborting the run.
var ErrInsufficientBasis = errors.New("insufficient basis")

// Diagnostic is a record-level failure or warning collected during a run.
// The run itself never aborts on these; they are surfaced in the final
// report so the filer can review anomalies.
type Diagnostic struct {
	SourceID string
	Asset    string
	Date     date.Date
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s (source %s): %v", d.Date, d.Asset, d.SourceID, d.Err)
}

func diagnose(rec *Record, err error) Diagnostic {
	return Diagnostic{
		SourceID: rec.SourceID,
		Asset:    rec.Asset,
		Date:     rec.Date,
		Err:      err,
	}
}
