package sheets

import (
	"context"

	"khata/internal/core"
)

// LedgerMirror is the outbound port for the spreadsheet mirror. The ledger
// is persisted as one blob, so the mirror is rewritten wholesale as well;
// there is no per-row reconciliation.
type LedgerMirror interface {
	Mirror(ctx context.Context, purchases []core.Purchase) error
}
