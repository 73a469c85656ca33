package worker

import (
	"context"
	"fmt"
	"log/slog"

	"khata/internal/amqp"
	"khata/internal/sheets"
	"khata/internal/storage"
)

// MirrorWorker keeps the spreadsheet mirror in step with the local ledger.
// Every event triggers a full rewrite: the ledger is one blob, so partial
// mirroring would only invent consistency problems the store doesn't have.
type MirrorWorker struct {
	repo   *storage.Repository
	mirror sheets.LedgerMirror
}

func NewMirrorWorker(repo *storage.Repository, mirror sheets.LedgerMirror) *MirrorWorker {
	return &MirrorWorker{repo: repo, mirror: mirror}
}

// HandleEvent processes one change event from AMQP.
func (w *MirrorWorker) HandleEvent(ctx context.Context, event *amqp.PurchaseEvent) error {
	slog.InfoContext(ctx, "Processing change event",
		"event_id", event.EventID,
		"purchase_id", event.PurchaseID,
		"action", event.Action)
	return w.MirrorLedger(ctx)
}

// MirrorLedger rewrites the mirror from the current ledger state. Also used
// as the periodic fallback for events lost while the worker was down.
func (w *MirrorWorker) MirrorLedger(ctx context.Context) error {
	purchases := w.repo.Load(ctx)
	if err := w.mirror.Mirror(ctx, purchases); err != nil {
		return fmt.Errorf("mirror ledger: %w", err)
	}
	slog.InfoContext(ctx, "Ledger mirror refreshed", "purchases", len(purchases))
	return nil
}
