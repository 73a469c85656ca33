package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"khata/internal/core"
)

// StorageKey is the single key the whole purchase collection lives under.
const StorageKey = "purchases"

// maxRateQuotes caps the previous-rate suggestions shown in the entry form.
const maxRateQuotes = 5

// ErrWrite wraps blob store write failures so callers can surface them
// without committing anything locally.
var ErrWrite = errors.New("purchase write failed")

// Repository persists the purchase collection as one JSON blob. It holds no
// state between calls: every operation is a fresh read of the blob, and
// every mutation replaces it wholesale. Two interleaved writers are
// last-writer-wins; acceptable for a single-user local ledger, a known
// limitation otherwise.
type Repository struct {
	store BlobStore
}

func NewRepository(store BlobStore) *Repository {
	return &Repository{store: store}
}

// Load reads the full collection. An absent key is an empty ledger, and an
// unreadable or unparseable blob is recovered as empty with a warning; the
// caller never sees an error.
func (r *Repository) Load(ctx context.Context) []core.Purchase {
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		slog.WarnContext(ctx, "Purchase blob unreadable, treating as empty",
			"key", StorageKey, "error", err)
		return []core.Purchase{}
	}
	if !ok {
		return []core.Purchase{}
	}

	var purchases []core.Purchase
	if err := json.Unmarshal([]byte(raw), &purchases); err != nil {
		slog.WarnContext(ctx, "Purchase blob unparseable, treating as empty",
			"key", StorageKey, "error", err)
		return []core.Purchase{}
	}
	if purchases == nil {
		return []core.Purchase{}
	}
	return purchases
}

// ReplaceAll serializes the full collection and overwrites the blob. On
// failure nothing has been committed; the caller decides whether to retry.
func (r *Repository) ReplaceAll(ctx context.Context, purchases []core.Purchase) error {
	if purchases == nil {
		purchases = []core.Purchase{}
	}
	raw, err := json.Marshal(purchases)
	if err != nil {
		return fmt.Errorf("%w: marshal collection: %v", ErrWrite, err)
	}
	if err := r.store.Set(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	slog.DebugContext(ctx, "Purchase collection saved",
		"key", StorageKey, "count", len(purchases))
	return nil
}

// PreviousRates scans every item of every purchase for a case-insensitive
// name match and returns up to five quotes, most recent first. Quotes with
// unparseable dates sort after all parseable ones and keep their scan order
// among themselves. A full scan per call is fine at single-user ledger size.
func (r *Repository) PreviousRates(ctx context.Context, itemName string) []core.RateQuote {
	var quotes []core.RateQuote
	for _, p := range r.Load(ctx) {
		for _, item := range p.Items {
			if strings.EqualFold(item.Name, itemName) {
				quotes = append(quotes, core.RateQuote{Date: p.Date, Rate: item.Rate})
			}
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return core.ParseDate(quotes[i].Date).After(core.ParseDate(quotes[j].Date))
	})

	if len(quotes) > maxRateQuotes {
		quotes = quotes[:maxRateQuotes]
	}
	return quotes
}
