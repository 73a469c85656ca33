package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"khata/internal/amqp"
	"khata/internal/core"
	"khata/internal/storage"
)

// ErrNotFound reports an id with no matching purchase in the ledger.
var ErrNotFound = errors.New("purchase not found")

// EventPublisher is the slice of the AMQP client the service needs;
// *amqp.Client satisfies it.
type EventPublisher interface {
	PublishPurchaseEvent(ctx context.Context, event *amqp.PurchaseEvent) error
}

// PurchaseService orchestrates ledger operations: every mutation is a
// load-mutate-replace cycle against the repository, followed by a
// best-effort change event for the mirror worker. The local write is the
// source of truth; a failed publish never fails the request.
type PurchaseService struct {
	repo      *storage.Repository
	publisher EventPublisher
}

func NewPurchaseService(repo *storage.Repository, publisher EventPublisher) *PurchaseService {
	return &PurchaseService{repo: repo, publisher: publisher}
}

// List returns the ledger, optionally filtered by a case-insensitive
// substring match over the date text and item names.
func (s *PurchaseService) List(ctx context.Context, query string) []core.Purchase {
	purchases := s.repo.Load(ctx)
	if strings.TrimSpace(query) == "" {
		return purchases
	}

	q := strings.ToLower(query)
	filtered := make([]core.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if matchesQuery(p, q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchesQuery(p core.Purchase, q string) bool {
	if strings.Contains(strings.ToLower(p.Date), q) {
		return true
	}
	for _, item := range p.Items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			return true
		}
	}
	return false
}

func (s *PurchaseService) Get(ctx context.Context, id string) (core.Purchase, error) {
	for _, p := range s.repo.Load(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Purchase{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

var (
	idMu   sync.Mutex
	lastID int64
)

// nextPurchaseID returns the creation timestamp in milliseconds as text,
// bumped past the previous one so that two purchases created in the same
// millisecond still get distinct ids.
func nextPurchaseID() string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return strconv.FormatInt(now, 10)
}

// Create assigns an id, recomputes the derived fields, validates and appends
// the purchase.
func (s *PurchaseService) Create(ctx context.Context, date string, items []core.Item) (core.Purchase, error) {
	p := core.Purchase{
		ID:    nextPurchaseID(),
		Date:  date,
		Items: items,
	}
	p.Recompute()
	if err := p.Validate(); err != nil {
		return core.Purchase{}, err
	}

	all := s.repo.Load(ctx)
	if err := s.repo.ReplaceAll(ctx, append(all, p)); err != nil {
		return core.Purchase{}, err
	}

	slog.InfoContext(ctx, "Purchase saved",
		"id", p.ID, "date", p.Date, "items", len(p.Items), "total", p.Total)
	s.publish(ctx, p.ID, amqp.ActionUpsert)
	return p, nil
}

// Update replaces the purchase with the same id in place, preserving the
// order of everything around it.
func (s *PurchaseService) Update(ctx context.Context, p core.Purchase) (core.Purchase, error) {
	p.Recompute()
	if err := p.Validate(); err != nil {
		return core.Purchase{}, err
	}

	all := s.repo.Load(ctx)
	found := false
	for i := range all {
		if all[i].ID == p.ID {
			all[i] = p
			found = true
			break
		}
	}
	if !found {
		return core.Purchase{}, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}

	if err := s.repo.ReplaceAll(ctx, all); err != nil {
		return core.Purchase{}, err
	}

	slog.InfoContext(ctx, "Purchase updated", "id", p.ID, "total", p.Total)
	s.publish(ctx, p.ID, amqp.ActionUpsert)
	return p, nil
}

// Delete filters the purchase out of the collection and saves the result.
func (s *PurchaseService) Delete(ctx context.Context, id string) error {
	all := s.repo.Load(ctx)
	kept := make([]core.Purchase, 0, len(all))
	for _, p := range all {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(all) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.repo.ReplaceAll(ctx, kept); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Purchase deleted", "id", id, "remaining", len(kept))
	s.publish(ctx, id, amqp.ActionDelete)
	return nil
}

func (s *PurchaseService) PreviousRates(ctx context.Context, itemName string) []core.RateQuote {
	return s.repo.PreviousRates(ctx, itemName)
}

func (s *PurchaseService) MonthlySpending(ctx context.Context) ([]core.MonthTotal, error) {
	return core.MonthlyTotals(s.repo.Load(ctx))
}

func (s *PurchaseService) publish(ctx context.Context, purchaseID, action string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping change event",
			"purchase_id", purchaseID, "action", action)
		return
	}
	if err := s.publisher.PublishPurchaseEvent(ctx, amqp.NewPurchaseEvent(purchaseID, action)); err != nil {
		// The local write already succeeded; the mirror catches up later.
		slog.ErrorContext(ctx, "Failed to publish change event",
			"purchase_id", purchaseID, "action", action, "error", err)
	}
}
