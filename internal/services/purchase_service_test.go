package services

import (
	"context"
	"errors"
	"testing"

	"khata/internal/amqp"
	"khata/internal/core"
	"khata/internal/storage"
)

type capturedEvents struct {
	events []*amqp.PurchaseEvent
	fail   bool
}

func (c *capturedEvents) PublishPurchaseEvent(_ context.Context, e *amqp.PurchaseEvent) error {
	if c.fail {
		return errors.New("broker unavailable")
	}
	c.events = append(c.events, e)
	return nil
}

func newTestService() (*PurchaseService, *capturedEvents) {
	events := &capturedEvents{}
	repo := storage.NewRepository(storage.NewMemoryStore())
	return NewPurchaseService(repo, events), events
}

func TestCreateAssignsIDAndDerivedFields(t *testing.T) {
	svc, events := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "18 Mar 2025", []core.Item{
		{Name: "Rice", Quantity: 5, Rate: 80, Amount: 12345}, // stale amount on purpose
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if p.Items[0].Amount != 400 || p.Total != 400 {
		t.Fatalf("derived fields not recomputed: %+v", p)
	}

	if got := svc.List(ctx, ""); len(got) != 1 || got[0].ID != p.ID {
		t.Fatalf("purchase not persisted: %+v", got)
	}
	if len(events.events) != 1 || events.events[0].Action != amqp.ActionUpsert {
		t.Fatalf("expected one upsert event, got %+v", events.events)
	}
}

func TestCreateRejectsInvalidPurchase(t *testing.T) {
	svc, events := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		date  string
		items []core.Item
		want  error
	}{
		{"bad date", "yesterday", []core.Item{core.NewItem("Rice", 1, 1)}, core.ErrInvalidDate},
		{"no items", "18 Mar 2025", nil, core.ErrNoItems},
		{"zero rate", "18 Mar 2025", []core.Item{core.NewItem("Rice", 1, 0)}, core.ErrInvalidRate},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.date, tc.items); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if len(svc.List(ctx, "")) != 0 {
		t.Fatal("invalid purchases must not reach the repository")
	}
	if len(events.events) != 0 {
		t.Fatal("no events for rejected purchases")
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	svc, events := newTestService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, "01 Mar 2025", []core.Item{core.NewItem("Rice", 1, 10)})
	second, _ := svc.Create(ctx, "02 Mar 2025", []core.Item{core.NewItem("Dal", 1, 20)})

	second.Items = []core.Item{core.NewItem("Dal", 3, 25)}
	updated, err := svc.Update(ctx, second)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Total != 75 {
		t.Fatalf("expected recomputed total 75, got %v", updated.Total)
	}

	all := svc.List(ctx, "")
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("order changed by update: %+v", all)
	}
	if all[1].Total != 75 {
		t.Fatalf("update not persisted: %+v", all[1])
	}
	if len(events.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events.events))
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc, _ := newTestService()
	p := core.Purchase{ID: "nope", Date: "18 Mar 2025", Items: []core.Item{core.NewItem("Rice", 1, 1)}}
	if _, err := svc.Update(context.Background(), p); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	svc, events := newTestService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, "01 Mar 2025", []core.Item{core.NewItem("Rice", 1, 10)})
	b, _ := svc.Create(ctx, "02 Mar 2025", []core.Item{core.NewItem("Dal", 1, 20)})

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all := svc.List(ctx, "")
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("expected only %s to remain, got %+v", b.ID, all)
	}

	if err := svc.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	last := events.events[len(events.events)-1]
	if last.Action != amqp.ActionDelete || last.PurchaseID != a.ID {
		t.Fatalf("expected delete event for %s, got %+v", a.ID, last)
	}
}

func TestListSearchesDateAndItemNames(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Create(ctx, "18 Mar 2025", []core.Item{core.NewItem("Basmati Rice", 1, 90)})
	svc.Create(ctx, "02/04/2025", []core.Item{core.NewItem("Toor Dal", 1, 130)})

	if got := svc.List(ctx, "rice"); len(got) != 1 || got[0].Items[0].Name != "Basmati Rice" {
		t.Fatalf("item-name search failed: %+v", got)
	}
	if got := svc.List(ctx, "mar 2025"); len(got) != 1 {
		t.Fatalf("date search failed: %+v", got)
	}
	if got := svc.List(ctx, "04/2025"); len(got) != 1 {
		t.Fatalf("slashed date search failed: %+v", got)
	}
	if got := svc.List(ctx, "ghee"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	svc, events := newTestService()
	events.fail = true

	p, err := svc.Create(context.Background(), "18 Mar 2025", []core.Item{core.NewItem("Rice", 1, 10)})
	if err != nil {
		t.Fatalf("create must survive a failed publish: %v", err)
	}
	if got := svc.List(context.Background(), ""); len(got) != 1 || got[0].ID != p.ID {
		t.Fatal("purchase must still be persisted locally")
	}
}

func TestCreateWriteFailureLeavesLedgerAlone(t *testing.T) {
	store := storage.NewMemoryStore()
	repo := storage.NewRepository(store)
	svc := NewPurchaseService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "01 Mar 2025", []core.Item{core.NewItem("Rice", 1, 10)}); err != nil {
		t.Fatal(err)
	}

	store.FailWrites(true)
	_, err := svc.Create(ctx, "02 Mar 2025", []core.Item{core.NewItem("Dal", 1, 20)})
	if !errors.Is(err, storage.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}

	store.FailWrites(false)
	if got := svc.List(ctx, ""); len(got) != 1 {
		t.Fatalf("failed write must not change the ledger: %+v", got)
	}
}
