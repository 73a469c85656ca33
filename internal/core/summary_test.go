package core

import (
	"errors"
	"testing"
)

func purchase(id, date string, total float64) Purchase {
	return Purchase{ID: id, Date: date, Items: []Item{{Name: "x", Quantity: 1, Rate: total, Amount: total}}, Total: total}
}

func TestMonthlyTotals(t *testing.T) {
	got, err := MonthlyTotals([]Purchase{
		purchase("1", "18 Mar 2025", 500),
		purchase("2", "02/04/2025", 300),
		purchase("3", "not-a-date", 999),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []MonthTotal{
		{Label: "Mar 2025", Total: 500},
		{Label: "Apr 2025", Total: 300},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestMonthlyTotalsSumsWithinMonth(t *testing.T) {
	got, err := MonthlyTotals([]Purchase{
		purchase("1", "01 Mar 2025", 100),
		purchase("2", "18/03/2025", 50), // both formats land in the same bucket
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Total != 150 {
		t.Fatalf("expected one bucket of 150, got %+v", got)
	}
}

func TestMonthlyTotalsChronologicalAcrossYears(t *testing.T) {
	got, err := MonthlyTotals([]Purchase{
		purchase("1", "05 Jan 2025", 10),
		purchase("2", "20 Dec 2024", 20),
		purchase("3", "01 Feb 2025", 30),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	labels := []string{"Dec 2024", "Jan 2025", "Feb 2025"}
	for i, l := range labels {
		if got[i].Label != l {
			t.Fatalf("position %d: expected %s, got %s", i, l, got[i].Label)
		}
	}
}

func TestMonthlyTotalsNoData(t *testing.T) {
	if _, err := MonthlyTotals(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("empty input: expected ErrNoData, got %v", err)
	}
	_, err := MonthlyTotals([]Purchase{purchase("1", "???", 42)})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("all unparseable: expected ErrNoData, got %v", err)
	}
}
