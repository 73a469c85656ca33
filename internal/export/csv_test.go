package export

import (
	"strings"
	"testing"

	"khata/internal/core"
)

func testPurchase(id, date string, items ...core.Item) core.Purchase {
	p := core.Purchase{ID: id, Date: date, Items: items}
	p.Recompute()
	return p
}

func TestCSVOneRowPerItem(t *testing.T) {
	p := testPurchase("1", "18 Mar 2025",
		core.NewItem("Rice", 5, 80),
		core.NewItem("Dal", 2, 120),
	)

	out := CSV([]core.Purchase{p})
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatal("output must start with a byte-order marker")
	}

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 data rows, got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "Date,Item,Quantity,Rate,Amount,Total" {
		t.Fatalf("wrong header: %q", lines[0])
	}
	// Each row repeats the parent purchase's date and total.
	if lines[1] != "18 Mar 2025,Rice,5,80,400,640" {
		t.Fatalf("wrong first row: %q", lines[1])
	}
	if lines[2] != "18 Mar 2025,Dal,2,120,240,640" {
		t.Fatalf("wrong second row: %q", lines[2])
	}
}

func TestCSVFractionalQuantities(t *testing.T) {
	p := testPurchase("1", "02/04/2025", core.NewItem("Sugar", 1.5, 44))
	out := CSV([]core.Purchase{p})
	if !strings.Contains(out, "02/04/2025,Sugar,1.5,44,66,66\n") {
		t.Fatalf("fractional quantity row missing: %q", out)
	}
}

func TestCSVEmptyLedger(t *testing.T) {
	out := CSV(nil)
	if out != "\uFEFFDate,Item,Quantity,Rate,Amount,Total\n" {
		t.Fatalf("empty ledger should export header only, got %q", out)
	}
}

func TestCSVFileName(t *testing.T) {
	one := []core.Purchase{testPurchase("1", "18 Mar 2025", core.NewItem("Rice", 1, 1))}
	if got := CSVFileName(one, 1742300000000); got != "purchase_18 Mar 2025_1742300000000.csv" {
		t.Fatalf("single purchase name: %q", got)
	}
	if got := CSVFileName(nil, 1742300000000); got != "purchases_1742300000000.csv" {
		t.Fatalf("ledger name: %q", got)
	}
}
