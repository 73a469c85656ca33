package core

import (
	"errors"
	"log/slog"
	"sort"
)

// MonthTotal is one bucket of the monthly spending series.
type MonthTotal struct {
	Label string  `json:"label"` // e.g. "Mar 2025"
	Total float64 `json:"total"`
}

// ErrNoData signals that no purchase produced a spending bucket, either
// because nothing is recorded or because no date was parseable. Callers use
// it to distinguish an empty chart from a populated one.
var ErrNoData = errors.New("no spending data")

// MonthlyTotals buckets purchase totals by calendar month, ordered
// chronologically ascending. Purchases whose date does not normalize are
// skipped entirely and logged; they still exist everywhere else in the app.
func MonthlyTotals(purchases []Purchase) ([]MonthTotal, error) {
	type bucket struct {
		year, month int
		total       float64
	}
	buckets := make(map[int]*bucket)
	for _, p := range purchases {
		d := ParseDate(p.Date)
		if !d.Valid() {
			slog.Warn("Skipping purchase with unparseable date",
				"purchase_id", p.ID, "date", p.Date)
			continue
		}
		key := d.Year*100 + d.Month
		b, ok := buckets[key]
		if !ok {
			b = &bucket{year: d.Year, month: d.Month}
			buckets[key] = b
		}
		b.total += p.Total
	}

	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	series := make([]MonthTotal, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		label := Date{Month: b.month, Year: b.year, Form: FormNamed}.MonthLabel()
		series = append(series, MonthTotal{Label: label, Total: b.total})
	}
	return series, nil
}
