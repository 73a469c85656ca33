// Package export turns purchases into export-ready text. Nothing here
// touches storage or the filesystem; file writing and sharing belong to the
// client.
package export

import (
	"strconv"
	"strings"

	"khata/internal/core"
)

// bom makes spreadsheet applications open the file as UTF-8.
const bom = "\uFEFF"

// csvHeader is a column-position contract with downstream tooling; do not
// reorder. "Item" (not "Item Name") is the header the shipping exporter
// used.
const csvHeader = "Date,Item,Quantity,Rate,Amount,Total"

// CSV renders one row per item, repeating the parent purchase's date and
// total on every row. Fields are written verbatim: no quoting or escaping,
// matching the existing export bytes.
func CSV(purchases []core.Purchase) string {
	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, p := range purchases {
		for _, item := range p.Items {
			b.WriteString(p.Date)
			b.WriteByte(',')
			b.WriteString(item.Name)
			b.WriteByte(',')
			b.WriteString(formatNumber(item.Quantity))
			b.WriteByte(',')
			b.WriteString(formatNumber(item.Rate))
			b.WriteByte(',')
			b.WriteString(formatNumber(item.Amount))
			b.WriteByte(',')
			b.WriteString(formatNumber(p.Total))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// CSVFileName names the export: one purchase keeps its date in the name,
// a full ledger export does not.
func CSVFileName(purchases []core.Purchase, millis int64) string {
	if len(purchases) == 1 {
		return "purchase_" + purchases[0].Date + "_" + strconv.FormatInt(millis, 10) + ".csv"
	}
	return "purchases_" + strconv.FormatInt(millis, 10) + ".csv"
}

// formatNumber writes a float the way the ledger JSON does: shortest exact
// decimal form, no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
