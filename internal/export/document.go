package export

import (
	"html/template"
	"strconv"
	"strings"

	"khata/internal/core"
)

// documentTemplate is the printable shell handed to an external renderer.
// One section per purchase, separated visually; the renderer turns the
// markup into a shareable document.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Purchase Report</title>
<style>
body { font-family: sans-serif; color: #1E3A8A; margin: 24px; }
h2 { margin-bottom: 4px; }
table { border-collapse: collapse; width: 100%; margin: 8px 0; }
th, td { border: 1px solid #E5E7EB; padding: 6px 10px; text-align: left; }
th { background: #F3F4F6; }
.total { font-weight: bold; color: #F28C38; }
hr { border: none; border-top: 1px dashed #9CA3AF; margin: 20px 0; }
</style>
</head>
<body>
{{- range $i, $p := . }}
{{- if $i }}
<hr>
{{- end }}
<section>
<h2>Purchase Details - {{ $p.Date }}</h2>
<table>
<tr><th>Item</th><th>Quantity</th><th>Rate</th><th>Amount</th></tr>
{{- range $p.Items }}
<tr><td>{{ .Name }}</td><td>{{ num .Quantity }}</td><td>{{ num .Rate }}</td><td>{{ num .Amount }}</td></tr>
{{- end }}
</table>
<p class="total">Total: &#8377;{{ num $p.Total }}</p>
</section>
{{- end }}
</body>
</html>
`

var documentTmpl = template.Must(template.New("document").
	Funcs(template.FuncMap{"num": formatNumber}).
	Parse(documentTemplate))

// Document renders the printable markup for one purchase or a whole ledger.
func Document(purchases []core.Purchase) (string, error) {
	var b strings.Builder
	if err := documentTmpl.Execute(&b, purchases); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DocumentFileName mirrors CSVFileName for the printable export.
func DocumentFileName(purchases []core.Purchase, millis int64) string {
	if len(purchases) == 1 {
		return "purchase_" + purchases[0].Date + "_" + strconv.FormatInt(millis, 10) + ".html"
	}
	return "purchases_" + strconv.FormatInt(millis, 10) + ".html"
}
