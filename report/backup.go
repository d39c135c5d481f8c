package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/ledgerline/ledgerline/internal/company"
	"github.com/ledgerline/ledgerline/internal/invoices"
)

// BackupDocument collects everything that goes into an invoice archive
// PDF for one company.
type BackupDocument struct {
	Company     *company.Company
	Invoices    []invoices.Invoice
	GeneratedAt time.Time
}

var backupTemplate = template.Must(template.New("backup").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice archive</title>
<style>
body { font-family: sans-serif; font-size: 12px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
th { background: #eee; }
.meta { color: #666; }
</style>
</head>
<body>
<h1>{{ .Company.Name }}</h1>
<p class="meta">Invoice archive generated {{ .GeneratedAt.Format "2006-01-02 15:04" }} UTC</p>
<table>
<tr><th>Number</th><th>Client</th><th>Status</th><th>Issued</th><th>Due</th><th>Total</th></tr>
{{ range .Invoices }}
<tr>
<td>{{ .Number }}</td>
<td>{{ .ClientID }}</td>
<td>{{ .Status }}</td>
<td>{{ .IssuedAt.Format "2006-01-02" }}</td>
<td>{{ .DueAt.Format "2006-01-02" }}</td>
<td>{{ printf "%.2f" .Total }}</td>
</tr>
{{ end }}
</table>
</body>
</html>`))

// RenderBackupHTML produces the HTML body handed to Gotenberg.
func RenderBackupHTML(doc BackupDocument) (string, error) {
	var buf bytes.Buffer
	if err := backupTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
