package api

import (
	"bytes"
	"html/template"

	"github.com/romangod6/sitemap-explorer/internal/models"
)

const tableTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sitemap Explorer</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 0.4rem; text-align: left; }
th { background: #f4f4f4; }
.notice { color: #8a6d3b; }
</style>
</head>
<body>
<h1>Sitemap Explorer</h1>
{{if .SitemapURL}}<p class="source">Source: {{.SitemapURL}}</p>{{end}}
{{if .Keyword}}<p class="keyword">Filter: {{.Keyword}}</p>{{end}}
{{if .Table.Rows}}
<h2>Results ({{.Table.Len}} URLs)</h2>
<table id="results">
<thead><tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Table.Rows}}<tr><td><a href="{{.}}">{{.}}</a></td></tr>
{{end}}</tbody>
</table>
{{else}}
<p class="notice">No URLs match your search criteria.</p>
{{end}}
</body>
</html>
`

var tablePage = template.Must(template.New("table").Parse(tableTemplate))

type tableView struct {
	SitemapURL string
	Keyword    string
	Table      models.ResultTable
}

func renderTable(sitemapURL, keyword string, table models.ResultTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := tablePage.Execute(&buf, tableView{
		SitemapURL: sitemapURL,
		Keyword:    keyword,
		Table:      table,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
