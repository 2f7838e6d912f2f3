package output

import (
	"fmt"
	"html/template"
	"os"

	msges "github.com/leakscout/leakscout/internal/messages"
	"github.com/leakscout/leakscout/internal/report"
)

const htmlReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Leak Triage Report - {{.Target}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem; color: #1c1c1e; }
h1 { font-size: 1.4rem; }
.meta { color: #666; font-size: 0.9rem; margin-bottom: 1.5rem; }
.counts span { display: inline-block; padding: 0.2rem 0.6rem; border-radius: 4px; margin-right: 0.4rem; color: #fff; font-size: 0.85rem; }
.c-high { background: #c0392b; }
.c-medium { background: #d68910; }
.c-low { background: #2e86c1; }
.c-unknown { background: #7f8c8d; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { text-align: left; padding: 0.5rem 0.7rem; border-bottom: 1px solid #ddd; font-size: 0.9rem; }
th { background: #f4f4f5; }
.risk { font-weight: 600; }
.risk-HIGH { color: #c0392b; }
.risk-MEDIUM { color: #d68910; }
.risk-LOW { color: #2e86c1; }
.risk-UNKNOWN { color: #7f8c8d; }
</style>
</head>
<body>
<h1>Leak Triage Report</h1>
<div class="meta">
Target: <strong>{{.Target}}</strong> ({{.TargetKind}})<br>
Session: {{.SessionID}} ({{.SessionStatus}}, {{.Polls}} polls)<br>
Run: {{.StartTime.Format "2006-01-02 15:04:05 MST"}} &rarr; {{.EndTime.Format "15:04:05 MST"}}
</div>
<div class="counts">
<span>Total: {{.Summary.Total}}</span>
<span class="c-high">High: {{.Summary.High}}</span>
<span class="c-medium">Medium: {{.Summary.Medium}}</span>
<span class="c-low">Low: {{.Summary.Low}}</span>
<span class="c-unknown">Unknown: {{.Summary.Unknown}}</span>
</div>
<table>
<tr><th>Risk</th><th>Source</th><th>Date</th><th>Bucket</th><th>Summary</th><th>Tags</th></tr>
{{range .Findings}}
<tr>
<td class="risk risk-{{.Risk}}">{{.Risk}}</td>
<td>{{.Source}}</td>
<td>{{if .Date.IsZero}}-{{else}}{{.Date.Format "2006-01-02"}}{{end}}</td>
<td>{{.Bucket}} ({{.Visibility}})</td>
<td>{{.Summary}}</td>
<td>{{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlReportTemplate))

// SaveHTMLReport writes a self-contained HTML rendering of the report.
func SaveHTMLReport(rep *report.Report) error {
	filename := reportFilename(rep.Target, "html")

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := htmlTmpl.Execute(file, rep); err != nil {
		return err
	}

	fmt.Printf("%s\n", msges.GetUIMessage("HTMLReportSaved", filename))
	return nil
}
