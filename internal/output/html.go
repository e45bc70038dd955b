package output

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt string
	Report      Report
	MaxCount    int
}

// GenerateHTMLReport generates a standalone HTML report with summary cards,
// a per-category pass/fail chart, and a result detail table.
func GenerateHTMLReport(w io.Writer, report Report) error {
	maxCount := 1
	for _, s := range report.Summaries {
		if s.Pass > maxCount {
			maxCount = s.Pass
		}
		if s.Fail > maxCount {
			maxCount = s.Fail
		}
	}

	data := HTMLReportData{
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Report:      report,
		MaxCount:    maxCount,
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			return d.String()
		},
		"formatPercent": func(part, total int64) string {
			if total == 0 {
				return "0.0"
			}
			return fmt.Sprintf("%.1f", (float64(part)/float64(total))*100)
		},
		"barHeight": func(count int) string {
			return fmt.Sprintf("%.1f", (float64(count)/float64(maxCount))*100)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>API Test Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 {
            font-size: 2rem;
            margin-bottom: 10px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #667eea;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value {
            font-size: 2rem;
            font-weight: bold;
            color: #2c3e50;
        }
        .card .subvalue {
            font-size: 0.85rem;
            color: #6c757d;
            margin-top: 5px;
        }
        .card.success {
            border-left-color: #10b981;
        }
        .card.error {
            border-left-color: #ef4444;
        }
        .section {
            margin-bottom: 40px;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        .chart-container {
            background: white;
            border-radius: 8px;
            padding: 20px;
            margin-bottom: 30px;
            border: 1px solid #e5e7eb;
        }
        .bar-chart {
            display: flex;
            align-items: flex-end;
            gap: 30px;
            height: 220px;
            padding: 10px 0;
            border-bottom: 2px solid #e5e7eb;
        }
        .bar-group {
            display: flex;
            flex-direction: column;
            align-items: center;
            flex: 1;
            height: 100%;
            justify-content: flex-end;
        }
        .bars {
            display: flex;
            align-items: flex-end;
            gap: 6px;
            height: 180px;
        }
        .bar {
            width: 28px;
            border-radius: 3px 3px 0 0;
        }
        .bar.pass {
            background: #4ade80;
        }
        .bar.fail {
            background: #f87171;
        }
        .bar-label {
            margin-top: 8px;
            font-size: 0.85rem;
            color: #4b5563;
        }
        .legend {
            display: flex;
            gap: 20px;
            margin-top: 15px;
            font-size: 0.85rem;
            color: #4b5563;
        }
        .legend .swatch {
            display: inline-block;
            width: 12px;
            height: 12px;
            border-radius: 2px;
            margin-right: 5px;
            vertical-align: middle;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
        }
        th, td {
            text-align: left;
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        tr:hover {
            background: #f8f9fa;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85rem;
            font-weight: 600;
        }
        .badge-success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge-error {
            background: #fee2e2;
            color: #991b1b;
        }
        .snippet {
            font-family: 'SF Mono', Menlo, Consolas, monospace;
            font-size: 0.82rem;
            color: #4b5563;
        }
        .no-data {
            text-align: center;
            padding: 40px;
            color: #6c757d;
            font-style: italic;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>API Test Report</h1>
            <div class="meta">Generated: {{.GeneratedAt}} | Duration: {{formatDuration .Report.Stats.Duration}}</div>
        </header>

        <div class="content">
            <!-- Summary Cards -->
            <div class="grid">
                <div class="card">
                    <h3>Total Calls</h3>
                    <div class="value">{{.Report.Stats.Total}}</div>
                </div>
                <div class="card success">
                    <h3>Passed</h3>
                    <div class="value">{{.Report.Stats.Successes}}</div>
                    <div class="subvalue">{{formatPercent .Report.Stats.Successes .Report.Stats.Total}}%</div>
                </div>
                <div class="card error">
                    <h3>Failed</h3>
                    <div class="value">{{.Report.Stats.Failures}}</div>
                    <div class="subvalue">{{formatPercent .Report.Stats.Failures .Report.Stats.Total}}%</div>
                </div>
                <div class="card">
                    <h3>Mean Latency</h3>
                    <div class="value">{{formatDuration .Report.Stats.MeanLatency}}</div>
                </div>
            </div>

            <!-- Category Chart -->
            <div class="section">
                <h2>Results by Category</h2>
                <div class="chart-container">
                    {{if .Report.Summaries}}
                    <div class="bar-chart">
                        {{range .Report.Summaries}}
                        <div class="bar-group">
                            <div class="bars">
                                <div class="bar pass" style="height: {{barHeight .Pass}}%" title="{{.Pass}} passed"></div>
                                <div class="bar fail" style="height: {{barHeight .Fail}}%" title="{{.Fail}} failed"></div>
                            </div>
                            <div class="bar-label">{{.Category}}</div>
                        </div>
                        {{end}}
                    </div>
                    <div class="legend">
                        <span><span class="swatch" style="background: #4ade80;"></span>Passed</span>
                        <span><span class="swatch" style="background: #f87171;"></span>Failed</span>
                    </div>
                    {{else}}
                    <div class="no-data">No API results yet</div>
                    {{end}}
                </div>
            </div>

            <!-- Result Table -->
            <div class="section">
                <h2>Call Details</h2>
                {{if .Report.Rows}}
                <table>
                    <thead>
                        <tr>
                            <th>Category</th>
                            <th>API Name</th>
                            <th>Status</th>
                            <th>Result</th>
                            <th>Response</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Report.Rows}}
                        <tr>
                            <td>{{.Category}}</td>
                            <td>{{.Name}}</td>
                            <td>{{.Status}}</td>
                            <td>
                                {{if .Success}}
                                <span class="badge badge-success">PASS</span>
                                {{else}}
                                <span class="badge badge-error">FAIL</span>
                                {{end}}
                            </td>
                            <td class="snippet">{{.Snippet}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="no-data">No API results yet</div>
                {{end}}
            </div>
        </div>
    </div>
</body>
</html>
`
