// Package output renders run results as console, JSON, and HTML reports.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"apidash/internal/analytics"
	"apidash/internal/metrics"
)

// Report bundles everything a rendered report needs.
type Report struct {
	GeneratedAt time.Time                   `json:"generated_at"`
	Stats       metrics.Stats               `json:"stats"`
	Summaries   []analytics.CategorySummary `json:"summaries"`
	Rows        []analytics.Row             `json:"rows"`
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, report Report) {
	stats := report.Stats

	fmt.Fprintln(w, "\n--- API Test Results ---")
	fmt.Fprintf(w, "Total Calls:       %d\n", stats.Total)
	fmt.Fprintf(w, "Passed:            %d\n", stats.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failures)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)

	if stats.Total > 0 {
		fmt.Fprintln(w, "\nLatency:")
		fmt.Fprintf(w, "  Min:             %s\n", stats.MinLatency)
		fmt.Fprintf(w, "  Max:             %s\n", stats.MaxLatency)
		fmt.Fprintf(w, "  Mean:            %s\n", stats.MeanLatency)
		fmt.Fprintf(w, "  P50:             %s\n", stats.P50Latency)
		fmt.Fprintf(w, "  P90:             %s\n", stats.P90Latency)
		fmt.Fprintf(w, "  P99:             %s\n", stats.P99Latency)
	}

	if len(report.Summaries) > 0 {
		fmt.Fprintln(w, "\nCategory Breakdown:")
		for _, s := range report.Summaries {
			verdict := "PASS"
			if s.Fail > 0 {
				verdict = "FAIL"
			}
			fmt.Fprintf(w, "  - %s: pass=%d, fail=%d [%s]\n", s.Category, s.Pass, s.Fail, verdict)
		}
	}

	if len(report.Rows) > 0 {
		fmt.Fprintln(w, "\nDetails:")
		for _, row := range report.Rows {
			mark := "ok"
			if !row.Success {
				mark = "FAIL"
			}
			fmt.Fprintf(w, "  [%4s] %-8s %-24s %-6s %s\n", mark, row.Category, row.Name, row.Status, row.Snippet)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
