// Package analytics derives presentation-ready views from a result store
// snapshot. Everything here is a pure function of the snapshot; nothing is
// memoized across store updates.
package analytics

import (
	"strings"

	"github.com/tidwall/gjson"

	"apidash/internal/runner"
)

// SnippetBudget is the character cap for success-payload snippets.
const SnippetBudget = 50

// CategorySummary is the pass/fail partition of one category's records.
type CategorySummary struct {
	Category string `json:"category"`
	Pass     int    `json:"pass"`
	Fail     int    `json:"fail"`
}

// Row is one flattened result line, as shown in tables and exports.
type Row struct {
	Category string        `json:"category"`
	Name     string        `json:"name"`
	Status   runner.Status `json:"status"`
	Success  bool          `json:"success"`
	// Snippet holds the truncated success payload, or the error message
	// for failed calls.
	Snippet string `json:"snippet"`
}

// Summarize computes pass/fail counts per category, in snapshot order.
func Summarize(snap runner.Snapshot) []CategorySummary {
	summaries := make([]CategorySummary, 0, len(snap.Categories))
	for _, category := range snap.Categories {
		summary := CategorySummary{Category: category.Category}
		for _, record := range category.Records {
			if record.Success {
				summary.Pass++
			} else {
				summary.Fail++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Flatten produces one row per result record across all categories, in
// snapshot order.
func Flatten(snap runner.Snapshot) []Row {
	var rows []Row
	for _, category := range snap.Categories {
		for _, record := range category.Records {
			rows = append(rows, toRow(category.Category, record))
		}
	}
	return rows
}

func toRow(category string, record runner.ResultRecord) Row {
	row := Row{
		Category: category,
		Name:     record.Name,
		Status:   record.Status,
		Success:  record.Success,
	}
	if record.Success {
		row.Snippet = Snippet(record.Data)
	} else {
		row.Snippet = record.Err
	}
	return row
}

// Snippet compacts a JSON payload and truncates it to the budget, marking
// truncation with an ellipsis.
func Snippet(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	compact := gjson.GetBytes(data, "@ugly").Raw
	if compact == "" {
		compact = strings.TrimSpace(string(data))
	}
	runes := []rune(compact)
	if len(runes) <= SnippetBudget {
		return compact
	}
	return string(runes[:SnippetBudget]) + "..."
}
