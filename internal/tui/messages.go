package tui

import (
	"apidash/internal/runner"
)

// runDoneMsg reports a finished category run (or all categories).
type runDoneMsg struct {
	category string
	all      bool
	err      error
}

// customDoneMsg reports a finished custom API call.
type customDoneMsg struct {
	record runner.ResultRecord
}

// mockDoneMsg carries a freshly generated mock payload.
type mockDoneMsg struct {
	payload string
	err     error
}
