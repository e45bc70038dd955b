package tui

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const runTimeout = 5 * time.Minute

func cmdRunCategory(deps Deps, category string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		err := deps.Runner.RunCategory(ctx, category)
		return runDoneMsg{category: category, err: err}
	}
}

func cmdRunAll(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		err := deps.Runner.RunAll(ctx)
		return runDoneMsg{all: true, err: err}
	}
}

func cmdRunCustom(deps Deps, method, url, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		deps.Runner.RunCustom(ctx, method, url, body)
		record, _ := deps.Runner.Store().Custom()
		return customDoneMsg{record: record}
	}
}

func cmdGenerateMock(deps Deps, description string) tea.Cmd {
	return func() tea.Msg {
		payload := deps.Generator.Generate(description)
		pretty, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return mockDoneMsg{err: err}
		}
		return mockDoneMsg{payload: string(pretty)}
	}
}
