// Package tui is an interactive terminal frontend for running catalog
// categories, custom requests, and the mock generator.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apidash/internal/runner"
)

type screen int

const (
	screenHome screen = iota
	screenResults
	screenCustom
	screenMock
)

const (
	itemRunAll = "Run All"
	itemCustom = "Custom Request"
	itemMock   = "Mock Generator"
	itemQuit   = "Quit"
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	menu    list.Model
	results viewport.Model
	spin    spinner.Model

	running        bool
	runningLabel   string
	activeCategory string
	status         string

	methodInput textinput.Model
	urlInput    textinput.Model
	bodyInput   textarea.Model
	customFocus int
	customOut   string

	mockInput textinput.Model
	mockOut   string

	width  int
	height int
}

// Run starts the interactive terminal UI and blocks until it exits.
func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := menuItems(deps)
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "apidash"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	method := textinput.New()
	method.Placeholder = "GET"
	method.CharLimit = 8
	method.Width = 10

	url := textinput.New()
	url.Placeholder = "https://example.com/api"
	url.Width = 60

	body := textarea.New()
	body.Placeholder = `{"key": "value"}`
	body.SetHeight(6)

	mock := textinput.New()
	mock.Placeholder = "register a new user"
	mock.Width = 60

	vp := viewport.New(80, 20)

	return model{
		theme:       t,
		deps:        deps,
		scr:         screenHome,
		menu:        l,
		results:     vp,
		spin:        sp,
		methodInput: method,
		urlInput:    url,
		bodyInput:   body,
		mockInput:   mock,
	}
}

func menuItems(deps Deps) []list.Item {
	var items []list.Item
	for _, name := range deps.Catalog.Names() {
		items = append(items, menuItem{name, categoryDesc(deps, name)})
	}
	items = append(items,
		menuItem{itemRunAll, "Run every category in order"},
		menuItem{itemCustom, "Send a one-off request"},
		menuItem{itemMock, "Generate a mock payload from a description"},
		menuItem{itemQuit, "Exit apidash"},
	)
	return items
}

// categoryDesc annotates a category entry with its latest pass/fail counts.
func categoryDesc(deps Deps, name string) string {
	if deps.Runner == nil {
		return fmt.Sprintf("Run the %s category", name)
	}
	records, ok := deps.Runner.Store().Category(name)
	if !ok {
		return fmt.Sprintf("Run the %s category", name)
	}
	pass := 0
	for _, rec := range records {
		if rec.Success {
			pass++
		}
	}
	return fmt.Sprintf("pass %d, fail %d", pass, len(records)-pass)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		m.results.Width = msg.Width - 8
		m.results.Height = msg.Height - 10
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case runDoneMsg:
		m.running = false
		if msg.err != nil {
			m.status = m.theme.Fail.Render(fmt.Sprintf("run failed: %v", msg.err))
			return m, nil
		}
		if msg.all {
			m.activeCategory = ""
		} else {
			m.activeCategory = msg.category
		}
		m.scr = screenResults
		m.results.SetContent(m.renderResults())
		m.results.GotoTop()
		m.menu.SetItems(menuItems(m.deps))
		m.status = ""
		return m, nil

	case customDoneMsg:
		m.running = false
		m.customOut = m.renderRecord(msg.record)
		return m, nil

	case mockDoneMsg:
		m.running = false
		if msg.err != nil {
			m.mockOut = m.theme.Fail.Render(fmt.Sprintf("error: %v", msg.err))
		} else {
			m.mockOut = msg.payload
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.running {
		return m, nil
	}

	switch m.scr {
	case screenHome:
		switch key {
		case "q":
			if !m.menu.SettingFilter() {
				return m, tea.Quit
			}
		case "enter":
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			return m.openItem(it)
		}

	case screenResults:
		switch key {
		case "q", "esc", "b":
			m.scr = screenHome
			return m, nil
		case "r":
			return m.startRun(m.activeCategory)
		}

	case screenCustom:
		switch key {
		case "esc":
			m.scr = screenHome
			m.blurCustom()
			return m, nil
		case "tab", "shift+tab":
			m.cycleCustomFocus(key == "shift+tab")
			return m, nil
		case "ctrl+s":
			m.running = true
			m.runningLabel = "sending"
			return m, tea.Batch(
				m.spin.Tick,
				cmdRunCustom(m.deps, m.methodInput.Value(), m.urlInput.Value(), m.bodyInput.Value()),
			)
		}

	case screenMock:
		switch key {
		case "esc":
			m.scr = screenHome
			m.mockInput.Blur()
			return m, nil
		case "enter":
			m.running = true
			m.runningLabel = "generating"
			return m, tea.Batch(m.spin.Tick, cmdGenerateMock(m.deps, m.mockInput.Value()))
		case "ctrl+u":
			if m.mockOut == "" {
				return m, nil
			}
			m.scr = screenCustom
			m.customFocus = 0
			m.customOut = ""
			m.bodyInput.SetValue(m.mockOut)
			m.mockInput.Blur()
			m.methodInput.Focus()
			m.urlInput.Blur()
			m.bodyInput.Blur()
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

func (m model) openItem(it menuItem) (tea.Model, tea.Cmd) {
	switch it.title {
	case itemQuit:
		return m, tea.Quit
	case itemRunAll:
		return m.startRun("")
	case itemCustom:
		m.scr = screenCustom
		m.customFocus = 0
		m.customOut = ""
		m.methodInput.Focus()
		m.urlInput.Blur()
		m.bodyInput.Blur()
		return m, nil
	case itemMock:
		m.scr = screenMock
		m.mockOut = ""
		m.mockInput.Focus()
		return m, nil
	default:
		return m.startRun(it.title)
	}
}

func (m model) startRun(category string) (tea.Model, tea.Cmd) {
	m.running = true
	if category == "" {
		m.runningLabel = "running all categories"
		return m, tea.Batch(m.spin.Tick, cmdRunAll(m.deps))
	}
	m.runningLabel = fmt.Sprintf("running %s", category)
	return m, tea.Batch(m.spin.Tick, cmdRunCategory(m.deps, category))
}

func (m *model) cycleCustomFocus(backwards bool) {
	if backwards {
		m.customFocus = (m.customFocus + 2) % 3
	} else {
		m.customFocus = (m.customFocus + 1) % 3
	}
	m.methodInput.Blur()
	m.urlInput.Blur()
	m.bodyInput.Blur()
	switch m.customFocus {
	case 0:
		m.methodInput.Focus()
	case 1:
		m.urlInput.Focus()
	case 2:
		m.bodyInput.Focus()
	}
}

func (m *model) blurCustom() {
	m.methodInput.Blur()
	m.urlInput.Blur()
	m.bodyInput.Blur()
}

func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenResults:
		m.results, cmd = m.results.Update(msg)
	case screenCustom:
		switch m.customFocus {
		case 0:
			m.methodInput, cmd = m.methodInput.Update(msg)
		case 1:
			m.urlInput, cmd = m.urlInput.Update(msg)
		case 2:
			m.bodyInput, cmd = m.bodyInput.Update(msg)
		}
	case screenMock:
		m.mockInput, cmd = m.mockInput.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("apidash") + "\n" +
		m.theme.Subtitle.Render("API testing dashboard") + "\n"

	if m.running {
		return wrap.Render(header + "\n" + m.spin.View() + " " + m.runningLabel + "...")
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("up/down navigate | enter open | / search | q quit")
		body := m.theme.Card.Render(m.menu.View())
		if m.status != "" {
			body += "\n" + m.status
		}
		return wrap.Render(header + "\n" + body + "\n" + help)

	case screenResults:
		title := "All Categories"
		if m.activeCategory != "" {
			title = m.activeCategory
		}
		help := m.theme.Help.Render("up/down scroll | r rerun | esc back")
		return wrap.Render(header + "\n" +
			m.theme.Title.Render(title) + "\n" +
			m.theme.Card.Render(m.results.View()) + "\n" + help)

	case screenCustom:
		form := fmt.Sprintf("Method: %s\nURL:    %s\nBody:\n%s",
			m.methodInput.View(),
			m.urlInput.View(),
			m.bodyInput.View(),
		)
		help := m.theme.Help.Render("tab next field | ctrl+s send | esc back")
		out := ""
		if m.customOut != "" {
			out = "\n" + m.theme.Card.Render(m.customOut)
		}
		return wrap.Render(header + "\n" + m.theme.Card.Render(form) + out + "\n" + help)

	case screenMock:
		help := m.theme.Help.Render("enter generate | ctrl+u use in custom request | esc back")
		out := ""
		if m.mockOut != "" {
			out = "\n" + m.theme.Card.Render(m.mockOut)
		}
		return wrap.Render(header + "\n" +
			m.theme.Card.Render("Describe the mock:\n"+m.mockInput.View()) + out + "\n" + help)

	default:
		return wrap.Render(header + "\nunknown state")
	}
}

func (m model) renderResults() string {
	snap := m.deps.Runner.Store().Snapshot()

	var b strings.Builder
	for _, cat := range snap.Categories {
		if m.activeCategory != "" && cat.Category != m.activeCategory {
			continue
		}
		b.WriteString(m.theme.Title.Render(cat.Category))
		b.WriteString("  ")
		b.WriteString(m.theme.Subtitle.Render("run " + cat.RunID))
		b.WriteString("\n")
		for _, rec := range cat.Records {
			b.WriteString(m.renderRecord(rec))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "No results yet"
	}
	return b.String()
}

func (m model) renderRecord(rec runner.ResultRecord) string {
	verdict := m.theme.Pass.Render("PASS")
	detail := string(rec.Data)
	if !rec.Success {
		verdict = m.theme.Fail.Render("FAIL")
		detail = rec.Err
	}
	return fmt.Sprintf("%s  %-24s %-14s %s", verdict, rec.Name, rec.Status, detail)
}
