package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"apidash/internal/catalog"
	"apidash/internal/runner"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	cat, err := catalog.New([]catalog.Category{
		{Name: "SIM", Definitions: []catalog.Definition{
			{Name: "Get SIM Info", Method: "GET", URL: "http://example.com/sim"},
		}},
		{Name: "OTP", Definitions: []catalog.Definition{
			{Name: "Send OTP", Method: "POST", URL: "http://example.com/otp"},
		}},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return Deps{Catalog: cat}
}

func TestMenuItems(t *testing.T) {
	items := menuItems(testDeps(t))

	// Two categories plus Run All, Custom Request, Mock Generator, Quit.
	if len(items) != 6 {
		t.Fatalf("got %d items, want 6", len(items))
	}
	first, ok := items[0].(menuItem)
	if !ok || first.title != "SIM" {
		t.Errorf("first item = %v, want SIM", items[0])
	}
	last, ok := items[5].(menuItem)
	if !ok || last.title != itemQuit {
		t.Errorf("last item = %v, want %s", items[5], itemQuit)
	}
}

func TestCategoryDesc(t *testing.T) {
	deps := testDeps(t)

	if got := categoryDesc(deps, "SIM"); got != "Run the SIM category" {
		t.Errorf("desc without runner = %q", got)
	}

	deps.Runner = runner.New(runner.Options{Catalog: deps.Catalog})
	if got := categoryDesc(deps, "SIM"); got != "Run the SIM category" {
		t.Errorf("desc without results = %q", got)
	}

	deps.Runner.Store().SetCategory("SIM", []runner.ResultRecord{
		{Name: "Get SIM Info", Success: true},
		{Name: "Activate SIM", Success: false},
	})
	if got := categoryDesc(deps, "SIM"); got != "pass 1, fail 1" {
		t.Errorf("desc with results = %q", got)
	}
}

func TestMockToCustomShortcut(t *testing.T) {
	m := newModel(testDeps(t))
	m.scr = screenMock
	m.mockOut = `{"simNumber": "SIM-123456"}`

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	got := next.(model)
	if got.scr != screenCustom {
		t.Fatalf("screen = %d, want custom", got.scr)
	}
	if got.bodyInput.Value() != m.mockOut {
		t.Errorf("body = %q, want mock payload", got.bodyInput.Value())
	}
	if !got.methodInput.Focused() {
		t.Error("method input should take focus")
	}
}

func TestMockToCustomShortcutEmpty(t *testing.T) {
	m := newModel(testDeps(t))
	m.scr = screenMock

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	if got := next.(model); got.scr != screenMock {
		t.Errorf("screen = %d, want mock unchanged", got.scr)
	}
}

func TestRenderRecord(t *testing.T) {
	m := model{theme: DefaultTheme()}

	pass := m.renderRecord(runner.ResultRecord{
		Name:    "Get SIM Info",
		Status:  runner.StatusCode(200),
		Success: true,
		Data:    []byte(`{"id":1}`),
	})
	if !strings.Contains(pass, "PASS") || !strings.Contains(pass, `{"id":1}`) {
		t.Errorf("pass row = %q", pass)
	}

	fail := m.renderRecord(runner.ResultRecord{
		Name:    "Send OTP",
		Status:  runner.StatusCode(404),
		Success: false,
		Err:     "request failed with status code 404",
	})
	if !strings.Contains(fail, "FAIL") || !strings.Contains(fail, "404") {
		t.Errorf("fail row = %q", fail)
	}
}

func TestCycleCustomFocus(t *testing.T) {
	m := newModel(testDeps(t))
	m.methodInput.Focus()

	m.cycleCustomFocus(false)
	if m.customFocus != 1 || !m.urlInput.Focused() {
		t.Errorf("focus = %d after forward cycle, want URL focused", m.customFocus)
	}
	m.cycleCustomFocus(false)
	if m.customFocus != 2 || !m.bodyInput.Focused() {
		t.Errorf("focus = %d, want body focused", m.customFocus)
	}
	m.cycleCustomFocus(false)
	if m.customFocus != 0 || !m.methodInput.Focused() {
		t.Errorf("focus = %d, want wrap to method", m.customFocus)
	}
	m.cycleCustomFocus(true)
	if m.customFocus != 2 {
		t.Errorf("focus = %d after backward cycle, want 2", m.customFocus)
	}
}
