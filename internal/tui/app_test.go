package tui

import (
	"strings"
	"testing"

	"skillboard/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func testDataset() model.Dataset {
	return model.Dataset{
		Skills: []model.Skill{
			{ID: 1, Name: "React", Category: model.CategoryFrontend, Level: 80},
			{ID: 2, Name: "Go", Category: model.CategoryBackend, Level: 20},
			{ID: 3, Name: "Git", Category: model.CategoryTools, Level: 50},
		},
		Tasks: []model.Task{
			{ID: 1, SkillID: 1, Text: "Learn suspense", Priority: model.PriorityLow, Done: true},
			{ID: 2, SkillID: 1, Text: "Learn hooks", Priority: model.PriorityHigh},
			{ID: 3, SkillID: 2, Text: "Generics", Priority: model.PriorityMedium},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("expected appModel, got %T", next)
	}
	return am
}

func newSizedModel(t *testing.T) appModel {
	t.Helper()
	m := newAppModel(testDataset(), nil)
	return press(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
}

func TestAppModel_InitialFrame(t *testing.T) {
	m := newSizedModel(t)
	if len(m.frame.Skills) != 3 || m.frame.TaskViewActive {
		t.Fatalf("unexpected initial frame: %+v", m.frame)
	}
	out := m.View()
	for _, want := range []string{"skillboard", "3 skills", "avg level 50.0", "1/3 tasks done", "Select a skill"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestAppModel_KeyFlow(t *testing.T) {
	m := newSizedModel(t)

	m = press(t, m, runes("c"))
	if m.frame.Filters.Category != "frontend" || len(m.frame.Skills) != 1 {
		t.Fatalf("expected frontend filter, got %+v", m.frame.Filters)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.frame.IsSelected(1) {
		t.Fatalf("expected React selected")
	}
	if m.focus != paneTasks {
		t.Fatalf("expected focus to move to tasks")
	}
	if got := m.frame.Tasks; len(got) != 2 || got[0].ID != 2 {
		t.Fatalf("expected open high task first, got %+v", got)
	}

	// Toggle the highlighted task (hooks) done.
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.frame.Stats.CompletedTasks != 2 {
		t.Fatalf("expected 2 completed after toggle, got %d", m.frame.Stats.CompletedTasks)
	}

	m = press(t, m, runes("s"))
	if m.frame.Filters.Status != model.StatusDone || len(m.frame.Tasks) != 2 {
		t.Fatalf("expected done filter with 2 tasks, got %+v", m.frame)
	}

	m = press(t, m, runes("c"))
	if m.frame.Filters.Category != "backend" {
		t.Fatalf("expected backend, got %q", m.frame.Filters.Category)
	}
	if m.frame.SelectedSkillID != nil || m.frame.Filters.Status != model.StatusAll {
		t.Fatalf("expected selection cleared and status reset, got %+v", m.frame)
	}
	if m.focus != paneSkills {
		t.Fatalf("expected focus back on skills")
	}
}

func TestAppModel_PrevCategoryWraps(t *testing.T) {
	m := newSizedModel(t)
	m = press(t, m, runes("C"))
	if m.frame.Filters.Category != "tools" {
		t.Fatalf("expected wrap to tools, got %q", m.frame.Filters.Category)
	}
}

func TestAppModel_ToggleIgnoredOnSkillsPane(t *testing.T) {
	m := newSizedModel(t)
	before := m.sink.frames
	m = press(t, m, runes("x"))
	if m.sink.frames != before {
		t.Fatalf("expected no controller event from skills pane toggle")
	}
}

func TestAppModel_Overlays(t *testing.T) {
	m := newSizedModel(t)
	m = press(t, m, runes("?"))
	if m.overlay != overlayHelp {
		t.Fatalf("expected help overlay")
	}
	if !strings.Contains(m.View(), "Help") {
		t.Fatalf("expected help title in view")
	}
	// Keys other than close do nothing while an overlay is open.
	m = press(t, m, runes("c"))
	if m.frame.Filters.Category != model.FilterAll {
		t.Fatalf("expected overlay to swallow keys")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != overlayNone {
		t.Fatalf("expected overlay closed")
	}

	m = press(t, m, runes("r"))
	if m.overlay != overlayReport || !strings.Contains(m.View(), "Report") {
		t.Fatalf("expected report overlay")
	}
}

func TestAppModel_Quit(t *testing.T) {
	m := newSizedModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestDarkFromColorFGBG(t *testing.T) {
	cases := []struct {
		in       string
		dark, ok bool
	}{
		{"", false, false},
		{"15;0", true, true},
		{"0;15", false, true},
		{"0;default;15", false, true},
		{"x", false, false},
	}
	for _, tc := range cases {
		dark, ok := darkFromColorFGBG(tc.in)
		if dark != tc.dark || ok != tc.ok {
			t.Fatalf("darkFromColorFGBG(%q): got (%v,%v), want (%v,%v)", tc.in, dark, ok, tc.dark, tc.ok)
		}
	}
}
