package store

import (
	"testing"

	"skillboard/internal/model"
)

func seeded() *Store {
	s := New()
	s.Replace(
		[]model.Skill{
			{ID: 1, Name: "React", Category: model.CategoryFrontend, Level: 80},
			{ID: 2, Name: "Go", Category: model.CategoryBackend, Level: 20},
		},
		[]model.Task{
			{ID: 1, SkillID: 1, Text: "hooks", Priority: model.PriorityHigh},
			{ID: 2, SkillID: 1, Text: "context", Priority: model.PriorityLow, Done: true},
		},
	)
	return s
}

func TestNew_DefaultsToAllFiltersAndNoSelection(t *testing.T) {
	s := New()
	if got := s.Filters(); got != model.DefaultFilters() {
		t.Fatalf("expected default filters, got %+v", got)
	}
	if _, ok := s.Selection(); ok {
		t.Fatalf("expected no selection")
	}
	if s.Loaded() {
		t.Fatalf("expected store to start unloaded")
	}
	if len(s.Skills()) != 0 || len(s.Tasks()) != 0 {
		t.Fatalf("expected empty collections")
	}
}

func TestReplace_CopiesInput(t *testing.T) {
	skills := []model.Skill{{ID: 1, Name: "React"}}
	s := New()
	s.Replace(skills, nil)
	skills[0].Name = "changed"

	if s.Skills()[0].Name != "React" {
		t.Fatalf("expected store to keep its own copy, got %q", s.Skills()[0].Name)
	}
	if s.Tasks() == nil {
		t.Fatalf("expected nil tasks to be stored as empty, not nil")
	}
	if !s.Loaded() {
		t.Fatalf("expected store to be loaded")
	}
}

func TestSetTaskDone(t *testing.T) {
	s := seeded()

	if !s.SetTaskDone(1, true) {
		t.Fatalf("expected task 1 to be found")
	}
	if tk, _ := s.FindTask(1); !tk.Done {
		t.Fatalf("expected task 1 done")
	}

	before := append([]model.Task(nil), s.Tasks()...)
	if s.SetTaskDone(999, true) {
		t.Fatalf("expected unknown id to report false")
	}
	for i := range before {
		if before[i] != s.Tasks()[i] {
			t.Fatalf("unknown id changed task %d: %+v -> %+v", i, before[i], s.Tasks()[i])
		}
	}
}

func TestSelection(t *testing.T) {
	s := seeded()
	s.Select(2)
	if id, ok := s.Selection(); !ok || id != 2 {
		t.Fatalf("expected selection 2, got %d (ok=%v)", id, ok)
	}
	s.ClearSelection()
	if _, ok := s.Selection(); ok {
		t.Fatalf("expected selection cleared")
	}
}

func TestFindSkill(t *testing.T) {
	s := seeded()
	if sk, ok := s.FindSkill(2); !ok || sk.Name != "Go" {
		t.Fatalf("expected skill 2 Go, got %+v (ok=%v)", sk, ok)
	}
	if _, ok := s.FindSkill(42); ok {
		t.Fatalf("expected skill 42 to be missing")
	}
}
