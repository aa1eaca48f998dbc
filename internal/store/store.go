package store

import "skillboard/internal/model"

// Store holds one session's dashboard state: the loaded collections plus the
// current filters and selection.
//
// A Store has a single writer. Concurrent callers must serialize access
// themselves (the web server wraps each session's Store in a mutex).
type Store struct {
	skills []model.Skill
	tasks  []model.Task
	loaded bool

	filters model.Filters

	selected    int
	hasSelected bool
}

func New() *Store {
	return &Store{filters: model.DefaultFilters()}
}

// Skills returns the skill collection in load order. Callers must not modify it.
func (s *Store) Skills() []model.Skill { return s.skills }

// Tasks returns the task collection in load order. Callers must not modify it.
func (s *Store) Tasks() []model.Task { return s.tasks }

func (s *Store) Filters() model.Filters { return s.filters }

// Selection returns the selected skill id, if any.
func (s *Store) Selection() (int, bool) {
	return s.selected, s.hasSelected
}

// Loaded reports whether Replace has populated the store.
func (s *Store) Loaded() bool { return s.loaded }

// Replace swaps in both collections. The slices are copied so later edits to
// the caller's data do not leak into the session.
func (s *Store) Replace(skills []model.Skill, tasks []model.Task) {
	s.skills = append(make([]model.Skill, 0, len(skills)), skills...)
	s.tasks = append(make([]model.Task, 0, len(tasks)), tasks...)
	s.loaded = true
}

func (s *Store) SetCategoryFilter(c model.CategoryFilter) {
	s.filters.Category = c
}

func (s *Store) SetStatusFilter(st model.StatusFilter) {
	s.filters.Status = st
}

func (s *Store) Select(skillID int) {
	s.selected = skillID
	s.hasSelected = true
}

func (s *Store) ClearSelection() {
	s.selected = 0
	s.hasSelected = false
}

// SetTaskDone sets the completion flag of the task with the given id.
// It reports whether such a task exists; unknown ids leave the store untouched.
func (s *Store) SetTaskDone(taskID int, done bool) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].Done = done
			return true
		}
	}
	return false
}

func (s *Store) FindSkill(id int) (*model.Skill, bool) {
	for i := range s.skills {
		if s.skills[i].ID == id {
			return &s.skills[i], true
		}
	}
	return nil, false
}

func (s *Store) FindTask(id int) (*model.Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i], true
		}
	}
	return nil, false
}
