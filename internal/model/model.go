package model

// Category is an open tag. Unknown values are carried through unchanged.
type Category string

const (
	CategoryFrontend Category = "frontend"
	CategoryBackend  Category = "backend"
	CategoryTools    Category = "tools"
)

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{CategoryFrontend, CategoryBackend, CategoryTools}
}

// Priority is an open tag. Unknown values sort after the known ones.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Skill struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Level    int      `json:"level" yaml:"level"`
}

type Task struct {
	ID       int      `json:"id" yaml:"id"`
	SkillID  int      `json:"skillId" yaml:"skillId"`
	Text     string   `json:"text" yaml:"text"`
	Priority Priority `json:"priority" yaml:"priority"`
	Done     bool     `json:"done" yaml:"done"`
}

// CategoryFilter is either FilterAll or a category value.
type CategoryFilter string

// StatusFilter selects tasks by completion.
type StatusFilter string

const (
	FilterAll CategoryFilter = "all"

	StatusAll        StatusFilter = "all"
	StatusDone       StatusFilter = "done"
	StatusInProgress StatusFilter = "in-progress"
)

// CategoryFilters lists the filter values offered by the presentation layers.
func CategoryFilters() []CategoryFilter {
	out := []CategoryFilter{FilterAll}
	for _, c := range Categories() {
		out = append(out, CategoryFilter(c))
	}
	return out
}

// StatusFilters lists the status filter values in display order.
func StatusFilters() []StatusFilter {
	return []StatusFilter{StatusAll, StatusDone, StatusInProgress}
}

type Filters struct {
	Category CategoryFilter `json:"category" yaml:"category"`
	Status   StatusFilter   `json:"status" yaml:"status"`
}

// DefaultFilters is the initial filter state of a session.
func DefaultFilters() Filters {
	return Filters{Category: FilterAll, Status: StatusAll}
}

type Stats struct {
	TotalSkills           int     `json:"totalSkills" yaml:"totalSkills"`
	AverageLevel          float64 `json:"averageLevel" yaml:"averageLevel"`
	TotalTasks            int     `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks        int     `json:"completedTasks" yaml:"completedTasks"`
	CompletionRatePercent float64 `json:"completionRatePercent" yaml:"completionRatePercent"`
}

// Dataset is the loaded input record.
type Dataset struct {
	Skills []Skill `json:"skills" yaml:"skills"`
	Tasks  []Task  `json:"tasks" yaml:"tasks"`
}
