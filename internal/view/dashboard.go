package view

import "skillboard/internal/model"

// Dashboard is everything a renderer needs for one frame.
type Dashboard struct {
	Filters model.Filters `json:"filters" yaml:"filters"`

	SelectedSkillID *int         `json:"selectedSkillId" yaml:"selectedSkillId"`
	SelectedSkill   *model.Skill `json:"selectedSkill,omitempty" yaml:"selectedSkill,omitempty"`

	Skills []model.Skill `json:"skills" yaml:"skills"`
	Tasks  []model.Task  `json:"tasks" yaml:"tasks"`

	// TaskViewActive is false when no skill is selected. An active view with
	// no tasks means the filter matched nothing.
	TaskViewActive bool `json:"taskViewActive" yaml:"taskViewActive"`

	Stats model.Stats `json:"stats" yaml:"stats"`
}

// Build snapshots the source for rendering.
func Build(src Source) Dashboard {
	d := Dashboard{
		Filters: src.Filters(),
		Skills:  FilteredSkills(src),
		Tasks:   FilteredTasks(src),
		Stats:   ComputeStats(src),
	}
	if id, ok := src.Selection(); ok {
		id := id
		d.SelectedSkillID = &id
		d.TaskViewActive = true
		for _, sk := range src.Skills() {
			if sk.ID == id {
				sk := sk
				d.SelectedSkill = &sk
				break
			}
		}
	}
	return d
}

// IsSelected reports whether skillID is the current selection.
func (d Dashboard) IsSelected(skillID int) bool {
	return d.SelectedSkillID != nil && *d.SelectedSkillID == skillID
}

// CompletionRate is the formatted completion percentage, e.g. "50.0".
func (d Dashboard) CompletionRate() string {
	return FormatPercent(d.Stats.CompletionRatePercent)
}

// AverageLevel is the formatted mean skill level, e.g. "40.0".
func (d Dashboard) AverageLevel() string {
	return FormatLevel(d.Stats.AverageLevel)
}
