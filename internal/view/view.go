// Package view derives what the dashboard shows from a session's state.
//
// Everything here is a pure function of its inputs: nothing mutates the
// source, and calling any function twice on the same state gives the same
// result.
package view

import (
	"fmt"
	"math"
	"slices"

	"skillboard/internal/model"
	"skillboard/internal/statusutil"
)

// Source is the read side of a session store.
type Source interface {
	Skills() []model.Skill
	Tasks() []model.Task
	Filters() model.Filters
	Selection() (int, bool)
}

// unknownPriorityRank places unrecognized priorities after every known one.
const unknownPriorityRank = 99

// PriorityRank orders priorities: high, medium, low, then anything else.
func PriorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 1
	case model.PriorityMedium:
		return 2
	case model.PriorityLow:
		return 3
	default:
		return unknownPriorityRank
	}
}

// FilterSkills keeps skills of the given category, preserving order.
func FilterSkills(skills []model.Skill, category model.CategoryFilter) []model.Skill {
	out := make([]model.Skill, 0, len(skills))
	for _, sk := range skills {
		if category == model.FilterAll || model.CategoryFilter(sk.Category) == category {
			out = append(out, sk)
		}
	}
	return out
}

// FilterTasks keeps the tasks owned by skillID that pass the status filter.
// The result is in collection order; see SortTasks.
func FilterTasks(tasks []model.Task, skillID int, status model.StatusFilter) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.SkillID != skillID {
			continue
		}
		if !statusutil.MatchesStatus(status, t.Done) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasks orders tasks in place: open before done, then by priority rank.
// Ties keep their existing relative order.
func SortTasks(tasks []model.Task) {
	slices.SortStableFunc(tasks, func(a, b model.Task) int {
		if a.Done != b.Done {
			if !a.Done {
				return -1
			}
			return 1
		}
		return PriorityRank(a.Priority) - PriorityRank(b.Priority)
	})
}

// Stats aggregates over the complete collections passed in.
func Stats(skills []model.Skill, tasks []model.Task) model.Stats {
	st := model.Stats{
		TotalSkills: len(skills),
		TotalTasks:  len(tasks),
	}
	if len(skills) > 0 {
		sum := 0
		for _, sk := range skills {
			sum += sk.Level
		}
		st.AverageLevel = float64(sum) / float64(len(skills))
	}
	for _, t := range tasks {
		if t.Done {
			st.CompletedTasks++
		}
	}
	if st.TotalTasks > 0 {
		st.CompletionRatePercent = roundTenth(float64(st.CompletedTasks) / float64(st.TotalTasks) * 100)
	}
	return st
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatPercent renders a completion rate with one decimal place ("50.0").
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatLevel renders an average level with one decimal place.
func FormatLevel(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// ClampLevel bounds a skill level to the displayable 0..100 range.
func ClampLevel(level int) int {
	return min(max(level, 0), 100)
}

// FilteredSkills returns the skills visible under the current category filter.
func FilteredSkills(src Source) []model.Skill {
	return FilterSkills(src.Skills(), src.Filters().Category)
}

// FilteredTasks returns the selected skill's tasks under the current status
// filter, sorted for display. It is empty when nothing is selected.
func FilteredTasks(src Source) []model.Task {
	id, ok := src.Selection()
	if !ok {
		return []model.Task{}
	}
	out := FilterTasks(src.Tasks(), id, src.Filters().Status)
	SortTasks(out)
	return out
}

// ComputeStats is Stats over the source's full collections. Filters and
// selection never scope it.
func ComputeStats(src Source) model.Stats {
	return Stats(src.Skills(), src.Tasks())
}
