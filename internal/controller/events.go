package controller

import (
	"fmt"

	"skillboard/internal/model"
)

// Event is one user interaction. Presentation layers translate their input
// (keys, HTTP requests, CLI flags) into events and hand them to Dispatch.
type Event interface {
	isEvent()
}

type CategoryChanged struct {
	Category model.CategoryFilter
}

type SkillSelected struct {
	SkillID int
}

type StatusChanged struct {
	Status model.StatusFilter
}

type TaskToggled struct {
	TaskID int
	Done   bool
}

func (CategoryChanged) isEvent() {}
func (SkillSelected) isEvent()   {}
func (StatusChanged) isEvent()   {}
func (TaskToggled) isEvent()     {}

func (e CategoryChanged) String() string { return fmt.Sprintf("category-changed(%s)", e.Category) }
func (e SkillSelected) String() string   { return fmt.Sprintf("skill-selected(%d)", e.SkillID) }
func (e StatusChanged) String() string   { return fmt.Sprintf("status-changed(%s)", e.Status) }
func (e TaskToggled) String() string     { return fmt.Sprintf("task-toggled(%d,%v)", e.TaskID, e.Done) }

// Dispatch routes an event to the matching operation.
func (c *Controller) Dispatch(ev Event) Result {
	switch e := ev.(type) {
	case CategoryChanged:
		return c.ChangeCategory(e.Category)
	case SkillSelected:
		return c.SelectSkill(e.SkillID)
	case StatusChanged:
		return c.ChangeStatus(e.Status)
	case TaskToggled:
		return c.ToggleTask(e.TaskID, e.Done)
	default:
		return Result{}
	}
}

// DispatchAll applies events in order and reports whether any changed state.
func (c *Controller) DispatchAll(evs ...Event) Result {
	out := Result{}
	for _, ev := range evs {
		r := c.Dispatch(ev)
		out.Applied = out.Applied || r.Applied
		out.Changed = out.Changed || r.Changed
	}
	return out
}
