// Package controller applies user events to a session store and triggers a
// re-render after each one.
//
// Reset rules:
//   - a category change clears the selection and resets the status filter
//   - selecting a skill resets the status filter
//   - a status change touches nothing else
//   - a task toggle only flips that task's done flag
//
// Events that reference unknown ids are ignored rather than reported.
package controller

import (
	"skillboard/internal/model"
	"skillboard/internal/store"
	"skillboard/internal/view"
)

// Renderer receives a fresh dashboard after every applied event.
type Renderer interface {
	Render(view.Dashboard)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(view.Dashboard)

func (f RendererFunc) Render(d view.Dashboard) { f(d) }

// Result describes the effect of one event.
type Result struct {
	// Applied is false when the event was ignored (store not loaded, unknown
	// skill id). Ignored events do not render.
	Applied bool
	// Changed is true when any state actually differs afterwards.
	Changed bool
}

type Controller struct {
	store    *store.Store
	renderer Renderer
}

// New wires a controller to a store. A nil renderer is allowed.
func New(st *store.Store, r Renderer) *Controller {
	if st == nil {
		st = store.New()
	}
	return &Controller{store: st, renderer: r}
}

// Store exposes the underlying store for read access.
func (c *Controller) Store() *store.Store { return c.store }

// Snapshot returns the current dashboard without applying anything.
func (c *Controller) Snapshot() view.Dashboard {
	return view.Build(c.store)
}

// Load installs a freshly loaded dataset and resets filters and selection.
func (c *Controller) Load(ds model.Dataset) Result {
	c.store.Replace(ds.Skills, ds.Tasks)
	c.store.SetCategoryFilter(model.FilterAll)
	c.store.SetStatusFilter(model.StatusAll)
	c.store.ClearSelection()
	c.render()
	return Result{Applied: true, Changed: true}
}

// ChangeCategory sets the category filter, clears the selection and resets
// the status filter to "all".
func (c *Controller) ChangeCategory(category model.CategoryFilter) Result {
	if !c.store.Loaded() {
		return Result{}
	}
	before := c.state()
	c.store.SetCategoryFilter(category)
	c.store.ClearSelection()
	c.store.SetStatusFilter(model.StatusAll)
	c.render()
	return Result{Applied: true, Changed: before != c.state()}
}

// SelectSkill selects an existing skill and resets the status filter.
// Unknown ids are ignored.
func (c *Controller) SelectSkill(skillID int) Result {
	if !c.store.Loaded() {
		return Result{}
	}
	if _, ok := c.store.FindSkill(skillID); !ok {
		return Result{}
	}
	before := c.state()
	c.store.Select(skillID)
	c.store.SetStatusFilter(model.StatusAll)
	c.render()
	return Result{Applied: true, Changed: before != c.state()}
}

// ChangeStatus sets the status filter only. It is kept even when no skill is
// selected; it takes effect once one is.
func (c *Controller) ChangeStatus(status model.StatusFilter) Result {
	if !c.store.Loaded() {
		return Result{}
	}
	before := c.state()
	c.store.SetStatusFilter(status)
	c.render()
	return Result{Applied: true, Changed: before != c.state()}
}

// ToggleTask sets a task's done flag. An unknown id leaves the store as it
// was, but the view is still re-rendered.
func (c *Controller) ToggleTask(taskID int, done bool) Result {
	if !c.store.Loaded() {
		return Result{}
	}
	changed := false
	if t, ok := c.store.FindTask(taskID); ok && t.Done != done {
		changed = true
	}
	c.store.SetTaskDone(taskID, done)
	c.render()
	return Result{Applied: true, Changed: changed}
}

func (c *Controller) render() {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(view.Build(c.store))
}

type controlState struct {
	filters     model.Filters
	selected    int
	hasSelected bool
}

func (c *Controller) state() controlState {
	id, ok := c.store.Selection()
	return controlState{filters: c.store.Filters(), selected: id, hasSelected: ok}
}
