package tui

import (
	"fmt"
	"strings"

	"skillboard/internal/model"
	"skillboard/internal/view"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type skillItem struct {
	skill    model.Skill
	selected bool
	barWidth int
}

func (i skillItem) FilterValue() string { return strings.TrimSpace(i.skill.Name) }

func (i skillItem) Title() string {
	marker := "  "
	if i.selected {
		marker = "▸ "
	}
	cat := lipgloss.NewStyle().Foreground(categoryColor(string(i.skill.Category))).Render(string(i.skill.Category))
	return marker + i.skill.Name + " " + styleMuted().Render("("+cat+")") + " " + levelBar(i.skill.Level, i.barWidth)
}

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return strings.TrimSpace(i.task.Text) }

func (i taskItem) Title() string {
	box := "[ ]"
	text := i.task.Text
	if i.task.Done {
		box = lipgloss.NewStyle().Foreground(colorDone).Render("[x]")
		text = styleMuted().Strikethrough(true).Render(text)
	}
	p := string(i.task.Priority)
	if p == "" {
		p = "-"
	}
	prio := lipgloss.NewStyle().Foreground(priorityColor(string(i.task.Priority))).Render(fmt.Sprintf("%-6s", p))
	return box + " " + prio + " " + text
}

func levelBar(level, width int) string {
	if width <= 0 {
		width = 10
	}
	lv := view.ClampLevel(level)
	filled := lv * width / 100
	bar := lipgloss.NewStyle().Foreground(colorAccent).Render(strings.Repeat("█", filled)) +
		styleMuted().Render(strings.Repeat("░", width-filled))
	return bar + fmt.Sprintf(" %3d", lv)
}

func skillItems(d view.Dashboard, barWidth int) []list.Item {
	items := make([]list.Item, 0, len(d.Skills))
	for _, sk := range d.Skills {
		items = append(items, skillItem{skill: sk, selected: d.IsSelected(sk.ID), barWidth: barWidth})
	}
	return items
}

func taskItems(d view.Dashboard) []list.Item {
	items := make([]list.Item, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		items = append(items, taskItem{task: t})
	}
	return items
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, newCompactItemDelegate(), 0, 0)
	l.Title = title
	// The app draws its own header and footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

// selectSkillItemByID moves the cursor to the skill with the given id.
func selectSkillItemByID(l *list.Model, id int) bool {
	for i, it := range l.Items() {
		if si, ok := it.(skillItem); ok && si.skill.ID == id {
			l.Select(i)
			return true
		}
	}
	return false
}

func selectTaskItemByID(l *list.Model, id int) bool {
	for i, it := range l.Items() {
		if ti, ok := it.(taskItem); ok && ti.task.ID == id {
			l.Select(i)
			return true
		}
	}
	return false
}
