package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"skillboard/internal/controller"
	"skillboard/internal/docs"
	"skillboard/internal/logging"
	"skillboard/internal/model"
	"skillboard/internal/publish"
	"skillboard/internal/statusutil"
	"skillboard/internal/store"
	"skillboard/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pane int

const (
	paneSkills pane = iota
	paneTasks
)

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayReport
)

// frameSink receives the controller's renders. The model reads the latest
// frame after every dispatched event.
type frameSink struct {
	latest view.Dashboard
	frames int
}

func (s *frameSink) Render(d view.Dashboard) {
	s.latest = d
	s.frames++
}

type appModel struct {
	ctl  *controller.Controller
	sink *frameSink
	log  *slog.Logger
	keys keyMap

	width  int
	height int

	focus   pane
	overlay overlay

	skillsList list.Model
	tasksList  list.Model

	frame view.Dashboard
}

func newAppModel(ds model.Dataset, log *slog.Logger) appModel {
	if log == nil {
		log = logging.Discard()
	}
	sink := &frameSink{}
	ctl := controller.New(store.New(), sink)
	ctl.Load(ds)

	m := appModel{
		ctl:        ctl,
		sink:       sink,
		log:        log,
		keys:       defaultKeyMap(),
		focus:      paneSkills,
		skillsList: newList("Skills", nil),
		tasksList:  newList("Tasks", nil),
	}
	m.applyFrame(sink.latest)
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		m.applyFrame(m.frame)
		return m, nil

	case tea.KeyMsg:
		if m.overlay != overlayNone {
			switch {
			case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
				return m, tea.Quit
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Report), msg.String() == "q":
				m.overlay = overlayNone
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.overlay = overlayHelp
			return m, nil
		case key.Matches(msg, m.keys.Report):
			m.overlay = overlayReport
			return m, nil
		case key.Matches(msg, m.keys.SwitchPane):
			if m.focus == paneSkills {
				m.focus = paneTasks
			} else {
				m.focus = paneSkills
			}
			return m, nil
		case key.Matches(msg, m.keys.NextCategory):
			m.dispatch(controller.CategoryChanged{Category: statusutil.NextCategoryFilter(m.frame.Filters.Category, 1)})
			return m, nil
		case key.Matches(msg, m.keys.PrevCategory):
			m.dispatch(controller.CategoryChanged{Category: statusutil.NextCategoryFilter(m.frame.Filters.Category, -1)})
			return m, nil
		case key.Matches(msg, m.keys.NextStatus):
			m.dispatch(controller.StatusChanged{Status: statusutil.NextStatusFilter(m.frame.Filters.Status, 1)})
			return m, nil
		case key.Matches(msg, m.keys.PrevStatus):
			m.dispatch(controller.StatusChanged{Status: statusutil.NextStatusFilter(m.frame.Filters.Status, -1)})
			return m, nil
		case key.Matches(msg, m.keys.Select) && m.focus == paneSkills:
			if it, ok := m.skillsList.SelectedItem().(skillItem); ok {
				m.dispatch(controller.SkillSelected{SkillID: it.skill.ID})
				if len(m.frame.Tasks) > 0 {
					m.focus = paneTasks
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle) && m.focus == paneTasks:
			if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
				m.dispatch(controller.TaskToggled{TaskID: it.task.ID, Done: !it.task.Done})
				selectTaskItemByID(&m.tasksList, it.task.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == paneSkills {
		m.skillsList, cmd = m.skillsList.Update(msg)
	} else {
		m.tasksList, cmd = m.tasksList.Update(msg)
	}
	return m, cmd
}

// dispatch applies one controller event and picks up the resulting frame.
func (m *appModel) dispatch(ev controller.Event) {
	res := m.ctl.Dispatch(ev)
	m.log.Debug("tui event", "event", fmt.Sprint(ev), "applied", res.Applied, "changed", res.Changed)
	if !res.Applied {
		return
	}
	m.applyFrame(m.sink.latest)
	if m.frame.SelectedSkillID == nil {
		m.focus = paneSkills
	}
}

func (m *appModel) applyFrame(d view.Dashboard) {
	m.frame = d

	curSkill := -1
	if it, ok := m.skillsList.SelectedItem().(skillItem); ok {
		curSkill = it.skill.ID
	}
	curTask := -1
	if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
		curTask = it.task.ID
	}

	m.skillsList.SetItems(skillItems(d, m.barWidth()))
	m.tasksList.SetItems(taskItems(d))

	if d.SelectedSkillID != nil {
		selectSkillItemByID(&m.skillsList, *d.SelectedSkillID)
	} else if curSkill >= 0 && !selectSkillItemByID(&m.skillsList, curSkill) {
		m.skillsList.Select(0)
	}
	if curTask < 0 || !selectTaskItemByID(&m.tasksList, curTask) {
		m.tasksList.Select(0)
	}
}

func (m appModel) barWidth() int {
	w := m.paneWidth() / 4
	return min(max(w, 5), 20)
}

func (m appModel) paneWidth() int {
	if m.width <= 0 {
		return 40
	}
	// Two bordered panes side by side.
	return max((m.width-6)/2, 10)
}

func (m appModel) listHeight() int {
	// header (2 lines) + pane chrome (3) + footer (1)
	return max(m.height-8, 3)
}

func (m *appModel) resizeLists() {
	// Pane padding takes one column on each side.
	m.skillsList.SetSize(m.paneWidth()-2, m.listHeight())
	m.tasksList.SetSize(m.paneWidth()-2, m.listHeight())
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	switch m.overlay {
	case overlayHelp:
		return m.viewOverlay("Help", m.helpMarkdown())
	case overlayReport:
		return m.viewOverlay("Report", publish.RenderReportMarkdown(m.ctl.Store(), publish.RenderOptions{}))
	}

	header := m.viewHeader()

	skillsTitle := styleHeader().Render("Skills") + styleMuted().Render(" · "+string(m.frame.Filters.Category))
	left := stylePane(m.focus == paneSkills).Width(m.paneWidth()).Render(
		skillsTitle + "\n" + m.viewSkills(),
	)

	tasksTitle := styleHeader().Render("Tasks")
	if m.frame.SelectedSkill != nil {
		tasksTitle += styleMuted().Render(" · " + m.frame.SelectedSkill.Name)
	}
	tasksTitle += styleMuted().Render(" · " + string(m.frame.Filters.Status))
	right := stylePane(m.focus == paneTasks).Width(m.paneWidth()).Render(
		tasksTitle + "\n" + m.viewTasks(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	footer := styleMuted().Render(helpLine(m.keys.footer(m.focus)))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m appModel) viewHeader() string {
	st := m.frame.Stats
	title := lipgloss.NewStyle().Bold(true).Render("skillboard")
	stats := fmt.Sprintf("%d skills · avg level %s · %d/%d tasks done · %s%%",
		st.TotalSkills, view.FormatLevel(st.AverageLevel), st.CompletedTasks, st.TotalTasks, view.FormatPercent(st.CompletionRatePercent))
	return title + "  " + styleChrome().Render(stats) + "\n"
}

func (m appModel) viewSkills() string {
	if len(m.frame.Skills) == 0 {
		return styleMuted().Render("No skills in this category.")
	}
	return m.skillsList.View()
}

func (m appModel) viewTasks() string {
	if !m.frame.TaskViewActive {
		return styleMuted().Render("Select a skill to see its tasks.")
	}
	if len(m.frame.Tasks) == 0 {
		return styleMuted().Render("No tasks match this filter.")
	}
	return m.tasksList.View()
}

func (m appModel) helpMarkdown() string {
	if body, ok := docs.Get("keys"); ok {
		return body
	}
	return helpLine(m.keys.footer(paneSkills))
}

func (m appModel) viewOverlay(title, md string) string {
	body := RenderMarkdown(md, max(m.width-4, 20))
	lines := strings.Split(body, "\n")
	if maxLines := max(m.height-3, 1); len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	head := styleHeader().Render(title) + styleMuted().Render("  (esc to close)")
	return head + "\n" + strings.Join(lines, "\n")
}
