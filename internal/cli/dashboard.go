package cli

import (
	"strconv"

	"skillboard/internal/controller"
	"skillboard/internal/model"
	"skillboard/internal/store"
	"skillboard/internal/view"

	"github.com/spf13/cobra"
)

// openController loads the dataset into a fresh store. CLI invocations are
// one-shot sessions: nothing applied to the controller is written back.
func openController(cmd *cobra.Command, app *App) (*controller.Controller, error) {
	ds, err := loadDataset(cmd, app)
	if err != nil {
		return nil, err
	}
	ctl := controller.New(store.New(), nil)
	ctl.Load(ds)
	return ctl, nil
}

type skillTable []model.Skill

func (t skillTable) TableHeader() []string {
	return []string{"ID", "NAME", "CATEGORY", "LEVEL"}
}

func (t skillTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, sk := range t {
		rows = append(rows, []string{
			strconv.Itoa(sk.ID),
			sk.Name,
			string(sk.Category),
			strconv.Itoa(view.ClampLevel(sk.Level)),
		})
	}
	return rows
}

type taskTable struct {
	Skill  *model.Skill       `json:"skill"`
	Status model.StatusFilter `json:"status"`
	Tasks  []model.Task       `json:"tasks"`
}

func (t taskTable) TableHeader() []string {
	return []string{"ID", "DONE", "PRIORITY", "TEXT"}
}

func (t taskTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Tasks))
	for _, task := range t.Tasks {
		done := " "
		if task.Done {
			done = "x"
		}
		rows = append(rows, []string{strconv.Itoa(task.ID), done, string(task.Priority), task.Text})
	}
	return rows
}

type statsTable model.Stats

func (t statsTable) TableHeader() []string { return []string{"STAT", "VALUE"} }

func (t statsTable) TableRows() [][]string {
	return [][]string{
		{"Skills", strconv.Itoa(t.TotalSkills)},
		{"Average level", view.FormatLevel(t.AverageLevel)},
		{"Tasks", strconv.Itoa(t.TotalTasks)},
		{"Completed", strconv.Itoa(t.CompletedTasks)},
		{"Completion rate", view.FormatPercent(t.CompletionRatePercent) + "%"},
	}
}
