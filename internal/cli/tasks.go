package cli

import (
	"errors"
	"strconv"
	"strings"

	"skillboard/internal/controller"
	"skillboard/internal/statusutil"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	var skillID int
	var status string
	var toggles []string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List a skill's tasks (open first, then by priority)",
		Long: strings.TrimSpace(`
List the tasks of one skill, filtered by status and sorted with open tasks first,
then by priority (high, medium, low, other).

--toggle applies completion changes in memory before listing; nothing is written
back to the data file.
`),
		Example: strings.TrimSpace(`
  skillboard tasks --skill 1
  skillboard tasks --skill 1 --status done
  skillboard tasks --skill 1 --toggle 2=true --toggle 3
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("skill") {
				return writeErr(cmd, errors.New("missing --skill"))
			}
			st, err := statusutil.NormalizeStatusFilter(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctl, err := openController(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			if !ctl.Dispatch(controller.SkillSelected{SkillID: skillID}).Applied {
				return writeErr(cmd, errNotFound("skill", strconv.Itoa(skillID)))
			}
			ctl.Dispatch(controller.StatusChanged{Status: st})

			hints := []string{}
			for _, raw := range toggles {
				ev, err := parseToggle(ctl, raw)
				if err != nil {
					return writeErr(cmd, err)
				}
				if _, ok := ctl.Store().FindTask(ev.TaskID); !ok {
					hints = append(hints, "task "+itoa(ev.TaskID)+" not found; toggle ignored")
				}
				res := ctl.Dispatch(ev)
				app.log.Debug("toggle", "event", ev.String(), "changed", res.Changed)
			}

			d := ctl.Snapshot()
			return writeOut(cmd, app, map[string]any{
				"data": taskTable{
					Skill:  d.SelectedSkill,
					Status: d.Filters.Status,
					Tasks:  d.Tasks,
				},
				"_hints": hints,
			})
		},
	}

	cmd.Flags().IntVar(&skillID, "skill", 0, "Skill id")
	cmd.Flags().StringVar(&status, "status", "all", "Status filter (all|done|in-progress)")
	cmd.Flags().StringArrayVar(&toggles, "toggle", nil, "Set a task's completion: ID=true|false, or ID to flip it (repeatable)")
	return cmd
}

// parseToggle reads "ID=true|false" or a bare "ID", which flips the task's
// current state.
func parseToggle(ctl *controller.Controller, raw string) (controller.TaskToggled, error) {
	raw = strings.TrimSpace(raw)
	idPart, donePart, hasDone := strings.Cut(raw, "=")
	id, err := strconv.Atoi(strings.TrimSpace(idPart))
	if err != nil {
		return controller.TaskToggled{}, errInvalidFlag("toggle", raw, "ID=true|false")
	}
	if hasDone {
		done, err := strconv.ParseBool(strings.TrimSpace(donePart))
		if err != nil {
			return controller.TaskToggled{}, errInvalidFlag("toggle", raw, "ID=true|false")
		}
		return controller.TaskToggled{TaskID: id, Done: done}, nil
	}
	done := true
	if t, ok := ctl.Store().FindTask(id); ok {
		done = !t.Done
	}
	return controller.TaskToggled{TaskID: id, Done: done}, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
