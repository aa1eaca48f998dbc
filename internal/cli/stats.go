package cli

import (
	"skillboard/internal/controller"
	"skillboard/internal/statusutil"

	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var category string
	var skillID int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over all skills and tasks",
		Long:  "Statistics always cover the whole dataset; --category and --skill are accepted but do not narrow them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := statusutil.NormalizeCategoryFilter(category)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctl, err := openController(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctl.Dispatch(controller.CategoryChanged{Category: cat})
			if cmd.Flags().Changed("skill") {
				ctl.Dispatch(controller.SkillSelected{SkillID: skillID})
			}
			return writeOut(cmd, app, map[string]any{
				"data": statsTable(ctl.Snapshot().Stats),
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "all", "Category filter (does not scope statistics)")
	cmd.Flags().IntVar(&skillID, "skill", 0, "Selected skill (does not scope statistics)")
	return cmd
}
