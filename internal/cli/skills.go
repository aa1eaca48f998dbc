package cli

import (
	"strings"

	"skillboard/internal/controller"
	"skillboard/internal/statusutil"

	"github.com/spf13/cobra"
)

func newSkillsCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List skills (optionally filtered by category)",
		Example: strings.TrimSpace(`
  skillboard skills
  skillboard skills --category backend --format table
`),
		Args: cobra.NoArgs,
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
			d := ctl.Snapshot()

			hints := []string{}
			if len(d.Skills) > 0 {
				hints = append(hints, "skillboard tasks --skill "+itoa(d.Skills[0].ID))
			}
			return writeOut(cmd, app, map[string]any{
				"data":   skillTable(d.Skills),
				"_hints": hints,
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "all", "Category filter (all|frontend|backend|tools|<other>)")
	return cmd
}
