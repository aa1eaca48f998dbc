package cli

import (
	"skillboard/internal/dataset"

	"github.com/spf13/cobra"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the dataset loads (skills and tasks present as lists)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmtName := string(dataset.FormatJSON)
			if app.Data != "-" {
				if f, err := dataset.FormatForPath(app.Data); err == nil {
					fmtName = string(f)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":   app.Data,
					"format": fmtName,
					"valid":  true,
					"skills": len(ds.Skills),
					"tasks":  len(ds.Tasks),
				},
			})
		},
	}
}
