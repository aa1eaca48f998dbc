package cli

import (
	"errors"
	"strings"

	"skillboard/internal/dataset"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert the dataset into a SQLite file",
		Long: strings.TrimSpace(`
Read the dataset named by --data (JSON, YAML, SQLite, or - for stdin) and write it
to a SQLite file. An existing dataset in the target file is replaced.
`),
		Example: strings.TrimSpace(`
  skillboard --data skills.json import --to skills.sqlite
  skillboard --data skills.sqlite skills
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			to = strings.TrimSpace(to)
			if to == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			if f, err := dataset.FormatForPath(to); err != nil || f != dataset.FormatSQLite {
				return writeErr(cmd, errInvalidFlag("to", to, "a .sqlite, .sqlite3 or .db path"))
			}
			ds, err := loadDataset(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := dataset.Import(cmd.Context(), ds, to); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("dataset imported", "from", app.Data, "to", to)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"from":   app.Data,
					"to":     to,
					"skills": len(ds.Skills),
					"tasks":  len(ds.Tasks),
				},
				"_hints": []string{
					"skillboard --data " + to + " skills",
				},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target SQLite file")
	return cmd
}
