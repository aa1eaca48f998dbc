package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"skillboard/internal/controller"
	"skillboard/internal/gitrepo"
	"skillboard/internal/publish"
	"skillboard/internal/statusutil"
	"skillboard/internal/tui"

	"github.com/spf13/cobra"
)

const reportWidth = 100

func newReportCmd(app *App) *cobra.Command {
	var toDir string
	var raw bool
	var overwrite bool
	var category string
	var status string
	var skipTasks bool
	var commit bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a Markdown report (terminal, raw, or written to --to)",
		Example: strings.TrimSpace(`
  # Styled in the terminal
  skillboard report

  # Plain Markdown
  skillboard report --raw > report.md

  # Write DIR/report.md
  skillboard report --to ./out --category backend

  # Write and commit it (DIR inside a git repo)
  skillboard report --to ./docs --commit
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := statusutil.NormalizeCategoryFilter(category)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := statusutil.NormalizeStatusFilter(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctl, err := openController(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctl.DispatchAll(
				controller.CategoryChanged{Category: cat},
				controller.StatusChanged{Status: st},
			)

			opt := publish.RenderOptions{GeneratedAt: time.Now().UTC(), SkipTasks: skipTasks}

			toDir = strings.TrimSpace(toDir)
			if toDir != "" {
				res, err := publish.WriteReport(ctl.Store(), toDir, publish.WriteOptions{Render: opt, Overwrite: overwrite})
				if err != nil {
					return writeErr(cmd, err)
				}
				out := reportWriteOutput{Written: res.Written}
				gst, err := gitrepo.GetStatus(cmd.Context(), toDir)
				if err != nil {
					return writeErr(cmd, err)
				}
				out.Git = gst
				if commit {
					if !gst.IsRepo {
						return writeErr(cmd, errors.New("--commit: "+toDir+" is not inside a git repository"))
					}
					committed, err := gitrepo.CommitPaths(cmd.Context(), toDir, res.Written, reportCommitMessage)
					if err != nil {
						return writeErr(cmd, err)
					}
					out.Committed = committed
					app.log.Info("report committed", "dir", toDir, "committed", committed)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   out,
					"_hints": reportHints(out),
				})
			}

			md := publish.RenderReportMarkdown(ctl.Store(), opt)
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tui.RenderMarkdown(md, reportWidth))
			return err
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory (writes report.md)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().BoolVar(&overwrite, "overwrite", true, "Overwrite an existing report.md")
	cmd.Flags().StringVar(&category, "category", "all", "Only report skills in this category")
	cmd.Flags().StringVar(&status, "status", "all", "Only list tasks with this status (all|done|in-progress)")
	cmd.Flags().BoolVar(&skipTasks, "skip-tasks", false, "Leave out the per-skill task lists")
	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the written report (requires --to inside a git repo)")
	return cmd
}

const reportCommitMessage = "Publish: skills report"

type reportWriteOutput struct {
	Written   []string       `json:"written"`
	Git       gitrepo.Status `json:"git"`
	Committed bool           `json:"committed"`
}

func reportHints(out reportWriteOutput) []string {
	switch {
	case !out.Git.IsRepo:
		return []string{}
	case out.Committed:
		return []string{"git push"}
	default:
		return []string{
			"git status",
			"git add " + strings.Join(out.Written, " "),
			"git commit -m \"" + reportCommitMessage + "\"",
		}
	}
}
