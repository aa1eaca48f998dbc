package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"skillboard/internal/config"
	"skillboard/internal/dataset"
	"skillboard/internal/format"
	"skillboard/internal/logging"
	"skillboard/internal/model"
	"skillboard/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type App struct {
	ConfigFile string
	Data       string
	PrettyJSON bool
	Format     string

	v        *viper.Viper
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{v: config.New(), log: logging.Discard()}

	cmd := &cobra.Command{
		Use:          "skillboard",
		Short:        "Skills and tasks dashboard (CLI + TUI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI over ./skills.json
  skillboard

  # Scriptable commands
  skillboard skills --category frontend
  skillboard tasks --skill 1 --status in-progress

  # Shortcut for: skillboard tasks --skill 1
  skillboard 1

  # Serve the dashboard in a browser
  skillboard web --addr 127.0.0.1:3335
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", "", "Config file (default: .skillboard.yaml in the working directory or $HOME)")
	pf.StringVar(&app.Data, "data", config.DefaultData, "Dataset file (.json, .yaml, .sqlite) or - for JSON on stdin")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", "json", "Output format ("+strings.Join(format.Formats(), "|")+")")
	pf.String("log-level", "info", "Log level (debug|info|warn|error)")
	pf.String("log-format", "text", "Log format (text|json)")

	_ = app.v.BindPFlag("data", pf.Lookup("data"))
	_ = app.v.BindPFlag("pretty", pf.Lookup("pretty"))
	_ = app.v.BindPFlag("format", pf.Lookup("format"))
	_ = app.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = app.v.BindPFlag("log.format", pf.Lookup("log-format"))

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newSkillsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// init resolves config (flags > env > file > defaults) and builds the logger.
func (app *App) init(cmd *cobra.Command) error {
	if err := config.ReadFile(app.v, app.ConfigFile); err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := config.Load(app.v)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.Data = cfg.Data
	app.Format = cfg.Format
	app.PrettyJSON = cfg.Pretty

	opt := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: cmd.ErrOrStderr()}
	if p := strings.TrimSpace(cfg.Log.File); p != "" {
		l, closeFn, err := logging.OpenFile(p, opt)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log, app.closeLog = l, closeFn
	} else {
		l, err := logging.New(opt)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = l
	}
	app.log.Debug("config resolved", "file", app.v.ConfigFileUsed(), "data", cfg.Data, "format", cfg.Format)
	return nil
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	if app.Data == "-" {
		return writeErr(cmd, errors.New("tui: --data - is not supported (stdin belongs to the terminal)"))
	}
	ds, err := loadDataset(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	opt := tui.Options{}
	if app.cfg != nil {
		if p := strings.TrimSpace(app.cfg.TUI.DebugLog); p != "" {
			l, closeFn, err := logging.OpenFile(p, logging.Options{Level: "debug"})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeFn() }()
			opt.Logger = l
		}
	}
	return tui.Run(ds, opt)
}

// loadDataset reads the configured data source. "-" means JSON on stdin.
func loadDataset(cmd *cobra.Command, app *App) (model.Dataset, error) {
	src := strings.TrimSpace(app.Data)
	if src == "-" {
		return dataset.Decode(cmd.InOrStdin(), dataset.FormatJSON)
	}
	ds, err := dataset.LoadFile(cmd.Context(), src)
	if err != nil {
		return model.Dataset{}, err
	}
	app.log.Debug("dataset loaded", "path", src, "skills", len(ds.Skills), "tasks", len(ds.Tasks))
	return ds, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
