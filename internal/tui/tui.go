package tui

import (
	"log/slog"
	"os"
	"strings"

	"skillboard/internal/logging"
	"skillboard/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	// Logger receives debug events. When nil, SKILLBOARD_TUI_DEBUG_LOG names
	// a file to log to; otherwise logging is discarded (stderr belongs to the
	// terminal UI).
	Logger *slog.Logger
}

// Run starts the interactive dashboard over ds and blocks until the user quits.
func Run(ds model.Dataset, opt Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	log := opt.Logger
	if log == nil {
		log = logging.Discard()
		if p := strings.TrimSpace(os.Getenv("SKILLBOARD_TUI_DEBUG_LOG")); p != "" {
			l, closeFn, err := logging.OpenFile(p, logging.Options{Level: "debug"})
			if err == nil {
				defer func() { _ = closeFn() }()
				log = l
			}
		}
	}

	m := newAppModel(ds, log)
	log.Debug("tui start", "skills", len(ds.Skills), "tasks", len(ds.Tasks))
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
