package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"skillboard/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the dashboard in a browser (Datastar + SSE)",
		Long: strings.TrimSpace(`
Serve the dashboard from a local HTTP server.

- Each browser gets its own session; sessions load the data file once.
- With --watch, edits to the data file are picked up by new sessions and open
  sessions are told their data is stale.
`),
		Example: strings.TrimSpace(`
# Serve ./skills.json on localhost
skillboard web --addr 127.0.0.1:3335

# Serve a SQLite dataset without watching it
skillboard --data skills.sqlite web --watch=false
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = app.cfg.Web.Addr
			}
			if !cmd.Flags().Changed("watch") {
				watch = app.cfg.Web.Watch
			}
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:   listenAddr,
				Data:   app.Data,
				Logger: app.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			if watch {
				if err := srv.Watch(cmd.Context()); err != nil {
					return writeErr(cmd, err)
				}
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"data":      app.Data,
					"watch":     watch,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "skillboard web running at %s (data=%s)\n", url, app.Data)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3335", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the UI in your default browser")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the data file for new sessions when it changes")
	return cmd
}

func openPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Run()
	default:
		return exec.Command("xdg-open", path).Run()
	}
}
