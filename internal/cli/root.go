package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/format"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIURL     string
	ConfigDir  string
	PrettyJSON bool

	// Service overrides the HTTP client when set (tests).
	Service api.Service
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.APIURL == "" {
		app.APIURL = envOr("TASKDECK_API_URL", api.DefaultBaseURL)
	}
	if app.ConfigDir == "" {
		app.ConfigDir = envOr("TASKDECK_CONFIG_DIR", "")
	}

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "Task manager client (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskdeck

  # Scriptable commands
  taskdeck login alice --password secret
  taskdeck tasks list --category work --completed false
  taskdeck tasks create --title "Buy milk" --priority high
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", app.APIURL, "Backend base URL")
	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", app.ConfigDir, "Config dir (default: ~/.taskdeck)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newTasksCmd(app))

	return cmd
}

func runTUI(app *App) error {
	svc, sess, st, err := buildDeps(app)
	if err != nil {
		return err
	}
	return tui.Run(svc, sess, st)
}

// buildDeps resolves config dir, hydrates the session from the token file,
// and wires the API client against it.
func buildDeps(app *App) (api.Service, *session.Session, store.Store, error) {
	var st store.Store
	if app.ConfigDir != "" {
		st = store.Store{Dir: app.ConfigDir}
	} else {
		s, err := store.Default()
		if err != nil {
			return nil, nil, store.Store{}, err
		}
		st = s
	}

	sess := session.New(st)
	if err := sess.Hydrate(); err != nil {
		return nil, nil, st, err
	}

	svc := app.Service
	if svc == nil {
		svc = api.New(app.APIURL, sess)
	}
	return svc, sess, st, nil
}

func requireAuth(sess *session.Session) error {
	if !sess.Authenticated() {
		return errors.New("not logged in; run `taskdeck login <email-or-username>` first")
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
