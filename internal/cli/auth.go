package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"taskdeck/internal/api"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email-or-username>",
		Short: "Login and store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			identifier := strings.TrimSpace(args[0])
			if identifier == "" {
				return writeErr(cmd, errors.New("email or username is required"))
			}
			if password == "" {
				p, err := promptLine(cmd, "Password: ")
				if err != nil {
					return writeErr(cmd, err)
				}
				password = p
			}
			if password == "" {
				return writeErr(cmd, errors.New("password is required"))
			}

			if err := sess.Login(cmd.Context(), svc, identifier, password); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedIn": true}})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var fields api.RegisterFields

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log you in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			required := []struct{ name, value string }{
				{"--username", fields.Username},
				{"--first-name", fields.FirstName},
				{"--last-name", fields.LastName},
				{"--email", fields.Email},
				{"--phone", fields.PhoneNumber},
				{"--password", fields.Password},
			}
			for _, r := range required {
				if strings.TrimSpace(r.value) == "" {
					return writeErr(cmd, fmt.Errorf("%s is required", r.name))
				}
			}

			if err := sess.Register(cmd.Context(), svc, fields); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"registered": true}})
		},
	}

	cmd.Flags().StringVar(&fields.Username, "username", "", "Username")
	cmd.Flags().StringVar(&fields.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&fields.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&fields.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&fields.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&fields.Password, "password", "", "Password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Logout(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedIn": false}})
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state and backend reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			reachable := true
			detail := ""
			if err := svc.TestConnection(cmd.Context()); err != nil {
				reachable = false
				detail = err.Error()
			}
			out := map[string]any{
				"apiUrl":    app.APIURL,
				"loggedIn":  sess.Authenticated(),
				"reachable": reachable,
			}
			if detail != "" {
				out["error"] = detail
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
