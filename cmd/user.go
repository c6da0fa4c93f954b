package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	userRequest "github.com/Alturino/storefront/user/pkg/request"
	userService "github.com/Alturino/storefront/user/service"
)

func loginCommand() *cobra.Command {
	var (
		username string
		password string
	)
	command := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the gateway and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			svc := userService.NewUserService(app.gateway, app.session, app.notifier)
			auth, err := svc.Login(c, userRequest.Login{Username: username, Password: password})
			if err != nil {
				return nil
			}
			fmt.Fprintf(app.out, "Welcome, %s\n", auth.Username)
			return nil
		},
	}
	command.Flags().StringVarP(&username, "username", "u", "", "account username")
	command.Flags().StringVarP(&password, "password", "p", "", "account password")
	return command
}

func registerCommand() *cobra.Command {
	var (
		username string
		email    string
		password string
	)
	command := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			svc := userService.NewUserService(app.gateway, app.session, app.notifier)
			auth, err := svc.Register(c, userRequest.Register{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return nil
			}
			fmt.Fprintf(app.out, "Welcome, %s\n", auth.Username)
			return nil
		},
	}
	command.Flags().StringVarP(&username, "username", "u", "", "account username")
	command.Flags().StringVarP(&email, "email", "e", "", "account email")
	command.Flags().StringVarP(&password, "password", "p", "", "account password")
	return command
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			svc := userService.NewUserService(app.gateway, app.session, app.notifier)
			return svc.Logout(c)
		},
	}
}

func whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			user := app.session.User()
			if !app.session.IsLoggedIn() || user == nil {
				fmt.Fprintln(app.out, "Not logged in")
				return nil
			}
			fmt.Fprintf(app.out, "Welcome, %s", user.Username)
			if app.session.IsAdmin() {
				fmt.Fprint(app.out, " (admin)")
			}
			fmt.Fprintln(app.out)
			return nil
		},
	}
}
