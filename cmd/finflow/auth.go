package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/spf13/cobra"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register, and manage the session",
	}

	cmd.AddCommand(loginCmd())
	cmd.AddCommand(registerCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(whoamiCmd())
	cmd.AddCommand(forgotPasswordCmd())

	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the finance API",
		Long: `Log in with email and password. Missing values are prompted for.
The session is remembered between runs unless session.remember is false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				creds, err := askCredentials(ctx, a, email, password)
				if err != nil {
					return err
				}
				resp, err := a.client.Auth.Login(ctx, creds)
				if err != nil {
					return apiFailure("Login failed", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Logged in as %s <%s>", resp.User.Name, resp.User.Email)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")

	return cmd
}

func askCredentials(ctx context.Context, a *app, email, password string) (model.Credentials, error) {
	var err error
	if email == "" {
		if email, err = a.prompter.Ask(ctx, "Email", ""); err != nil {
			return model.Credentials{}, err
		}
	}
	if password == "" {
		if password, err = a.prompter.AskSecret(ctx, "Password"); err != nil {
			return model.Credentials{}, err
		}
	}
	return model.Credentials{Email: email, Password: password}, nil
}

func registerCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				var err error
				if name == "" {
					if name, err = a.prompter.Ask(ctx, "Name", ""); err != nil {
						return err
					}
				}
				creds, err := askCredentials(ctx, a, email, password)
				if err != nil {
					return err
				}
				resp, err := a.client.Auth.Register(ctx, model.Registration{Name: name, Email: creds.Email, Password: creds.Password})
				if err != nil {
					return apiFailure("Registration failed", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Welcome, %s!", resp.User.Name)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.client.Auth.Logout(ctx); err != nil {
					return fmt.Errorf("failed to clear session: %w", err)
				}
				a.println(cli.FormatSuccess("Logged out"))
				return nil
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				a.printf("%s %s <%s>\n", cli.LockIcon, cli.BoldStyle.Render(user.Name), user.Email)
				a.printf("%s\n", cli.SubtleStyle.Render(a.client.BaseURL()))
				return nil
			})
		},
	}
}

func forgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.client.Auth.ForgotPassword(ctx, args[0]); err != nil {
					return apiFailure("Request failed", err)
				}
				a.println(cli.FormatInfo("If the address is registered, a reset link is on its way."))
				return nil
			})
		},
	}
}
