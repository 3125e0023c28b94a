package main

import (
	"context"

	"github.com/Veraticus/finflow/internal/config"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/Veraticus/finflow/internal/tui"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func tuiCmd() *cobra.Command {
	var recordDir string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive shell",
		Long: `Open the full-screen shell with the dashboard, transactions and
accounts screens. Press ? inside for the key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				ui := config.LoadUI(viper.GetViper())

				p := tui.Pages{
					Dashboard:    pages.NewDashboard(a.client.Dashboard, a.client.Accounts, a.logger),
					Transactions: pages.NewTransactions(a.client.Transactions, a.client.Categories, a.client.Accounts, a.logger),
					Accounts:     pages.NewAccounts(a.client.Accounts, a.logger),
					Categories:   pages.NewCategories(a.client.Categories, a.logger),
				}
				opts := []tui.Option{
					tui.WithTheme(themes.GetTheme(ui.Theme)),
					tui.WithMouse(ui.Mouse),
					tui.WithLogger(a.logger),
					tui.WithFormatter(a.format),
					tui.WithRecordDir(recordDir),
				}
				if user != nil {
					opts = append(opts, tui.WithUser(user.Name))
				}
				if err := tui.Run(ctx, p, opts...); err != nil {
					return apiFailure("The shell stopped", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&recordDir, "record", "", "write every rendered frame under this directory")

	return cmd
}
