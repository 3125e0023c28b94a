package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var period periodFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the month at a glance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, year, err := period.resolve(time.Now())
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				container := pages.NewDashboard(a.client.Dashboard, a.client.Accounts, a.logger)
				defer container.Close()
				view, err := container.Load(ctx, month, year)
				if err != nil {
					return apiFailure("Failed to load dashboard", err)
				}
				printDashboard(a, view)
				return nil
			})
		},
	}
	period.register(cmd.Flags())

	return cmd
}

func printDashboard(a *app, view pages.DashboardView) {
	d := view.Display(a.format)
	net := view.Income().Sub(view.Expense())

	a.println(cli.FormatTitle(fmt.Sprintf("Dashboard · %s %d", money.MonthName(view.Month), view.Year)))
	a.printf("%-14s %s\n", "Balance", cli.BoldStyle.Render(d.TotalBalance))
	a.printf("%-14s %s\n", "Income", cli.FormatMoney(d.Income, false))
	a.printf("%-14s %s\n", "Expense", cli.FormatMoney(d.Expense, true))
	a.printf("%-14s %s\n", "Net", cli.FormatMoney(d.Net, net.IsNegative()))
	if d.Pending > 0 {
		a.println("\n" + cli.FormatWarning(fmt.Sprintf("%d pending transactions", d.Pending)))
	}

	if recent := view.Summary.RecentTransactions; len(recent) > 0 {
		a.println("\n" + cli.BoldStyle.Render("Recent transactions"))
		for _, txn := range recent[:min(5, len(recent))] {
			a.printf("  %s  %-30s %s\n", money.FormatDate(txn.DateOnly()), txn.Description, signedAmount(a.format, txn))
		}
	}

	if cats := view.Summary.ExpenseByCategory; len(cats) > 0 {
		a.println("\n" + cli.BoldStyle.Render("Expenses by category"))
		for _, c := range cats {
			a.printf("  %-20s %s  %s\n", c.Name, a.format(decimal.NewFromFloat(c.Value)), cli.SubtleStyle.Render(money.FormatPercent(c.Percentage)))
		}
	}
}
