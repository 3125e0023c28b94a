package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/finflow/internal/api"
	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/config"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/sheets"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Summaries and exports",
	}

	cmd.AddCommand(overviewCmd())
	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func overviewCmd() *cobra.Command {
	var (
		period periodFlags
		kind   string
	)

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Totals grouped by category or account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, year, err := period.resolve(time.Now())
			if err != nil {
				return err
			}
			if !slices.Contains(api.ReportKinds, kind) {
				return common.NewUserError(fmt.Sprintf("Unknown report %q; choose one of %s", kind, strings.Join(api.ReportKinds, ", ")), common.ErrInvalidConfig)
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				overview, err := a.client.Reports.Overview(ctx, month, year, kind)
				if err != nil {
					return apiFailure("Failed to load report", err)
				}
				printOverview(a, kind, month, year, overview)
				return nil
			})
		},
	}
	period.register(cmd.Flags())
	cmd.Flags().StringVarP(&kind, "kind", "k", api.ReportExpensesByCategory, "report kind ("+strings.Join(api.ReportKinds, ", ")+")")

	return cmd
}

func printOverview(a *app, kind string, month, year int, overview *model.ReportOverview) {
	a.println(cli.TitleStyle.Render(fmt.Sprintf("%s %s · %s %d", cli.ChartIcon, strings.ReplaceAll(kind, "_", " "), money.MonthName(month), year)))
	if len(overview.Data) == 0 {
		a.println(cli.InfoStyle.Render("Nothing to report for this period."))
		return
	}

	rows := make([][]string, 0, len(overview.Data))
	values := make([]float64, 0, len(overview.Data))
	for _, item := range overview.Data {
		name := item.CategoryName
		if name == "" {
			name = item.AccountName
		}
		value := item.Total
		if kind == api.ReportBalanceByAccount {
			value = item.CurrentBalance
		}
		values = append(values, value)
		rows = append(rows, []string{
			name,
			a.format(decimal.NewFromFloat(value)),
			money.FormatPercent(item.Percentage),
			fmt.Sprintf("%d", item.Count),
		})
	}
	if err := writeTable(a.out, []string{"Name", "Total", "Share", "Count"}, rows); err != nil {
		a.logger.Warn("failed to write report", "error", err)
		return
	}
	// Balance reports come without a server total.
	total := decimal.NewFromFloat(overview.TotalAmount)
	if overview.TotalAmount == 0 {
		total = money.Sum(values...)
	}
	if !total.IsZero() {
		a.printf("\n%s %s\n", cli.BoldStyle.Render("Total"), a.format(total))
	}
}

func exportSheetsCmd() *cobra.Command {
	var period periodFlags

	cmd := &cobra.Command{
		Use:   "export-sheets",
		Short: "Write a month's transactions to Google Sheets",
		Long: `Write a month's transactions and category totals to a Google Sheets tab
named after the month. Configure either a service account
(sheets.service_account_path) or OAuth2 credentials
(sheets.client_id, sheets.client_secret, sheets.refresh_token).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, year, err := period.resolve(time.Now())
			if err != nil {
				return err
			}
			sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return common.NewUserError("Google Sheets is not configured: "+err.Error(), err)
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				var (
					txns       []model.Transaction
					categories []model.Category
				)
				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					var err error
					txns, err = a.client.Transactions.List(gctx, model.TransactionFilter{Month: month, Year: year})
					return err
				})
				g.Go(func() error {
					var err error
					categories, err = a.client.Categories.List(gctx)
					return err
				})
				if err := g.Wait(); err != nil {
					return apiFailure("Failed to load the month", err)
				}

				exporter, err := sheets.NewExporter(ctx, *sheetsCfg, a.logger)
				if err != nil {
					return err
				}
				report := sheets.BuildReport(month, year, txns, categories)
				id, err := exporter.Export(ctx, report)
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to tab %q", len(report.Transactions), report.Title())))
				a.println(cli.SubtleStyle.Render("https://docs.google.com/spreadsheets/d/" + id))
				return nil
			})
		},
	}
	period.register(cmd.Flags())

	return cmd
}
