package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"transaction", "txn", "tx"},
		Short:   "Manage transactions",
		Long:    `List, add, update, delete, and import income and expense transactions.`,
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())
	cmd.AddCommand(importCSVCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

// periodFlags select a month, defaulting to the current one.
type periodFlags struct {
	month int
	year  int
}

func (p *periodFlags) register(flags *pflag.FlagSet) {
	flags.IntVarP(&p.month, "month", "m", 0, "month 1-12 (default: current)")
	flags.IntVarP(&p.year, "year", "Y", 0, "year (default: current)")
}

func (p periodFlags) resolve(now time.Time) (int, int, error) {
	month, year := p.month, p.year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, common.NewUserError(fmt.Sprintf("Month must be between 1 and 12, got %d", month), common.ErrInvalidConfig)
	}
	return month, year, nil
}

func parseType(s string) (model.TransactionType, error) {
	t := model.TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.Valid() {
		return t, nil
	}
	return "", common.NewUserError(fmt.Sprintf("Type must be income or expense, got %q", s), common.ErrInvalidConfig)
}

func listTransactionsCmd() *cobra.Command {
	var (
		period   periodFlags
		txnType  string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transactions of a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, year, err := period.resolve(time.Now())
			if err != nil {
				return err
			}
			t, err := parseType(txnType)
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				filter := model.TransactionFilter{Month: month, Year: year, Type: t}
				if category != "" {
					categories, err := a.client.Categories.List(ctx)
					if err != nil {
						return apiFailure("Failed to load categories", err)
					}
					if filter.CategoryID, err = resolveCategory(categories, category); err != nil {
						return err
					}
				}

				container := pages.NewTransactions(a.client.Transactions, a.client.Categories, a.client.Accounts, a.logger)
				defer container.Close()
				view, err := container.Load(ctx, filter)
				if err != nil {
					return apiFailure("Failed to load transactions", err)
				}

				a.println(cli.FormatTitle(fmt.Sprintf("Transactions · %s %d", money.MonthName(month), year)))
				if len(view.Transactions) == 0 {
					a.println(cli.InfoStyle.Render("No transactions for this period."))
					return nil
				}
				return printTransactions(a, view.Transactions, view.Categories)
			})
		},
	}

	period.register(cmd.Flags())
	cmd.Flags().StringVarP(&txnType, "type", "t", "", "only income or expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category (id or name)")

	return cmd
}

func printTransactions(a *app, txns []model.Transaction, categories []model.Category) error {
	rows := make([][]string, 0, len(txns))
	income, expense := decimal.Zero, decimal.Zero
	for _, txn := range txns {
		name := "Uncategorized"
		if c, ok := model.FindCategory(categories, txn.CategoryID); ok {
			name = c.Name
		} else if txn.Category != nil {
			name = txn.Category.Name
		}
		amount := decimal.NewFromFloat(txn.Amount)
		if txn.Type == model.TypeIncome {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}
		rows = append(rows, []string{
			txn.ID.String(),
			money.FormatDate(txn.DateOnly()),
			txn.Description,
			name,
			signedAmount(a.format, txn),
			statusLabel(txn.Status),
		})
	}
	if err := writeTable(a.out, []string{"ID", "Date", "Description", "Category", "Amount", "Status"}, rows); err != nil {
		return err
	}
	a.printf("\n%s %s   %s %s   %s %s\n",
		cli.BoldStyle.Render("Income"), cli.FormatMoney(a.format(income), false),
		cli.BoldStyle.Render("Expense"), cli.FormatMoney(a.format(expense), true),
		cli.BoldStyle.Render("Net"), cli.FormatMoney(a.format(income.Sub(expense)), income.LessThan(expense)))
	return nil
}

// resolveCategory accepts an id or a case-insensitive name.
func resolveCategory(categories []model.Category, ref string) (model.ID, error) {
	for _, c := range categories {
		if c.ID.String() == ref {
			return c.ID, nil
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}
	return "", common.NewUserError(fmt.Sprintf("No category named %q", ref), common.ErrNotFound)
}

// resolveAccount accepts an id or a case-insensitive name.
func resolveAccount(accounts []model.Account, ref string) (model.ID, error) {
	for _, acc := range accounts {
		if acc.ID.String() == ref {
			return acc.ID, nil
		}
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Name, ref) {
			return acc.ID, nil
		}
	}
	return "", common.NewUserError(fmt.Sprintf("No account named %q", ref), common.ErrNotFound)
}

// transactionFlags are shared by add and update.
type transactionFlags struct {
	description  string
	amount       string
	txnType      string
	category     string
	account      string
	date         string
	status       string
	responsible  string
	installments int
	recurring    bool
}

func (f *transactionFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.description, "description", "d", "", "what the transaction was")
	flags.StringVarP(&f.amount, "amount", "a", "", "positive amount, e.g. 32,50")
	flags.StringVarP(&f.txnType, "type", "t", "", "income or expense")
	flags.StringVarP(&f.category, "category", "c", "", "category id or name")
	flags.StringVar(&f.account, "account", "", "account id or name")
	flags.StringVar(&f.date, "date", "", "date as DD/MM/YYYY or YYYY-MM-DD (default: today)")
	flags.StringVarP(&f.status, "status", "s", "", "paid, pending, overdue, or cancelled")
	flags.StringVar(&f.responsible, "responsible", "", "person responsible")
	flags.IntVar(&f.installments, "installments", 1, "number of installments")
	flags.BoolVar(&f.recurring, "recurring", false, "repeat every month")
}

// apply copies every flag the user set onto fm. The type goes first so the
// category is checked against the right list.
func (f *transactionFlags) apply(flags *pflag.FlagSet, fm *form.TransactionForm, categories []model.Category, accounts []model.Account) error {
	type step struct {
		flag string
		run  func() error
	}
	steps := []step{
		{"type", func() error {
			t, err := parseType(f.txnType)
			if err != nil {
				return err
			}
			return fm.SetType(t)
		}},
		{"description", func() error { return fm.SetDescription(f.description) }},
		{"amount", func() error { return fm.SetAmount(f.amount) }},
		{"category", func() error {
			id, err := resolveCategory(categories, f.category)
			if err != nil {
				return err
			}
			return fm.SetCategory(id)
		}},
		{"account", func() error {
			id, err := resolveAccount(accounts, f.account)
			if err != nil {
				return err
			}
			return fm.SetAccount(id)
		}},
		{"date", func() error { return fm.SetDate(f.date) }},
		{"status", func() error {
			s := model.TransactionStatus(strings.ToLower(f.status))
			if !s.Valid() {
				return common.NewUserError(fmt.Sprintf("Unknown status %q", f.status), common.ErrInvalidConfig)
			}
			return fm.SetStatus(s)
		}},
		{"responsible", func() error { return fm.SetResponsiblePerson(f.responsible) }},
		{"installments", func() error { return fm.SetInstallments(f.installments) }},
		{"recurring", func() error { return fm.SetRecurring(f.recurring) }},
	}
	for _, s := range steps {
		if !flags.Changed(s.flag) {
			continue
		}
		if err := s.run(); err != nil {
			return err
		}
	}
	return nil
}

// formChoices loads what the transaction form validates against. A failed
// account list leaves the account selector empty.
func formChoices(ctx context.Context, a *app) ([]model.Category, []model.Account, error) {
	categories, err := a.client.Categories.List(ctx)
	if err != nil {
		return nil, nil, apiFailure("Failed to load categories", err)
	}
	accounts, err := a.client.Accounts.List(ctx)
	if err != nil {
		a.logger.Warn("account list unavailable", "error", err)
		accounts = nil
	}
	return categories, accounts, nil
}

func addTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  finflow transactions add -d "Mercado" -a 152,30 -c Mercado
  finflow transactions add -t income -d "Salário" -a 5.000,00 -c Salário --date 05/06/2024 -s paid`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				categories, accounts, err := formChoices(ctx, a)
				if err != nil {
					return err
				}
				fm := form.NewTransactionForm(nil, categories)
				if err := flags.apply(cmd.Flags(), fm, categories, accounts); err != nil {
					return err
				}
				var created *model.Transaction
				err = fm.Submit(ctx, func(ctx context.Context, p model.TransactionPayload) error {
					var err error
					created, err = a.client.Transactions.Create(ctx, p)
					return err
				})
				if err != nil {
					return apiFailure("Failed to save transaction", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Saved %q (%s)", created.Description, created.ID)))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())

	return cmd
}

func updateTransactionCmd() *cobra.Command {
	var (
		flags  transactionFlags
		period periodFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Long:  `Change a transaction listed in the given month. Only the flags you pass are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := period.resolve(time.Now())
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				existing, err := findTransaction(ctx, a, model.ID(args[0]), month, year)
				if err != nil {
					return err
				}
				categories, accounts, err := formChoices(ctx, a)
				if err != nil {
					return err
				}
				fm := form.NewTransactionForm(existing, categories)
				if err := flags.apply(cmd.Flags(), fm, categories, accounts); err != nil {
					return err
				}
				err = fm.Submit(ctx, func(ctx context.Context, p model.TransactionPayload) error {
					_, err := a.client.Transactions.Update(ctx, existing.ID, p)
					return err
				})
				if err != nil {
					return apiFailure("Failed to save transaction", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Updated %q", fm.Values().Description)))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	period.register(cmd.Flags())

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	var (
		yes    bool
		period periodFlags
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := period.resolve(time.Now())
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				label := args[0]
				if txn, err := findTransaction(ctx, a, model.ID(args[0]), month, year); err == nil {
					label = txn.Description
				}
				ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete transaction %q?", label))
				if err != nil || !ok {
					return err
				}
				if err := a.client.Transactions.Delete(ctx, model.ID(args[0])); err != nil {
					return apiFailure("Failed to delete transaction", err)
				}
				a.println(cli.FormatSuccess("Deleted " + label))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	period.register(cmd.Flags())

	return cmd
}

// findTransaction looks id up in the month's listing; the API has no
// single-transaction endpoint.
func findTransaction(ctx context.Context, a *app, id model.ID, month, year int) (*model.Transaction, error) {
	txns, err := a.client.Transactions.List(ctx, model.TransactionFilter{Month: month, Year: year})
	if err != nil {
		return nil, apiFailure("Failed to load transactions", err)
	}
	for _, txn := range txns {
		if txn.ID == id {
			return &txn, nil
		}
	}
	return nil, common.NewUserError(fmt.Sprintf("No transaction %s in %s %d (use --month/--year)", id, money.MonthName(month), year), common.ErrNotFound)
}
