package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acc"},
		Short:   "Manage accounts",
		Long:    `List, add, update, and delete the wallets, bank accounts, and cards that hold your balances.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(updateAccountCmd())
	cmd.AddCommand(deleteAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with current and projected balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				container := pages.NewAccounts(a.client.Accounts, a.logger)
				defer container.Close()

				accounts, err := container.Load(ctx)
				if err != nil {
					return apiFailure("Failed to load accounts", err)
				}
				if len(accounts) == 0 {
					a.println(cli.InfoStyle.Render("No accounts found. Use 'finflow accounts add' to create one."))
					return nil
				}

				rows := make([][]string, 0, len(accounts))
				for _, acc := range accounts {
					rows = append(rows, []string{
						acc.ID.String(),
						themes.AccountIcon(acc.Icon) + " " + acc.Name,
						acc.Type.Label(),
						acc.Institution,
						a.format(decimal.NewFromFloat(acc.CurrentBalance)),
						a.format(decimal.NewFromFloat(acc.ProjectedOrCurrent())),
						activeLabel(acc.IsActive),
					})
				}
				if err := writeTable(a.out, []string{"ID", "Name", "Type", "Institution", "Current", "Projected", "Status"}, rows); err != nil {
					return err
				}

				totals := container.Totals()
				a.printf("\n%s %s   %s %s\n",
					cli.BoldStyle.Render(cli.WalletIcon+" Current"), a.format(totals.Current),
					cli.BoldStyle.Render("Projected"), a.format(totals.Projected))
				return nil
			})
		},
	}
}

// accountFlags are shared by add and update.
type accountFlags struct {
	name        string
	accountType string
	institution string
	balance     string
	color       string
	icon        string
	inactive    bool
}

func (f *accountFlags) register(flags *pflag.FlagSet) {
	types := make([]string, 0, len(model.AccountTypes))
	for _, t := range model.AccountTypes {
		types = append(types, string(t))
	}
	flags.StringVarP(&f.name, "name", "n", "", "account name")
	flags.StringVarP(&f.accountType, "type", "t", "", "account type ("+strings.Join(types, ", ")+")")
	flags.StringVar(&f.institution, "institution", "", "bank or institution")
	flags.StringVarP(&f.balance, "balance", "b", "", "initial balance, e.g. 1.234,56")
	flags.StringVar(&f.color, "color", "", "card color as #rrggbb")
	flags.StringVar(&f.icon, "icon", "", "icon name (defaults to the type's icon)")
	flags.BoolVar(&f.inactive, "inactive", false, "mark the account inactive")
}

// apply copies every flag the user set onto f. Setting a type before the
// icon keeps an explicit icon.
func (f *accountFlags) apply(flags *pflag.FlagSet, fm *form.AccountForm) error {
	if flags.Changed("name") {
		if err := fm.SetName(f.name); err != nil {
			return err
		}
	}
	if flags.Changed("type") {
		t := model.AccountType(f.accountType)
		if !t.Valid() {
			return common.NewUserError(fmt.Sprintf("Unknown account type %q", f.accountType), common.ErrInvalidConfig)
		}
		if err := fm.SetType(t); err != nil {
			return err
		}
	}
	if flags.Changed("institution") {
		if err := fm.SetInstitution(f.institution); err != nil {
			return err
		}
	}
	if flags.Changed("balance") {
		if err := fm.SetInitialBalance(f.balance); err != nil {
			return err
		}
	}
	if flags.Changed("color") {
		if err := fm.SetColor(f.color); err != nil {
			return err
		}
	}
	if flags.Changed("icon") {
		if err := fm.SetIcon(f.icon); err != nil {
			return err
		}
	}
	if flags.Changed("inactive") {
		if err := fm.SetActive(!f.inactive); err != nil {
			return err
		}
	}
	return nil
}

// chooseAccountType asks for the type of a new account when --type is absent.
func chooseAccountType(ctx context.Context, p *cli.Prompter) (model.AccountType, error) {
	choices := make([]string, 0, len(model.AccountTypes))
	for _, t := range model.AccountTypes {
		choices = append(choices, string(t))
	}
	choice, err := p.Choose(ctx, "Account type", choices)
	if err != nil {
		return "", err
	}
	return model.AccountType(choice), nil
}

func addAccountCmd() *cobra.Command {
	var flags accountFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				fm := form.NewAccountForm(nil)
				if !cmd.Flags().Changed("type") && a.prompter.Interactive() {
					t, err := chooseAccountType(ctx, a.prompter)
					if err != nil {
						return err
					}
					if err := fm.SetType(t); err != nil {
						return err
					}
				}
				if err := flags.apply(cmd.Flags(), fm); err != nil {
					return err
				}
				var created *model.Account
				err := fm.Submit(ctx, func(ctx context.Context, p model.AccountPayload) error {
					var err error
					created, err = a.client.Accounts.Create(ctx, p)
					return err
				})
				if err != nil {
					return apiFailure("Failed to create account", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Created account %s (%s)", created.Name, created.ID)))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func updateAccountCmd() *cobra.Command {
	var flags accountFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				existing, err := findAccount(ctx, a, model.ID(args[0]))
				if err != nil {
					return err
				}
				fm := form.NewAccountForm(existing)
				if err := flags.apply(cmd.Flags(), fm); err != nil {
					return err
				}
				err = fm.Submit(ctx, func(ctx context.Context, p model.AccountPayload) error {
					_, err := a.client.Accounts.Update(ctx, existing.ID, p)
					return err
				})
				if err != nil {
					return apiFailure("Failed to update account", err)
				}
				a.println(cli.FormatSuccess("Updated account " + fm.Values().Name))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				acc, err := findAccount(ctx, a, model.ID(args[0]))
				if err != nil {
					return err
				}
				ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete account %q?", acc.Name))
				if err != nil || !ok {
					return err
				}
				if err := a.client.Accounts.Delete(ctx, acc.ID); err != nil {
					return apiFailure("Failed to delete account", err)
				}
				a.println(cli.FormatSuccess("Deleted account " + acc.Name))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func findAccount(ctx context.Context, a *app, id model.ID) (*model.Account, error) {
	accounts, err := a.client.Accounts.List(ctx)
	if err != nil {
		return nil, apiFailure("Failed to load accounts", err)
	}
	for _, acc := range accounts {
		if acc.ID == id {
			return &acc, nil
		}
	}
	return nil, common.NewUserError(fmt.Sprintf("No account with id %s", id), common.ErrNotFound)
}
