package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/Veraticus/finflow/internal/api"
	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/config"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/ofx"
	"github.com/Veraticus/finflow/internal/pattern"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCSVCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upload a CSV statement for the server to import",
		Long: `Upload a CSV statement. The server parses it, creates missing categories
and accounts, and reports what it imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			return withUser(cmd, func(ctx context.Context, a *app) error {
				file, err := os.Open(path) // #nosec G304 -- user supplied statement
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer func() { _ = file.Close() }()
				info, err := file.Stat()
				if err != nil {
					return fmt.Errorf("failed to stat %s: %w", path, err)
				}

				upload := api.ImportFile{Filename: filepath.Base(path)}
				if account != "" {
					accounts, err := a.client.Accounts.List(ctx)
					if err != nil {
						return apiFailure("Failed to load accounts", err)
					}
					if upload.AccountID, err = resolveAccount(accounts, account); err != nil {
						return err
					}
				}

				bar := cli.NewProgress(a.out, int(info.Size()), "Uploading "+upload.Filename)
				upload.Body = io.TeeReader(file, bar)

				result, err := a.client.Transactions.Import(ctx, upload)
				if err != nil {
					return apiFailure("Import failed", err)
				}
				_ = bar.Finish()
				printImportResult(a, result)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id or name to import into")

	return cmd
}

func printImportResult(a *app, r *model.ImportResult) {
	lines := []string{fmt.Sprintf("Imported: %d", r.ImportedCount)}
	if r.ErrorCount > 0 {
		lines = append(lines, fmt.Sprintf("Errors: %d", r.ErrorCount))
	}
	if r.CategoriesCreated > 0 {
		lines = append(lines, fmt.Sprintf("New categories: %s", strings.Join(r.CategoriesCreatedList, ", ")))
	}
	if r.AccountCreated {
		lines = append(lines, "New account: "+r.AccountName)
	}
	a.prompter.Summary("Import complete", lines)
	for _, msg := range r.Errors {
		a.println(cli.FormatWarning(msg))
	}
}

// ofxOptions configure a local statement import.
type ofxOptions struct {
	account         string
	incomeCategory  string
	expenseCategory string
	rules           *pattern.Matcher
	dryRun          bool
	noRules         bool
}

func importOFXCmd() *cobra.Command {
	var opts ofxOptions

	cmd := &cobra.Command{
		Use:   "import-ofx <file.ofx>",
		Short: "Import an OFX/QFX bank or card statement",
		Long: `Parse an OFX or QFX statement locally and record each line as a paid
transaction. Lines already present in the month are skipped, as are lines
repeated within the file.

Lines are filed under the first matching rule in import.rules, for example:

  import:
    rules:
      - pattern: ifood
        category: Food
      - pattern: "^posto"
        regex: true
        amount: gt
        amount_value: 50
        category: Fuel

Lines no rule matches use --income-category or --expense-category.`,
		Example: `  finflow transactions import-ofx extrato.ofx --account Nubank --expense-category Outros`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			if !opts.noRules {
				rules, err := config.LoadImportRules(viper.GetViper())
				if err != nil {
					return err
				}
				opts.rules = rules
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				file, err := os.Open(path) // #nosec G304 -- user supplied statement
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer func() { _ = file.Close() }()

				entries, err := ofx.NewParser(a.logger).ParseFile(ctx, file)
				if err != nil {
					return common.NewUserError("Could not read the statement: "+err.Error(), err)
				}
				return importEntries(ctx, a, ofx.Dedupe(entries), opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.account, "account", "", "account id or name to record the lines in (required)")
	cmd.Flags().StringVar(&opts.incomeCategory, "income-category", "", "category for credits (default: first income category)")
	cmd.Flags().StringVar(&opts.expenseCategory, "expense-category", "", "category for debits (default: first expense category)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be imported without saving")
	cmd.Flags().BoolVar(&opts.noRules, "no-rules", false, "ignore import.rules and use the default categories")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func importEntries(ctx context.Context, a *app, entries []ofx.Entry, opts ofxOptions) error {
	categories, accounts, err := formChoices(ctx, a)
	if err != nil {
		return err
	}
	accountID, err := resolveAccount(accounts, opts.account)
	if err != nil {
		return err
	}
	categoryFor, err := entryCategories(categories, opts)
	if err != nil {
		return err
	}
	var suggester *pattern.Suggester
	if opts.rules != nil && opts.rules.Len() > 0 {
		suggester = pattern.NewSuggester(opts.rules, categories)
		for _, r := range suggester.Unresolved() {
			a.logger.Warn("import rule names an unknown category", "rule", r.Label(), "category", r.Category)
		}
	}
	categoryOf := func(e ofx.Entry) (model.ID, string) {
		line := pattern.Line{Description: e.Description, Amount: e.Amount, Type: e.Type}
		if s, ok := suggester.Suggest(line); ok {
			return s.Category.ID, s.Category.Name
		}
		id := categoryFor[e.Type]
		c, _ := model.FindCategory(categories, id)
		return id, c.Name
	}

	existing, err := existingKeys(ctx, a, entries)
	if err != nil {
		return err
	}
	pending := make([]ofx.Entry, 0, len(entries))
	for _, e := range entries {
		if !existing[entryKey(e.Date, e.Amount, e.Type, e.Description)] {
			pending = append(pending, e)
		}
	}
	skipped := len(entries) - len(pending)

	if opts.dryRun {
		rows := make([][]string, 0, len(pending))
		for _, e := range pending {
			_, name := categoryOf(e)
			rows = append(rows, []string{e.Date, e.Description, string(e.Type), a.format(e.Amount), name})
		}
		if err := writeTable(a.out, []string{"Date", "Description", "Type", "Amount", "Category"}, rows); err != nil {
			return err
		}
		a.println(cli.FormatInfo(fmt.Sprintf("%d to import, %d already recorded", len(pending), skipped)))
		return nil
	}

	if len(pending) == 0 {
		a.println(cli.FormatInfo(fmt.Sprintf("Nothing to import: all %d lines are already recorded", skipped)))
		return nil
	}

	var imported atomic.Int64
	handler := cli.NewInterruptHandler(a.out)
	ctx = handler.HandleInterrupts(ctx, "Import", func() string {
		return fmt.Sprintf("%d of %d transactions were imported", imported.Load(), len(pending))
	})

	bar := cli.NewProgress(a.out, len(pending), "Importing transactions")
	var failures []string
	for _, e := range pending {
		if ctx.Err() != nil {
			break
		}
		fm := form.NewTransactionForm(nil, categories)
		categoryID, _ := categoryOf(e)
		err := e.Apply(fm, categoryID, accountID)
		if err == nil {
			err = fm.Submit(ctx, func(ctx context.Context, p model.TransactionPayload) error {
				_, err := a.client.Transactions.Create(ctx, p)
				return err
			})
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			failures = append(failures, fmt.Sprintf("%s %s: %s", e.Date, e.Description, form.ErrorMessage(err)))
		} else {
			imported.Add(1)
		}
		_ = bar.Add(1)
	}
	if handler.WasInterrupted() {
		return context.Canceled
	}

	lines := []string{
		fmt.Sprintf("Imported: %d", imported.Load()),
		fmt.Sprintf("Already recorded: %d", skipped),
	}
	if len(failures) > 0 {
		lines = append(lines, fmt.Sprintf("Failed: %d", len(failures)))
	}
	a.prompter.Summary("Import complete", lines)
	for _, f := range failures {
		a.println(cli.FormatWarning(f))
	}
	return nil
}

// entryCategories picks the category for each entry type.
func entryCategories(categories []model.Category, opts ofxOptions) (map[model.TransactionType]model.ID, error) {
	pick := func(t model.TransactionType, ref string) (model.ID, error) {
		if ref != "" {
			return resolveCategory(categories, ref)
		}
		if matching := model.FilterCategories(categories, t); len(matching) > 0 {
			return matching[0].ID, nil
		}
		return "", common.NewUserError(fmt.Sprintf("No %s category exists; create one first", t), common.ErrNotFound)
	}
	income, err := pick(model.TypeIncome, opts.incomeCategory)
	if err != nil {
		return nil, err
	}
	expense, err := pick(model.TypeExpense, opts.expenseCategory)
	if err != nil {
		return nil, err
	}
	return map[model.TransactionType]model.ID{model.TypeIncome: income, model.TypeExpense: expense}, nil
}

// existingKeys lists the transactions already recorded in every month the
// statement covers.
func existingKeys(ctx context.Context, a *app, entries []ofx.Entry) (map[string]bool, error) {
	months := map[[2]int]bool{}
	for _, e := range entries {
		var y, m, d int
		if _, err := fmt.Sscanf(e.Date, "%d-%d-%d", &y, &m, &d); err == nil {
			months[[2]int{y, m}] = true
		}
	}
	keys := map[string]bool{}
	for ym := range months {
		txns, err := a.client.Transactions.List(ctx, model.TransactionFilter{Month: ym[1], Year: ym[0]})
		if err != nil {
			return nil, apiFailure("Failed to load existing transactions", err)
		}
		for _, txn := range txns {
			keys[entryKey(txn.DateOnly(), decimal.NewFromFloat(txn.Amount), txn.Type, txn.Description)] = true
		}
	}
	return keys, nil
}

func entryKey(date string, amount decimal.Decimal, t model.TransactionType, description string) string {
	return strings.Join([]string{date, amount.StringFixed(2), string(t), strings.ToUpper(strings.TrimSpace(description))}, "|")
}
