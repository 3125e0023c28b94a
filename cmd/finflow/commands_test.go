package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finflow/internal/api"
	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodFlagsResolve(t *testing.T) {
	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		flags     periodFlags
		wantMonth int
		wantYear  int
		wantErr   bool
	}{
		{name: "defaults to now", wantMonth: 5, wantYear: 2024},
		{name: "month only", flags: periodFlags{month: 12}, wantMonth: 12, wantYear: 2024},
		{name: "both", flags: periodFlags{month: 1, year: 2023}, wantMonth: 1, wantYear: 2023},
		{name: "month too large", flags: periodFlags{month: 13}, wantErr: true},
		{name: "negative month", flags: periodFlags{month: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, year, err := tt.flags.resolve(now)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMonth, month)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    model.TransactionType
		wantErr bool
	}{
		{in: "income", want: model.TypeIncome},
		{in: " Expense ", want: model.TypeExpense},
		{in: "", want: ""},
		{in: "transfer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCategory(t *testing.T) {
	categories := []model.Category{
		{ID: "cat-1", Name: "Salary", Type: model.TypeIncome},
		{ID: "cat-2", Name: "Food", Type: model.TypeExpense},
		{ID: "Food", Name: "Odd", Type: model.TypeExpense},
	}

	id, err := resolveCategory(categories, "cat-2")
	require.NoError(t, err)
	assert.Equal(t, model.ID("cat-2"), id)

	id, err = resolveCategory(categories, "salary")
	require.NoError(t, err)
	assert.Equal(t, model.ID("cat-1"), id)

	// ids win over names
	id, err = resolveCategory(categories, "Food")
	require.NoError(t, err)
	assert.Equal(t, model.ID("Food"), id)

	_, err = resolveCategory(categories, "Travel")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEntryCategories(t *testing.T) {
	categories := []model.Category{
		{ID: "exp-1", Name: "Food", Type: model.TypeExpense},
		{ID: "inc-1", Name: "Salary", Type: model.TypeIncome},
		{ID: "exp-2", Name: "Bank fees", Type: model.TypeExpense},
	}

	got, err := entryCategories(categories, ofxOptions{})
	require.NoError(t, err)
	assert.Equal(t, model.ID("inc-1"), got[model.TypeIncome])
	assert.Equal(t, model.ID("exp-1"), got[model.TypeExpense])

	got, err = entryCategories(categories, ofxOptions{expenseCategory: "bank fees"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("exp-2"), got[model.TypeExpense])

	_, err = entryCategories(categories[:1], ofxOptions{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEntryKey(t *testing.T) {
	a := entryKey("2024-05-02", decimal.RequireFromString("12.5"), model.TypeExpense, " padaria ")
	b := entryKey("2024-05-02", decimal.NewFromFloat(12.50), model.TypeExpense, "PADARIA")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, entryKey("2024-05-02", decimal.RequireFromString("12.5"), model.TypeIncome, "PADARIA"))
	assert.NotEqual(t, a, entryKey("2024-05-03", decimal.RequireFromString("12.5"), model.TypeExpense, "PADARIA"))
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"theme=dark", "page_size=25", "notify=true", "name=\"quoted\""})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"theme":     "dark",
		"page_size": float64(25),
		"notify":    true,
		"name":      "quoted",
	}, got)

	_, err = parseAssignments([]string{"missing-equals"})
	assert.Error(t, err)

	_, err = parseAssignments([]string{"=value"})
	assert.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []string{"Name", "Total"}, [][]string{
		{"Food", "R$ 120,00"},
		{"Transport", "R$ 45,50"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(ansi.Strip(buf.String()), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Name"))
	assert.Contains(t, lines[1], "----")
	assert.True(t, strings.HasPrefix(lines[3], "Transport"))
	assert.Equal(t, strings.Index(lines[2], "R$"), strings.Index(lines[3], "R$"))
}

func TestReadBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"accounts":[]}`), 0o600))

	raw, err := readBackup(nil, path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts":[]}`, string(raw))

	raw, err = readBackup(strings.NewReader(`{"ok":true}`), "-")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	_, err = readBackup(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestChooseAccountType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.AccountType
		wantErr error
	}{
		{name: "exact", input: "savings\n", want: model.AccountSavings},
		{name: "case insensitive", input: "Credit_Card\n", want: model.AccountCreditCard},
		{name: "repeats on unknown type", input: "poupança\nwallet\n", want: model.AccountWallet},
		{name: "input ends", input: "", wantErr: cli.ErrNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := chooseAccountType(context.Background(), cli.NewPrompter(strings.NewReader(tt.input), &out))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "wallet/checking/savings/credit_card/investment")
		})
	}
}

func TestPrintOverview(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		overview  model.ReportOverview
		wantLines []string
		noTotal   bool
	}{
		{
			name: "server total",
			kind: api.ReportExpensesByCategory,
			overview: model.ReportOverview{
				Data: []model.ReportItem{
					{CategoryName: "Mercado", Total: 750, Percentage: 62.5, Count: 4},
					{CategoryName: "Transporte", Total: 450, Percentage: 37.5, Count: 6},
				},
				TotalAmount: 1200,
			},
			wantLines: []string{"62.5%", "37.5%", "Total R$ 1.200,00"},
		},
		{
			name: "balances summed locally",
			kind: api.ReportBalanceByAccount,
			overview: model.ReportOverview{
				Data: []model.ReportItem{
					{AccountName: "Nubank", CurrentBalance: 1500.1, Percentage: 83.3},
					{AccountName: "Carteira", CurrentBalance: 300.2, Percentage: 16.7},
				},
			},
			wantLines: []string{"Nubank", "83.3%", "Total R$ 1.800,30"},
		},
		{
			name: "zero balances print no total",
			kind: api.ReportBalanceByAccount,
			overview: model.ReportOverview{
				Data: []model.ReportItem{{AccountName: "Vazia"}},
			},
			wantLines: []string{"Vazia", "0.0%"},
			noTotal:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			a := &app{out: &out, format: money.BRL, logger: common.DiscardLogger()}
			printOverview(a, tt.kind, 5, 2024, &tt.overview)

			text := ansi.Strip(out.String())
			for _, want := range tt.wantLines {
				assert.Contains(t, text, want)
			}
			if tt.noTotal {
				assert.NotContains(t, text, "\nTotal ")
			}
		})
	}
}
