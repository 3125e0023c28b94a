package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// writeTable prints rows under a styled header, aligned with tabwriter.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(h)
		rules[i] = strings.Repeat("-", max(4, len(h)))
	}
	if _, err := fmt.Fprintln(w, strings.Join(styled, "\t")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(rules, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return w.Flush()
}

// signedAmount renders a transaction amount with its sign and color.
func signedAmount(format money.Formatter, txn model.Transaction) string {
	amount := decimal.NewFromFloat(txn.Amount)
	if txn.Type == model.TypeExpense {
		return cli.FormatMoney(format(amount.Neg()), true)
	}
	return cli.FormatMoney(format(amount), false)
}

func statusLabel(s model.TransactionStatus) string {
	switch s {
	case model.StatusPaid:
		return cli.StyleSuccess(s.Label())
	case model.StatusOverdue:
		return cli.StyleError(s.Label())
	case model.StatusPending:
		return cli.StyleWarning(s.Label())
	case "":
		return cli.SubtleStyle.Render("-")
	default:
		return cli.SubtleStyle.Render(s.Label())
	}
}

func activeLabel(active bool) string {
	if active {
		return cli.StyleSuccess("active")
	}
	return cli.SubtleStyle.Render("inactive")
}
