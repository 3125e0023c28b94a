package sheets

import (
	"fmt"
	"sort"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/shopspring/decimal"
)

// CategoryRow is one line of the category breakdown.
type CategoryRow struct {
	Name  string
	Type  model.TransactionType
	Total decimal.Decimal
	Count int
}

// MonthReport is everything written to the spreadsheet for one month.
type MonthReport struct {
	Transactions []model.Transaction
	Categories   []CategoryRow
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Month        int
	Year         int
}

// Net returns income minus expense.
func (r MonthReport) Net() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalExpense)
}

// Title returns the sheet title for the report, e.g. "2024-03".
func (r MonthReport) Title() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

// BuildReport aggregates a month of transactions. Cancelled transactions are
// listed but excluded from totals. Category names come from the embedded
// category, then the categories list, then the raw id.
func BuildReport(month, year int, transactions []model.Transaction, categories []model.Category) MonthReport {
	report := MonthReport{
		Month:        month,
		Year:         year,
		Transactions: append([]model.Transaction(nil), transactions...),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	byName := make(map[string]*CategoryRow)
	for _, txn := range transactions {
		if txn.Status == model.StatusCancelled {
			continue
		}
		amount := decimal.NewFromFloat(txn.Amount)
		if txn.Type == model.TypeIncome {
			report.TotalIncome = report.TotalIncome.Add(amount)
		} else {
			report.TotalExpense = report.TotalExpense.Add(amount)
		}

		name := categoryName(txn, categories)
		row, ok := byName[name]
		if !ok {
			row = &CategoryRow{Name: name, Type: txn.Type, Total: decimal.Zero}
			byName[name] = row
		}
		row.Total = row.Total.Add(amount)
		row.Count++
	}

	for _, row := range byName {
		report.Categories = append(report.Categories, *row)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		if c := report.Categories[i].Total.Cmp(report.Categories[j].Total); c != 0 {
			return c > 0
		}
		return report.Categories[i].Name < report.Categories[j].Name
	})

	sort.SliceStable(report.Transactions, func(i, j int) bool {
		return report.Transactions[i].DateOnly() > report.Transactions[j].DateOnly()
	})

	return report
}

func categoryName(txn model.Transaction, categories []model.Category) string {
	if txn.Category != nil && txn.Category.Name != "" {
		return txn.Category.Name
	}
	if c, ok := model.FindCategory(categories, txn.CategoryID); ok {
		return c.Name
	}
	if txn.CategoryID.IsZero() {
		return "Uncategorized"
	}
	return txn.CategoryID.String()
}

// values lays the report out as spreadsheet rows.
func (r MonthReport) values() [][]any {
	rows := make([][]any, 0, 12+len(r.Categories)+len(r.Transactions))

	rows = append(rows,
		[]any{"Finance Report", fmt.Sprintf("%s %d", money.MonthName(r.Month), r.Year)},
		[]any{},
		[]any{"Summary"},
		[]any{"Income", r.TotalIncome.InexactFloat64()},
		[]any{"Expense", r.TotalExpense.InexactFloat64()},
		[]any{"Net", r.Net().InexactFloat64()},
		[]any{},
		[]any{"Category Breakdown"},
		[]any{"Category", "Type", "Amount", "Count"},
	)
	for _, c := range r.Categories {
		rows = append(rows, []any{c.Name, string(c.Type), c.Total.InexactFloat64(), c.Count})
	}

	rows = append(rows,
		[]any{},
		[]any{"Transaction Details"},
		[]any{"Date", "Description", "Amount", "Type", "Status", "Responsible"},
	)
	for _, txn := range r.Transactions {
		rows = append(rows, []any{
			txn.DateOnly(),
			txn.Description,
			txn.SignedAmount(),
			string(txn.Type),
			txn.Status.Label(),
			txn.ResponsiblePerson,
		})
	}

	return rows
}
