package model

// MonthlyPoint is one month of the income/expense evolution series.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryTotal is the amount spent in one category over the period.
type CategoryTotal struct {
	Name       string  `json:"name"`
	Color      string  `json:"color,omitempty"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage,omitempty"`
}

// DashboardData is the server-computed summary for a period.
type DashboardData struct {
	TotalBalance        *float64        `json:"total_balance,omitempty"`
	RecentTransactions  []Transaction   `json:"recent_transactions"`
	MonthlyEvolution    []MonthlyPoint  `json:"monthly_evolution,omitempty"`
	ExpenseByCategory   []CategoryTotal `json:"expense_by_category,omitempty"`
	TotalIncome         float64         `json:"total_income"`
	TotalExpense        float64         `json:"total_expense"`
	PendingTransactions int             `json:"pending_transactions"`
}

// ReportItem is one row of a report overview.
type ReportItem struct {
	CategoryName   string  `json:"category_name,omitempty"`
	CategoryColor  string  `json:"category_color,omitempty"`
	AccountName    string  `json:"account_name,omitempty"`
	AccountColor   string  `json:"account_color,omitempty"`
	Total          float64 `json:"total,omitempty"`
	Percentage     float64 `json:"percentage,omitempty"`
	CurrentBalance float64 `json:"current_balance,omitempty"`
	Count          int     `json:"count,omitempty"`
}

// ReportPeriod identifies the month a report covers.
type ReportPeriod struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// ReportOverview is the response of the report overview endpoint.
type ReportOverview struct {
	Period      *ReportPeriod `json:"period,omitempty"`
	Data        []ReportItem  `json:"data"`
	TotalAmount float64       `json:"total_amount,omitempty"`
}
