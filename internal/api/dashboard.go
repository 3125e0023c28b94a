package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Veraticus/finflow/internal/model"
)

// DashboardService reads the pre-aggregated monthly summary.
type DashboardService struct {
	client *Client
}

// Get returns the summary for month/year. Zero values let the server pick
// the current period.
func (s *DashboardService) Get(ctx context.Context, month, year int) (*model.DashboardData, error) {
	var data model.DashboardData
	if err := s.client.Get(ctx, "/dashboard", periodQuery(month, year), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ReportsService reads report overviews.
type ReportsService struct {
	client *Client
}

// Report overview kinds.
const (
	ReportExpensesByCategory = "expenses_by_category"
	ReportIncomeByCategory   = "income_by_category"
	ReportExpensesByAccount  = "expenses_by_account"
	ReportIncomeByAccount    = "income_by_account"
	ReportBalanceByAccount   = "balance_by_account"
)

// ReportKinds lists every overview kind the server understands.
var ReportKinds = []string{
	ReportExpensesByCategory,
	ReportIncomeByCategory,
	ReportExpensesByAccount,
	ReportIncomeByAccount,
	ReportBalanceByAccount,
}

// Overview returns the report of the given kind for month/year.
func (s *ReportsService) Overview(ctx context.Context, month, year int, kind string) (*model.ReportOverview, error) {
	q := periodQuery(month, year)
	if kind != "" {
		q.Set("type", kind)
	}
	var overview model.ReportOverview
	if err := s.client.Get(ctx, "/reports/overview", q, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func periodQuery(month, year int) url.Values {
	q := url.Values{}
	if month > 0 {
		q.Set("month", strconv.Itoa(month))
	}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	return q
}
