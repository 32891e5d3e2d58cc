package report

import (
	"github.com/adeharia/finance-tracker/internal/expense"

	"github.com/shopspring/decimal"
)

// MonthlyReport summarizes one calendar month of spending.
type MonthlyReport struct {
	Period       string                     `json:"period"`
	Total        decimal.Decimal            `json:"total"`
	ExpenseCount int                        `json:"expense_count"`
	ByCategory   map[string]decimal.Decimal `json:"by_category"`
}

// MonthTotal is one month's slice of a yearly report.
type MonthTotal struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// YearlyReport summarizes a calendar year, with a per-month breakdown.
type YearlyReport struct {
	Year         int                        `json:"year"`
	Total        decimal.Decimal            `json:"total"`
	ExpenseCount int                        `json:"expense_count"`
	ByMonth      []MonthTotal               `json:"by_month"`
	ByCategory   map[string]decimal.Decimal `json:"by_category"`
}

// CategoryReport summarizes spending in one category, optionally bounded by a
// date range, including usage against the category's own budget limit.
type CategoryReport struct {
	Category           string             `json:"category"`
	Total              decimal.Decimal    `json:"total"`
	ExpenseCount       int                `json:"expense_count"`
	BudgetLimit        *decimal.Decimal   `json:"budget_limit,omitempty"`
	BudgetUsagePercent *decimal.Decimal   `json:"budget_usage_percent,omitempty"`
	Expenses           []*expense.Expense `json:"expenses"`
}
