package statistics

import (
	"github.com/shopspring/decimal"
)

// Summary aggregates the basic spending figures over a set of expenses.
type Summary struct {
	TotalSpending   decimal.Decimal `json:"total_spending"`
	AverageExpense  decimal.Decimal `json:"average_expense"`
	LargestExpense  decimal.Decimal `json:"largest_expense"`
	SmallestExpense decimal.Decimal `json:"smallest_expense"`
	ExpenseCount    int             `json:"expense_count"`
}

// Trends holds spending averaged over calendar units of the covered range.
type Trends struct {
	DailyAverage   decimal.Decimal `json:"daily_average"`
	WeeklyAverage  decimal.Decimal `json:"weekly_average"`
	MonthlyAverage decimal.Decimal `json:"monthly_average"`
}

// CategoryShare is one category's slice of total spending.
type CategoryShare struct {
	CategoryID   *int64          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// CurrencyShare is one currency's slice of total spending. Amounts are summed
// per currency without conversion.
type CurrencyShare struct {
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DateRange is the actual period the statistics cover. Nil bounds mean the
// user has no expenses and no range was requested.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// Statistics is the full analytics payload for a user.
type Statistics struct {
	UserID            int64           `json:"user_id"`
	DateRange         DateRange       `json:"date_range"`
	Summary           Summary         `json:"summary"`
	Trends            Trends          `json:"trends"`
	CategoryBreakdown []CategoryShare `json:"category_breakdown"`
	CurrencyBreakdown []CurrencyShare `json:"currency_breakdown"`
}
