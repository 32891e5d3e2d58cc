package statistics

import (
	"log/slog"
	"sort"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	categoryDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/expense"

	"github.com/shopspring/decimal"
)

const unknownCategoryName = "Unknown Category"

type ExpenseStore interface {
	FindByUser(userID int64) ([]*expenseDatamodel.Expense, error)
}

type CategoryStore interface {
	GetByID(id int64) (*categoryDatamodel.ExpenseCategory, error)
}

type Service struct {
	expenses   ExpenseStore
	categories CategoryStore
	logger     *slog.Logger
}

func NewService(expenses ExpenseStore, categories CategoryStore, logger *slog.Logger) *Service {
	return &Service{
		expenses:   expenses,
		categories: categories,
		logger:     logger,
	}
}

// GetStatistics computes summary, trends and breakdowns for a user's
// expenses, optionally restricted to a date range.
func (s *Service) GetStatistics(userID int64, start, end *time.Time) (*Statistics, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, errors.NewValidationError("end_date must not precede start_date", errors.ErrCodeInvalidDateRange)
	}

	all, err := s.expenses.FindByUser(userID)
	if err != nil {
		s.logger.Error("failed to load expenses for statistics", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to compute statistics", err)
	}

	var exps []*expenseDatamodel.Expense
	for _, e := range all {
		d := dates.Day(e.Date)
		if start != nil && d.Before(dates.Day(*start)) {
			continue
		}
		if end != nil && d.After(dates.Day(*end)) {
			continue
		}
		exps = append(exps, e)
	}

	return &Statistics{
		UserID:            userID,
		DateRange:         actualRange(exps, start, end),
		Summary:           summarize(exps),
		Trends:            trends(exps, start, end),
		CategoryBreakdown: s.categoryBreakdown(exps),
		CurrencyBreakdown: currencyBreakdown(exps),
	}, nil
}

func summarize(exps []*expenseDatamodel.Expense) Summary {
	if len(exps) == 0 {
		return Summary{
			TotalSpending:   decimal.Zero,
			AverageExpense:  decimal.Zero,
			LargestExpense:  decimal.Zero,
			SmallestExpense: decimal.Zero,
		}
	}

	total := decimal.Zero
	largest := exps[0].Amount
	smallest := exps[0].Amount
	for _, e := range exps {
		total = total.Add(e.Amount)
		if e.Amount.GreaterThan(largest) {
			largest = e.Amount
		}
		if e.Amount.LessThan(smallest) {
			smallest = e.Amount
		}
	}

	count := int64(len(exps))
	return Summary{
		TotalSpending:   total.Round(2),
		AverageExpense:  total.Div(decimal.NewFromInt(count)).Round(2),
		LargestExpense:  largest.Round(2),
		SmallestExpense: smallest.Round(2),
		ExpenseCount:    len(exps),
	}
}

func trends(exps []*expenseDatamodel.Expense, start, end *time.Time) Trends {
	if len(exps) == 0 {
		return Trends{
			DailyAverage:   decimal.Zero,
			WeeklyAverage:  decimal.Zero,
			MonthlyAverage: decimal.Zero,
		}
	}

	total := decimal.Zero
	for _, e := range exps {
		total = total.Add(e.Amount)
	}

	var rangeStart, rangeEnd time.Time
	if start != nil && end != nil {
		rangeStart, rangeEnd = dates.Day(*start), dates.Day(*end)
	} else {
		rangeStart, rangeEnd = observedRange(exps)
	}

	days := int(rangeEnd.Sub(rangeStart).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	weeks := (days + 6) / 7
	months := dates.MonthsBetween(rangeStart, rangeEnd)

	return Trends{
		DailyAverage:   total.Div(decimal.NewFromInt(int64(days))).Round(2),
		WeeklyAverage:  total.Div(decimal.NewFromInt(int64(weeks))).Round(2),
		MonthlyAverage: total.Div(decimal.NewFromInt(int64(months))).Round(2),
	}
}

func (s *Service) categoryBreakdown(exps []*expenseDatamodel.Expense) []CategoryShare {
	total := decimal.Zero
	for _, e := range exps {
		total = total.Add(e.Amount)
	}
	if total.IsZero() {
		return []CategoryShare{}
	}

	type group struct {
		id     *int64
		amount decimal.Decimal
	}
	groups := make(map[int64]*group)
	var order []int64
	var uncategorized *group

	for _, e := range exps {
		if e.CategoryID == nil {
			if uncategorized == nil {
				uncategorized = &group{amount: decimal.Zero}
			}
			uncategorized.amount = uncategorized.amount.Add(e.Amount)
			continue
		}
		g, ok := groups[*e.CategoryID]
		if !ok {
			id := *e.CategoryID
			g = &group{id: &id, amount: decimal.Zero}
			groups[id] = g
			order = append(order, id)
		}
		g.amount = g.amount.Add(e.Amount)
	}

	hundred := decimal.NewFromInt(100)
	breakdown := make([]CategoryShare, 0, len(groups)+1)
	for _, id := range order {
		g := groups[id]
		breakdown = append(breakdown, CategoryShare{
			CategoryID:   g.id,
			CategoryName: s.categoryName(*g.id),
			Amount:       g.amount.Round(2),
			Percentage:   g.amount.Div(total).Mul(hundred).Round(2),
		})
	}
	if uncategorized != nil {
		breakdown = append(breakdown, CategoryShare{
			CategoryName: unknownCategoryName,
			Amount:       uncategorized.amount.Round(2),
			Percentage:   uncategorized.amount.Div(total).Mul(hundred).Round(2),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})
	return breakdown
}

func currencyBreakdown(exps []*expenseDatamodel.Expense) []CurrencyShare {
	total := decimal.Zero
	for _, e := range exps {
		total = total.Add(e.Amount)
	}
	if total.IsZero() {
		return []CurrencyShare{}
	}

	amounts := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range exps {
		cur := e.Currency
		if cur == "" {
			cur = expense.DefaultCurrency
		}
		if _, ok := amounts[cur]; !ok {
			order = append(order, cur)
		}
		amounts[cur] = amounts[cur].Add(e.Amount)
	}

	hundred := decimal.NewFromInt(100)
	breakdown := make([]CurrencyShare, 0, len(amounts))
	for _, cur := range order {
		amt := amounts[cur]
		breakdown = append(breakdown, CurrencyShare{
			Currency:   cur,
			Amount:     amt.Round(2),
			Percentage: amt.Div(total).Mul(hundred).Round(2),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})
	return breakdown
}

func (s *Service) categoryName(id int64) string {
	cat, err := s.categories.GetByID(id)
	if err != nil || cat == nil {
		return unknownCategoryName
	}
	return cat.Name
}

func actualRange(exps []*expenseDatamodel.Expense, start, end *time.Time) DateRange {
	if start != nil && end != nil {
		s := dates.Format(*start)
		e := dates.Format(*end)
		return DateRange{Start: &s, End: &e}
	}
	if len(exps) == 0 {
		return DateRange{}
	}
	min, max := observedRange(exps)
	s := dates.Format(min)
	e := dates.Format(max)
	return DateRange{Start: &s, End: &e}
}

func observedRange(exps []*expenseDatamodel.Expense) (time.Time, time.Time) {
	min := dates.Day(exps[0].Date)
	max := min
	for _, e := range exps[1:] {
		d := dates.Day(e.Date)
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max
}
