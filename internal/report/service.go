package report

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	categoryDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/expense"

	"github.com/shopspring/decimal"
)

// uncategorizedKey groups expenses without a category in breakdowns.
const uncategorizedKey = "uncategorized"

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

func (s *Service) GenerateMonthlyReport(userID int64, year int, month time.Month) (*MonthlyReport, error) {
	if month < time.January || month > time.December {
		return nil, errors.NewValidationError("month must be between 1 and 12", errors.ErrCodeInvalidDate)
	}

	exps, err := s.expensesInRange(userID, dates.StartOfMonth(year, month), dates.EndOfMonth(year, month))
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Period:       fmt.Sprintf("%d-%02d", year, month),
		Total:        sumAmounts(exps),
		ExpenseCount: len(exps),
		ByCategory:   groupByCategory(exps),
	}, nil
}

func (s *Service) GenerateYearlyReport(userID int64, year int) (*YearlyReport, error) {
	exps, err := s.expensesInRange(userID, dates.StartOfYear(year), dates.EndOfYear(year))
	if err != nil {
		return nil, err
	}

	byMonth := make([]MonthTotal, 0, 12)
	for m := time.January; m <= time.December; m++ {
		monthTotal := decimal.Zero
		count := 0
		for _, e := range exps {
			if e.Date.Month() == m {
				monthTotal = monthTotal.Add(e.Amount)
				count++
			}
		}
		byMonth = append(byMonth, MonthTotal{Month: int(m), Total: monthTotal, Count: count})
	}

	return &YearlyReport{
		Year:         year,
		Total:        sumAmounts(exps),
		ExpenseCount: len(exps),
		ByMonth:      byMonth,
		ByCategory:   groupByCategory(exps),
	}, nil
}

// GenerateCategoryReport summarizes one category's spending, bounded by the
// optional date range, and reports usage against the category's budget limit
// when it has one.
func (s *Service) GenerateCategoryReport(userID, categoryID int64, start, end *time.Time) (*CategoryReport, error) {
	cat, err := s.categories.GetByID(categoryID)
	if err != nil {
		s.logger.Error("failed to load category for report", "error", err, "category_id", categoryID)
		return nil, errors.NewInternalError("failed to generate category report", err)
	}
	if cat == nil || cat.UserID != userID {
		return nil, errors.ErrCategoryNotFound
	}

	all, err := s.expenses.FindByUser(userID)
	if err != nil {
		s.logger.Error("failed to load expenses for report", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to generate category report", err)
	}

	var exps []*expenseDatamodel.Expense
	for _, e := range all {
		if e.CategoryID == nil || *e.CategoryID != categoryID {
			continue
		}
		d := dates.Day(e.Date)
		if start != nil && d.Before(dates.Day(*start)) {
			continue
		}
		if end != nil && d.After(dates.Day(*end)) {
			continue
		}
		exps = append(exps, e)
	}

	total := sumAmounts(exps)

	rep := &CategoryReport{
		Category:     cat.Name,
		Total:        total,
		ExpenseCount: len(exps),
		BudgetLimit:  cat.BudgetLimit,
		Expenses:     expense.FromDataModelSlice(exps),
	}

	if cat.BudgetLimit != nil && cat.BudgetLimit.IsPositive() {
		usage := total.Div(*cat.BudgetLimit).Mul(decimal.NewFromInt(100)).Round(2)
		rep.BudgetUsagePercent = &usage
	}

	return rep, nil
}

func (s *Service) expensesInRange(userID int64, start, end time.Time) ([]*expenseDatamodel.Expense, error) {
	all, err := s.expenses.FindByUser(userID)
	if err != nil {
		s.logger.Error("failed to load expenses for report", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to generate report", err)
	}

	var exps []*expenseDatamodel.Expense
	for _, e := range all {
		d := dates.Day(e.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		exps = append(exps, e)
	}
	return exps, nil
}

func sumAmounts(exps []*expenseDatamodel.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range exps {
		total = total.Add(e.Amount)
	}
	return total
}

func groupByCategory(exps []*expenseDatamodel.Expense) map[string]decimal.Decimal {
	grouped := make(map[string]decimal.Decimal)
	for _, e := range exps {
		key := uncategorizedKey
		if e.CategoryID != nil {
			key = strconv.FormatInt(*e.CategoryID, 10)
		}
		grouped[key] = grouped[key].Add(e.Amount)
	}
	return grouped
}
