package budget

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	budgetDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/budget"
	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/core/events"

	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	Create(b *budgetDatamodel.Budget) error
	GetByID(id int64) (*budgetDatamodel.Budget, error)
	FindByUser(userID int64) ([]*budgetDatamodel.Budget, error)
	Delete(id int64) error
}

// ExpenseStore provides the expense scan the spending calculation runs over.
// Satisfied by the expense repository.
type ExpenseStore interface {
	FindByUser(userID int64) ([]*expenseDatamodel.Expense, error)
}

type Service struct {
	repo     RepositoryAPI
	expenses ExpenseStore
	bus      *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, expenses ExpenseStore, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		expenses: expenses,
		bus:      bus,
		logger:   logger,
	}
}

func (s *Service) CreateBudget(userID int64, dto CreateBudgetDTO) (*Budget, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	b := &Budget{
		UserID:      userID,
		CategoryID:  dto.CategoryID,
		Amount:      dto.Amount,
		PeriodStart: dates.Day(dto.PeriodStart.Time),
		PeriodEnd:   dates.Day(dto.PeriodEnd.Time),
		CreatedAt:   time.Now().UTC(),
	}

	dm := ToDataModel(b)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create budget", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to create budget", err)
	}
	b.ID = dm.ID

	s.logger.Info("budget created", "budget_id", b.ID, "user_id", userID, "category_id", b.CategoryID)
	return b, nil
}

func (s *Service) ListBudgets(userID int64) ([]*Budget, error) {
	dms, err := s.repo.FindByUser(userID)
	if err != nil {
		s.logger.Error("failed to list budgets", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list budgets", err)
	}
	return FromDataModelSlice(dms), nil
}

func (s *Service) GetBudget(id, userID int64) (*Budget, error) {
	return s.getOwned(id, userID)
}

func (s *Service) DeleteBudget(id, userID int64) error {
	if _, err := s.getOwned(id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete budget", "error", err, "budget_id", id)
		return errors.NewInternalError("failed to delete budget", err)
	}

	return nil
}

// CheckBudgetStatus computes spending, remaining, percentage used and whether
// the budget is exceeded.
func (s *Service) CheckBudgetStatus(id, userID int64) (*Status, error) {
	b, err := s.getOwned(id, userID)
	if err != nil {
		return nil, err
	}
	return s.status(b)
}

// GetBudgetsExceeding returns the user's budgets whose spending is strictly
// over the budgeted amount.
func (s *Service) GetBudgetsExceeding(userID int64) ([]*Status, error) {
	return s.filterStatuses(userID, func(st *Status) bool {
		return st.Exceeded
	})
}

// GetBudgetsNearLimit returns budgets at or past the threshold percentage but
// not yet over the amount. Threshold defaults to NearLimitThreshold when <= 0.
func (s *Service) GetBudgetsNearLimit(userID int64, threshold int) ([]*Status, error) {
	if threshold <= 0 {
		threshold = NearLimitThreshold
	}
	limit := decimal.NewFromInt(int64(threshold))
	return s.filterStatuses(userID, func(st *Status) bool {
		return st.PercentageUsed.GreaterThanOrEqual(limit) && !st.Spending.GreaterThan(st.Budget.Amount)
	})
}

// HandleExpenseCreated reacts to new expenses by re-checking every budget the
// expense falls into and publishing alerts.
func (s *Service) HandleExpenseCreated(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return nil
	}
	userID, ok := data["user_id"].(int64)
	if !ok {
		return nil
	}

	dms, err := s.repo.FindByUser(userID)
	if err != nil {
		return err
	}

	for _, dm := range dms {
		st, err := s.status(FromDataModel(dm))
		if err != nil {
			return err
		}
		if st.Exceeded {
			s.logger.Warn("budget exceeded",
				"budget_id", st.Budget.ID,
				"user_id", userID,
				"spending", st.Spending.String(),
				"limit", st.Budget.Amount.String())
			if s.bus != nil {
				exceeded := events.NewBudgetExceeded(userID, st.Budget.ID, st.Budget.CategoryID,
					st.Spending.String(), st.Budget.Amount.String())
				if err := s.bus.Publish(ctx, exceeded); err != nil {
					s.logger.Warn("budget.exceeded handler failed", "error", err)
				}
			}
		}
	}

	return nil
}

// CalculateSpending sums a user's expenses for one category inside a period,
// bounds inclusive.
func (s *Service) CalculateSpending(userID, categoryID int64, start, end time.Time) (decimal.Decimal, error) {
	exps, err := s.expenses.FindByUser(userID)
	if err != nil {
		return decimal.Zero, errors.NewInternalError("failed to calculate spending", err)
	}

	total := decimal.Zero
	for _, e := range exps {
		if e.CategoryID == nil || *e.CategoryID != categoryID {
			continue
		}
		d := dates.Day(e.Date)
		if d.Before(dates.Day(start)) || d.After(dates.Day(end)) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (s *Service) status(b *Budget) (*Status, error) {
	spending, err := s.CalculateSpending(b.UserID, b.CategoryID, b.PeriodStart, b.PeriodEnd)
	if err != nil {
		return nil, err
	}

	percentage := decimal.Zero
	if b.Amount.IsPositive() {
		percentage = spending.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &Status{
		Budget:         b,
		Spending:       spending,
		Remaining:      b.Amount.Sub(spending),
		PercentageUsed: percentage,
		Exceeded:       spending.GreaterThan(b.Amount),
	}, nil
}

func (s *Service) filterStatuses(userID int64, keep func(*Status) bool) ([]*Status, error) {
	dms, err := s.repo.FindByUser(userID)
	if err != nil {
		s.logger.Error("failed to list budgets", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list budgets", err)
	}

	result := make([]*Status, 0)
	for _, dm := range dms {
		st, err := s.status(FromDataModel(dm))
		if err != nil {
			return nil, err
		}
		if keep(st) {
			result = append(result, st)
		}
	}
	return result, nil
}

func (s *Service) getOwned(id, userID int64) (*Budget, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get budget", "error", err, "budget_id", id)
		return nil, errors.NewInternalError("failed to get budget", err)
	}
	if dm == nil {
		return nil, errors.ErrBudgetNotFound
	}
	if dm.UserID != userID {
		return nil, errors.ErrUnauthorizedAccess
	}
	return FromDataModel(dm), nil
}
