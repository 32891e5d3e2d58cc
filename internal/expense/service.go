package expense

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/core/events"

	"github.com/shopspring/decimal"
)

// RepositoryAPI defines the data access methods for expenses.
type RepositoryAPI interface {
	Create(exp *expenseDatamodel.Expense) error
	GetByID(id int64) (*expenseDatamodel.Expense, error)
	FindByUser(userID int64) ([]*expenseDatamodel.Expense, error)
	Search(userID int64, filters ExpenseFilters) ([]*expenseDatamodel.Expense, error)
	Update(exp *expenseDatamodel.Expense) error
	Delete(id int64) error
}

// Service handles expense business logic.
type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) CreateExpense(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := time.Now().UTC()
	exp := &Expense{
		UserID:      userID,
		Amount:      dto.Amount,
		Currency:    dto.Currency,
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		Date:        dates.Day(dto.Date.Time),
		Tags:        NormalizeTags(dto.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	dm := ToDataModel(exp)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to create expense", err)
	}
	exp.ID = dm.ID

	if s.bus != nil {
		event := events.NewExpenseCreated(userID, exp.ID, exp.Amount.String(), dates.Format(exp.Date))
		if err := s.bus.Publish(ctx, event); err != nil {
			// subscribers (budget alerts) are best-effort; the expense is
			// already committed
			s.logger.Warn("expense.created handler failed", "error", err, "expense_id", exp.ID)
		}
	}

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"user_id", userID,
		"amount", exp.Amount.String())

	return exp, nil
}

func (s *Service) GetExpense(id, userID int64) (*Expense, error) {
	return s.getOwned(id, userID)
}

// ListExpenses returns the user's expenses narrowed by filters.
func (s *Service) ListExpenses(userID int64, filters ExpenseFilters) ([]*Expense, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	dms, err := s.repo.Search(userID, filters)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list expenses", err)
	}

	return FromDataModelSlice(dms), nil
}

func (s *Service) UpdateExpense(id, userID int64, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exp, err := s.getOwned(id, userID)
	if err != nil {
		return nil, err
	}

	dto.ApplyTo(exp)
	exp.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ToDataModel(exp)); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to update expense", err)
	}

	return exp, nil
}

func (s *Service) DeleteExpense(id, userID int64) error {
	if _, err := s.getOwned(id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return errors.NewInternalError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

// CalculateTotal sums the amounts of the expenses matching filters. Amounts
// are summed as-is without currency conversion.
func (s *Service) CalculateTotal(userID int64, filters ExpenseFilters) (decimal.Decimal, error) {
	exps, err := s.ListExpenses(userID, filters)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, e := range exps {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (s *Service) getOwned(id, userID int64) (*Expense, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to get expense", err)
	}
	if dm == nil {
		return nil, errors.ErrExpenseNotFound
	}
	if dm.UserID != userID {
		s.logger.Warn("unauthorized expense access", "expense_id", id, "user_id", userID)
		return nil, errors.ErrUnauthorizedAccess
	}
	return FromDataModel(dm), nil
}
