package recurring

import (
	"log/slog"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/dates"
)

// RepositoryAPI is the full template store surface. The generator consumes
// only the TemplateStore subset of it.
type RepositoryAPI interface {
	Create(rec *RecurringExpense) error
	GetByID(id int64) (*RecurringExpense, error)
	FindByUser(userID int64) ([]*RecurringExpense, error)
	FindActiveByUser(userID int64, asOf time.Time) ([]*RecurringExpense, error)
	Update(rec *RecurringExpense) error
	Delete(id int64) error
	// UserIDsWithTemplates feeds the generation worker's fan-out over users.
	UserIDsWithTemplates() ([]int64, error)
}

// Service handles recurring-expense template lifecycle. Generation itself
// lives in Generator; the service only manages templates and their cursors.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateRecurringExpense(userID int64, dto CreateRecurringExpenseDTO) (*RecurringExpense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("recurring expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := time.Now()
	rec := &RecurringExpense{
		UserID:      userID,
		Amount:      dto.Amount,
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		Frequency:   Frequency(dto.Frequency),
		StartDate:   dates.Day(dto.StartDate.Time),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dto.EndDate != nil {
		end := dates.Day(dto.EndDate.Time)
		rec.EndDate = &end
	}
	rec.ResetCursor()

	if err := s.repo.Create(rec); err != nil {
		s.logger.Error("failed to create recurring expense", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("recurring expense created",
		"recurring_id", rec.ID,
		"user_id", userID,
		"frequency", rec.Frequency,
		"start_date", dates.Format(rec.StartDate))

	return rec, nil
}

func (s *Service) UpdateRecurringExpense(id, userID int64, dto UpdateRecurringExpenseDTO) (*RecurringExpense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("recurring expense update validation failed", "error", err, "recurring_id", id)
		return nil, err
	}

	rec, err := s.getOwned(id, userID)
	if err != nil {
		return nil, err
	}

	scheduleChanged := dto.ApplyTo(rec)
	if rec.EndDate != nil && rec.EndDate.Before(rec.StartDate) {
		return nil, errors.NewValidationFieldError("end_date", "end_date must not end before it starts", errors.ErrCodeInvalidDateRange)
	}
	if scheduleChanged {
		// A new schedule invalidates the old cursor; generation restarts from
		// the (possibly new) start date, with the duplicate check absorbing
		// anything already materialized.
		rec.ResetCursor()
	}

	if err := s.repo.Update(rec); err != nil {
		s.logger.Error("failed to update recurring expense", "error", err, "recurring_id", id)
		return nil, err
	}

	s.logger.Info("recurring expense updated",
		"recurring_id", id,
		"user_id", userID,
		"cursor_reset", scheduleChanged)

	return rec, nil
}

func (s *Service) DeleteRecurringExpense(id, userID int64) error {
	if _, err := s.getOwned(id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete recurring expense", "error", err, "recurring_id", id)
		return err
	}

	s.logger.Info("recurring expense deleted", "recurring_id", id, "user_id", userID)
	return nil
}

func (s *Service) GetRecurringExpense(id, userID int64) (*RecurringExpense, error) {
	return s.getOwned(id, userID)
}

func (s *Service) ListRecurringExpenses(userID int64) ([]*RecurringExpense, error) {
	recs, err := s.repo.FindByUser(userID)
	if err != nil {
		s.logger.Error("failed to list recurring expenses", "error", err, "user_id", userID)
		return nil, err
	}
	return recs, nil
}

// GetExpensesDue returns the active templates whose cursor falls on or before
// the given date, i.e. the templates a generation run would touch.
func (s *Service) GetExpensesDue(userID int64, date time.Time) ([]*RecurringExpense, error) {
	date = dates.Day(date)
	active, err := s.repo.FindActiveByUser(userID, date)
	if err != nil {
		s.logger.Error("failed to find active recurring expenses", "error", err, "user_id", userID)
		return nil, err
	}

	due := []*RecurringExpense{}
	for _, rec := range active {
		if !rec.Cursor().After(date) {
			due = append(due, rec)
		}
	}
	return due, nil
}

func (s *Service) getOwned(id, userID int64) (*RecurringExpense, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get recurring expense", "error", err, "recurring_id", id)
		return nil, errors.ErrRecurringNotFound
	}
	if rec == nil {
		return nil, errors.ErrRecurringNotFound
	}
	if rec.UserID != userID {
		s.logger.Warn("unauthorized access to recurring expense", "recurring_id", id, "user_id", userID)
		return nil, errors.ErrUnauthorizedAccess
	}
	return rec, nil
}
