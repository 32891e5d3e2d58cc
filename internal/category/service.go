package category

import (
	"log/slog"
	"strings"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	categoryDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAllByUser(userID int64) ([]*categoryDatamodel.ExpenseCategory, error)
	GetByID(id int64) (*categoryDatamodel.ExpenseCategory, error)
	GetByName(userID int64, name string) (*categoryDatamodel.ExpenseCategory, error)
	Create(cat *categoryDatamodel.ExpenseCategory) error
	Update(cat *categoryDatamodel.ExpenseCategory) error
	Delete(id int64) error
}

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

// CreateCategory creates a category; names are unique per user,
// case-insensitively.
func (s *Service) CreateCategory(userID int64, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	if existing, err := s.repo.GetByName(userID, name); err != nil {
		s.logger.Error("failed to check category name", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to create category", err)
	} else if existing != nil {
		return nil, errors.NewConflictError("category name already exists", errors.ErrCodeDuplicateCategory)
	}

	now := time.Now().UTC()
	cat := &Category{
		UserID:      userID,
		Name:        name,
		BudgetLimit: dto.BudgetLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	dm := ToDataModel(cat)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create category", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to create category", err)
	}
	cat.ID = dm.ID

	s.logger.Info("category created", "category_id", cat.ID, "user_id", userID, "name", cat.Name)
	return cat, nil
}

func (s *Service) ListCategories(userID int64) ([]*Category, error) {
	dms, err := s.repo.GetAllByUser(userID)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list categories", err)
	}
	return FromDataModelSlice(dms), nil
}

func (s *Service) GetCategory(id, userID int64) (*Category, error) {
	return s.getOwned(id, userID)
}

func (s *Service) UpdateCategory(id, userID int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.getOwned(id, userID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && !strings.EqualFold(*dto.Name, cat.Name) {
		if existing, err := s.repo.GetByName(userID, strings.TrimSpace(*dto.Name)); err != nil {
			return nil, errors.NewInternalError("failed to update category", err)
		} else if existing != nil && existing.ID != id {
			return nil, errors.NewConflictError("category name already exists", errors.ErrCodeDuplicateCategory)
		}
	}

	dto.ApplyTo(cat)
	cat.Name = strings.TrimSpace(cat.Name)
	cat.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ToDataModel(cat)); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, errors.NewInternalError("failed to update category", err)
	}

	return cat, nil
}

func (s *Service) DeleteCategory(id, userID int64) error {
	if _, err := s.getOwned(id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return errors.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id, "user_id", userID)
	return nil
}

func (s *Service) getOwned(id, userID int64) (*Category, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get category", "error", err, "category_id", id)
		return nil, errors.NewInternalError("failed to get category", err)
	}
	if dm == nil {
		return nil, errors.ErrCategoryNotFound
	}
	if dm.UserID != userID {
		return nil, errors.ErrUnauthorizedAccess
	}
	return FromDataModel(dm), nil
}
