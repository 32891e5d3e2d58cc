package user

import (
	errors "github.com/adeharia/finance-tracker/internal"
	userDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(userID int64) (*userDatamodel.User, error)
}

type Service struct {
	repo RepositoryAPI
}

func NewService(repo RepositoryAPI) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	dm, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if dm == nil {
		return nil, errors.NewNotFoundError("user not found", errors.ErrCodeUserNotFound)
	}
	return FromDataModel(dm), nil
}
