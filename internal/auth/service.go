package auth

import (
	"log/slog"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	userDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/user"
	"github.com/adeharia/finance-tracker/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// RepositoryAPI is the slice of user storage the auth service needs.
type RepositoryAPI interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	Register(dto RegisterDTO) (*User, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(userID int64) (*User, error)
}

type Service struct {
	users      RepositoryAPI
	tokens     TokenGeneratorAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users RepositoryAPI, tokens TokenGeneratorAPI, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     lg,
	}
}

// Authenticate verifies credentials and issues an access token. Lookup and
// bcrypt failures collapse into the same invalid-credentials error so the
// response does not reveal which accounts exist.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Email)
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", u.ID)
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to issue token", err)
	}

	return AuthTokens{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, errors.NewConflictError("email is already registered", errors.ErrCodeDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	dm := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(dm); err != nil {
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", dm.ID, "email", dm.Email)

	return &User{ID: dm.ID, Email: dm.Email, Name: dm.Name}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

func (s *Service) GetUser(userID int64) (*User, error) {
	u, err := s.users.GetByID(userID)
	if err != nil || u == nil {
		return nil, errors.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, errors.ErrInvalidToken
	}
	return &User{ID: u.ID, Email: u.Email, Name: u.Name}, nil
}
