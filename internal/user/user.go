package user

import (
	"time"

	userDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/user"
)

// User represents the internal user model.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(dm *userDatamodel.User) *User {
	if dm == nil {
		return nil
	}
	return &User{
		ID:        dm.ID,
		Email:     dm.Email,
		Name:      dm.Name,
		IsActive:  dm.IsActive,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
}
