package auth

import (
	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/common/validation"
)

// LoginDTO is the transport shape accepted by the login endpoint.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// RegisterDTO creates a new account.
type RegisterDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255)
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(8)
	return v.Validate()
}
