package category

import (
	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/common/validation"

	"github.com/shopspring/decimal"
)

type CreateCategoryDTO struct {
	Name        string           `json:"name"`
	BudgetLimit *decimal.Decimal `json:"budget_limit"`
}

func (d CreateCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("budget_limit", d.BudgetLimit).NonNegativeAmount()
	return v.Validate()
}

type UpdateCategoryDTO struct {
	Name        *string          `json:"name"`
	BudgetLimit *decimal.Decimal `json:"budget_limit"`
}

func (d UpdateCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(100)
	}
	v.Field("budget_limit", d.BudgetLimit).NonNegativeAmount()
	return v.Validate()
}

func (d UpdateCategoryDTO) ApplyTo(c *Category) {
	if d.Name != nil {
		c.Name = *d.Name
	}
	if d.BudgetLimit != nil {
		c.BudgetLimit = d.BudgetLimit
	}
}
