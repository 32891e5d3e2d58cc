package category

import (
	"time"

	categoryDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/category"

	"github.com/shopspring/decimal"
)

// Category is the internal domain model for an expense category.
type Category struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	Name        string           `json:"name"`
	BudgetLimit *decimal.Decimal `json:"budget_limit,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// HasBudgetLimit reports whether the category carries its own soft spending
// limit, distinct from period budgets.
func (c *Category) HasBudgetLimit() bool {
	return c.BudgetLimit != nil && c.BudgetLimit.IsPositive()
}

func ToDataModel(c *Category) *categoryDatamodel.ExpenseCategory {
	return &categoryDatamodel.ExpenseCategory{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		BudgetLimit: c.BudgetLimit,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(dm *categoryDatamodel.ExpenseCategory) *Category {
	return &Category{
		ID:          dm.ID,
		UserID:      dm.UserID,
		Name:        dm.Name,
		BudgetLimit: dm.BudgetLimit,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*categoryDatamodel.ExpenseCategory) []*Category {
	result := make([]*Category, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
