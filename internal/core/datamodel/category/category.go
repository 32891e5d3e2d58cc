package category

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory struct {
	ID          int64            `json:"id" gorm:"primaryKey"`
	UserID      int64            `json:"user_id" gorm:"column:user_id;not null;index"`
	Name        string           `json:"name" gorm:"not null"`
	BudgetLimit *decimal.Decimal `json:"budget_limit,omitempty" gorm:"column:budget_limit;type:decimal(12,2)"`
	CreatedAt   time.Time        `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (ExpenseCategory) TableName() string {
	return "categories"
}
