package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the persistence model for a single expense record. Generated
// recurring occurrences share this shape with manually entered expenses.
type Expense struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	UserID      int64           `json:"user_id" gorm:"column:user_id;not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(12,2);not null"`
	Currency    string          `json:"currency" gorm:"column:currency;default:USD"`
	Description string          `json:"description" gorm:"not null"`
	CategoryID  *int64          `json:"category_id,omitempty" gorm:"column:category_id"`
	Date        time.Time       `json:"date" gorm:"column:expense_date;type:date;not null"`
	Tags        string          `json:"-" gorm:"column:tags"`
	CreatedAt   time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Expense) TableName() string {
	return "expenses"
}
