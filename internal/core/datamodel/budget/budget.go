package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	UserID      int64           `json:"user_id" gorm:"column:user_id;not null;index"`
	CategoryID  int64           `json:"category_id" gorm:"column:category_id;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(12,2);not null"`
	PeriodStart time.Time       `json:"period_start" gorm:"column:period_start;type:date;not null"`
	PeriodEnd   time.Time       `json:"period_end" gorm:"column:period_end;type:date;not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Budget) TableName() string {
	return "budgets"
}
