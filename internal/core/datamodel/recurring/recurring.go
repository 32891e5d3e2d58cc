package recurring

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringExpense is the persistence model for a recurring-expense template.
// NextOccurrence is the generation cursor: the first date the next generation
// run will materialize. Only the generation engine advances it; template edits
// that change start_date or frequency reset it to the new start_date.
type RecurringExpense struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	UserID         int64           `json:"user_id" gorm:"column:user_id;not null;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(12,2);not null"`
	Description    string          `json:"description" gorm:"not null"`
	CategoryID     *int64          `json:"category_id,omitempty" gorm:"column:category_id"`
	Frequency      string          `json:"frequency" gorm:"not null"`
	StartDate      time.Time       `json:"start_date" gorm:"column:start_date;type:date;not null"`
	EndDate        *time.Time      `json:"end_date,omitempty" gorm:"column:end_date;type:date"`
	NextOccurrence time.Time       `json:"next_occurrence_date" gorm:"column:next_occurrence;type:date;not null"`
	CreatedAt      time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (RecurringExpense) TableName() string {
	return "recurring_expenses"
}
