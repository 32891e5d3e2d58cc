package budget

import (
	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/common/validation"
	"github.com/adeharia/finance-tracker/internal/core/dates"

	"github.com/shopspring/decimal"
)

type CreateBudgetDTO struct {
	CategoryID  int64           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodStart dates.Date      `json:"period_start"`
	PeriodEnd   dates.Date      `json:"period_end"`
}

func (d CreateBudgetDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("category_id", d.CategoryID).Required()
	v.Field("amount", d.Amount).PositiveAmount()
	v.Field("period_start", d.PeriodStart.Time).Required()
	v.Field("period_end", d.PeriodEnd.Time).Required()
	if err := v.Validate(); err != nil {
		return err
	}

	if d.PeriodEnd.Time.Before(d.PeriodStart.Time) {
		return errors.NewValidationError("period_end must not precede period_start", errors.ErrCodeInvalidDateRange)
	}

	return nil
}
