package recurring

import (
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/common/validation"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

type CreateRecurringExpenseDTO struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Frequency   string          `json:"frequency"`
	StartDate   dates.Date      `json:"start_date"`
	EndDate     *dates.Date     `json:"end_date,omitempty"`
}

func (dto CreateRecurringExpenseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).PositiveAmount()
	v.Field("description", dto.Description).Required().MaxLength(500)
	v.Field("frequency", dto.Frequency).Required().OneOf(ValidFrequencies, errors.ErrCodeInvalidFrequency)
	v.Field("start_date", dto.StartDate.Time).Required()
	if err := v.Validate(); err != nil {
		return err
	}

	if dto.EndDate != nil {
		end := dto.EndDate.Time
		if err := validation.ValidateDateRange("end_date", dto.StartDate.Time, &end); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRecurringExpenseDTO carries a partial update: only non-nil fields are
// applied. Changing StartDate or Frequency rewinds the generation cursor.
type UpdateRecurringExpenseDTO struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Frequency   *string          `json:"frequency,omitempty"`
	StartDate   *dates.Date      `json:"start_date,omitempty"`
	EndDate     *dates.Date      `json:"end_date,omitempty"`
}

func (dto UpdateRecurringExpenseDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Amount != nil {
		v.Field("amount", *dto.Amount).PositiveAmount()
	}
	if dto.Description != nil {
		v.Field("description", *dto.Description).Required().MaxLength(500)
	}
	if dto.Frequency != nil {
		v.Field("frequency", *dto.Frequency).Required().OneOf(ValidFrequencies, errors.ErrCodeInvalidFrequency)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ApplyTo copies the set fields onto the template and reports whether the
// schedule changed (start date or frequency), which requires a cursor reset.
func (dto UpdateRecurringExpenseDTO) ApplyTo(rec *RecurringExpense) (scheduleChanged bool) {
	if dto.Amount != nil {
		rec.Amount = *dto.Amount
	}
	if dto.Description != nil {
		rec.Description = *dto.Description
	}
	if dto.CategoryID != nil {
		rec.CategoryID = dto.CategoryID
	}
	if dto.Frequency != nil {
		rec.Frequency = Frequency(*dto.Frequency)
		scheduleChanged = true
	}
	if dto.StartDate != nil {
		rec.StartDate = dates.Day(dto.StartDate.Time)
		scheduleChanged = true
	}
	if dto.EndDate != nil {
		end := dates.Day(dto.EndDate.Time)
		rec.EndDate = &end
	}
	rec.UpdatedAt = time.Now()
	return scheduleChanged
}

// GenerationResult aggregates one Generate call across all of a user's
// templates. Expenses lists only the records created by this call, never
// previously existing ones.
type GenerationResult struct {
	GeneratedCount int                         `json:"generated_count"`
	Expenses       []*expenseDatamodel.Expense `json:"expenses"`
}

type GenerateRequestDTO struct {
	UpToDate *dates.Date `json:"up_to_date,omitempty"`
}
