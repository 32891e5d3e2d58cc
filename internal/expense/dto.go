package expense

import (
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/common/validation"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/currency"

	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 255

// CreateExpenseDTO is the transport shape for creating an expense.
type CreateExpenseDTO struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
	Date        dates.Date      `json:"date"`
	Tags        []string        `json:"tags"`
}

func (d CreateExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("amount", d.Amount).PositiveAmount()
	v.Field("description", d.Description).Required().MaxLength(maxDescriptionLength)
	v.Field("date", d.Date.Time).Required()

	if d.Currency != "" {
		v.Field("currency", d.Currency).OneOf(currency.Supported(), errors.ErrCodeInvalidCurrency)
	}

	return v.Validate()
}

// UpdateExpenseDTO carries a partial update; nil fields are left untouched.
type UpdateExpenseDTO struct {
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency"`
	Description *string          `json:"description"`
	CategoryID  *int64           `json:"category_id"`
	Date        *dates.Date      `json:"date"`
	Tags        *[]string        `json:"tags"`
}

func (d UpdateExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()

	if d.Amount != nil {
		v.Field("amount", *d.Amount).PositiveAmount()
	}
	if d.Description != nil {
		v.Field("description", *d.Description).Required().MaxLength(maxDescriptionLength)
	}
	if d.Currency != nil {
		v.Field("currency", *d.Currency).OneOf(currency.Supported(), errors.ErrCodeInvalidCurrency)
	}

	return v.Validate()
}

// ApplyTo copies the set fields onto an existing expense.
func (d UpdateExpenseDTO) ApplyTo(e *Expense) {
	if d.Amount != nil {
		e.Amount = *d.Amount
	}
	if d.Currency != nil {
		e.Currency = *d.Currency
	}
	if d.Description != nil {
		e.Description = *d.Description
	}
	if d.CategoryID != nil {
		e.CategoryID = d.CategoryID
	}
	if d.Date != nil {
		e.Date = dates.Day(d.Date.Time)
	}
	if d.Tags != nil {
		e.Tags = NormalizeTags(*d.Tags)
	}
}

// Sort columns the list endpoint accepts. Anything else falls back to date.
var sortColumns = map[string]string{
	"date":        "expense_date",
	"amount":      "amount",
	"description": "description",
	"created_at":  "created_at",
}

// ExpenseFilters narrows list, total and export queries. Zero values mean
// "no constraint".
type ExpenseFilters struct {
	CategoryID *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Tags       []string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

func (f ExpenseFilters) Validate() *errors.AppError {
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return errors.NewValidationError("end_date must not precede start_date", errors.ErrCodeInvalidDateRange)
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MaxAmount.LessThan(*f.MinAmount) {
		return errors.NewValidationError("max_amount must not be less than min_amount", errors.ErrCodeInvalidAmount)
	}
	return nil
}

// SortColumn maps the requested sort key onto a real column name.
func (f ExpenseFilters) SortColumn() string {
	if col, ok := sortColumns[f.SortBy]; ok {
		return col
	}
	return "expense_date"
}

// SortDirection returns ASC or DESC, defaulting to DESC (newest first).
func (f ExpenseFilters) SortDirection() string {
	if f.SortOrder == "asc" {
		return "ASC"
	}
	return "DESC"
}
