package recurring

import (
	"time"

	recurringDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/recurring"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

var ValidFrequencies = []string{
	string(FrequencyDaily),
	string(FrequencyWeekly),
	string(FrequencyMonthly),
	string(FrequencyYearly),
}

func IsValidFrequency(s string) bool {
	for _, f := range ValidFrequencies {
		if s == f {
			return true
		}
	}
	return false
}

// RecurringExpense is a template for expenses that repeat on a schedule. It
// owns a generation cursor (NextOccurrence); the cursor is advanced only by
// the generator and reset only by edits to StartDate or Frequency.
type RecurringExpense struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	CategoryID     *int64          `json:"category_id,omitempty"`
	Frequency      Frequency       `json:"frequency"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	NextOccurrence time.Time       `json:"next_occurrence_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ActiveOn reports whether the template produces occurrences on date d:
// d must not precede StartDate nor exceed EndDate when one is set. A lapsed
// template stays in the store; it simply never matches again.
func (r *RecurringExpense) ActiveOn(d time.Time) bool {
	d = dates.Day(d)
	if d.Before(dates.Day(r.StartDate)) {
		return false
	}
	if r.EndDate != nil && d.After(dates.Day(*r.EndDate)) {
		return false
	}
	return true
}

// Cursor returns the date generation resumes from, falling back to StartDate
// for templates persisted before the cursor column existed.
func (r *RecurringExpense) Cursor() time.Time {
	if r.NextOccurrence.IsZero() {
		return dates.Day(r.StartDate)
	}
	return dates.Day(r.NextOccurrence)
}

// ResetCursor rewinds the cursor to StartDate. Called on creation and on any
// edit that changes the schedule.
func (r *RecurringExpense) ResetCursor() {
	r.NextOccurrence = dates.Day(r.StartDate)
}

func ToDataModel(r *RecurringExpense) *recurringDatamodel.RecurringExpense {
	return &recurringDatamodel.RecurringExpense{
		ID:             r.ID,
		UserID:         r.UserID,
		Amount:         r.Amount,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Frequency:      string(r.Frequency),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		NextOccurrence: r.NextOccurrence,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func FromDataModel(r *recurringDatamodel.RecurringExpense) *RecurringExpense {
	return &RecurringExpense{
		ID:             r.ID,
		UserID:         r.UserID,
		Amount:         r.Amount,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Frequency:      Frequency(r.Frequency),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		NextOccurrence: r.NextOccurrence,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func FromDataModelSlice(recs []*recurringDatamodel.RecurringExpense) []*RecurringExpense {
	result := make([]*RecurringExpense, len(recs))
	for i, r := range recs {
		result[i] = FromDataModel(r)
	}
	return result
}
