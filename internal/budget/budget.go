package budget

import (
	"time"

	budgetDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/budget"

	"github.com/shopspring/decimal"
)

// NearLimitThreshold is the default percentage of a budget at which the
// nearing-limit alert fires.
const NearLimitThreshold = 80

// Budget caps spending for one category over a date period.
type Budget struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	CategoryID  int64           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Covers reports whether date d falls inside the budget period, inclusive on
// both ends.
func (b *Budget) Covers(d time.Time) bool {
	return !d.Before(b.PeriodStart) && !d.After(b.PeriodEnd)
}

// Status is the computed spending position of a budget.
type Status struct {
	Budget         *Budget         `json:"budget"`
	Spending       decimal.Decimal `json:"spending"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed decimal.Decimal `json:"percentage_used"`
	Exceeded       bool            `json:"exceeded"`
}

func ToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:          b.ID,
		UserID:      b.UserID,
		CategoryID:  b.CategoryID,
		Amount:      b.Amount,
		PeriodStart: b.PeriodStart,
		PeriodEnd:   b.PeriodEnd,
		CreatedAt:   b.CreatedAt,
	}
}

func FromDataModel(dm *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:          dm.ID,
		UserID:      dm.UserID,
		CategoryID:  dm.CategoryID,
		Amount:      dm.Amount,
		PeriodStart: dm.PeriodStart,
		PeriodEnd:   dm.PeriodEnd,
		CreatedAt:   dm.CreatedAt,
	}
}

func FromDataModelSlice(dms []*budgetDatamodel.Budget) []*Budget {
	result := make([]*Budget, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
