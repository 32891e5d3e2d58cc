package expense

import (
	"strings"
	"time"

	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a record carries no currency of its own.
const DefaultCurrency = "USD"

// Expense is the internal domain model for a single spend record.
type Expense struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Date        time.Time       `json:"date"`
	Tags        []string        `json:"tags,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NormalizeTags lowercases, trims and dedupes tags, dropping empties. The
// result preserves first-seen order so round-trips are stable.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Tags persist as a comma-joined string column.
func joinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return NormalizeTags(strings.Split(raw, ","))
}

// HasTag reports whether the expense carries the given tag.
func (e *Expense) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	currency := e.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Currency:    currency,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		Date:        e.Date,
		Tags:        joinTags(e.Tags),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(dm *expenseDatamodel.Expense) *Expense {
	currency := dm.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Expense{
		ID:          dm.ID,
		UserID:      dm.UserID,
		Amount:      dm.Amount,
		Currency:    currency,
		Description: dm.Description,
		CategoryID:  dm.CategoryID,
		Date:        dm.Date,
		Tags:        splitTags(dm.Tags),
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
