package postgres

import (
	"fmt"
	"strings"
	"time"

	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/expense"

	"gorm.io/gorm"
)

// ExpenseRepository persists expense records. It backs both the expense
// service and the recurring-expense generator's duplicate scan.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *expenseDatamodel.Expense) error {
	now := time.Now().UTC()
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = now
	}
	exp.UpdatedAt = now
	return r.db.Create(exp).Error
}

func (r *ExpenseRepository) GetByID(id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := r.db.Where("id = ?", id).First(&exp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &exp, nil
}

// FindByUser returns every expense belonging to a user, oldest first. The
// generator scans this set to dedupe occurrences.
func (r *ExpenseRepository) FindByUser(userID int64) ([]*expenseDatamodel.Expense, error) {
	var exps []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ?", userID).Order("expense_date ASC, id ASC").Find(&exps).Error
	return exps, err
}

// Search narrows a user's expenses by the given filters. The tags column is
// a comma-joined string, so tag filtering pads it with commas and matches
// substrings; every requested tag must be present.
func (r *ExpenseRepository) Search(userID int64, filters expense.ExpenseFilters) ([]*expenseDatamodel.Expense, error) {
	q := r.db.Where("user_id = ?", userID)

	if filters.CategoryID != nil {
		q = q.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.StartDate != nil {
		q = q.Where("expense_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		q = q.Where("expense_date <= ?", *filters.EndDate)
	}
	if filters.Search != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}
	if filters.MinAmount != nil {
		q = q.Where("amount >= ?", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		q = q.Where("amount <= ?", *filters.MaxAmount)
	}
	for _, tag := range filters.Tags {
		q = q.Where("(',' || tags || ',') LIKE ?", "%,"+tag+",%")
	}

	q = q.Order(fmt.Sprintf("%s %s", filters.SortColumn(), filters.SortDirection()))

	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		q = q.Offset(filters.Offset)
	}

	var exps []*expenseDatamodel.Expense
	err := q.Find(&exps).Error
	return exps, err
}

func (r *ExpenseRepository) Update(exp *expenseDatamodel.Expense) error {
	exp.UpdatedAt = time.Now().UTC()
	return r.db.Save(exp).Error
}

func (r *ExpenseRepository) Delete(id int64) error {
	return r.db.Delete(&expenseDatamodel.Expense{}, id).Error
}
