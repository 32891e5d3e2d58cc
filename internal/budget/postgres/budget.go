package postgres

import (
	"time"

	budgetDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/budget"

	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(b *budgetDatamodel.Budget) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(b).Error
}

func (r *BudgetRepository) GetByID(id int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) FindByUser(userID int64) ([]*budgetDatamodel.Budget, error) {
	var budgets []*budgetDatamodel.Budget
	err := r.db.Where("user_id = ?", userID).Order("period_start ASC").Find(&budgets).Error
	return budgets, err
}

func (r *BudgetRepository) Delete(id int64) error {
	return r.db.Delete(&budgetDatamodel.Budget{}, id).Error
}
