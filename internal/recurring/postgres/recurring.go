package postgres

import (
	"time"

	recurringDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/recurring"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/recurring"
	"gorm.io/gorm"
)

// RecurringRepository implements recurring.RepositoryAPI using GORM. It also
// satisfies the generator's TemplateStore contract.
type RecurringRepository struct {
	db *gorm.DB
}

func NewRecurringRepository(db *gorm.DB) recurring.RepositoryAPI {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) Create(rec *recurring.RecurringExpense) error {
	dm := recurring.ToDataModel(rec)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	rec.ID = dm.ID
	return nil
}

func (r *RecurringRepository) GetByID(id int64) (*recurring.RecurringExpense, error) {
	var dm recurringDatamodel.RecurringExpense
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return recurring.FromDataModel(&dm), nil
}

func (r *RecurringRepository) FindByUser(userID int64) ([]*recurring.RecurringExpense, error) {
	var dms []*recurringDatamodel.RecurringExpense
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return recurring.FromDataModelSlice(dms), nil
}

// FindActiveByUser returns templates active on asOf: started on or before it
// and not yet lapsed past their end date.
func (r *RecurringRepository) FindActiveByUser(userID int64, asOf time.Time) ([]*recurring.RecurringExpense, error) {
	asOf = dates.Day(asOf)

	var dms []*recurringDatamodel.RecurringExpense
	err := r.db.Where("user_id = ?", userID).
		Where("start_date <= ?", asOf).
		Where("end_date IS NULL OR end_date >= ?", asOf).
		Order("created_at ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return recurring.FromDataModelSlice(dms), nil
}

func (r *RecurringRepository) Update(rec *recurring.RecurringExpense) error {
	rec.UpdatedAt = time.Now()
	return r.db.Save(recurring.ToDataModel(rec)).Error
}

func (r *RecurringRepository) Delete(id int64) error {
	return r.db.Delete(&recurringDatamodel.RecurringExpense{}, id).Error
}

// UserIDsWithTemplates lists the distinct owners of templates, for the
// generation worker.
func (r *RecurringRepository) UserIDsWithTemplates() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&recurringDatamodel.RecurringExpense{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}
