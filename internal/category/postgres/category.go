package postgres

import (
	"time"

	categoryDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/category"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAllByUser(userID int64) ([]*categoryDatamodel.ExpenseCategory, error) {
	var cats []*categoryDatamodel.ExpenseCategory
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) GetByID(id int64) (*categoryDatamodel.ExpenseCategory, error) {
	var cat categoryDatamodel.ExpenseCategory
	err := r.db.Where("id = ?", id).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByName(userID int64, name string) (*categoryDatamodel.ExpenseCategory, error) {
	var cat categoryDatamodel.ExpenseCategory
	err := r.db.Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(cat *categoryDatamodel.ExpenseCategory) error {
	now := time.Now().UTC()
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = now
	}
	cat.UpdatedAt = now
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(cat *categoryDatamodel.ExpenseCategory) error {
	cat.UpdatedAt = time.Now().UTC()
	return r.db.Save(cat).Error
}

func (r *CategoryRepository) Delete(id int64) error {
	return r.db.Delete(&categoryDatamodel.ExpenseCategory{}, id).Error
}
