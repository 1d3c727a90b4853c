package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "medtracker/internal/errors"
	"medtracker/internal/model"
)

// MedicineRepository defines medicine persistence operations. Every lookup and
// mutation is scoped by the owning user's id.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *model.Medicine) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Medicine, error)
	FindByIDForOwner(ctx context.Context, ownerID, id uint) (*model.Medicine, error)
	Update(ctx context.Context, medicine *model.Medicine) error
	DeleteForOwner(ctx context.Context, ownerID, id uint) error
}

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new medicine repository.
func NewMedicineRepository(db *gorm.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

// Create creates a new medicine.
func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

// ListByOwner lists the owner's medicines ordered by name.
func (r *medicineRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Medicine, error) {
	medicines := make([]model.Medicine, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name ASC").Order("id ASC").
		Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

// FindByIDForOwner returns ErrMedicineNotFound both when the row is missing
// and when it belongs to someone else.
func (r *medicineRepository) FindByIDForOwner(ctx context.Context, ownerID, id uint) (*model.Medicine, error) {
	var medicine model.Medicine
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&medicine).Error; err != nil {
		return nil, translateNotFound(err, apperrors.ErrMedicineNotFound)
	}
	return &medicine, nil
}

// Update overwrites the editable columns of a medicine previously loaded with
// FindByIDForOwner.
func (r *medicineRepository) Update(ctx context.Context, medicine *model.Medicine) error {
	return r.db.WithContext(ctx).Model(medicine).
		Where("user_id = ?", medicine.UserID).
		Select("name", "dosage", "frequency", "updated_at").
		Updates(medicine).Error
}

// DeleteForOwner deletes the medicine if the owner matches.
func (r *medicineRepository) DeleteForOwner(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Medicine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrMedicineNotFound
	}
	return nil
}
