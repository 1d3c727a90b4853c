package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "medtracker/internal/errors"
	"medtracker/internal/model"
)

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user. Username and email uniqueness is left to the unique
// indexes so two concurrent registrations cannot both succeed.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateNotFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateNotFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLastLogin moves last_login forward to at. An older timestamp never
// overwrites a newer one.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Where("last_login IS NULL OR last_login < ?", at).
		Update("last_login", at).Error
}

// SetActive does not check RowsAffected: MySQL reports zero when the flag
// already has the requested value.
func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// Delete removes the user and every medicine they own in one transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Medicine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}

func translateNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
