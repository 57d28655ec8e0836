package repository

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-application-tracker/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, translate(err))
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("get user by email: %w", translate(err))
	}
	return &user, nil
}

func (r *UserRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.update(ctx, id, "name", name)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, "password", hash)
}

func (r *UserRepository) UpdateImage(ctx context.Context, id, url string) error {
	return r.update(ctx, id, "image", url)
}

func (r *UserRepository) UpdateEmailPreferences(ctx context.Context, id string, prefs models.EmailPreferences) error {
	return r.update(ctx, id, "email_preferences", datatypes.NewJSONType(prefs))
}

func (r *UserRepository) update(ctx context.Context, id, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update user %s: %w", column, ErrRecordNotFound)
	}
	return nil
}

// DeleteCascade removes the user and every row it owns in one transaction.
// Dependents are deleted explicitly so the result does not depend on the
// foreign-key configuration of the database.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.ReminderLog{}).Error; err != nil {
			return fmt.Errorf("delete reminder logs: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserProblemProgress{}).Error; err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete user: %w", ErrRecordNotFound)
		}
		return nil
	})
}
