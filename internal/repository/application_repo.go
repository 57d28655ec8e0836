package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/justsurfingit/job-application-tracker/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("create application: %w", translate(err))
	}
	return nil
}

// List returns the user's applications, most recently applied first.
func (r *ApplicationRepository) List(ctx context.Context, userID string, f ApplicationFilter) ([]models.Application, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Company != "" {
		q = q.Where("company ILIKE ?", "%"+escapeLike(f.Company)+"%")
	}

	apps := []models.Application{}
	if err := q.Order("applied_date DESC").Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, fmt.Errorf("get application %s: %w", id, translate(err))
	}
	return &app, nil
}

// Save writes every column of app. Concurrent saves are last-write-wins.
func (r *ApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Save(app).Error; err != nil {
		return fmt.Errorf("save application %s: %w", app.ID, err)
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&models.ReminderLog{}).Error; err != nil {
			return fmt.Errorf("delete reminder logs: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Application{})
		if res.Error != nil {
			return fmt.Errorf("delete application %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete application %s: %w", id, ErrRecordNotFound)
		}
		return nil
	})
}

// ListDueFollowUps returns applications whose follow-up date is on or before
// day and that have not been reminded for that date yet.
func (r *ApplicationRepository) ListDueFollowUps(ctx context.Context, day time.Time) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("follow_up_date IS NOT NULL AND follow_up_date <= ?", datatypes.Date(day)).
		Where(`NOT EXISTS (SELECT 1 FROM reminder_logs rl
			WHERE rl.application_id = applications.id AND rl.follow_up_date = applications.follow_up_date)`).
		Order("follow_up_date ASC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("list due follow-ups: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) RecordReminder(ctx context.Context, entry *models.ReminderLog) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("record reminder for %s: %w", entry.ApplicationID, err)
	}
	return nil
}
