package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/justsurfingit/job-application-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProblemRepository struct {
	db *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{db: db}
}

// ListWithProgress left-joins the catalog with one user's progress. Problems
// the user never touched come back with both flags false.
func (r *ProblemRepository) ListWithProgress(ctx context.Context, userID string) ([]models.ProblemWithProgress, error) {
	rows := []models.ProblemWithProgress{}
	err := r.db.WithContext(ctx).
		Table("leetcode_problems AS p").
		Select("p.*, COALESCE(up.solved, false) AS solved, COALESCE(up.bookmarked, false) AS bookmarked").
		Joins("LEFT JOIN user_problem_progress AS up ON up.problem_id = p.id AND up.user_id = ?", userID).
		Order("p.title ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	return rows, nil
}

func (r *ProblemRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LeetCodeProblem{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check problem %s: %w", id, err)
	}
	return count > 0, nil
}

// UpsertProgress inserts the (user, problem) row with the supplied flags, or
// updates only the supplied flags when the row already exists.
func (r *ProblemRepository) UpsertProgress(ctx context.Context, userID, problemID string, patch ProgressPatch) (*models.UserProblemProgress, error) {
	now := time.Now()
	row := models.UserProblemProgress{
		UserID:     userID,
		ProblemID:  problemID,
		Solved:     patch.Solved != nil && *patch.Solved,
		Bookmarked: patch.Bookmarked != nil && *patch.Bookmarked,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	columns := []string{"updated_at"}
	if patch.Solved != nil {
		columns = append(columns, "solved")
	}
	if patch.Bookmarked != nil {
		columns = append(columns, "bookmarked")
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "problem_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	// The insert may have hit the conflict branch, so read the stored row back.
	var stored models.UserProblemProgress
	if err := db.Where("user_id = ? AND problem_id = ?", userID, problemID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reload progress: %w", translate(err))
	}
	return &stored, nil
}

// SeedCatalog inserts problems whose title is not stored yet and leaves
// existing rows untouched. It returns the number of rows inserted.
func (r *ProblemRepository) SeedCatalog(ctx context.Context, problems []models.LeetCodeProblem) (int64, error) {
	if len(problems) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "title"}}, DoNothing: true}).
		CreateInBatches(&problems, 50)
	if res.Error != nil {
		return 0, fmt.Errorf("seed catalog: %w", res.Error)
	}
	return res.RowsAffected, nil
}
