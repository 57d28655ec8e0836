package services

import (
	"context"
	"strings"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository"
)

type ProblemRepository interface {
	ListWithProgress(ctx context.Context, userID string) ([]models.ProblemWithProgress, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpsertProgress(ctx context.Context, userID, problemID string, patch repository.ProgressPatch) (*models.UserProblemProgress, error)
}

type TechPrepService struct {
	Problems ProblemRepository
}

func NewTechPrepService(problems ProblemRepository) *TechPrepService {
	return &TechPrepService{Problems: problems}
}

// ListProblems returns the whole catalog, ordered by title, with the user's
// solved and bookmarked flags.
func (s *TechPrepService) ListProblems(ctx context.Context, user *models.User) ([]models.ProblemWithProgress, error) {
	return s.Problems.ListWithProgress(ctx, user.ID)
}

// UpdateProgress creates or patches the user's progress row for one problem.
// Only the flags present in req change.
func (s *TechPrepService) UpdateProgress(ctx context.Context, user *models.User, req *dtos.ProgressRequest) (*models.UserProblemProgress, error) {
	problemID := strings.TrimSpace(req.ProblemID)
	if problemID == "" {
		return nil, invalid("Missing problemId")
	}
	patch := repository.ProgressPatch{Solved: req.Solved, Bookmarked: req.Bookmarked}
	if patch.Empty() {
		return nil, invalid("At least one of solved or bookmarked must be provided")
	}

	exists, err := s.Problems.Exists(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	return s.Problems.UpsertProgress(ctx, user.ID, problemID, patch)
}
