package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository"
	"github.com/justsurfingit/job-application-tracker/internal/storage"
	"gorm.io/datatypes"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	List(ctx context.Context, userID string, f repository.ApplicationFilter) ([]models.Application, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Save(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id string) error
}

type ApplicationService struct {
	Apps    ApplicationRepository
	Storage storage.Uploader
}

func NewApplicationService(apps ApplicationRepository, uploader storage.Uploader) *ApplicationService {
	return &ApplicationService{
		Apps:    apps,
		Storage: uploader,
	}
}

func (s *ApplicationService) List(ctx context.Context, user *models.User, q dtos.ApplicationListQuery) ([]models.Application, error) {
	return s.Apps.List(ctx, user.ID, repository.ApplicationFilter{
		Status:  strings.TrimSpace(q.Status),
		Company: strings.TrimSpace(q.Company),
	})
}

// Create stores a new application for user. When resume is non-nil it is
// uploaded first; a failed upload aborts before anything is inserted.
func (s *ApplicationService) Create(ctx context.Context, user *models.User, req *dtos.ApplicationCreateForm, resume io.Reader) (*models.Application, error) {
	company := strings.TrimSpace(req.Company)
	position := strings.TrimSpace(req.Position)
	status := strings.TrimSpace(req.Status)
	if company == "" || position == "" || status == "" || strings.TrimSpace(req.AppliedDate) == "" {
		return nil, invalid("Missing required fields")
	}

	applied, err := parseDate("appliedDate", req.AppliedDate)
	if err != nil {
		return nil, err
	}
	app := &models.Application{
		UserID:      user.ID,
		Company:     company,
		Position:    position,
		Status:      status,
		AppliedDate: applied,
	}
	if req.FollowUpDate != "" {
		followUp, err := parseDate("followUpDate", req.FollowUpDate)
		if err != nil {
			return nil, err
		}
		app.FollowUpDate = &followUp
	}
	if req.Notes != "" {
		notes := req.Notes
		app.Notes = &notes
	}

	if resume != nil {
		url, err := s.upload(ctx, resume)
		if err != nil {
			return nil, err
		}
		app.ResumeURL = &url
	}

	if err := s.Apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Get returns the application only when user owns it.
func (s *ApplicationService) Get(ctx context.Context, user *models.User, id string) (*models.Application, error) {
	app, err := s.Apps.GetByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// Someone else's row looks exactly like a missing one.
	if app.UserID != user.ID {
		return nil, ErrNotFound
	}
	return app, nil
}

// Update patches the fields present in req. Ownership is checked before any
// upload so a foreign id never reaches the storage service.
func (s *ApplicationService) Update(ctx context.Context, user *models.User, id string, req *dtos.ApplicationUpdateForm, resume io.Reader) (*models.Application, error) {
	app, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(req.Company); v != "" {
		app.Company = v
	}
	if v := strings.TrimSpace(req.Position); v != "" {
		app.Position = v
	}
	if v := strings.TrimSpace(req.Status); v != "" {
		app.Status = v
	}
	if req.AppliedDate != "" {
		applied, err := parseDate("appliedDate", req.AppliedDate)
		if err != nil {
			return nil, err
		}
		app.AppliedDate = applied
	}
	if req.FollowUpDate != "" {
		followUp, err := parseDate("followUpDate", req.FollowUpDate)
		if err != nil {
			return nil, err
		}
		app.FollowUpDate = &followUp
	}
	if req.Notes != "" {
		notes := req.Notes
		app.Notes = &notes
	}

	if resume != nil {
		url, err := s.upload(ctx, resume)
		if err != nil {
			return nil, err
		}
		app.ResumeURL = &url
	}

	if err := s.Apps.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) Delete(ctx context.Context, user *models.User, id string) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	err := s.Apps.Delete(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *ApplicationService) upload(ctx context.Context, r io.Reader) (string, error) {
	url, err := s.Storage.Upload(ctx, r, storage.FolderResumes)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return url, nil
}

// parseDate reads a calendar date (YYYY-MM-DD). A full RFC 3339 timestamp is
// accepted too and truncated to its date.
func parseDate(field, value string) (datatypes.Date, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, value)
		if tsErr != nil {
			return datatypes.Date{}, invalid("Invalid %s: expected YYYY-MM-DD", field)
		}
		t = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	return datatypes.Date(t), nil
}
