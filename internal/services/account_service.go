package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository"
	"github.com/justsurfingit/job-application-tracker/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for stored password hashes.
const PasswordCost = 12

// MaxNameLength matches the users.name column.
const MaxNameLength = 100

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateImage(ctx context.Context, id, url string) error
	UpdateEmailPreferences(ctx context.Context, id string, prefs models.EmailPreferences) error
	DeleteCascade(ctx context.Context, id string) error
}

type AccountService struct {
	Users   UserRepository
	Storage storage.Uploader

	// HashCost overrides PasswordCost; tests lower it.
	HashCost int
}

func NewAccountService(users UserRepository, uploader storage.Uploader) *AccountService {
	return &AccountService{Users: users, Storage: uploader, HashCost: PasswordCost}
}

func (s *AccountService) UpdateProfile(ctx context.Context, user *models.User, req *dtos.ProfileRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("Name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, invalid("Name must be at most %d characters", MaxNameLength)
	}
	if err := s.Users.UpdateName(ctx, user.ID, name); err != nil {
		return nil, s.userErr(err)
	}
	updated := *user
	updated.Name = name
	return &updated, nil
}

// ChangePassword verifies the current password against the stored hash
// before replacing it.
func (s *AccountService) ChangePassword(ctx context.Context, user *models.User, req *dtos.PasswordChangeRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return invalid("Missing required fields")
	}

	// Re-read so a hash changed by a concurrent request is the one compared.
	stored, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		return s.userErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(req.NewPassword, s.HashCost)
	if err != nil {
		return err
	}
	return s.userErr(s.Users.UpdatePassword(ctx, user.ID, hash))
}

func (s *AccountService) UpdateEmailPreferences(ctx context.Context, user *models.User, req *dtos.EmailPreferencesRequest) error {
	if req.ApplicationUpdates == nil || req.InterviewReminders == nil || req.MarketingEmails == nil {
		return invalid("Invalid preferences format")
	}
	prefs := models.EmailPreferences{
		ApplicationUpdates: *req.ApplicationUpdates,
		InterviewReminders: *req.InterviewReminders,
		MarketingEmails:    *req.MarketingEmails,
	}
	return s.userErr(s.Users.UpdateEmailPreferences(ctx, user.ID, prefs))
}

// UploadImage stores a profile picture and records its URL on the user.
func (s *AccountService) UploadImage(ctx context.Context, user *models.User, r io.Reader) (string, error) {
	url, err := s.Storage.Upload(ctx, r, storage.FolderProfilePictures)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if err := s.Users.UpdateImage(ctx, user.ID, url); err != nil {
		return "", s.userErr(err)
	}
	return url, nil
}

// DeleteAccount removes the user together with its applications, progress
// and reminder logs.
func (s *AccountService) DeleteAccount(ctx context.Context, user *models.User) error {
	return s.userErr(s.Users.DeleteCascade(ctx, user.ID))
}

func (s *AccountService) userErr(err error) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func hashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = PasswordCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", invalid("Password is too long")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
