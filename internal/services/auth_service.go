package services

import (
	"context"
	"errors"
	"strings"

	"github.com/justsurfingit/job-application-tracker/internal/auth"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type AuthService struct {
	Users  UserRepository
	Tokens *auth.TokenManager

	HashCost int
}

func NewAuthService(users UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, HashCost: PasswordCost}
}

func (s *AuthService) Signup(ctx context.Context, req *dtos.SignupRequest) (*models.User, error) {
	hash, err := hashPassword(req.Password, s.HashCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            normalizeEmail(req.Email),
		Password:         hash,
		EmailPreferences: datatypes.NewJSONType(models.DefaultEmailPreferences()),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a fresh session token. Unknown
// email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (string, *models.User, error) {
	user, err := s.Users.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ResolveSession maps a session token to its user. A valid token whose user
// was deleted is rejected like an invalid one.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	email, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, auth.ErrInvalidToken
	}
	return user, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
