// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/pkg/auth"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles user business logic
type Service struct {
	repo      Repository
	passwords *auth.PasswordManager
	tokens    *auth.JWTManager
	log       logrus.FieldLogger
}

// NewService creates a new user service
func NewService(repo Repository, passwords *auth.PasswordManager, tokens *auth.JWTManager, log logrus.FieldLogger) *Service {
	return &Service{
		repo:      repo,
		passwords: passwords,
		tokens:    tokens,
		log:       log,
	}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		LastLoginAt:  &now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", u.ID).Info("User registered")
	return s.issue(u)
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.passwords.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	if err := s.repo.Save(ctx, u); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("Failed to record last login")
	}
	return s.issue(u)
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// GetProfile retrieves user profile
func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req
func (s *Service) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&u.FirstName, req.FirstName)
	apply(&u.LastName, req.LastName)
	apply(&u.Phone, req.Phone)
	apply(&u.Address, req.Address)
	apply(&u.City, req.City)
	apply(&u.PostalCode, req.PostalCode)
	apply(&u.Country, req.Country)

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) issue(u *User) (*AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &AuthResponse{
		User:         u,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTokenExpiry().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
