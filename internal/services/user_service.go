package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mx-styles/library-management-system/internal/auth"
	"github.com/mx-styles/library-management-system/internal/models"
	repo "github.com/mx-styles/library-management-system/internal/repository"
)

type UserService struct {
	users repo.Users
	tm    *auth.TokenManager
	audit *AuditTrail
}

func NewUserService(users repo.Users, tm *auth.TokenManager, audit *AuditTrail) *UserService {
	return &UserService{users: users, tm: tm, audit: audit}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return s.create(ctx, username, email, password, false)
}

// BootstrapAdmin creates an admin account without requiring prior
// authorization; it is only guarded by username/email uniqueness and
// exists so a fresh deployment can get its first admin.
func (s *UserService) BootstrapAdmin(ctx context.Context, username, email, password string) (models.User, error) {
	return s.create(ctx, username, email, password, true)
}

func (s *UserService) create(ctx context.Context, username, email, password string, isAdmin bool) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		IsActive: true,
		IsAdmin:  isAdmin,
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if len(password) < 8 {
		return models.User{}, errors.New("password too short")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash
	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.User{}, fmt.Errorf("%w: username or email already registered", models.ErrConflict)
		}
		return models.User{}, err
	}
	return created, nil
}

// Authenticate checks credentials and returns the user. Lookup failures
// and bad passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, models.ErrInvalidCredentials
	}
	if !u.IsActive {
		return models.User{}, fmt.Errorf("%w: account disabled", models.ErrForbidden)
	}
	return u, nil
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (s *UserService) Login(ctx context.Context, username, password string) (models.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	pair, err := s.issueTokens(u.ID, u.Role())
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *UserService) Refresh(refreshToken string) (TokenPair, error) {
	claims, isRefresh, err := s.tm.ParseAny(refreshToken)
	if err != nil || !isRefresh {
		return TokenPair{}, models.ErrInvalidCredentials
	}
	return s.issueTokens(claims.UserID, claims.Role)
}

func (s *UserService) issueTokens(userID, role string) (TokenPair, error) {
	access, refresh, exp, err := s.tm.GeneratePair(userID, role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(time.Until(exp).Seconds())}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// ToggleAdmin flips the admin flag on the target user.
func (s *UserService) ToggleAdmin(ctx context.Context, id string) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	updated, err := s.users.SetAdmin(ctx, id, !u.IsAdmin)
	if err != nil {
		return models.User{}, err
	}
	s.audit.Record("user", updated.ID, "admin_toggled", map[string]any{"is_admin": updated.IsAdmin})
	return updated, nil
}
