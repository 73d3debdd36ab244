package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sovereign/api/internal/apierr"
	"sovereign/api/internal/config"
	"sovereign/api/internal/ids"
	"sovereign/api/internal/models"
	"sovereign/api/internal/repository"
	"sovereign/api/internal/security"
)

// invalidCredentials is the one message returned for both unknown
// account and wrong password, so callers cannot enumerate accounts.
const invalidCredentials = "Invalid credentials"

type AuthService struct {
	users    UserStore
	sessions SessionStore
	tasks    TaskRunner
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, tasks TaskRunner, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tasks:    tasks,
		cfg:      cfg,
		log:      log,
	}
}

// NormalizeEmail is the single casing policy for every entry point:
// emails are compared and stored trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return apierr.Validation("Missing fields")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return apierr.Conflict("Email exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return apierr.Store("find user by email", err)
	}

	passwordHash, err := security.HashPassword(input.Password, s.cfg.Security.BcryptCost)
	if err != nil {
		return apierr.Store("hash password", err)
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		AccountType:  models.AccountTypeSimple,
		Role:         models.UserRoleUser,
		Status:       models.UserStatusPending,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return apierr.Conflict("Email exists")
		}
		return apierr.Store("create user", err)
	}
	return nil
}

type LoginInput struct {
	Email    string
	Password string
}

// UserProjection is the caller-safe view of a user: never the hash.
type UserProjection struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Status         string  `json:"status"`
	AccountType    string  `json:"account_type"`
	PlatformHandle *string `json:"platform_handle"`
}

type LoginResult struct {
	Token     string
	ExpiresIn int
	User      UserProjection
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := NormalizeEmail(input.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			security.VerifyDecoy(input.Password)
			return LoginResult{}, apierr.Unauthorized(invalidCredentials)
		}
		return LoginResult{}, apierr.Store("find user by email", err)
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return LoginResult{}, apierr.Unauthorized(invalidCredentials)
	}

	if !user.CanLogin() {
		return LoginResult{}, apierr.Forbidden("Account not active")
	}

	ttl := s.cfg.Security.UserTokenTTL
	token, err := security.IssueToken(s.cfg.Security.JWTSecret, user.ID, user.Email, string(user.Role), ttl)
	if err != nil {
		return LoginResult{}, err
	}

	userID := user.ID
	s.tasks.Submit("session-registry-put", func(ctx context.Context) error {
		return s.sessions.Put(ctx, userID, token, ttl)
	})
	s.tasks.Submit("touch-last-login", func(ctx context.Context) error {
		return s.users.TouchLastLogin(ctx, userID, time.Now())
	})

	return LoginResult{
		Token:     token,
		ExpiresIn: int(ttl.Seconds()),
		User: UserProjection{
			ID:             user.ID,
			Email:          user.Email,
			Status:         string(user.Status),
			AccountType:    string(user.AccountType),
			PlatformHandle: user.PlatformHandle,
		},
	}, nil
}
