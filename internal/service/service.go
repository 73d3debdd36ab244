package service

import (
	"context"
	"time"

	"sovereign/api/internal/models"
	"sovereign/api/internal/repository"
)

// Store interfaces are satisfied by the repository package; tests swap
// in fakes.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	HandleTaken(ctx context.Context, handle string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error
	UpdateAccountType(ctx context.Context, id string, accountType models.AccountType) error
	ListNewest(ctx context.Context, limit int) ([]models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	CollectStats(ctx context.Context) (repository.Stats, error)
}

type ApplicationStore interface {
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	CreateWithAffirmations(ctx context.Context, app models.Application, aff models.Affirmations) error
	GetByUser(ctx context.Context, userID string) (models.Application, models.Affirmations, error)
	ListPending(ctx context.Context) ([]models.PendingReview, error)
	ListAll(ctx context.Context) ([]models.Application, error)
}

type ReviewStore interface {
	Approve(ctx context.Context, userID string, handle string) error
	Reject(ctx context.Context, userID string) error
}

type SessionStore interface {
	Put(ctx context.Context, userID string, token string, ttl time.Duration) error
}

// TaskRunner runs detached best-effort side effects.
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context) error)
}
