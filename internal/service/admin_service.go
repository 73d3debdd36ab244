package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"sovereign/api/internal/apierr"
	"sovereign/api/internal/config"
	"sovereign/api/internal/models"
	"sovereign/api/internal/repository"
	"sovereign/api/internal/security"
)

// StatsSnapshot caches dashboard counters between refreshes.
type StatsSnapshot interface {
	Get(ctx context.Context) (repository.Stats, error)
	Set(ctx context.Context, stats repository.Stats) error
}

type AdminService struct {
	users        UserStore
	applications ApplicationStore
	reviews      ReviewStore
	stats        StatsSnapshot
	archive      ExportArchiver
	tasks        TaskRunner
	cfg          *config.AppConfig
	log          zerolog.Logger
}

func NewAdminService(
	users UserStore,
	applications ApplicationStore,
	reviews ReviewStore,
	stats StatsSnapshot,
	archive ExportArchiver,
	tasks TaskRunner,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:        users,
		applications: applications,
		reviews:      reviews,
		stats:        stats,
		archive:      archive,
		tasks:        tasks,
		cfg:          cfg,
		log:          log,
	}
}

type AdminLoginResult struct {
	Token     string
	ExpiresIn int
}

// Login authenticates the deployment-configured administrator. There is
// no admin user row; identity comes from configuration, and the token
// therefore carries no subject.
func (s *AdminService) Login(ctx context.Context, email string, password string) (AdminLoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return AdminLoginResult{}, apierr.Validation("Missing email or password")
	}

	if email != NormalizeEmail(s.cfg.Security.AdminEmail) {
		security.VerifyDecoy(password)
		return AdminLoginResult{}, apierr.Forbidden(invalidCredentials)
	}

	hash := s.cfg.Security.AdminPasswordHash
	if hash == "" || s.cfg.Security.JWTSecret == "" {
		return AdminLoginResult{}, apierr.Configuration("admin credentials not configured")
	}

	if !security.VerifyPassword(password, hash) {
		return AdminLoginResult{}, apierr.Forbidden(invalidCredentials)
	}

	ttl := s.cfg.Security.AdminTokenTTL
	token, err := security.IssueToken(s.cfg.Security.JWTSecret, "", email, string(models.UserRoleAdmin), ttl)
	if err != nil {
		return AdminLoginResult{}, err
	}

	return AdminLoginResult{Token: token, ExpiresIn: int(ttl.Seconds())}, nil
}

func (s *AdminService) PendingApplications(ctx context.Context) ([]models.PendingReview, error) {
	reviews, err := s.applications.ListPending(ctx)
	if err != nil {
		return nil, apierr.Store("list pending applications", err)
	}
	return reviews, nil
}

// Approve assigns the handle and flips both records in one commit.
func (s *AdminService) Approve(ctx context.Context, userID string, handle string) error {
	handle = strings.TrimSpace(handle)
	if userID == "" || handle == "" {
		return apierr.Validation("Missing fields")
	}

	taken, err := s.users.HandleTaken(ctx, handle)
	if err != nil {
		return apierr.Store("check handle", err)
	}
	if taken {
		return apierr.Conflict("Handle taken")
	}

	if err := s.reviews.Approve(ctx, userID, handle); err != nil {
		switch {
		case repository.IsUniqueViolation(err):
			return apierr.Conflict("Handle taken")
		case errors.Is(err, repository.ErrUserNotFound):
			return apierr.NotFound("User not found")
		case errors.Is(err, repository.ErrApplicationNotFound):
			return apierr.Conflict("No pending application for user")
		}
		return apierr.Store("approve application", err)
	}
	return nil
}

// Reject is a no-op success on an already-rejected user: re-running the
// same transition leaves identical state.
func (s *AdminService) Reject(ctx context.Context, userID string) error {
	if userID == "" {
		return apierr.Validation("Missing fields")
	}

	if err := s.reviews.Reject(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apierr.NotFound("User not found")
		}
		return apierr.Store("reject application", err)
	}
	return nil
}

type BulkAction string

const (
	BulkActionSuspend   BulkAction = "suspend"
	BulkActionActivate  BulkAction = "activate"
	BulkActionUpgrade   BulkAction = "upgrade"
	BulkActionDowngrade BulkAction = "downgrade"
)

type BulkResult struct {
	UserID string `json:"userId"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// BulkApply runs the action per user, best-effort: one bad id never
// rolls back work already done for the others, and every id reports its
// own outcome.
func (s *AdminService) BulkApply(ctx context.Context, action BulkAction, userIDs []string) ([]BulkResult, error) {
	if len(userIDs) == 0 {
		return nil, apierr.Validation("No users selected")
	}

	var apply func(ctx context.Context, id string) error
	switch action {
	case BulkActionSuspend:
		apply = func(ctx context.Context, id string) error {
			return s.users.UpdateStatus(ctx, id, models.UserStatusSuspended)
		}
	case BulkActionActivate:
		apply = func(ctx context.Context, id string) error {
			return s.users.UpdateStatus(ctx, id, models.UserStatusActive)
		}
	case BulkActionUpgrade:
		apply = func(ctx context.Context, id string) error {
			return s.users.UpdateAccountType(ctx, id, models.AccountTypePremium)
		}
	case BulkActionDowngrade:
		apply = func(ctx context.Context, id string) error {
			return s.users.UpdateAccountType(ctx, id, models.AccountTypeSimple)
		}
	default:
		return nil, apierr.Validation("Invalid action")
	}

	results := make([]BulkResult, 0, len(userIDs))
	for _, id := range userIDs {
		result := BulkResult{UserID: id, OK: true}
		if err := apply(ctx, id); err != nil {
			result.OK = false
			if errors.Is(err, repository.ErrUserNotFound) {
				result.Error = "User not found"
			} else {
				result.Error = "Update failed"
				s.log.Error().Err(err).Str("user_id", id).Str("action", string(action)).Msg("bulk action failed")
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]UserProjection, error) {
	users, err := s.users.ListNewest(ctx, 100)
	if err != nil {
		return nil, apierr.Store("list users", err)
	}

	projections := make([]UserProjection, 0, len(users))
	for _, user := range users {
		projections = append(projections, UserProjection{
			ID:             user.ID,
			Email:          user.Email,
			Status:         string(user.Status),
			AccountType:    string(user.AccountType),
			PlatformHandle: user.PlatformHandle,
		})
	}
	return projections, nil
}

// Stats serves the cached snapshot when present, counting directly on a
// miss and re-priming the cache off the request path.
func (s *AdminService) Stats(ctx context.Context) (repository.Stats, error) {
	if stats, err := s.stats.Get(ctx); err == nil {
		return stats, nil
	}

	stats, err := s.users.CollectStats(ctx)
	if err != nil {
		return repository.Stats{}, apierr.Store("collect stats", err)
	}

	s.tasks.Submit("stats-cache-set", func(ctx context.Context) error {
		return s.stats.Set(ctx, stats)
	})
	return stats, nil
}

// RefreshStats recounts and overwrites the snapshot. Called by the
// scheduler.
func (s *AdminService) RefreshStats(ctx context.Context) error {
	stats, err := s.users.CollectStats(ctx)
	if err != nil {
		return err
	}
	return s.stats.Set(ctx, stats)
}
