package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"sovereign/api/internal/models"
)

const userColumns = `
	id, email, password_hash, first_name, last_name, platform_handle,
	account_type, role, status, last_login, created_at, updated_at
`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.PlatformHandle,
		&user.AccountType,
		&user.Role,
		&user.Status,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name, account_type, role, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.AccountType,
		user.Role,
		user.Status,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT` + userColumns + `FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// HandleTaken reports whether any user already owns the handle.
func (r *UserRepository) HandleTaken(ctx context.Context, handle string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE platform_handle = $1)`
	var taken bool
	if err := r.db.QueryRow(ctx, query, handle).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, at)
	return err
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	const query = `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAccountType(ctx context.Context, id string, accountType models.AccountType) error {
	const query = `UPDATE users SET account_type = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, accountType)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListNewest(ctx context.Context, limit int) ([]models.User, error) {
	const query = `SELECT` + userColumns + `FROM users ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	const query = `SELECT` + userColumns + `FROM users ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Stats are the dashboard counters.
type Stats struct {
	UsersTotal          int
	UsersPending        int
	UsersActive         int
	UsersPremium        int
	PendingApplications int
}

func (r *UserRepository) CollectStats(ctx context.Context) (Stats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE status = 'pending'),
			(SELECT COUNT(*) FROM users WHERE status = 'active'),
			(SELECT COUNT(*) FROM users WHERE account_type = 'premium' AND status = 'active'),
			(SELECT COUNT(*) FROM applications WHERE status = 'Pending')
	`

	var stats Stats
	if err := r.db.QueryRow(ctx, query).Scan(
		&stats.UsersTotal,
		&stats.UsersPending,
		&stats.UsersActive,
		&stats.UsersPremium,
		&stats.PendingApplications,
	); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
