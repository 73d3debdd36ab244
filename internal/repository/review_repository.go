package repository

import (
	"context"
	"fmt"
)

// ReviewRepository performs the dual-record state transitions of an
// application review. Each operation updates the user row and the
// application row in one transaction; a reviewer can never observe one
// side applied without the other.
type ReviewRepository struct {
	db DB
}

func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Approve activates the user, promotes them to student, assigns the
// handle, and marks the pending application Accepted. The handle's
// unique index surfaces as a unique violation if a concurrent approval
// claimed it between the service pre-check and this commit.
func (r *ReviewRepository) Approve(ctx context.Context, userID string, handle string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const updateUser = `
		UPDATE users
		SET status = 'active', role = 'student', platform_handle = $2, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := tx.Exec(ctx, updateUser, userID, handle)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	const updateApp = `
		UPDATE applications
		SET status = 'Accepted', reviewed_at = NOW()
		WHERE user_id = $1 AND status = 'Pending'
	`
	cmd, err = tx.Exec(ctx, updateApp, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}

	return tx.Commit(ctx)
}

// Reject marks the user rejected and the application Rejected. Running
// it again against an already-rejected user leaves identical state, so
// repeats succeed as no-ops.
func (r *ReviewRepository) Reject(ctx context.Context, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const updateUser = `
		UPDATE users SET status = 'rejected', updated_at = NOW() WHERE id = $1
	`
	cmd, err := tx.Exec(ctx, updateUser, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	const updateApp = `
		UPDATE applications SET status = 'Rejected', reviewed_at = COALESCE(reviewed_at, NOW()) WHERE user_id = $1
	`
	if _, err := tx.Exec(ctx, updateApp, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
