package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sovereign/api/internal/models"
)

type ApplicationRepository struct {
	db DB
}

func NewApplicationRepository(db DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM applications WHERE user_id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateWithAffirmations inserts the application and its affirmation row
// in one transaction. Either both persist or neither does.
func (r *ApplicationRepository) CreateWithAffirmations(ctx context.Context, app models.Application, aff models.Affirmations) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertApp = `
		INSERT INTO applications (id, user_id, requested_handle, motivation, experience, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	if _, err := tx.Exec(ctx, insertApp,
		app.ID,
		app.UserID,
		app.RequestedHandle,
		app.Motivation,
		app.Experience,
		app.Status,
	); err != nil {
		return err
	}

	const insertAff = `
		INSERT INTO protocol_affirmations (
			user_id, btc_only, london_ny_only, r_multiple_only,
			no_signal_expectation, discipline_over_profit, personal_risk_acceptance, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	if _, err := tx.Exec(ctx, insertAff,
		aff.UserID,
		aff.BTCOnly,
		aff.LondonNYOnly,
		aff.RMultipleOnly,
		aff.NoSignalExpectation,
		aff.DisciplineOverProfit,
		aff.PersonalRiskAcceptance,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByUser returns the user's application together with its affirmation
// flags, or ErrApplicationNotFound.
func (r *ApplicationRepository) GetByUser(ctx context.Context, userID string) (models.Application, models.Affirmations, error) {
	const query = `
		SELECT
			a.id, a.user_id, a.requested_handle, a.motivation, a.experience,
			a.status, a.created_at, a.reviewed_at,
			p.btc_only, p.london_ny_only, p.r_multiple_only,
			p.no_signal_expectation, p.discipline_over_profit, p.personal_risk_acceptance
		FROM applications a
		LEFT JOIN protocol_affirmations p ON a.user_id = p.user_id
		WHERE a.user_id = $1
	`

	var (
		app models.Application
		aff models.Affirmations
	)
	row := r.db.QueryRow(ctx, query, userID)
	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.RequestedHandle,
		&app.Motivation,
		&app.Experience,
		&app.Status,
		&app.CreatedAt,
		&app.ReviewedAt,
		&aff.BTCOnly,
		&aff.LondonNYOnly,
		&aff.RMultipleOnly,
		&aff.NoSignalExpectation,
		&aff.DisciplineOverProfit,
		&aff.PersonalRiskAcceptance,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Application{}, models.Affirmations{}, ErrApplicationNotFound
		}
		return models.Application{}, models.Affirmations{}, err
	}
	aff.UserID = app.UserID
	return app, aff, nil
}

func (r *ApplicationRepository) ListPending(ctx context.Context) ([]models.PendingReview, error) {
	const query = `
		SELECT
			a.id, u.id, u.email, u.status,
			a.requested_handle, a.motivation, a.experience, a.created_at
		FROM applications a
		JOIN users u ON a.user_id = u.id
		WHERE a.status = 'Pending'
		ORDER BY a.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.PendingReview
	for rows.Next() {
		var review models.PendingReview
		if err := rows.Scan(
			&review.ApplicationID,
			&review.UserID,
			&review.Email,
			&review.UserStatus,
			&review.RequestedHandle,
			&review.Motivation,
			&review.Experience,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ApplicationRepository) ListAll(ctx context.Context) ([]models.Application, error) {
	const query = `
		SELECT id, user_id, requested_handle, motivation, experience, status, created_at, reviewed_at
		FROM applications ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(
			&app.ID,
			&app.UserID,
			&app.RequestedHandle,
			&app.Motivation,
			&app.Experience,
			&app.Status,
			&app.CreatedAt,
			&app.ReviewedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
