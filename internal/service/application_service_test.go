package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovereign/api/internal/apierr"
	"sovereign/api/internal/models"
	"sovereign/api/internal/repository"
)

func validSubmit() SubmitInput {
	return SubmitInput{
		UserID:          "u1",
		RequestedHandle: "trader1",
		Motivation:      "discipline",
		Experience:      "two years",
		Affirmations: AffirmationsInput{
			BTCOnly:                true,
			LondonNYOnly:           true,
			RMultipleOnly:          true,
			NoSignalExpectation:    true,
			DisciplineOverProfit:   true,
			PersonalRiskAcceptance: true,
		},
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects blank required fields", func(t *testing.T) {
		apps := &fakeApplicationStore{}
		svc := NewApplicationService(apps, zerolog.Nop())

		for _, mutate := range []func(*SubmitInput){
			func(in *SubmitInput) { in.RequestedHandle = "  " },
			func(in *SubmitInput) { in.Motivation = "" },
			func(in *SubmitInput) { in.Experience = "" },
		} {
			input := validSubmit()
			mutate(&input)
			err := svc.Submit(ctx, input)
			assert.True(t, apierr.Is(err, apierr.KindValidation))
		}
		assert.Nil(t, apps.createdApp)
	})

	t.Run("second application conflicts and leaves the first alone", func(t *testing.T) {
		apps := &fakeApplicationStore{exists: true}
		svc := NewApplicationService(apps, zerolog.Nop())

		err := svc.Submit(ctx, validSubmit())
		assert.True(t, apierr.Is(err, apierr.KindConflict))
		assert.Nil(t, apps.createdApp)
	})

	t.Run("creates application and affirmations together", func(t *testing.T) {
		apps := &fakeApplicationStore{}
		svc := NewApplicationService(apps, zerolog.Nop())

		require.NoError(t, svc.Submit(ctx, validSubmit()))

		require.NotNil(t, apps.createdApp)
		require.NotNil(t, apps.createdAff)
		assert.Equal(t, models.ApplicationStatusPending, apps.createdApp.Status)
		assert.Equal(t, "u1", apps.createdApp.UserID)
		assert.Equal(t, "u1", apps.createdAff.UserID)
		assert.NotEmpty(t, apps.createdApp.ID)
		assert.True(t, apps.createdAff.BTCOnly)
		assert.True(t, apps.createdAff.PersonalRiskAcceptance)
	})

	t.Run("concurrent duplicate surfaces as conflict via unique index", func(t *testing.T) {
		apps := &fakeApplicationStore{createErr: &pgconn.PgError{Code: "23505"}}
		svc := NewApplicationService(apps, zerolog.Nop())

		err := svc.Submit(ctx, validSubmit())
		assert.True(t, apierr.Is(err, apierr.KindConflict))
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("no application is a nil result, not an error", func(t *testing.T) {
		apps := &fakeApplicationStore{getErr: repository.ErrApplicationNotFound}
		svc := NewApplicationService(apps, zerolog.Nop())

		status, err := svc.Status(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("returns application joined with affirmations", func(t *testing.T) {
		apps := &fakeApplicationStore{
			app: models.Application{
				ID:              "app1",
				UserID:          "u1",
				RequestedHandle: "trader1",
				Status:          models.ApplicationStatusAccepted,
				CreatedAt:       time.Now(),
			},
			aff: models.Affirmations{UserID: "u1", BTCOnly: true},
		}
		svc := NewApplicationService(apps, zerolog.Nop())

		status, err := svc.Status(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, models.ApplicationStatusAccepted, status.Application.Status)
		assert.True(t, status.Affirmations.BTCOnly)
	})
}

func TestAffirmationPrompts(t *testing.T) {
	svc := NewApplicationService(&fakeApplicationStore{}, zerolog.Nop())

	prompts := svc.AffirmationPrompts()
	require.Len(t, prompts, 6)

	keys := make([]string, len(prompts))
	for i, p := range prompts {
		keys[i] = p.Key
		assert.NotEmpty(t, p.Label)
	}
	assert.Equal(t, []string{
		"btc_only",
		"london_ny_only",
		"r_multiple_only",
		"no_signal_expectation",
		"discipline_over_profit",
		"personal_risk_acceptance",
	}, keys)
}
