package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"sovereign/api/internal/apierr"
	"sovereign/api/internal/ids"
	"sovereign/api/internal/models"
	"sovereign/api/internal/repository"
)

type ApplicationService struct {
	applications ApplicationStore
	log          zerolog.Logger
}

func NewApplicationService(applications ApplicationStore, log zerolog.Logger) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		log:          log,
	}
}

type AffirmationsInput struct {
	BTCOnly                bool `json:"btc_only"`
	LondonNYOnly           bool `json:"london_ny_only"`
	RMultipleOnly          bool `json:"r_multiple_only"`
	NoSignalExpectation    bool `json:"no_signal_expectation"`
	DisciplineOverProfit   bool `json:"discipline_over_profit"`
	PersonalRiskAcceptance bool `json:"personal_risk_acceptance"`
}

type SubmitInput struct {
	UserID          string
	RequestedHandle string
	Motivation      string
	Experience      string
	Affirmations    AffirmationsInput
}

func (s *ApplicationService) Submit(ctx context.Context, input SubmitInput) error {
	if strings.TrimSpace(input.RequestedHandle) == "" ||
		strings.TrimSpace(input.Motivation) == "" ||
		strings.TrimSpace(input.Experience) == "" {
		return apierr.Validation("Missing required fields")
	}

	exists, err := s.applications.ExistsForUser(ctx, input.UserID)
	if err != nil {
		return apierr.Store("check existing application", err)
	}
	if exists {
		return apierr.Conflict("Application already pending or submitted")
	}

	app := models.Application{
		ID:              ids.New(),
		UserID:          input.UserID,
		RequestedHandle: input.RequestedHandle,
		Motivation:      input.Motivation,
		Experience:      input.Experience,
		Status:          models.ApplicationStatusPending,
	}
	aff := models.Affirmations{
		UserID:                 input.UserID,
		BTCOnly:                input.Affirmations.BTCOnly,
		LondonNYOnly:           input.Affirmations.LondonNYOnly,
		RMultipleOnly:          input.Affirmations.RMultipleOnly,
		NoSignalExpectation:    input.Affirmations.NoSignalExpectation,
		DisciplineOverProfit:   input.Affirmations.DisciplineOverProfit,
		PersonalRiskAcceptance: input.Affirmations.PersonalRiskAcceptance,
	}

	if err := s.applications.CreateWithAffirmations(ctx, app, aff); err != nil {
		// The user_id unique index closes the race the pre-check leaves open.
		if repository.IsUniqueViolation(err) {
			return apierr.Conflict("Application already pending or submitted")
		}
		return apierr.Store("create application", err)
	}
	return nil
}

type ApplicationStatus struct {
	Application  models.Application
	Affirmations models.Affirmations
}

// Status returns the user's application, or nil when none exists.
// Having no application is a normal state, not an error.
func (s *ApplicationService) Status(ctx context.Context, userID string) (*ApplicationStatus, error) {
	app, aff, err := s.applications.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, nil
		}
		return nil, apierr.Store("get application", err)
	}
	return &ApplicationStatus{Application: app, Affirmations: aff}, nil
}

type AffirmationPrompt struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var affirmationPrompts = []AffirmationPrompt{
	{Key: "btc_only", Label: "I affirm that I will trade Bitcoin only."},
	{Key: "london_ny_only", Label: "I affirm that I will trade London/NY Sessions only."},
	{Key: "r_multiple_only", Label: "I affirm that I will respect R-multiples."},
	{Key: "no_signal_expectation", Label: "I affirm that I do not expect signals."},
	{Key: "discipline_over_profit", Label: "I affirm that discipline is more important than profit."},
	{Key: "personal_risk_acceptance", Label: "I accept all personal risk."},
}

// AffirmationPrompts returns the fixed, ordered protocol list.
func (s *ApplicationService) AffirmationPrompts() []AffirmationPrompt {
	return affirmationPrompts
}
