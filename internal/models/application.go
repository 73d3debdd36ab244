package models

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusAccepted ApplicationStatus = "Accepted"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

type Application struct {
	ID              string
	UserID          string
	RequestedHandle string
	Motivation      string
	Experience      string
	Status          ApplicationStatus
	CreatedAt       time.Time
	ReviewedAt      *time.Time
}

// Affirmations is the fixed set of six acknowledgments captured with an
// application, linked 1:1 to the applying user.
type Affirmations struct {
	UserID                 string
	BTCOnly                bool
	LondonNYOnly           bool
	RMultipleOnly          bool
	NoSignalExpectation    bool
	DisciplineOverProfit   bool
	PersonalRiskAcceptance bool
	CreatedAt              time.Time
}

// PendingReview is an application row joined with its owner, as listed
// on the admin review queue.
type PendingReview struct {
	ApplicationID   string
	UserID          string
	Email           string
	UserStatus      UserStatus
	RequestedHandle string
	Motivation      string
	Experience      string
	CreatedAt       time.Time
}
