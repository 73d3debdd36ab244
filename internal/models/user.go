package models

import "time"

type UserRole string

const (
	UserRoleUser    UserRole = "user"
	UserRoleAdmin   UserRole = "admin"
	UserRoleStudent UserRole = "student"
)

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusRejected  UserStatus = "rejected"
)

type AccountType string

const (
	AccountTypeSimple  AccountType = "simple"
	AccountTypePremium AccountType = "premium"
)

type User struct {
	ID             string
	Email          string
	PasswordHash   string
	FirstName      *string
	LastName       *string
	PlatformHandle *string
	AccountType    AccountType
	Role           UserRole
	Status         UserStatus
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanLogin reports whether the account status still permits a login.
// Pending users may log in; they just cannot act on anything gated on
// approval yet.
func (u User) CanLogin() bool {
	switch u.Status {
	case UserStatusSuspended, UserStatusInactive, UserStatusRejected:
		return false
	}
	return true
}
