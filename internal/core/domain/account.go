package domain

import (
	"strings"
	"time"
)

// AccountType enumerates the supported account categories. The type is fixed
// at registration; no update path exists.
type AccountType string

const (
	AccountTypeIndividual AccountType = "individual"
	AccountTypeBusiness   AccountType = "business"
	AccountTypeAccountant AccountType = "accountant"
)

// ParseAccountType normalises textual input into a supported account type.
func ParseAccountType(value string) (AccountType, bool) {
	switch AccountType(strings.ToLower(strings.TrimSpace(value))) {
	case AccountTypeIndividual:
		return AccountTypeIndividual, true
	case AccountTypeBusiness:
		return AccountTypeBusiness, true
	case AccountTypeAccountant:
		return AccountTypeAccountant, true
	default:
		return "", false
	}
}

// Account mirrors the persisted representation in the users table.
type Account struct {
	ID                     string
	Email                  string
	PasswordHash           string
	EmailVerified          bool
	EmailVerificationToken *string
	EmailVerifiedAt        *time.Time
	FirstName              string
	LastName               string
	Phone                  *string
	IsActive               bool
	IsLocked               bool
	FailedLoginAttempts    int
	LockedUntil            *time.Time
	AccountType            AccountType
	CreatedAt              time.Time
	UpdatedAt              time.Time
	LastLoginAt            *time.Time
	DeletedAt              *time.Time
}

// LockActiveAt reports whether the lockout is in force at the given instant.
// A lock with no deadline never expires on its own.
func (a *Account) LockActiveAt(now time.Time) bool {
	if !a.IsLocked {
		return false
	}
	return a.LockedUntil == nil || a.LockedUntil.After(now)
}

// Unlock clears the lockout state and resets the failure counter.
func (a *Account) Unlock() {
	a.IsLocked = false
	a.LockedUntil = nil
	a.FailedLoginAttempts = 0
}

// Lock engages the lockout until the provided deadline.
func (a *Account) Lock(until time.Time) {
	a.IsLocked = true
	a.LockedUntil = &until
}
