package domain

import "time"

// AccountRegisteredEvent represents the payload for accounts.user.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Email        string
	AccountType  AccountType
	RoleName     RoleName
	RegisteredAt time.Time
	Metadata     map[string]any
}

// AccountLockedEvent represents the payload for accounts.user.locked messages.
type AccountLockedEvent struct {
	EventID        string
	AccountID      string
	FailedAttempts int
	LockedUntil    time.Time
	LockedAt       time.Time
	Metadata       map[string]any
}

// ProfileUpdatedEvent represents the payload for accounts.profile.updated messages.
type ProfileUpdatedEvent struct {
	EventID       string
	AccountID     string
	UpdatedFields []string
	UpdatedAt     time.Time
	Metadata      map[string]any
}
