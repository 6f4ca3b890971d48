package domain

import "time"

// InitialProfileCompletion is the completion percentage seeded for a profile
// created during registration, reflecting that basic identity fields exist.
const InitialProfileCompletion = 25

// Profile holds the extended business, address, and preference data attached
// 1:1 to an account. Created atomically with its account and cascade-deleted
// with it.
type Profile struct {
	ID        string
	AccountID string

	BusinessName   *string
	BusinessNumber *string
	HSTNumber      *string
	Industry       *string
	FiscalYearEnd  *time.Time

	AddressLine1 *string
	AddressLine2 *string
	City         *string
	Province     *string
	PostalCode   *string
	Country      string

	Language   string
	Currency   string
	DateFormat string
	Timezone   string

	EmailNotifications bool
	ProcessingAlerts   bool
	WeeklySummary      bool
	MarketingEmails    bool

	ProfileCompleted     bool
	CompletionPercentage int

	Metadata map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile builds the profile record seeded at registration time.
func NewProfile(id, accountID string, now time.Time) Profile {
	return Profile{
		ID:                   id,
		AccountID:            accountID,
		Country:              "Canada",
		Language:             "en",
		Currency:             "CAD",
		DateFormat:           "DD/MM/YYYY",
		Timezone:             "America/Toronto",
		EmailNotifications:   true,
		ProcessingAlerts:     true,
		ProfileCompleted:     false,
		CompletionPercentage: InitialProfileCompletion,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
