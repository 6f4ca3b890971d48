package domain

import "time"

// RoleName enumerates the role grants understood by the platform.
type RoleName string

const (
	RoleClient     RoleName = "client"
	RoleAccountant RoleName = "accountant"
	RoleAdmin      RoleName = "admin"
)

// Role assigns a named permission grant to an account. Accounts may hold
// zero or more roles; rows are cascade-deleted with their account.
type Role struct {
	ID             string
	AccountID      string
	Name           RoleName
	AssignedBy     *string
	AssignedAt     time.Time
	OrganizationID *string
	IsActive       bool
	ExpiresAt      *time.Time
	CreatedAt      time.Time
}

// DefaultRoleName derives the role granted at registration from the account
// type: accountants get the accountant role, everyone else starts as client.
func DefaultRoleName(accountType AccountType) RoleName {
	if accountType == AccountTypeAccountant {
		return RoleAccountant
	}
	return RoleClient
}
