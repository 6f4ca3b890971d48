package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/northbooks/accounts-service/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required"`
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	AccountType string  `json:"account_type" binding:"required,oneof=individual business accountant"`
	Phone       *string `json:"phone" binding:"omitempty"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateAccountRequest carries the optional fields of a partial account
// update. Absent fields are left untouched.
type UpdateAccountRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// AccountSummary describes the API view of an account. The password hash is
// never part of it.
type AccountSummary struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         *string    `json:"phone,omitempty"`
	AccountType   string     `json:"account_type"`
	EmailVerified bool       `json:"email_verified"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

func newAccountSummary(account *domain.Account) AccountSummary {
	return AccountSummary{
		ID:            account.ID,
		Email:         account.Email,
		FirstName:     account.FirstName,
		LastName:      account.LastName,
		Phone:         account.Phone,
		AccountType:   string(account.AccountType),
		EmailVerified: account.EmailVerified,
		IsActive:      account.IsActive,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
		LastLoginAt:   account.LastLoginAt,
	}
}

// ProfileView describes the extended profile returned alongside an account.
type ProfileView struct {
	ID                   string  `json:"id"`
	BusinessName         *string `json:"business_name,omitempty"`
	BusinessNumber       *string `json:"business_number,omitempty"`
	Country              string  `json:"country"`
	Language             string  `json:"language"`
	Currency             string  `json:"currency"`
	Timezone             string  `json:"timezone"`
	ProfileCompleted     bool    `json:"profile_completed"`
	CompletionPercentage int     `json:"completion_percentage"`
}

func newProfileView(profile *domain.Profile) *ProfileView {
	if profile == nil {
		return nil
	}
	return &ProfileView{
		ID:                   profile.ID,
		BusinessName:         profile.BusinessName,
		BusinessNumber:       profile.BusinessNumber,
		Country:              profile.Country,
		Language:             profile.Language,
		Currency:             profile.Currency,
		Timezone:             profile.Timezone,
		ProfileCompleted:     profile.ProfileCompleted,
		CompletionPercentage: profile.CompletionPercentage,
	}
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string         `json:"message"`
	Account AccountSummary `json:"account"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	Account   AccountSummary `json:"account"`
}

// AccountDetailResponse combines the account record with its profile.
type AccountDetailResponse struct {
	Account AccountSummary `json:"account"`
	Profile *ProfileView   `json:"profile,omitempty"`
}

// RoleView describes a role assignment returned by the API.
type RoleView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	AssignedAt time.Time  `json:"assigned_at"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// RolesResponse lists the roles assigned to an account.
type RolesResponse struct {
	AccountID string     `json:"account_id"`
	Roles     []RoleView `json:"roles"`
}

func newRolesResponse(accountID string, roles []domain.Role) RolesResponse {
	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, RoleView{
			ID:         role.ID,
			Name:       string(role.Name),
			AssignedAt: role.AssignedAt,
			IsActive:   role.IsActive,
			ExpiresAt:  role.ExpiresAt,
		})
	}
	return RolesResponse{AccountID: accountID, Roles: views}
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the outcome of each readiness check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
