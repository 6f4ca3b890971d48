package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northbooks/accounts-service/internal/core/domain"
	"github.com/northbooks/accounts-service/internal/core/port"
)

// ProfileUpdate carries the optional fields of a partial account update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// AccountService handles account lookups and profile updates.
type AccountService struct {
	accounts port.AccountRepository
	profiles port.ProfileRepository
	roles    port.RoleRepository
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewAccountService constructs AccountService.
func NewAccountService(accounts port.AccountRepository, profiles port.ProfileRepository, roles port.RoleRepository, events port.EventPublisher) *AccountService {
	return &AccountService{
		accounts: accounts,
		profiles: profiles,
		roles:    roles,
		events:   events,
		logger:   zap.NewNop(),
	}
}

// WithLogger attaches a logger used for non-fatal diagnostics.
func (s *AccountService) WithLogger(logger *zap.Logger) *AccountService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// GetByID retrieves an account by identifier.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// GetByEmail retrieves an account by email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// GetProfile retrieves the extended profile for an account.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*domain.Profile, error) {
	return s.profiles.GetByAccountID(ctx, accountID)
}

// ListRoles retrieves the roles assigned to an account.
func (s *AccountService) ListRoles(ctx context.Context, accountID string) ([]domain.Role, error) {
	return s.roles.ListByAccount(ctx, accountID)
}

// UpdateProfile applies the provided fields to an existing account, leaving
// omitted fields untouched, and returns the updated record.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, patch ProfileUpdate) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated []string
	if patch.FirstName != nil {
		account.FirstName = *patch.FirstName
		updated = append(updated, "first_name")
	}
	if patch.LastName != nil {
		account.LastName = *patch.LastName
		updated = append(updated, "last_name")
	}
	if patch.Phone != nil {
		account.Phone = patch.Phone
		updated = append(updated, "phone")
	}

	now := time.Now().UTC()
	account.UpdatedAt = now
	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	if len(updated) > 0 {
		s.publishProfileUpdated(ctx, account.ID, updated, now)
	}

	return account, nil
}

func (s *AccountService) publishProfileUpdated(ctx context.Context, accountID string, fields []string, at time.Time) {
	if s.events == nil {
		return
	}

	event := domain.ProfileUpdatedEvent{
		EventID:       uuid.NewString(),
		AccountID:     accountID,
		UpdatedFields: fields,
		UpdatedAt:     at,
	}
	if err := s.events.PublishProfileUpdated(ctx, event); err != nil {
		s.logger.Warn("publish profile updated event failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
	}
}
