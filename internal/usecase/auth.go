package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northbooks/accounts-service/internal/core/domain"
	"github.com/northbooks/accounts-service/internal/core/port"
	"github.com/northbooks/accounts-service/internal/infra/security"
	"github.com/northbooks/accounts-service/internal/repository"
)

// ErrInvalidCredentials covers unknown email, wrong password, and a lock
// still in force. The three causes are deliberately indistinguishable so the
// API boundary cannot leak account existence.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LockoutPolicy controls the failed-login state machine.
type LockoutPolicy struct {
	MaxFailedAttempts int
	LockDuration      time.Duration
}

// DefaultLockoutPolicy locks an account for 30 minutes after 5 consecutive
// failed attempts.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxFailedAttempts: 5, LockDuration: 30 * time.Minute}
}

// AuthService coordinates credential verification and the lockout state machine.
type AuthService struct {
	accounts port.AccountRepository
	events   port.EventPublisher
	policy   LockoutPolicy
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts port.AccountRepository, events port.EventPublisher, policy LockoutPolicy) *AuthService {
	if policy.MaxFailedAttempts <= 0 {
		policy.MaxFailedAttempts = DefaultLockoutPolicy().MaxFailedAttempts
	}
	if policy.LockDuration <= 0 {
		policy.LockDuration = DefaultLockoutPolicy().LockDuration
	}
	return &AuthService{
		accounts: accounts,
		events:   events,
		policy:   policy,
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithLogger attaches a logger used for non-fatal diagnostics.
func (s *AuthService) WithLogger(logger *zap.Logger) *AuthService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Authenticate validates credentials and maintains the lockout state.
// It does not check is_active; that policy belongs to the boundary layer.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	now := s.now()

	if account.IsLocked {
		if account.LockActiveAt(now) {
			return nil, ErrInvalidCredentials
		}
		// The lock deadline has passed; unlock before checking the password.
		account.Unlock()
		if err := s.accounts.Update(ctx, *account); err != nil {
			return nil, fmt.Errorf("clear expired lock: %w", err)
		}
	}

	if !security.VerifyPassword(password, account.PasswordHash) {
		return nil, s.recordFailure(ctx, account, now)
	}

	account.FailedLoginAttempts = 0
	account.LastLoginAt = &now
	account.UpdatedAt = now
	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	return account, nil
}

func (s *AuthService) recordFailure(ctx context.Context, account *domain.Account, now time.Time) error {
	count, err := s.accounts.IncrementFailedLogins(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("record failed login: %w", err)
	}
	account.FailedLoginAttempts = count

	if count >= s.policy.MaxFailedAttempts {
		until := now.Add(s.policy.LockDuration)
		account.Lock(until)
		account.UpdatedAt = now
		if err := s.accounts.Update(ctx, *account); err != nil {
			return fmt.Errorf("engage lockout: %w", err)
		}
		s.publishLocked(ctx, account, count, until, now)
	}

	return ErrInvalidCredentials
}

func (s *AuthService) publishLocked(ctx context.Context, account *domain.Account, attempts int, until, at time.Time) {
	if s.events == nil {
		return
	}

	event := domain.AccountLockedEvent{
		EventID:        uuid.NewString(),
		AccountID:      account.ID,
		FailedAttempts: attempts,
		LockedUntil:    until,
		LockedAt:       at,
	}
	if err := s.events.PublishAccountLocked(ctx, event); err != nil {
		s.logger.Warn("publish account locked event failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
}
