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

var (
	// ErrValidation indicates malformed input reached the service. Primary
	// validation happens at the transport boundary; this is defensive.
	ErrValidation = errors.New("invalid input")
	// ErrEmailAlreadyRegistered indicates the email is taken. Recoverable by
	// the caller with a different address.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrRegistrationFailed indicates the atomic account creation failed for
	// a non-conflict reason.
	ErrRegistrationFailed = errors.New("registration failed")
)

// RegistrationInput captures a pre-validated registration request.
type RegistrationInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	AccountType domain.AccountType
	Phone       *string
}

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	accounts port.AccountRepository
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(accounts port.AccountRepository, events port.EventPublisher) *RegistrationService {
	return &RegistrationService{accounts: accounts, events: events, logger: zap.NewNop()}
}

// WithLogger attaches a logger used for non-fatal diagnostics.
func (s *RegistrationService) WithLogger(logger *zap.Logger) *RegistrationService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Register creates the account, its profile, and its default role as one
// atomic unit and returns the created account.
func (s *RegistrationService) Register(ctx context.Context, input RegistrationInput) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", ErrValidation)
	}
	if strings.TrimSpace(input.LastName) == "" {
		return nil, fmt.Errorf("%w: last name is required", ErrValidation)
	}
	accountType, ok := domain.ParseAccountType(string(input.AccountType))
	if !ok {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrValidation, input.AccountType)
	}

	// Fast, friendly pre-check. The unique constraint inside the atomic
	// insert is the actual correctness guarantee against races.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  passwordHash,
		EmailVerified: false,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Phone:         input.Phone,
		IsActive:      true,
		AccountType:   accountType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	profile := domain.NewProfile(uuid.NewString(), account.ID, now)
	role := domain.Role{
		ID:         uuid.NewString(),
		AccountID:  account.ID,
		Name:       domain.DefaultRoleName(accountType),
		AssignedAt: now,
		IsActive:   true,
		CreatedAt:  now,
	}

	if err := s.accounts.CreateWithProfileAndRole(ctx, account, profile, role); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	s.publishRegistered(ctx, account, role)

	return &account, nil
}

// publishRegistered emits the lifecycle event. Publishing is best-effort; a
// broker failure never fails a registration that already committed.
func (s *RegistrationService) publishRegistered(ctx context.Context, account domain.Account, role domain.Role) {
	if s.events == nil {
		return
	}

	event := domain.AccountRegisteredEvent{
		EventID:      uuid.NewString(),
		AccountID:    account.ID,
		Email:        account.Email,
		AccountType:  account.AccountType,
		RoleName:     role.Name,
		RegisteredAt: account.CreatedAt,
	}
	if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
		s.logger.Warn("publish account registered event failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
}
