package port

import (
	"context"

	"github.com/northbooks/accounts-service/internal/core/domain"
)

// AccountRepository exposes persistence behavior for accounts. Uniqueness on
// email is enforced by the storage layer; CreateWithProfileAndRole surfaces a
// concurrent duplicate as repository.ErrDuplicateEmail.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// CreateWithProfileAndRole inserts the account, its profile, and its
	// initial role in a single transaction. Any failure rolls back all three.
	CreateWithProfileAndRole(ctx context.Context, account domain.Account, profile domain.Profile, role domain.Role) error
	// Update persists mutated account fields and refreshes updated_at.
	Update(ctx context.Context, account domain.Account) error
	// IncrementFailedLogins bumps the failure counter atomically and returns
	// the new count, so concurrent failed attempts cannot undercount.
	IncrementFailedLogins(ctx context.Context, id string) (int, error)
}

// ProfileRepository exposes read access to account profiles.
type ProfileRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*domain.Profile, error)
}

// RoleRepository exposes read access to role assignments.
type RoleRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]domain.Role, error)
}
